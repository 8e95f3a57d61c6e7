package mocks

import (
	"context"

	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/ports"
)

// VectorDB is a mock implementation of ports.VectorDB.
type VectorDB struct {
	Submissions []entities.Submission
	Err         error

	// Collection errors (separate from Err for fine-grained control)
	EnsureCollectionErr error

	// Call tracking
	SaveCallCount             int
	SaveLastSubmission        entities.Submission
	DeleteCallCount           int
	DeleteLastID              string
	EnsureCollectionCallCount int
}

// EnsureCollection creates the collection if it doesn't exist.
func (m *VectorDB) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	m.EnsureCollectionCallCount++
	return m.EnsureCollectionErr
}

// Save stores a single submission vector.
func (m *VectorDB) Save(ctx context.Context, sub entities.Submission) error {
	m.SaveCallCount++
	m.SaveLastSubmission = sub
	if m.Err != nil {
		return m.Err
	}
	m.Submissions = append(m.Submissions, sub)
	return nil
}

// Search finds submissions by embedding similarity. The mock returns the
// stored submissions in insertion order with descending synthetic scores.
func (m *VectorDB) Search(ctx context.Context, embedding []float32, limit int) ([]ports.ScoredSubmission, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	n := len(m.Submissions)
	if limit > 0 && limit < n {
		n = limit
	}
	scored := make([]ports.ScoredSubmission, 0, n)
	for i := 0; i < n; i++ {
		scored = append(scored, ports.ScoredSubmission{
			Submission: m.Submissions[i],
			Score:      1.0 - float32(i)*0.1,
		})
	}
	return scored, nil
}

// Delete removes a submission vector by ID.
func (m *VectorDB) Delete(ctx context.Context, id string) error {
	m.DeleteCallCount++
	m.DeleteLastID = id
	if m.Err != nil {
		return m.Err
	}
	for i := range m.Submissions {
		if m.Submissions[i].ID == id {
			m.Submissions = append(m.Submissions[:i], m.Submissions[i+1:]...)
			break
		}
	}
	return nil
}

// Close closes the connection.
func (m *VectorDB) Close() error {
	return nil
}
