package ports

import (
	"context"

	"github.com/castletown/compendium/internal/domain/entities"
)

// ScoredSubmission is a similarity search hit.
type ScoredSubmission struct {
	Submission entities.Submission `json:"submission"`
	Score      float32             `json:"score"`
}

// VectorDB defines the interface for the submission similarity index.
type VectorDB interface {
	// EnsureCollection creates the collection if it doesn't exist.
	EnsureCollection(ctx context.Context, vectorSize uint64) error

	// Save indexes a submission with its embedding.
	Save(ctx context.Context, sub entities.Submission) error

	// Search returns the submissions most similar to the given embedding.
	Search(ctx context.Context, embedding []float32, limit int) ([]ScoredSubmission, error)

	// Delete removes a submission from the index.
	Delete(ctx context.Context, id string) error
}
