// Package mocks provides in-memory implementations of the domain ports for
// tests.
package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/castletown/compendium/internal/domain/entities"
)

// Store is an in-memory mock implementation of ports.Store. Set Err to force
// every call to fail with it.
type Store struct {
	Characters    map[string]*entities.Character
	Relationships map[string]*entities.Relationship
	Submissions   map[string]*entities.Submission
	Audit         []entities.AuditEntry
	Err           error

	// relOrder preserves insertion order so list results are deterministic.
	relOrder []string
}

// NewStore creates a new mock Store.
func NewStore() *Store {
	return &Store{
		Characters:    make(map[string]*entities.Character),
		Relationships: make(map[string]*entities.Relationship),
		Submissions:   make(map[string]*entities.Submission),
	}
}

// EnsureSchema creates the database schema if it doesn't exist.
func (m *Store) EnsureSchema(_ context.Context) error { return m.Err }

// Close closes the database connection.
func (m *Store) Close() error { return nil }

// Character methods.

// SaveCharacter saves or updates a roster character.
func (m *Store) SaveCharacter(_ context.Context, ch *entities.Character) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *ch
	m.Characters[ch.ID] = &cp
	return nil
}

// FindCharacterByID finds a character by its ID.
func (m *Store) FindCharacterByID(_ context.Context, id string) (*entities.Character, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Characters[id], nil
}

// FindCharacterByName finds a character by normalized name.
func (m *Store) FindCharacterByName(_ context.Context, name string) (*entities.Character, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	normalized := entities.NormalizeName(name)
	for _, ch := range m.Characters {
		if ch.NormalizedName == normalized {
			return ch, nil
		}
	}
	return nil, nil
}

// ListCharacters lists roster characters with pagination.
func (m *Store) ListCharacters(_ context.Context, limit, offset int) ([]*entities.Character, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	all := make([]*entities.Character, 0, len(m.Characters))
	for _, ch := range m.Characters {
		all = append(all, ch)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// SearchCharacters searches characters by name pattern.
func (m *Store) SearchCharacters(_ context.Context, query string, limit int) ([]*entities.Character, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	normalized := entities.NormalizeName(query)
	var result []*entities.Character
	for _, ch := range m.Characters {
		if normalized == "" || strings.Contains(ch.NormalizedName, normalized) {
			result = append(result, ch)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// DeleteCharacter deletes a character by ID.
func (m *Store) DeleteCharacter(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Characters, id)
	return nil
}

// CountCharacters returns the roster size.
func (m *Store) CountCharacters(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Characters), nil
}

// GroupCharactersByRace returns roster counts keyed by race.
func (m *Store) GroupCharactersByRace(_ context.Context) (map[string]int, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make(map[string]int)
	for _, ch := range m.Characters {
		if ch.Race != "" {
			result[ch.Race]++
		}
	}
	return result, nil
}

// GroupCharactersByVillage returns roster counts keyed by home village.
func (m *Store) GroupCharactersByVillage(_ context.Context) (map[string]int, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make(map[string]int)
	for _, ch := range m.Characters {
		if ch.Village != "" {
			result[ch.Village]++
		}
	}
	return result, nil
}

// Relationship methods.

// SaveRelationship saves or updates a relationship record.
func (m *Store) SaveRelationship(_ context.Context, rel *entities.Relationship) error {
	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.Relationships[rel.ID]; !exists {
		m.relOrder = append(m.relOrder, rel.ID)
	}
	cp := *rel
	m.Relationships[rel.ID] = &cp
	return nil
}

// FindRelationshipByID finds a relationship by ID.
func (m *Store) FindRelationshipByID(_ context.Context, id string) (*entities.Relationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Relationships[id], nil
}

// FindRelationshipsBySource returns records authored from the character's side.
func (m *Store) FindRelationshipsBySource(_ context.Context, characterID string) ([]entities.Relationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.Relationship
	for _, id := range m.relOrder {
		if rel, ok := m.Relationships[id]; ok && rel.Source.ID() == characterID {
			result = append(result, *rel)
		}
	}
	return result, nil
}

// FindRelationshipsByTarget returns records directed at the character.
func (m *Store) FindRelationshipsByTarget(_ context.Context, characterID string) ([]entities.Relationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.Relationship
	for _, id := range m.relOrder {
		if rel, ok := m.Relationships[id]; ok && rel.Target.ID() == characterID {
			result = append(result, *rel)
		}
	}
	return result, nil
}

// ListRelationships returns the roster's entire relationship set.
func (m *Store) ListRelationships(_ context.Context) ([]entities.Relationship, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.Relationship
	for _, id := range m.relOrder {
		if rel, ok := m.Relationships[id]; ok {
			result = append(result, *rel)
		}
	}
	return result, nil
}

// DeleteRelationship deletes a relationship by ID.
func (m *Store) DeleteRelationship(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Relationships, id)
	return nil
}

// DeleteRelationshipsByCharacter deletes all records referencing a character.
func (m *Store) DeleteRelationshipsByCharacter(_ context.Context, characterID string) error {
	if m.Err != nil {
		return m.Err
	}
	for id, rel := range m.Relationships {
		if rel.Source.ID() == characterID || rel.Target.ID() == characterID {
			delete(m.Relationships, id)
		}
	}
	return nil
}

// CountRelationships returns the total number of relationship records.
func (m *Store) CountRelationships(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Relationships), nil
}

// GroupRelationshipsByPrimaryType returns record counts keyed by primary tag.
func (m *Store) GroupRelationshipsByPrimaryType(_ context.Context) (map[string]int, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make(map[string]int)
	for _, rel := range m.Relationships {
		result[string(rel.PrimaryType())]++
	}
	return result, nil
}

// Submission methods.

// SaveSubmission saves or updates a member submission.
func (m *Store) SaveSubmission(_ context.Context, sub *entities.Submission) error {
	if m.Err != nil {
		return m.Err
	}
	cp := *sub
	m.Submissions[sub.ID] = &cp
	return nil
}

// FindSubmissionByID finds a submission by ID.
func (m *Store) FindSubmissionByID(_ context.Context, id string) (*entities.Submission, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Submissions[id], nil
}

// ListSubmissions lists submissions matching the filters.
func (m *Store) ListSubmissions(_ context.Context, kind entities.SubmissionKind, status entities.SubmissionStatus, limit, offset int) ([]*entities.Submission, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []*entities.Submission
	for _, sub := range m.Submissions {
		if kind != "" && sub.Kind != kind {
			continue
		}
		if status != "" && sub.Status != status {
			continue
		}
		result = append(result, sub)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// CountSubmissions counts submissions matching the filters.
func (m *Store) CountSubmissions(_ context.Context, kind entities.SubmissionKind, status entities.SubmissionStatus) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	count := 0
	for _, sub := range m.Submissions {
		if kind != "" && sub.Kind != kind {
			continue
		}
		if status != "" && sub.Status != status {
			continue
		}
		count++
	}
	return count, nil
}

// DeleteSubmission deletes a submission by ID.
func (m *Store) DeleteSubmission(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Submissions, id)
	return nil
}

// Audit log methods.

// LogAction logs an action to the audit log.
func (m *Store) LogAction(_ context.Context, action, subjectID, userID string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:        int64(len(m.Audit) + 1),
		Action:    action,
		SubjectID: subjectID,
		UserID:    userID,
		Details:   details,
	})
	return nil
}

// FindAuditLog finds audit entries for a subject.
func (m *Store) FindAuditLog(_ context.Context, subjectID string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for _, e := range m.Audit {
		if e.SubjectID == subjectID {
			result = append(result, e)
		}
	}
	return result, nil
}
