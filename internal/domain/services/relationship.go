package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/castletown/compendium/internal/domain/apperr"
	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/ports"
	"github.com/castletown/compendium/internal/domain/relgraph"
)

// RelationshipService manages directed relationship records between roster
// characters and derives the aggregated views the dashboard renders.
type RelationshipService struct {
	store ports.Store
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(store ports.Store) *RelationshipService {
	return &RelationshipService{
		store: store,
	}
}

// CreateRelationshipInput carries the fields of the dashboard's relationship
// form.
type CreateRelationshipInput struct {
	OwnerUserID string
	SourceID    string
	TargetID    string
	Types       []string
	Note        string
}

// Create records one character's stated feelings toward another. The record
// is directed; the counterpart's own feelings live in a separate record
// authored from their side.
func (s *RelationshipService) Create(ctx context.Context, in CreateRelationshipInput) (*entities.Relationship, error) {
	if in.OwnerUserID == "" {
		return nil, fmt.Errorf("%w: owner user id is required", apperr.ErrValidation)
	}
	if in.SourceID == in.TargetID {
		return nil, fmt.Errorf("%w: a character cannot hold a relationship with itself", apperr.ErrValidation)
	}

	types, err := parseTypes(in.Types)
	if err != nil {
		return nil, err
	}
	if len(in.Note) > entities.NoteMaxLength {
		return nil, fmt.Errorf("%w: note exceeds %d characters", apperr.ErrValidation, entities.NoteMaxLength)
	}

	source, err := s.store.FindCharacterByID(ctx, in.SourceID)
	if err != nil {
		return nil, fmt.Errorf("finding source character: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: source character %s", apperr.ErrNotFound, in.SourceID)
	}
	target, err := s.store.FindCharacterByID(ctx, in.TargetID)
	if err != nil {
		return nil, fmt.Errorf("finding target character: %w", err)
	}
	if target == nil {
		return nil, fmt.Errorf("%w: target character %s", apperr.ErrNotFound, in.TargetID)
	}

	now := time.Now()
	rel := &entities.Relationship{
		ID:          uuid.New().String(),
		OwnerUserID: in.OwnerUserID,
		Source:      source.Ref(),
		Target:      target.Ref(),
		Types:       types,
		Note:        in.Note,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.SaveRelationship(ctx, rel); err != nil {
		return nil, fmt.Errorf("saving relationship: %w", err)
	}

	if err := s.store.LogAction(ctx, "relationship.create", rel.ID, in.OwnerUserID, map[string]any{
		"source": in.SourceID,
		"target": in.TargetID,
	}); err != nil {
		return nil, fmt.Errorf("logging creation: %w", err)
	}
	return rel, nil
}

// Update replaces a record's type tags and note. Only the member who authored
// the record may edit it; editing never touches the counterpart's record.
func (s *RelationshipService) Update(ctx context.Context, id, userID string, typeTags []string, note string) (*entities.Relationship, error) {
	rel, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rel.OwnerUserID != userID {
		return nil, fmt.Errorf("%w: relationship %s belongs to another member", apperr.ErrForbidden, id)
	}

	types, err := parseTypes(typeTags)
	if err != nil {
		return nil, err
	}
	if len(note) > entities.NoteMaxLength {
		return nil, fmt.Errorf("%w: note exceeds %d characters", apperr.ErrValidation, entities.NoteMaxLength)
	}

	rel.Types = types
	rel.Note = note
	rel.UpdatedAt = time.Now()

	if err := s.store.SaveRelationship(ctx, rel); err != nil {
		return nil, fmt.Errorf("saving relationship: %w", err)
	}
	if err := s.store.LogAction(ctx, "relationship.update", rel.ID, userID, nil); err != nil {
		return nil, fmt.Errorf("logging update: %w", err)
	}
	return rel, nil
}

// Delete removes a relationship record. Only its author may delete it.
func (s *RelationshipService) Delete(ctx context.Context, id, userID string) error {
	rel, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if rel.OwnerUserID != userID {
		return fmt.Errorf("%w: relationship %s belongs to another member", apperr.ErrForbidden, id)
	}

	if err := s.store.DeleteRelationship(ctx, id); err != nil {
		return fmt.Errorf("deleting relationship: %w", err)
	}
	if err := s.store.LogAction(ctx, "relationship.delete", id, userID, nil); err != nil {
		return fmt.Errorf("logging deletion: %w", err)
	}
	return nil
}

// Get finds a relationship record by ID.
func (s *RelationshipService) Get(ctx context.Context, id string) (*entities.Relationship, error) {
	return s.get(ctx, id)
}

func (s *RelationshipService) get(ctx context.Context, id string) (*entities.Relationship, error) {
	rel, err := s.store.FindRelationshipByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding relationship: %w", err)
	}
	if rel == nil {
		return nil, fmt.Errorf("%w: relationship %s", apperr.ErrNotFound, id)
	}
	return rel, nil
}

// Pairs returns one aggregated view per counterpart for a focal character,
// merging the character's own records with the records directed at them.
func (s *RelationshipService) Pairs(ctx context.Context, characterID string) ([]relgraph.PairView, error) {
	outgoing, err := s.store.FindRelationshipsBySource(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("listing outgoing relationships: %w", err)
	}
	incoming, err := s.store.FindRelationshipsByTarget(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("listing incoming relationships: %w", err)
	}
	return relgraph.AggregatePairs(outgoing, incoming), nil
}

// Counts returns, for the whole roster, how many relationship records
// reference each character in either direction. Characters without records
// are absent from the map; callers default to zero.
func (s *RelationshipService) Counts(ctx context.Context) (map[string]int, error) {
	all, err := s.store.ListRelationships(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}
	return relgraph.CountReferences(all), nil
}

// Count returns the total number of relationship records.
func (s *RelationshipService) Count(ctx context.Context) (int, error) {
	return s.store.CountRelationships(ctx)
}

// parseTypes validates a tag list from a form: at least one tag, every tag in
// the fixed vocabulary, insertion order preserved (first tag is primary).
func parseTypes(tags []string) ([]entities.RelType, error) {
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: at least one relationship type is required", apperr.ErrValidation)
	}
	types := make([]entities.RelType, 0, len(tags))
	for _, tag := range tags {
		t, ok := entities.ParseRelType(tag)
		if !ok {
			return nil, fmt.Errorf("%w: invalid relationship type %q", apperr.ErrValidation, tag)
		}
		types = append(types, t)
	}
	return types, nil
}
