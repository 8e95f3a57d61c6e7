package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/castletown/compendium/internal/domain/apperr"
	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/ports"
)

// CharacterService manages the community character roster.
type CharacterService struct {
	store ports.Store
}

// NewCharacterService creates a new CharacterService.
func NewCharacterService(store ports.Store) *CharacterService {
	return &CharacterService{
		store: store,
	}
}

// CreateCharacterInput carries the fields a member fills in when registering
// a character.
type CreateCharacterInput struct {
	OwnerUserID string
	Name        string
	Race        string
	Job         string
	Village     string
	Icon        string
	Bio         string
}

// Create registers a new character on the roster. Names are unique
// case-insensitively across the roster.
func (s *CharacterService) Create(ctx context.Context, in CreateCharacterInput) (*entities.Character, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: character name is required", apperr.ErrValidation)
	}
	if in.OwnerUserID == "" {
		return nil, fmt.Errorf("%w: owner user id is required", apperr.ErrValidation)
	}

	existing, err := s.store.FindCharacterByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking existing character: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: character %q already exists", apperr.ErrConflict, existing.Name)
	}

	now := time.Now()
	ch := &entities.Character{
		ID:             uuid.New().String(),
		OwnerUserID:    in.OwnerUserID,
		Name:           name,
		NormalizedName: entities.NormalizeName(name),
		Race:           in.Race,
		Job:            in.Job,
		Village:        in.Village,
		Icon:           in.Icon,
		Bio:            in.Bio,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.SaveCharacter(ctx, ch); err != nil {
		return nil, fmt.Errorf("saving character: %w", err)
	}
	return ch, nil
}

// Get finds a character by ID.
func (s *CharacterService) Get(ctx context.Context, id string) (*entities.Character, error) {
	ch, err := s.store.FindCharacterByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding character: %w", err)
	}
	if ch == nil {
		return nil, fmt.Errorf("%w: character %s", apperr.ErrNotFound, id)
	}
	return ch, nil
}

// GetByName finds a character by name (case-insensitive).
func (s *CharacterService) GetByName(ctx context.Context, name string) (*entities.Character, error) {
	ch, err := s.store.FindCharacterByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("finding character: %w", err)
	}
	if ch == nil {
		return nil, fmt.Errorf("%w: character %q", apperr.ErrNotFound, name)
	}
	return ch, nil
}

// List returns roster characters with pagination, newest first.
func (s *CharacterService) List(ctx context.Context, limit, offset int) ([]*entities.Character, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListCharacters(ctx, limit, offset)
}

// Search searches characters by name pattern.
func (s *CharacterService) Search(ctx context.Context, query string, limit int) ([]*entities.Character, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.SearchCharacters(ctx, query, limit)
}

// Delete removes a character and every relationship record referencing it.
// Only the owning member may delete their character.
func (s *CharacterService) Delete(ctx context.Context, id, userID string) error {
	ch, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if ch.OwnerUserID != userID {
		return fmt.Errorf("%w: character %s belongs to another member", apperr.ErrForbidden, id)
	}

	// Relationships first, so a failed character delete never leaves edges
	// pointing at a missing roster entry silently unaccounted for.
	if err := s.store.DeleteRelationshipsByCharacter(ctx, id); err != nil {
		return fmt.Errorf("deleting character relationships: %w", err)
	}
	if err := s.store.DeleteCharacter(ctx, id); err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}

	if err := s.store.LogAction(ctx, "character.delete", id, userID, map[string]any{"name": ch.Name}); err != nil {
		return fmt.Errorf("logging deletion: %w", err)
	}
	return nil
}

// Count returns the roster size.
func (s *CharacterService) Count(ctx context.Context) (int, error) {
	return s.store.CountCharacters(ctx)
}
