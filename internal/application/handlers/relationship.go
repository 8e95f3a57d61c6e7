package handlers

import (
	"context"
	"fmt"

	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/relgraph"
	"github.com/castletown/compendium/internal/domain/services"
)

// RelationshipHandler handles relationship record operations and the
// aggregated views built from them.
type RelationshipHandler struct {
	service    *services.RelationshipService
	characters *services.CharacterService
	stats      *services.StatsService
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(service *services.RelationshipService, characters *services.CharacterService, stats *services.StatsService) *RelationshipHandler {
	return &RelationshipHandler{
		service:    service,
		characters: characters,
		stats:      stats,
	}
}

// PairsResult is the per-character relationship web: one merged view per
// counterpart.
type PairsResult struct {
	CharacterID string             `json:"character_id"`
	Pairs       []relgraph.PairView `json:"pairs"`
}

// HandleCreate records a relationship and refreshes cached aggregates.
func (h *RelationshipHandler) HandleCreate(ctx context.Context, in services.CreateRelationshipInput) (*entities.Relationship, error) {
	rel, err := h.service.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	h.stats.Invalidate()
	return rel, nil
}

// HandleUpdate replaces a record's tags and note.
func (h *RelationshipHandler) HandleUpdate(ctx context.Context, id, userID string, types []string, note string) (*entities.Relationship, error) {
	rel, err := h.service.Update(ctx, id, userID, types, note)
	if err != nil {
		return nil, err
	}
	h.stats.Invalidate()
	return rel, nil
}

// HandleDelete removes a record and refreshes cached aggregates.
func (h *RelationshipHandler) HandleDelete(ctx context.Context, id, userID string) error {
	if err := h.service.Delete(ctx, id, userID); err != nil {
		return err
	}
	h.stats.Invalidate()
	return nil
}

// HandleGet finds a relationship record by ID.
func (h *RelationshipHandler) HandleGet(ctx context.Context, id string) (*entities.Relationship, error) {
	return h.service.Get(ctx, id)
}

// HandlePairs builds the merged per-counterpart view for a character given by
// ID or name.
func (h *RelationshipHandler) HandlePairs(ctx context.Context, idOrName string) (*PairsResult, error) {
	ch, err := h.characters.Get(ctx, idOrName)
	if err != nil {
		ch, err = h.characters.GetByName(ctx, idOrName)
		if err != nil {
			return nil, err
		}
	}

	pairs, err := h.service.Pairs(ctx, ch.ID)
	if err != nil {
		return nil, fmt.Errorf("aggregating relationships: %w", err)
	}
	return &PairsResult{CharacterID: ch.ID, Pairs: pairs}, nil
}

// HandleCounts returns the cached roster-wide reference counts.
func (h *RelationshipHandler) HandleCounts(ctx context.Context) (map[string]int, error) {
	return h.stats.RelationshipCounts(ctx)
}

// HandleTypes returns the fixed tag vocabulary in display order.
func (h *RelationshipHandler) HandleTypes() []entities.RelTypeInfo {
	return entities.RelTypeVocabulary
}
