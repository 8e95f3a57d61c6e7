// Package handlers coordinates domain services for the CLI and the REST
// layer: input shaping, cross-service wiring, and result assembly.
package handlers

import (
	"context"
	"fmt"

	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/services"
)

// CharacterHandler handles roster character operations.
type CharacterHandler struct {
	service *services.CharacterService
	stats   *services.StatsService
}

// NewCharacterHandler creates a new CharacterHandler.
func NewCharacterHandler(service *services.CharacterService, stats *services.StatsService) *CharacterHandler {
	return &CharacterHandler{
		service: service,
		stats:   stats,
	}
}

// CharacterListResult contains a roster page plus the total roster size.
type CharacterListResult struct {
	Characters []*entities.Character `json:"characters"`
	Total      int                   `json:"total"`
}

// HandleCreate registers a new character and refreshes cached aggregates.
func (h *CharacterHandler) HandleCreate(ctx context.Context, in services.CreateCharacterInput) (*entities.Character, error) {
	ch, err := h.service.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	h.stats.Invalidate()
	return ch, nil
}

// HandleGet finds a character by ID.
func (h *CharacterHandler) HandleGet(ctx context.Context, id string) (*entities.Character, error) {
	return h.service.Get(ctx, id)
}

// HandleResolve finds a character by ID first, then by name. The CLI accepts
// either form.
func (h *CharacterHandler) HandleResolve(ctx context.Context, idOrName string) (*entities.Character, error) {
	ch, err := h.service.Get(ctx, idOrName)
	if err == nil {
		return ch, nil
	}
	return h.service.GetByName(ctx, idOrName)
}

// HandleList returns a roster page.
func (h *CharacterHandler) HandleList(ctx context.Context, limit, offset int) (*CharacterListResult, error) {
	chars, err := h.service.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	total, err := h.service.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting characters: %w", err)
	}
	return &CharacterListResult{Characters: chars, Total: total}, nil
}

// HandleSearch searches the roster by name.
func (h *CharacterHandler) HandleSearch(ctx context.Context, query string, limit int) ([]*entities.Character, error) {
	return h.service.Search(ctx, query, limit)
}

// HandleDelete removes a character, its relationship records, and refreshes
// cached aggregates.
func (h *CharacterHandler) HandleDelete(ctx context.Context, id, userID string) error {
	if err := h.service.Delete(ctx, id, userID); err != nil {
		return err
	}
	h.stats.Invalidate()
	return nil
}
