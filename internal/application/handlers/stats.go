package handlers

import (
	"context"

	"github.com/castletown/compendium/internal/domain/services"
)

// StatsHandler handles dashboard aggregate lookups.
type StatsHandler struct {
	service *services.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *services.StatsService) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

// HandleOverview returns the cached dashboard stats block.
func (h *StatsHandler) HandleOverview(ctx context.Context) (*services.Stats, error) {
	return h.service.Overview(ctx)
}
