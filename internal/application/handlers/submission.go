package handlers

import (
	"context"

	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/ports"
	"github.com/castletown/compendium/internal/domain/services"
)

// SubmissionHandler handles member quest ideas and suggestions.
type SubmissionHandler struct {
	service *services.SubmissionService
	stats   *services.StatsService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(service *services.SubmissionService, stats *services.StatsService) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		stats:   stats,
	}
}

// SubmitResult pairs a stored submission with the near-duplicates found at
// intake time, so the dashboard can warn the author immediately.
type SubmitResult struct {
	Submission *entities.Submission     `json:"submission"`
	Similar    []ports.ScoredSubmission `json:"similar,omitempty"`
}

// HandleSubmit stores a submission and returns any near-duplicates already in
// the index.
func (h *SubmissionHandler) HandleSubmit(ctx context.Context, in services.SubmitInput) (*SubmitResult, error) {
	sub, err := h.service.Submit(ctx, in)
	if err != nil {
		return nil, err
	}
	h.stats.Invalidate()

	// Similarity lookup is best effort: a degraded index must not fail the
	// submission itself.
	similar, err := h.service.Similar(ctx, sub.ID, 3)
	if err != nil {
		similar = nil
	}
	return &SubmitResult{Submission: sub, Similar: similar}, nil
}

// HandleGet finds a submission by ID.
func (h *SubmissionHandler) HandleGet(ctx context.Context, id string) (*entities.Submission, error) {
	return h.service.Get(ctx, id)
}

// HandleList lists submissions filtered by kind and status.
func (h *SubmissionHandler) HandleList(ctx context.Context, kind, status string, limit, offset int) ([]*entities.Submission, error) {
	return h.service.List(ctx, entities.SubmissionKind(kind), entities.SubmissionStatus(status), limit, offset)
}

// HandleSimilar returns indexed submissions closest to the given one.
func (h *SubmissionHandler) HandleSimilar(ctx context.Context, id string, limit int) ([]ports.ScoredSubmission, error) {
	return h.service.Similar(ctx, id, limit)
}

// HandleModerate moves a submission through moderation.
func (h *SubmissionHandler) HandleModerate(ctx context.Context, id, status, moderatorUserID string) (*entities.Submission, error) {
	sub, err := h.service.SetStatus(ctx, id, entities.SubmissionStatus(status), moderatorUserID)
	if err != nil {
		return nil, err
	}
	h.stats.Invalidate()
	return sub, nil
}
