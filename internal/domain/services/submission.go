package services

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/castletown/compendium/internal/domain/apperr"
	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/ports"
)

// SubmissionService handles member-submitted quest ideas and suggestions:
// validated intake, persistence, and a similarity index so near-duplicate
// ideas surface before they get posted twice.
type SubmissionService struct {
	store    ports.Store
	vectorDB ports.VectorDB
	embedder ports.Embedder
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(store ports.Store, vectorDB ports.VectorDB, embedder ports.Embedder) *SubmissionService {
	return &SubmissionService{
		store:    store,
		vectorDB: vectorDB,
		embedder: embedder,
	}
}

// SubmitInput is the dashboard's submission form payload.
type SubmitInput struct {
	Kind         string `json:"kind"`
	AuthorUserID string `json:"author_user_id"`
	Title        string `json:"title"`
	Body         string `json:"body"`
}

// Validate checks the form fields.
func (in SubmitInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Kind, validation.Required, validation.In(
			string(entities.SubmissionQuest), string(entities.SubmissionSuggestion),
		)),
		validation.Field(&in.AuthorUserID, validation.Required),
		validation.Field(&in.Title, validation.Required, validation.Length(3, 120)),
		validation.Field(&in.Body, validation.Required, validation.Length(10, 4000)),
	)
}

// Submit validates and stores a submission, then indexes it for similarity
// search. Indexing failure rolls the stored row back so the store and the
// index never disagree.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*entities.Submission, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	now := time.Now()
	sub := &entities.Submission{
		ID:           uuid.New().String(),
		Kind:         entities.SubmissionKind(in.Kind),
		AuthorUserID: in.AuthorUserID,
		Title:        in.Title,
		Body:         in.Body,
		Status:       entities.SubmissionPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	embedding, err := s.embedder.Embed(ctx, in.Title+"\n"+in.Body)
	if err != nil {
		return nil, fmt.Errorf("embedding submission: %w", err)
	}
	sub.Embedding = embedding

	if err := s.store.SaveSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("saving submission: %w", err)
	}
	if err := s.vectorDB.Save(ctx, *sub); err != nil {
		_ = s.store.DeleteSubmission(ctx, sub.ID)
		return nil, fmt.Errorf("indexing submission: %w", err)
	}

	return sub, nil
}

// Get finds a submission by ID.
func (s *SubmissionService) Get(ctx context.Context, id string) (*entities.Submission, error) {
	sub, err := s.store.FindSubmissionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding submission: %w", err)
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: submission %s", apperr.ErrNotFound, id)
	}
	return sub, nil
}

// List lists submissions, newest first, optionally filtered by kind and
// moderation status.
func (s *SubmissionService) List(ctx context.Context, kind entities.SubmissionKind, status entities.SubmissionStatus, limit, offset int) ([]*entities.Submission, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListSubmissions(ctx, kind, status, limit, offset)
}

// Similar returns indexed submissions closest to the given one, excluding
// itself. Used by the dashboard to warn about near-duplicates.
func (s *SubmissionService) Similar(ctx context.Context, id string, limit int) ([]ports.ScoredSubmission, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	embedding := sub.Embedding
	if len(embedding) == 0 {
		embedding, err = s.embedder.Embed(ctx, sub.Title+"\n"+sub.Body)
		if err != nil {
			return nil, fmt.Errorf("embedding submission: %w", err)
		}
	}

	// Ask for one extra hit since the submission matches itself.
	hits, err := s.vectorDB.Search(ctx, embedding, limit+1)
	if err != nil {
		return nil, fmt.Errorf("searching similar submissions: %w", err)
	}

	results := make([]ports.ScoredSubmission, 0, limit)
	for _, hit := range hits {
		if hit.Submission.ID == id {
			continue
		}
		results = append(results, hit)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// SetStatus moves a submission through moderation.
func (s *SubmissionService) SetStatus(ctx context.Context, id string, status entities.SubmissionStatus, moderatorUserID string) (*entities.Submission, error) {
	switch status {
	case entities.SubmissionPending, entities.SubmissionApproved, entities.SubmissionRejected:
	default:
		return nil, fmt.Errorf("%w: invalid status %q", apperr.ErrValidation, status)
	}

	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Status = status
	sub.UpdatedAt = time.Now()

	if err := s.store.SaveSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("saving submission: %w", err)
	}
	if err := s.store.LogAction(ctx, "submission.status", id, moderatorUserID, map[string]any{"status": string(status)}); err != nil {
		return nil, fmt.Errorf("logging status change: %w", err)
	}
	return sub, nil
}
