package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/mocks"
	"github.com/castletown/compendium/internal/domain/services"
)

func setupSubmissionHandler() (*SubmissionHandler, *mocks.Store, *mocks.VectorDB) {
	store := mocks.NewStore()
	vectorDB := &mocks.VectorDB{}
	embedder := &mocks.Embedder{EmbeddingResult: []float32{0.1, 0.2, 0.3}}

	submissionSvc := services.NewSubmissionService(store, vectorDB, embedder)
	statsSvc := services.NewStatsService(store, services.NewRelationshipService(store))
	return NewSubmissionHandler(submissionSvc, statsSvc), store, vectorDB
}

func TestSubmissionHandler_HandleSubmit(t *testing.T) {
	t.Run("stores and reports near-duplicates", func(t *testing.T) {
		h, store, vectorDB := setupSubmissionHandler()
		vectorDB.Submissions = []entities.Submission{
			{ID: "existing", Title: "Cucco round-up"},
		}

		result, err := h.HandleSubmit(context.Background(), services.SubmitInput{
			Kind:         "quest",
			AuthorUserID: "user-1",
			Title:        "The lost cucco flock",
			Body:         "Round up the cuccos scattered across Kakariko before nightfall.",
		})
		require.NoError(t, err)

		assert.Contains(t, store.Submissions, result.Submission.ID)
		require.Len(t, result.Similar, 1)
		assert.Equal(t, "existing", result.Similar[0].Submission.ID)
	})

	t.Run("invalid input", func(t *testing.T) {
		h, _, _ := setupSubmissionHandler()

		_, err := h.HandleSubmit(context.Background(), services.SubmitInput{Kind: "quest"})
		require.Error(t, err)
	})
}

func TestSubmissionHandler_HandleModerate(t *testing.T) {
	h, store, _ := setupSubmissionHandler()
	store.Submissions["sub-1"] = &entities.Submission{ID: "sub-1", Status: entities.SubmissionPending}

	sub, err := h.HandleModerate(context.Background(), "sub-1", "approved", "mod-1")
	require.NoError(t, err)
	assert.Equal(t, entities.SubmissionApproved, sub.Status)
}

func TestSubmissionHandler_HandleList(t *testing.T) {
	h, store, _ := setupSubmissionHandler()
	store.Submissions["sub-1"] = &entities.Submission{ID: "sub-1", Kind: entities.SubmissionQuest, Status: entities.SubmissionPending, Title: "A"}
	store.Submissions["sub-2"] = &entities.Submission{ID: "sub-2", Kind: entities.SubmissionSuggestion, Status: entities.SubmissionPending, Title: "B"}

	subs, err := h.HandleList(context.Background(), "quest", "", 0, 0)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "sub-1", subs[0].ID)
}
