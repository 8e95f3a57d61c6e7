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

func setupCharacterHandler() (*CharacterHandler, *mocks.Store) {
	store := mocks.NewStore()
	characterSvc := services.NewCharacterService(store)
	statsSvc := services.NewStatsService(store, services.NewRelationshipService(store))
	return NewCharacterHandler(characterSvc, statsSvc), store
}

func TestCharacterHandler_HandleCreate(t *testing.T) {
	h, store := setupCharacterHandler()

	ch, err := h.HandleCreate(context.Background(), services.CreateCharacterInput{
		OwnerUserID: "user-1",
		Name:        "Malon",
	})
	require.NoError(t, err)
	assert.Contains(t, store.Characters, ch.ID)
}

func TestCharacterHandler_HandleResolve(t *testing.T) {
	h, store := setupCharacterHandler()
	store.Characters["char-1"] = &entities.Character{
		ID: "char-1", Name: "Malon", NormalizedName: "malon",
	}

	t.Run("by id", func(t *testing.T) {
		ch, err := h.HandleResolve(context.Background(), "char-1")
		require.NoError(t, err)
		assert.Equal(t, "Malon", ch.Name)
	})

	t.Run("by name", func(t *testing.T) {
		ch, err := h.HandleResolve(context.Background(), "malon")
		require.NoError(t, err)
		assert.Equal(t, "char-1", ch.ID)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := h.HandleResolve(context.Background(), "ganon")
		require.Error(t, err)
	})
}

func TestCharacterHandler_HandleList(t *testing.T) {
	h, store := setupCharacterHandler()
	store.Characters["a"] = &entities.Character{ID: "a", Name: "Anju"}
	store.Characters["b"] = &entities.Character{ID: "b", Name: "Beedle"}
	store.Characters["c"] = &entities.Character{ID: "c", Name: "Cremia"}

	result, err := h.HandleList(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, result.Characters, 2)
	assert.Equal(t, 3, result.Total)
}

func TestCharacterHandler_HandleDelete(t *testing.T) {
	h, store := setupCharacterHandler()
	store.Characters["char-1"] = &entities.Character{ID: "char-1", OwnerUserID: "user-1", Name: "Malon"}

	err := h.HandleDelete(context.Background(), "char-1", "user-1")
	require.NoError(t, err)
	assert.Empty(t, store.Characters)
}
