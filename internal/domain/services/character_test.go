package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castletown/compendium/internal/domain/apperr"
	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/mocks"
)

func setupCharacterTest() (*CharacterService, *mocks.Store) {
	store := mocks.NewStore()
	return NewCharacterService(store), store
}

func TestCharacterService_Create(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		svc, store := setupCharacterTest()
		ctx := context.Background()

		ch, err := svc.Create(ctx, CreateCharacterInput{
			OwnerUserID: "user-1",
			Name:        "Malon",
			Race:        "Hylian",
			Job:         "Rancher",
			Village:     "Lon Lon Ranch",
		})
		require.NoError(t, err)
		require.NotNil(t, ch)

		assert.NotEmpty(t, ch.ID)
		assert.Equal(t, "user-1", ch.OwnerUserID)
		assert.Equal(t, "Malon", ch.Name)
		assert.Equal(t, "malon", ch.NormalizedName)
		assert.False(t, ch.CreatedAt.IsZero())

		saved, ok := store.Characters[ch.ID]
		require.True(t, ok)
		assert.Equal(t, "Malon", saved.Name)
	})

	t.Run("name is trimmed", func(t *testing.T) {
		svc, _ := setupCharacterTest()

		ch, err := svc.Create(context.Background(), CreateCharacterInput{
			OwnerUserID: "user-1",
			Name:        "  Talon  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "Talon", ch.Name)
	})

	t.Run("missing name", func(t *testing.T) {
		svc, _ := setupCharacterTest()

		_, err := svc.Create(context.Background(), CreateCharacterInput{OwnerUserID: "user-1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("missing owner", func(t *testing.T) {
		svc, _ := setupCharacterTest()

		_, err := svc.Create(context.Background(), CreateCharacterInput{Name: "Malon"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		svc, _ := setupCharacterTest()
		ctx := context.Background()

		_, err := svc.Create(ctx, CreateCharacterInput{OwnerUserID: "user-1", Name: "Malon"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateCharacterInput{OwnerUserID: "user-2", Name: "malon"})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("store error", func(t *testing.T) {
		svc, store := setupCharacterTest()
		store.Err = errors.New("db down")

		_, err := svc.Create(context.Background(), CreateCharacterInput{OwnerUserID: "user-1", Name: "Malon"})
		require.Error(t, err)
	})
}

func TestCharacterService_Get(t *testing.T) {
	t.Run("found by id", func(t *testing.T) {
		svc, store := setupCharacterTest()
		store.Characters["char-1"] = &entities.Character{ID: "char-1", Name: "Beedle"}

		ch, err := svc.Get(context.Background(), "char-1")
		require.NoError(t, err)
		assert.Equal(t, "Beedle", ch.Name)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _ := setupCharacterTest()

		_, err := svc.Get(context.Background(), "missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("found by name case-insensitively", func(t *testing.T) {
		svc, store := setupCharacterTest()
		store.Characters["char-1"] = &entities.Character{
			ID: "char-1", Name: "Beedle", NormalizedName: "beedle",
		}

		ch, err := svc.GetByName(context.Background(), "BEEDLE")
		require.NoError(t, err)
		assert.Equal(t, "char-1", ch.ID)
	})
}

func TestCharacterService_Delete(t *testing.T) {
	t.Run("owner deletes character and its relationships", func(t *testing.T) {
		svc, store := setupCharacterTest()
		ctx := context.Background()

		store.Characters["char-1"] = &entities.Character{ID: "char-1", OwnerUserID: "user-1", Name: "Malon"}
		store.Characters["char-2"] = &entities.Character{ID: "char-2", OwnerUserID: "user-2", Name: "Talon"}
		require.NoError(t, store.SaveRelationship(ctx, &entities.Relationship{
			ID:     "rel-1",
			Source: entities.IDRef("char-1"),
			Target: entities.IDRef("char-2"),
		}))
		require.NoError(t, store.SaveRelationship(ctx, &entities.Relationship{
			ID:     "rel-2",
			Source: entities.IDRef("char-2"),
			Target: entities.IDRef("char-1"),
		}))

		err := svc.Delete(ctx, "char-1", "user-1")
		require.NoError(t, err)

		assert.NotContains(t, store.Characters, "char-1")
		assert.Empty(t, store.Relationships)
		require.Len(t, store.Audit, 1)
		assert.Equal(t, "character.delete", store.Audit[0].Action)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc, store := setupCharacterTest()
		store.Characters["char-1"] = &entities.Character{ID: "char-1", OwnerUserID: "user-1", Name: "Malon"}

		err := svc.Delete(context.Background(), "char-1", "user-2")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		assert.Contains(t, store.Characters, "char-1")
	})

	t.Run("missing character", func(t *testing.T) {
		svc, _ := setupCharacterTest()

		err := svc.Delete(context.Background(), "missing", "user-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestCharacterService_List(t *testing.T) {
	svc, store := setupCharacterTest()
	store.Characters["a"] = &entities.Character{ID: "a", Name: "Anju"}
	store.Characters["b"] = &entities.Character{ID: "b", Name: "Beedle"}

	chars, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, chars, 2)
}
