package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castletown/compendium/internal/domain/apperr"
	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/mocks"
)

func setupRelationshipTest() (*RelationshipService, *mocks.Store) {
	store := mocks.NewStore()
	store.Characters["char-1"] = &entities.Character{
		ID: "char-1", OwnerUserID: "user-1", Name: "Malon", Race: "Hylian", Village: "Lon Lon Ranch",
	}
	store.Characters["char-2"] = &entities.Character{
		ID: "char-2", OwnerUserID: "user-2", Name: "Talon", Race: "Hylian", Village: "Lon Lon Ranch",
	}
	return NewRelationshipService(store), store
}

func TestRelationshipService_Create(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		svc, store := setupRelationshipTest()
		ctx := context.Background()

		rel, err := svc.Create(ctx, CreateRelationshipInput{
			OwnerUserID: "user-1",
			SourceID:    "char-1",
			TargetID:    "char-2",
			Types:       []string{"family", "respect"},
			Note:        "Her father",
		})
		require.NoError(t, err)
		require.NotNil(t, rel)

		assert.NotEmpty(t, rel.ID)
		assert.Equal(t, "char-1", rel.Source.ID())
		assert.Equal(t, "char-2", rel.Target.ID())
		assert.Equal(t, []entities.RelType{entities.RelFamily, entities.RelRespect}, rel.Types)
		assert.Equal(t, entities.RelFamily, rel.PrimaryType())

		// Both endpoints carry denormalized snapshots.
		srcSnap, ok := rel.Source.Snapshot()
		require.True(t, ok)
		assert.Equal(t, "Malon", srcSnap.Name)
		tgtSnap, ok := rel.Target.Snapshot()
		require.True(t, ok)
		assert.Equal(t, "Talon", tgtSnap.Name)

		assert.Len(t, store.Relationships, 1)
		require.Len(t, store.Audit, 1)
		assert.Equal(t, "relationship.create", store.Audit[0].Action)
	})

	t.Run("self relationship rejected", func(t *testing.T) {
		svc, _ := setupRelationshipTest()

		_, err := svc.Create(context.Background(), CreateRelationshipInput{
			OwnerUserID: "user-1",
			SourceID:    "char-1",
			TargetID:    "char-1",
			Types:       []string{"friend"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("no types rejected", func(t *testing.T) {
		svc, _ := setupRelationshipTest()

		_, err := svc.Create(context.Background(), CreateRelationshipInput{
			OwnerUserID: "user-1",
			SourceID:    "char-1",
			TargetID:    "char-2",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		svc, _ := setupRelationshipTest()

		_, err := svc.Create(context.Background(), CreateRelationshipInput{
			OwnerUserID: "user-1",
			SourceID:    "char-1",
			TargetID:    "char-2",
			Types:       []string{"nemesis"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("note too long rejected", func(t *testing.T) {
		svc, _ := setupRelationshipTest()

		_, err := svc.Create(context.Background(), CreateRelationshipInput{
			OwnerUserID: "user-1",
			SourceID:    "char-1",
			TargetID:    "char-2",
			Types:       []string{"friend"},
			Note:        strings.Repeat("x", entities.NoteMaxLength+1),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("missing target character", func(t *testing.T) {
		svc, _ := setupRelationshipTest()

		_, err := svc.Create(context.Background(), CreateRelationshipInput{
			OwnerUserID: "user-1",
			SourceID:    "char-1",
			TargetID:    "ghost",
			Types:       []string{"friend"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestRelationshipService_Update(t *testing.T) {
	t.Run("author replaces types and note", func(t *testing.T) {
		svc, store := setupRelationshipTest()
		ctx := context.Background()

		rel, err := svc.Create(ctx, CreateRelationshipInput{
			OwnerUserID: "user-1",
			SourceID:    "char-1",
			TargetID:    "char-2",
			Types:       []string{"friend"},
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, rel.ID, "user-1", []string{"rival", "respect"}, "It got complicated")
		require.NoError(t, err)
		assert.Equal(t, []entities.RelType{entities.RelRival, entities.RelRespect}, updated.Types)
		assert.Equal(t, "It got complicated", updated.Note)

		saved := store.Relationships[rel.ID]
		assert.Equal(t, entities.RelRival, saved.PrimaryType())
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		svc, _ := setupRelationshipTest()
		ctx := context.Background()

		rel, err := svc.Create(ctx, CreateRelationshipInput{
			OwnerUserID: "user-1",
			SourceID:    "char-1",
			TargetID:    "char-2",
			Types:       []string{"friend"},
		})
		require.NoError(t, err)

		_, err = svc.Update(ctx, rel.ID, "user-2", []string{"enemy"}, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}

func TestRelationshipService_Delete(t *testing.T) {
	t.Run("author deletes", func(t *testing.T) {
		svc, store := setupRelationshipTest()
		ctx := context.Background()

		rel, err := svc.Create(ctx, CreateRelationshipInput{
			OwnerUserID: "user-1",
			SourceID:    "char-1",
			TargetID:    "char-2",
			Types:       []string{"friend"},
		})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, rel.ID, "user-1"))
		assert.Empty(t, store.Relationships)
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		svc, store := setupRelationshipTest()
		ctx := context.Background()

		rel, err := svc.Create(ctx, CreateRelationshipInput{
			OwnerUserID: "user-1",
			SourceID:    "char-1",
			TargetID:    "char-2",
			Types:       []string{"friend"},
		})
		require.NoError(t, err)

		err = svc.Delete(ctx, rel.ID, "user-2")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		assert.Len(t, store.Relationships, 1)
	})

	t.Run("missing relationship", func(t *testing.T) {
		svc, _ := setupRelationshipTest()

		err := svc.Delete(context.Background(), "missing", "user-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestRelationshipService_Pairs(t *testing.T) {
	t.Run("merges both directions per counterpart", func(t *testing.T) {
		svc, _ := setupRelationshipTest()
		ctx := context.Background()

		_, err := svc.Create(ctx, CreateRelationshipInput{
			OwnerUserID: "user-1", SourceID: "char-1", TargetID: "char-2", Types: []string{"family"},
		})
		require.NoError(t, err)
		_, err = svc.Create(ctx, CreateRelationshipInput{
			OwnerUserID: "user-2", SourceID: "char-2", TargetID: "char-1", Types: []string{"family", "respect"},
		})
		require.NoError(t, err)

		pairs, err := svc.Pairs(ctx, "char-1")
		require.NoError(t, err)
		require.Len(t, pairs, 1)

		pair := pairs[0]
		assert.Equal(t, "char-2", pair.CounterpartID)
		require.NotNil(t, pair.Counterpart)
		assert.Equal(t, "Talon", pair.Counterpart.Name)
		require.NotNil(t, pair.Outgoing)
		assert.Equal(t, entities.RelFamily, pair.Outgoing.PrimaryType())
		require.NotNil(t, pair.Incoming)
		assert.Equal(t, entities.RelFamily, pair.Incoming.PrimaryType())
	})

	t.Run("character with no records gets empty view", func(t *testing.T) {
		svc, _ := setupRelationshipTest()

		pairs, err := svc.Pairs(context.Background(), "char-1")
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})
}

func TestRelationshipService_Counts(t *testing.T) {
	svc, _ := setupRelationshipTest()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRelationshipInput{
		OwnerUserID: "user-1", SourceID: "char-1", TargetID: "char-2", Types: []string{"friend"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRelationshipInput{
		OwnerUserID: "user-2", SourceID: "char-2", TargetID: "char-1", Types: []string{"rival"},
	})
	require.NoError(t, err)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"char-1": 2, "char-2": 2}, counts)
}
