package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castletown/compendium/internal/domain/mocks"
	"github.com/castletown/compendium/internal/domain/services"
)

func setupImportHandler() (*ImportHandler, *mocks.Store) {
	store := mocks.NewStore()
	statsSvc := services.NewStatsService(store, services.NewRelationshipService(store))
	return NewImportHandler(services.NewImportService(store), statsSvc), store
}

func writeImportFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportHandler_Handle(t *testing.T) {
	t.Run("json roster by extension", func(t *testing.T) {
		h, store := setupImportHandler()
		path := writeImportFile(t, "roster.json", `[
			{"owner_user_id": "user-1", "name": "Malon", "race": "Hylian"},
			{"owner_user_id": "user-2", "name": "Darunia", "race": "Goron"}
		]`)

		result, err := h.Handle(context.Background(), path, ImportOptions{})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Len(t, store.Characters, 2)
	})

	t.Run("csv roster with explicit format", func(t *testing.T) {
		h, store := setupImportHandler()
		path := writeImportFile(t, "roster.txt", "owner_user_id,name,race\nuser-1,Malon,Hylian\n")

		result, err := h.Handle(context.Background(), path, ImportOptions{Format: "csv"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Len(t, store.Characters, 1)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		h, _ := setupImportHandler()

		_, err := h.Handle(context.Background(), "roster.xml", ImportOptions{})
		require.Error(t, err)
	})

	t.Run("dry run saves nothing", func(t *testing.T) {
		h, store := setupImportHandler()
		path := writeImportFile(t, "roster.json", `[{"owner_user_id": "user-1", "name": "Malon"}]`)

		result, err := h.Handle(context.Background(), path, ImportOptions{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Empty(t, store.Characters)
	})
}
