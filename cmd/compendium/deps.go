package main

import (
	"context"
	"fmt"
	"os"

	"github.com/castletown/compendium/internal/application/handlers"
	"github.com/castletown/compendium/internal/domain/ports"
	"github.com/castletown/compendium/internal/domain/services"
	"github.com/castletown/compendium/internal/infrastructure/config"
	embedder "github.com/castletown/compendium/internal/infrastructure/embedder/openai"
	"github.com/castletown/compendium/internal/infrastructure/relationaldb/sqlite"
	"github.com/castletown/compendium/internal/infrastructure/vectordb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config        *config.Config
	Characters    *handlers.CharacterHandler
	Relationships *handlers.RelationshipHandler
	Calendar      *handlers.CalendarHandler
	Stats         *handlers.StatsHandler
	Submissions   *handlers.SubmissionHandler
	Import        *handlers.ImportHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	store    *sqlite.Repository
	vectorDB *qdrant.Repository
	embedder *embedder.Embedder
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withStoreDeps builds the SQLite-backed stack without connecting to Qdrant
// or the embedding API. Roster and calendar commands work offline.
func withStoreDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg, cwd)
	if err != nil {
		return err
	}
	defer store.Close()

	deps := buildDeps(cfg, store, nil, nil)
	return fn(deps)
}

// withInternalDeps provides access to all dependencies including low-level components.
// Used by commands that need vector search or embeddings.
func withInternalDeps(fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg, cwd)
	if err != nil {
		return err
	}
	defer store.Close()

	vectorDB, err := qdrant.NewRepository(cfg.Qdrant)
	if err != nil {
		return fmt.Errorf("creating qdrant repository: %w", err)
	}
	defer vectorDB.Close()

	emb, err := embedder.NewEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	deps := &internalDeps{
		Deps:     *buildDeps(cfg, store, vectorDB, emb),
		store:    store,
		vectorDB: vectorDB,
		embedder: emb,
	}

	return fn(deps)
}

func openStore(cfg *config.Config, cwd string) (*sqlite.Repository, error) {
	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.SQLitePath(cwd)})
	if err != nil {
		return nil, fmt.Errorf("creating sqlite repository: %w", err)
	}

	if err := store.EnsureSchema(context.Background()); err != nil {
		store.Close()
		return nil, fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	return store, nil
}

// buildDeps wires services and handlers over the given infrastructure.
// vectorDB and emb may be nil; submission commands then fail at call time
// rather than at startup.
func buildDeps(cfg *config.Config, store ports.Store, vectorDB ports.VectorDB, emb ports.Embedder) *Deps {
	characterSvc := services.NewCharacterService(store)
	relationshipSvc := services.NewRelationshipService(store)
	statsSvc := services.NewStatsService(store, relationshipSvc)
	submissionSvc := services.NewSubmissionService(store, vectorDB, emb)
	calendarSvc := services.NewCalendarService()
	importSvc := services.NewImportService(store)

	return &Deps{
		Config:        cfg,
		Characters:    handlers.NewCharacterHandler(characterSvc, statsSvc),
		Relationships: handlers.NewRelationshipHandler(relationshipSvc, characterSvc, statsSvc),
		Calendar:      handlers.NewCalendarHandler(calendarSvc),
		Stats:         handlers.NewStatsHandler(statsSvc),
		Submissions:   handlers.NewSubmissionHandler(submissionSvc, statsSvc),
		Import:        handlers.NewImportHandler(importSvc, statsSvc),
	}
}
