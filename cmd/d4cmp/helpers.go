package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/brianjleepub/diablo4-item-comparer/internal/config"
	"github.com/brianjleepub/diablo4-item-comparer/internal/dictionary"
	"github.com/brianjleepub/diablo4-item-comparer/internal/engine"
	"github.com/brianjleepub/diablo4-item-comparer/internal/ocr"
	"github.com/brianjleepub/diablo4-item-comparer/internal/service"
	"github.com/brianjleepub/diablo4-item-comparer/internal/storage"
)

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/d4cmp/d4cmp.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine wires the full pipeline: storage, the file OCR provider and the
// configured thresholds.
func initEngine(ctx context.Context) (*engine.IngestionEngine, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.LoadPipelineConfig()
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	eng := engine.NewWithConfig(store, ocr.NewFileProvider(), dictionary.NewHolder(), cfg)
	return eng, store, nil
}

// affixNames returns a display-name resolver over the stored affix catalog.
// Used by commands that render ids the catalog knows names for.
func affixNames(ctx context.Context, store service.Storage) (func(int) string, error) {
	affixes, err := store.GetAffixes(ctx)
	if err != nil {
		return nil, err
	}
	aspects, err := store.GetAspects(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(affixes)+len(aspects))
	for _, a := range affixes {
		names[a.ID] = a.Name
	}
	for _, a := range aspects {
		names[a.ID] = a.Name
	}
	return func(id int) string { return names[id] }, nil
}

// classNames returns a display-name resolver over the stored class catalog.
func classNames(ctx context.Context, store service.Storage) (func(int) string, error) {
	classes, err := store.GetClasses(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(classes))
	for _, c := range classes {
		names[c.ID] = c.Name
	}
	return func(id int) string { return names[id] }, nil
}
