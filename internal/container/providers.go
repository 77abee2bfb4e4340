package container

import (
	"context"
	"fmt"

	"github.com/garyjia/offer-letters/internal/batch"
	"github.com/garyjia/offer-letters/internal/config"
	"github.com/garyjia/offer-letters/internal/identifier"
	"github.com/garyjia/offer-letters/internal/render"
	"github.com/garyjia/offer-letters/internal/spreadsheet"
	"github.com/garyjia/offer-letters/internal/storage"
	"github.com/garyjia/offer-letters/pkg/database"
	"go.uber.org/zap"
)

// RegistryBundle holds the identifier registry and the database behind it.
// DB is nil when the registry is not persistent.
type RegistryBundle struct {
	DB       *database.DB
	Registry identifier.Registry
}

// ProvideRegistry opens the identifier registry and runs pending migrations.
// An empty registry path selects the in-memory no-op registry.
func ProvideRegistry(ctx context.Context, cfg *config.IdentifierConfig, logger *zap.Logger) (*RegistryBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("identifier config is required")
	}
	if cfg.RegistryPath == "" {
		return &RegistryBundle{Registry: identifier.NopRegistry{}}, nil
	}

	db, err := database.New(database.Config{Path: cfg.RegistryPath}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &RegistryBundle{
		DB:       db,
		Registry: identifier.NewSQLiteRegistry(db, logger),
	}, nil
}

// ProvideStorage creates the three working directories and the upload storage.
func ProvideStorage(cfg *config.StorageConfig, logger *zap.Logger) (*storage.LocalFileStorage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	if err := storage.EnsureDirectories(logger, cfg.UploadsDir, cfg.LettersDir, cfg.OutputDir); err != nil {
		return nil, err
	}

	return storage.NewLocalFileStorage(cfg.UploadsDir, logger), nil
}

// ProvideOrchestrator wires the spreadsheet, renderer and identifier components into a batch orchestrator.
func ProvideOrchestrator(cfg *config.Config, registry identifier.Registry, logger *zap.Logger) (*batch.Orchestrator, error) {
	renderer, err := render.NewRenderer(cfg.RenderLayout(), logger)
	if err != nil {
		return nil, err
	}

	return batch.NewOrchestrator(
		batch.Config{
			LettersDir:     cfg.Storage.LettersDir,
			OutputDir:      cfg.Storage.OutputDir,
			OutputFileName: cfg.Storage.OutputFileName,
			Workers:        cfg.Batch.Workers,
			MergeLetters:   cfg.Batch.MergeLetters,
		},
		spreadsheet.NewReader(logger),
		spreadsheet.NewWriter(logger),
		renderer,
		identifier.NewGenerator(registry, cfg.Identifier.MaxAttempts, logger),
		logger,
	), nil
}
