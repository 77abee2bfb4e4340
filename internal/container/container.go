package container

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/garyjia/offer-letters/internal/batch"
	"github.com/garyjia/offer-letters/internal/config"
	"github.com/garyjia/offer-letters/internal/identifier"
	"github.com/garyjia/offer-letters/internal/preview"
	"github.com/garyjia/offer-letters/internal/storage"
	"github.com/garyjia/offer-letters/pkg/database"
	"go.uber.org/zap"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	db       *database.DB
	registry identifier.Registry
	uploads  *storage.LocalFileStorage

	// Application
	orchestrator *batch.Orchestrator
	rasterizer   *preview.Rasterizer

	// Lifecycle
	mu     sync.Mutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Working directories
// 2. Identifier registry
// 3. Batch orchestrator
// 4. Preview rasterizer
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	// Step 1: Initialize storage
	uploads, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.uploads = uploads
	c.logger.Info("Storage initialized")

	// Step 2: Initialize identifier registry
	bundle, err := ProvideRegistry(ctx, &c.config.Identifier, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize identifier registry: %w", err)
	}
	c.db = bundle.DB
	c.registry = bundle.Registry
	c.logger.Info("Identifier registry initialized", zap.Bool("persistent", c.db != nil))

	// Step 3: Initialize orchestrator
	orchestrator, err := ProvideOrchestrator(c.config, c.registry, c.logger)
	if err != nil {
		c.closeDB()
		return fmt.Errorf("failed to initialize orchestrator: %w", err)
	}
	c.orchestrator = orchestrator
	c.logger.Info("Batch orchestrator initialized")

	// Step 4: Initialize preview
	c.rasterizer = preview.NewRasterizer(c.config.Preview.DPI, c.logger)

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var err error
	if c.db != nil {
		if err = c.closeDB(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("Container closed successfully")
	return nil
}

func (c *Container) closeDB() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check registry
	switch {
	case !c.ready.Load():
		status.Components["registry"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	case c.db == nil:
		status.Components["registry"] = ComponentHealth{Healthy: true, Message: "in-batch uniqueness only"}
	default:
		if err := c.db.Ping(); err != nil {
			status.Components["registry"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["registry"] = ComponentHealth{Healthy: true}
		}
	}

	// Check directories
	for name, dir := range map[string]string{
		"uploads_dir": c.config.Storage.UploadsDir,
		"letters_dir": c.config.Storage.LettersDir,
		"output_dir":  c.config.Storage.OutputDir,
	} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			status.Components[name] = ComponentHealth{Healthy: false, Message: "missing"}
			status.Overall = false
			continue
		}
		status.Components[name] = ComponentHealth{Healthy: true}
	}

	return status
}

// Orchestrator returns the batch orchestrator.
func (c *Container) Orchestrator() *batch.Orchestrator {
	return c.orchestrator
}

// Uploads returns the upload storage.
func (c *Container) Uploads() *storage.LocalFileStorage {
	return c.uploads
}

// Rasterizer returns the preview rasterizer.
func (c *Container) Rasterizer() *preview.Rasterizer {
	return c.rasterizer
}
