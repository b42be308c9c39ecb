// Package main implements the entry point for the vox API server,
// which accepts audio uploads, runs them through a speech recognition
// backend as asynchronous jobs, and manages the API keys that gate
// access.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/vox-api/internal/config"
	"github.com/phrazzld/vox-api/internal/platform/logger"
)

func main() {
	app, err := initializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, and wires the
// application components.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"store_backend", cfg.Store.Backend,
		"inference_url", cfg.Jobs.InferenceURL)

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to wire application: %w", err)
	}
	return app, nil
}
