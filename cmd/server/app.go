package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/vox-api/internal/config"
	"github.com/phrazzld/vox-api/internal/domain"
	"github.com/phrazzld/vox-api/internal/platform/credfile"
	"github.com/phrazzld/vox-api/internal/platform/inference"
	"github.com/phrazzld/vox-api/internal/platform/postgres"
	"github.com/phrazzld/vox-api/internal/service/auth"
	"github.com/phrazzld/vox-api/internal/store"
	"github.com/phrazzld/vox-api/internal/task"
)

// application holds the wired components of the server. Everything
// hangs off this struct so the router and lifecycle code share one
// dependency graph.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	credentials *auth.CredentialStore
	registry    *task.Registry
	worker      *task.Worker
	sweeper     *task.Sweeper
}

// newApplication wires the credential store, job registry, recognition
// worker, and sweeper from configuration. It also mints the first-run
// admin key when the keyring is empty.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	logger := slog.Default()

	app := &application{
		config: cfg,
		logger: logger,
	}

	snapshots, err := app.setupSnapshotStore(ctx)
	if err != nil {
		return nil, err
	}

	credentials, err := auth.NewCredentialStore(ctx, snapshots, logger)
	if err != nil {
		return nil, err
	}
	app.credentials = credentials

	if err := app.bootstrapAdminKey(ctx); err != nil {
		return nil, err
	}

	app.registry = task.NewRegistry(
		cfg.Jobs.DisposableRetention,
		cfg.Jobs.FinalRetention,
		logger,
	)

	recognizer := inference.NewClient(cfg.Jobs.InferenceURL, &http.Client{
		Timeout: 10 * time.Minute,
	}, logger)

	app.worker = task.NewWorker(app.registry, recognizer, credentials, nil, logger)
	app.sweeper = task.NewSweeper(app.registry, cfg.Jobs.SweepInterval, logger)

	return app, nil
}

// setupSnapshotStore selects the file or postgres credential backend.
// The postgres path runs migrations before handing the store out.
func (app *application) setupSnapshotStore(ctx context.Context) (store.CredentialSnapshotStore, error) {
	if app.config.Store.Backend == "postgres" {
		db, err := setupAppDatabase(app.config, app.logger)
		if err != nil {
			return nil, err
		}
		app.db = db

		if err := postgres.RunMigrations(db); err != nil {
			return nil, err
		}
		return postgres.NewSnapshotStore(db), nil
	}

	app.logger.Info("using file credential backend",
		"path", app.config.Store.CredentialFile)
	return credfile.NewFileStore(app.config.Store.CredentialFile), nil
}

// bootstrapAdminKey mints the initial admin credential on an empty
// keyring and logs it once. It is never shown again.
func (app *application) bootstrapAdminKey(ctx context.Context) error {
	token, created, err := app.credentials.Bootstrap(ctx)
	if err != nil {
		return err
	}
	if created {
		app.logger.Warn("bootstrap admin API key created; store it now, it will not be shown again",
			"api_key", token,
			"prefix", domain.RedactToken(token))
	}
	return nil
}

// run starts the retention sweeper and the HTTP server, blocking until
// shutdown.
func (app *application) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go app.sweeper.Run(ctx)

	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases resources on shutdown.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
