package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/careerforge/pitch-api/internal/config"
	"github.com/careerforge/pitch-api/internal/dispatch"
	"github.com/careerforge/pitch-api/internal/events"
	"github.com/careerforge/pitch-api/internal/platform/logger"
	"github.com/careerforge/pitch-api/internal/platform/openai"
	"github.com/careerforge/pitch-api/internal/platform/postgres"
	"github.com/careerforge/pitch-api/internal/platform/webhook"
	"github.com/careerforge/pitch-api/internal/reconcile"
	"github.com/careerforge/pitch-api/internal/service"
	"github.com/careerforge/pitch-api/internal/service/auth"
)

// application bundles the wired dependencies of the server.
type application struct {
	config       *config.Config
	logger       *slog.Logger
	db           *sql.DB
	providerName string

	draftService service.DraftService
	jwtService   auth.JWTService
	dispatcher   *dispatch.Dispatcher
	reconciler   *reconcile.Reconciler
	poller       *reconcile.Poller
	notifier     *events.CompletionNotifier
}

// newApplication loads configuration and wires every component:
// logger, database, migrations, stores, services, the generation
// provider, the dispatcher, and the completion plumbing.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if err := postgres.RunMigrations(ctx, db, log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	draftStore := postgres.NewPostgresDraftStore(db, log)
	taskStore := postgres.NewPostgresTaskStore(db, log)

	draftService, err := service.NewTransactionalDraftService(db, draftStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft service: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	notifier := events.NewCompletionNotifier(log)

	reconciler, err := reconcile.NewReconciler(taskStore, notifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconciler: %w", err)
	}

	// Webhook when an endpoint is configured, in-process OpenAI
	// otherwise. Both feed completions through the reconciler.
	var provider dispatch.Provider
	providerName := "webhook"
	if cfg.Provider.WebhookURL != "" {
		provider, err = webhook.NewClient(cfg.Provider, log)
	} else {
		providerName = "openai"
		provider, err = openai.NewProvider(cfg.Provider, reconciler, log)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create generation provider: %w", err)
	}

	callbackURL := cfg.Provider.CallbackBaseURL + "/api/callbacks/generation"
	dispatcher, err := dispatch.NewDispatcher(taskStore, provider, callbackURL, cfg.Provider.Timeout(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	poller, err := reconcile.NewPoller(taskStore, notifier, reconcile.PollerConfig{
		Interval:    cfg.Poll.Interval(),
		MaxAttempts: cfg.Poll.MaxAttempts,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create poller: %w", err)
	}

	return &application{
		config:       cfg,
		logger:       log,
		db:           db,
		providerName: providerName,
		draftService: draftService,
		jwtService:   jwtService,
		dispatcher:   dispatcher,
		reconciler:   reconciler,
		poller:       poller,
		notifier:     notifier,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
