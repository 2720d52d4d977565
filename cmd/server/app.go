package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/config"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/domain/srs"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/events"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/jobs"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/platform/postgres"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/progress"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/service/auth"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/service/review"
	"github.com/cheesuschrust/cils-b1-learniverse-sub010/internal/store"
)

// application holds the shared application dependencies so wiring and
// cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	itemStore     store.ItemStore
	progressStore store.ProgressStore

	jwtService    auth.JWTService
	hasher        auth.PasswordHasher
	reviewService review.ReviewService

	eventEmitter  events.EventEmitter
	streakWatcher *jobs.StreakWatcher
}

// newApplication wires every service from configuration, stores, and
// the scheduling engine. Dependencies that can fail validate eagerly so
// a misconfigured server never starts.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("initializing JWT service: %w", err)
	}
	app.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.itemStore = postgres.NewPostgresItemStore(db, logger)
	app.progressStore = postgres.NewPostgresProgressStore(db, logger)

	params, err := srs.NewParams(srs.ParamsConfig{
		EaseFloor:   cfg.Engine.EaseFloor,
		EaseCeiling: cfg.Engine.EaseCeiling,
	})
	if err != nil {
		return nil, fmt.Errorf("building scheduling parameters: %w", err)
	}
	srsService := srs.NewServiceWithParams(params)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	ledger, err := progress.NewLedger(progress.DefaultLevelTable(), app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("building progression ledger: %w", err)
	}

	tracker, err := progress.NewTracker(cfg.Engine.RiskHour)
	if err != nil {
		return nil, fmt.Errorf("building streak tracker: %w", err)
	}

	clock := srs.NewClock()
	app.reviewService = review.NewReviewService(
		db,
		app.itemStore,
		app.progressStore,
		srsService,
		ledger,
		tracker,
		app.eventEmitter,
		clock,
		logger,
	)

	app.streakWatcher = jobs.NewStreakWatcher(
		app.progressStore,
		tracker,
		app.eventEmitter,
		clock,
		logger,
	)

	logger.Info("application initialized")
	return app, nil
}

// Run starts the background jobs and the HTTP server, blocking until
// shutdown completes.
func (app *application) Run(ctx context.Context) error {
	if err := app.streakWatcher.Start(ctx); err != nil {
		return fmt.Errorf("starting streak watcher: %w", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops background jobs and releases shared resources.
func (app *application) cleanup() {
	if app.streakWatcher != nil {
		app.streakWatcher.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
