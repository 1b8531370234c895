package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmlarson/deckard/internal/config"
	"github.com/jmlarson/deckard/internal/domain/scheduler"
	"github.com/jmlarson/deckard/internal/events"
	"github.com/jmlarson/deckard/internal/generation"
	"github.com/jmlarson/deckard/internal/platform/gemini"
	"github.com/jmlarson/deckard/internal/platform/postgres"
	"github.com/jmlarson/deckard/internal/service"
	"github.com/jmlarson/deckard/internal/service/auth"
	"github.com/jmlarson/deckard/internal/service/review"
	"github.com/jmlarson/deckard/internal/store"
	"github.com/jmlarson/deckard/internal/task"
)

// application holds the shared application dependencies so wiring happens
// in one place and cleanup can walk them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore    store.UserStore
	cardStore    store.CardStore
	noteStore    store.NoteStore
	schedStore   store.SchedulingStore
	logStore     store.ReviewLogStore
	sessionStore store.SessionStore
	taskStore    task.TaskStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        generation.Generator
	cardService      service.CardService
	noteService      service.NoteService
	reviewService    review.ReviewService

	// Background processing
	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication wires every dependency. Core resources (config, logger,
// database) must already be established by the caller.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.noteStore = postgres.NewPostgresNoteStore(db, logger)
	app.schedStore = postgres.NewPostgresSchedulingStore(db, logger)
	app.logStore = postgres.NewPostgresReviewLogStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.generator, err = gemini.NewGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", "model", cfg.LLM.ModelName)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	app.cardService = service.NewCardService(db, app.cardStore, logger)

	app.noteService, err = service.NewNoteService(db, app.noteStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create note service: %w", err)
	}

	app.reviewService = review.NewReviewService(
		db,
		app.cardStore,
		app.schedStore,
		app.logStore,
		app.sessionStore,
		scheduler.NewDefaultService(),
		cfg.Review.BatchSize,
		cfg.Review.DueFetchLimit,
		logger,
	)

	if err := app.setupTaskPipeline(); err != nil {
		return nil, err
	}

	logger.Info("application initialized")
	return app, nil
}

// setupTaskPipeline starts the background task runner and registers the
// event handler that turns note events into generation tasks.
func (app *application) setupTaskPipeline() error {
	app.taskRunner = task.NewTaskRunner(
		app.taskStore,
		task.DefaultTaskRunnerConfig(),
		app.logger,
	)
	if err := app.taskRunner.Start(); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	// The task reads and updates notes without a user in context, so it
	// gets direct store access for reads and the service for the guarded
	// status transitions.
	noteAccess := task.NewNoteServiceAdapter(
		app.noteStore.GetByID,
		app.noteService.UpdateNoteStatus,
	)

	taskFactory := task.NewNoteGenerationTaskFactory(
		noteAccess,
		app.generator,
		app.cardService,
		app.logger,
	)

	handler := task.NewTaskFactoryEventHandler(taskFactory, app.taskRunner, app.logger)
	app.eventEmitter.RegisterHandler(handler)
	return nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources in reverse dependency order.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
