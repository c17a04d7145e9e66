package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/teagan-pado/contacts-application/internal/config"
	"github.com/teagan-pado/contacts-application/internal/events"
	"github.com/teagan-pado/contacts-application/internal/job"
	"github.com/teagan-pado/contacts-application/internal/platform/postgres"
	"github.com/teagan-pado/contacts-application/internal/service"
	"github.com/teagan-pado/contacts-application/internal/service/auth"
	"github.com/teagan-pado/contacts-application/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	contactStore    store.ContactStore
	bookStore       store.ContactBookStore
	membershipStore store.MembershipStore
	jobStore        job.JobStore

	// Service interfaces
	jwtService     auth.JWTService
	contactService service.ContactService

	// Event system
	eventEmitter events.EventEmitter

	// Background job handling
	jobRunner *job.JobRunner
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize stores
	app.contactStore = postgres.NewPostgresContactStore(db)
	app.bookStore = postgres.NewPostgresContactBookStore(db)
	app.membershipStore = postgres.NewPostgresMembershipStore(db)
	app.jobStore = postgres.NewPostgresJobStore(db)

	// Initialize event emitter
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)

	// Initialize the job runner
	app.jobRunner = job.NewJobRunner(app.jobStore, job.JobRunnerConfig{
		WorkerCount:    cfg.Job.WorkerCount,
		QueueSize:      cfg.Job.QueueSize,
		MaxAttempts:    cfg.Job.MaxAttempts,
		RetryBaseDelay: time.Duration(cfg.Job.RetryBaseDelayMs) * time.Millisecond,
		MaxJobAge:      time.Duration(cfg.Job.MaxJobAgeMinutes) * time.Minute,
		StuckJobAge:    time.Duration(cfg.Job.StuckJobAgeMinutes) * time.Minute,
	}, logger)

	// Create the job factory; it doubles as the resolver that rebuilds
	// executable jobs from persisted records during recovery.
	jobFactory := job.NewCreateContactJobFactory(
		app.contactStore,
		app.bookStore,
		app.eventEmitter,
		logger.With("component", "create_contact_job"),
	)
	app.jobRunner.SetResolver(jobFactory)

	// Dead-lettered creation jobs surface as contact.create_failed events so
	// other components can observe the failure.
	app.jobRunner.SetFailureHandler(func(failed job.Job, cause error) {
		event, eventErr := events.NewEvent(events.TypeContactCreateFailed, map[string]string{
			"job_id": failed.ID().String(),
			"reason": cause.Error(),
		})
		if eventErr != nil {
			logger.Error("failed to build contact.create_failed event",
				"job_id", failed.ID(), "error", eventErr)
			return
		}
		if emitErr := app.eventEmitter.EmitEvent(context.Background(), event); emitErr != nil {
			logger.Error("failed to emit contact.create_failed event",
				"job_id", failed.ID(), "error", emitErr)
		}
	})

	// Register the handler that turns creation-request events into queued jobs
	createHandler := job.NewContactCreateEventHandler(
		jobFactory,
		app.jobRunner,
		logger.With("component", "contact_create_event_handler"),
	)
	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(createHandler)
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register job handler")
	}

	// Create required adapters
	contactRepoAdapter := service.NewContactRepositoryAdapter(app.contactStore, app.db)

	// Initialize contact service
	app.contactService, err = service.NewContactService(
		contactRepoAdapter,
		app.bookStore,
		app.membershipStore,
		app.eventEmitter,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact service: %w", err)
	}

	// Start the runner last so recovery sees a fully wired resolver
	if err := app.jobRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start job runner: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop job runner
	if app.jobRunner != nil {
		app.jobRunner.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
