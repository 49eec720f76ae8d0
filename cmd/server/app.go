package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/hearthsidehq/hearthside-api/internal/config"
	"github.com/hearthsidehq/hearthside-api/internal/platform/postgres"
	"github.com/hearthsidehq/hearthside-api/internal/service"
	"github.com/hearthsidehq/hearthside-api/internal/service/auth"
	"github.com/hearthsidehq/hearthside-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	memberStore   store.MemberStore
	circleStore   store.CircleStore
	storyStore    store.StoryStore
	timelineStore store.TimelineStore
	eventStore    store.EventStore

	// Service interfaces
	jwtService      auth.JWTService
	memberService   service.MemberService
	circleService   service.CircleService
	storyService    service.StoryService
	timelineService service.TimelineService
	searchService   service.SearchService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
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

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	verifier := auth.NewBcryptVerifier()

	// Stores
	app.memberStore = postgres.NewPostgresMemberStore(db, logger)
	app.circleStore = postgres.NewPostgresCircleStore(db, logger)
	app.storyStore = postgres.NewPostgresStoryStore(db, logger)
	app.timelineStore = postgres.NewPostgresTimelineStore(db, logger)
	app.eventStore = postgres.NewPostgresEventStore(db, logger)

	// Membership is resolved fresh per request; the resolver is the only
	// shared piece of visibility plumbing.
	resolver := service.NewMembershipResolver(app.circleStore, logger)

	// Services
	app.memberService = service.NewMemberService(app.memberStore, hasher, verifier, db, logger)
	app.circleService = service.NewCircleService(app.circleStore, app.memberStore, db, logger)
	app.storyService = service.NewStoryService(app.storyStore, app.circleStore, resolver, db, logger)
	app.timelineService = service.NewTimelineService(app.timelineStore, app.eventStore, db, logger)
	app.searchService = service.NewSearchService(
		app.storyStore, app.timelineStore, app.eventStore, resolver, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
