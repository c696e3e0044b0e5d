package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HammerMeetNail/friendfeed/internal/config"
	"github.com/HammerMeetNail/friendfeed/internal/database"
	"github.com/HammerMeetNail/friendfeed/internal/handlers"
	"github.com/HammerMeetNail/friendfeed/internal/logging"
	"github.com/HammerMeetNail/friendfeed/internal/middleware"
	"github.com/HammerMeetNail/friendfeed/internal/services"
	"github.com/HammerMeetNail/friendfeed/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", logging.Fields{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := logging.ParseLevel(cfg.Server.LogLevel)
	if cfg.Server.Debug {
		level = logging.LevelDebug
	}
	logging.SetDefaultLevel(level)
	logger := logging.Default.WithField("service", "friendfeed")

	logger.Info("Starting friendfeed server...", logging.Fields{"env": cfg.Server.Environment})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName, cfg.Server.Environment, cfg.Telemetry.Insecure)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Warn("Tracer shutdown failed", logging.Fields{"error": err.Error()})
		}
	}()
	if cfg.Telemetry.OTLPEndpoint != "" {
		logger.Info("Tracing enabled", logging.Fields{"endpoint": cfg.Telemetry.OTLPEndpoint})
	}

	logger.Info("Connecting to PostgreSQL", logging.Fields{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	if version, dirty, err := migrator.Version(); err == nil {
		logger.Info("Migrations completed", logging.Fields{"version": version, "dirty": dirty})
	}
	_ = migrator.Close()

	logger.Info("Connecting to Redis", logging.Fields{"addr": cfg.Redis.Addr()})
	redisDB, err := database.NewRedisDB(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()

	var events services.EventPublisher = services.NopPublisher{}
	var natsConn *database.NatsConn
	if cfg.Events.Enabled() {
		logger.Info("Connecting to NATS", logging.Fields{"url": cfg.Events.NatsURL})
		natsConn, err = database.NewNatsConn(cfg.Events.NatsURL, "friendfeed")
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		defer func() { _ = natsConn.Close() }()
		events = services.NewNatsPublisher(natsConn.Conn, cfg.Events.SubjectPrefix)
	} else {
		logger.Warn("NATS_URL not set; relationship and post events are disabled")
	}

	dbAdapter := services.NewPoolAdapter(db.Pool)
	redisAdapter := services.NewRedisAdapter(redisDB.Client)

	userService := services.NewUserService(dbAdapter)
	authService := services.NewAuthService(userService, redisAdapter, cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	relationshipService := services.NewRelationshipService(dbAdapter, events)
	postService := services.NewPostService(dbAdapter, relationshipService, events)
	feedService := services.NewFeedService(relationshipService, postService, cfg.Feed.MaxLimit)
	blockService := services.NewBlockService(dbAdapter)

	healthHandler := handlers.NewHealthHandler(db, redisDB)
	if natsConn != nil {
		healthHandler = healthHandler.WithEvents(natsConn)
	}
	authHandler := handlers.NewAuthHandler(userService, authService)
	userHandler := handlers.NewUserHandler(userService, postService, blockService, cfg.Feed.DefaultLimit)
	relationshipHandler := handlers.NewRelationshipHandler(relationshipService)
	feedHandler := handlers.NewFeedHandler(feedService, cfg.Feed.DefaultLimit)
	postHandler := handlers.NewPostHandler(postService)
	blockHandler := handlers.NewBlockHandler(blockService)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	securityHeaders := middleware.NewSecurityHeaders(cfg.Server.Secure)
	requestLogger := middleware.NewRequestLogger(logger)
	apiLimiter := middleware.NewAPIRateLimiter(redisDB.Client, cfg.RateLimit.PerMinute)
	authLimiter := middleware.NewAuthRateLimiter(redisDB.Client)

	auth := authMiddleware.RequireAuthFunc

	mux := http.NewServeMux()

	// Health endpoints (no auth, no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Auth endpoints
	mux.Handle("POST /api/auth/register", authLimiter.Limit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", authLimiter.Limit(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/auth/logout", auth(authHandler.Logout))
	mux.Handle("GET /api/auth/me", auth(authHandler.Me))

	// User endpoints
	mux.Handle("GET /api/users/search", auth(userHandler.Search))
	mux.Handle("GET /api/users/{id}", auth(userHandler.Get))
	mux.Handle("GET /api/users/{id}/posts", auth(userHandler.Posts))

	// Relationship endpoints
	mux.Handle("POST /api/relationships", auth(relationshipHandler.Request))
	mux.Handle("GET /api/relationships", auth(relationshipHandler.List))
	mux.Handle("GET /api/relationships/pending", auth(relationshipHandler.Pending))
	mux.Handle("GET /api/relationships/sent", auth(relationshipHandler.Sent))
	mux.Handle("GET /api/relationships/counts", auth(relationshipHandler.Counts))
	mux.Handle("GET /api/relationships/with/{userID}", auth(relationshipHandler.With))
	mux.Handle("PUT /api/relationships/{id}/accept", auth(relationshipHandler.Accept))
	mux.Handle("PUT /api/relationships/{id}/reject", auth(relationshipHandler.Reject))
	mux.Handle("DELETE /api/relationships/{id}/cancel", auth(relationshipHandler.Cancel))
	mux.Handle("DELETE /api/relationships/{id}", auth(relationshipHandler.Remove))

	// Feed and post endpoints
	mux.Handle("GET /api/feed", auth(feedHandler.Get))
	mux.Handle("POST /api/posts", auth(postHandler.Create))
	mux.Handle("GET /api/posts/{id}", auth(postHandler.Get))
	mux.Handle("DELETE /api/posts/{id}", auth(postHandler.Delete))

	// Block endpoints
	mux.Handle("POST /api/blocks", auth(blockHandler.Block))
	mux.Handle("DELETE /api/blocks/{id}", auth(blockHandler.Unblock))
	mux.Handle("GET /api/blocks", auth(blockHandler.List))

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = apiLimiter.Limit(handler)
	handler = securityHeaders.Apply(handler)
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", logging.Fields{"addr": addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Server is shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	server.SetKeepAlivesEnabled(false)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Could not gracefully shutdown the server")
	}

	logger.Info("Server stopped")
	return nil
}
