package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"mentorlink/docs"
	"mentorlink/internal/auth"
	"mentorlink/internal/cache"
	"mentorlink/internal/config"
	"mentorlink/internal/database"
	"mentorlink/internal/events"
	"mentorlink/internal/feed"
	handlers "mentorlink/internal/http/handler"
	"mentorlink/internal/http/middleware"
	"mentorlink/internal/logging"
	"mentorlink/internal/otel"
	"mentorlink/internal/repository/postgres"
	"mentorlink/internal/service"
	"mentorlink/internal/storage"
)

// @title MentorLink API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.JWT.Secret == "" {
		logger.Fatal(ctx, "JWT_SECRET is required")
	}

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Fatal(ctx, "cannot initialize tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn(flushCtx, "tracing shutdown failed", zap.Error(err))
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logger.Fatal(ctx, "cannot connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal(ctx, "cannot apply migrations", zap.Error(err))
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		logger.Fatal(ctx, "cannot initialize object storage", zap.Error(err))
	}

	// Category cache. Redis being down only costs cache hits, never requests.
	var store cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(cfg.Redis)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, running without cache", zap.Error(err))
		} else {
			defer rdb.Close()
			store = cache.NewRedis(rdb)
		}
	}

	// Lifecycle notifications. Without brokers the publisher is a noop.
	var pub events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka)
		defer kp.Close()
		pub = kp
	}

	registry := prometheus.NewRegistry()

	// Document change feed: LISTEN/NOTIFY into the hub, fanned out to SSE
	// subscribers.
	feedMetrics, err := feed.NewMetrics(registry)
	if err != nil {
		logger.Fatal(ctx, "cannot register feed metrics", zap.Error(err))
	}
	hub := feed.NewHub(cfg.Feed.SubscriberBuffer, logger, feedMetrics)

	dsn, err := database.BuildPostgresDSN(cfg.Database)
	if err != nil {
		logger.Fatal(ctx, "invalid database config", zap.Error(err))
	}
	listener := feed.NewListener(dsn, cfg.Feed.Channel, hub, logger, feedMetrics)
	go func() {
		if err := listener.Run(ctx); err != nil {
			logger.Error(ctx, "document feed stopped", zap.Error(err))
		}
	}()

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	catRepo := postgres.NewCategoryPostgres(db)
	assignRepo := postgres.NewAssignmentPostgres(db)

	tokens := auth.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TokenTTLMin)*time.Minute)

	authSvc := service.NewAuthService(userRepo, tokens)
	docSvc := service.NewDocumentService(objStore, docRepo, pub, logger)
	catSvc := service.NewCategoryService(catRepo, store, time.Duration(cfg.Redis.CategoryTTLSec)*time.Second, logger)
	assignSvc := service.NewAssignmentService(assignRepo, userRepo)
	userSvc := service.NewUserService(userRepo)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := authSvc.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			logger.Warn(ctx, "cannot seed admin account", zap.Error(err))
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	promMw, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		logger.Fatal(ctx, "cannot register http metrics", zap.Error(err))
	}

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.RequestLogger(logger))
	app.Use(promMw.Handler())

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, handlers.Deps{
		DB:          db,
		Metrics:     registry,
		Tokens:      tokens,
		Auth:        authSvc,
		Documents:   docSvc,
		Categories:  catSvc,
		Assignments: assignSvc,
		Users:       userSvc,
		DocRepo:     docRepo,
		AssignRepo:  assignRepo,
		Hub:         hub,
		Log:         logger,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	logger.Info(ctx, "server listening", zap.String("addr", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			logger.Fatal(ctx, "failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")

	// Closing the hub ends every active stream; Shutdown then drains the
	// remaining short requests.
	hub.Close()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error(context.Background(), "server shutdown failed", zap.Error(err))
	}
}
