package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-mentorship/internal/config"
	"github.com/noah-isme/gema-mentorship/internal/database"
	"github.com/noah-isme/gema-mentorship/internal/engine"
	"github.com/noah-isme/gema-mentorship/internal/handler"
	"github.com/noah-isme/gema-mentorship/internal/middleware"
	"github.com/noah-isme/gema-mentorship/internal/router"
	"github.com/noah-isme/gema-mentorship/internal/service"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level).With().Str("service", cfg.AppName).Logger()

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(ctx, cfg.RedisURL, database.RedisOptions{ClientName: cfg.AppName})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, events stay local")
		} else {
			defer natsConn.Drain()
		}
	}

	st, err := openStore(cfg, redisClient)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}

	catalog := service.DefaultTestCatalog()
	if cfg.TestCatalogFile != "" {
		catalog, err = service.LoadTestCatalog(cfg.TestCatalogFile)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.TestCatalogFile).Msg("failed to load test catalog")
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	eng := engine.New(engine.Dependencies{
		Store:       st,
		Catalog:     catalog,
		MaxAttempts: cfg.TestMaxAttempts,
		Events:      service.NewActivityService(redisClient, natsConn, cfg.EventsChannel, logger),
		Validator:   validate,
		Logger:      logger,
	})

	seeder := service.NewSeedService(eng.Locker(), cfg.SeedEnabled, logger)
	if report, err := seeder.Seed(ctx); err != nil {
		if !errors.Is(err, service.ErrSeedDisabled) {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
	} else {
		logger.Info().Interface("report", report).Msg("demo data loaded")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		ProjectHandler:     handler.NewProjectHandler(eng, logger),
		ApplicationHandler: handler.NewApplicationHandler(eng, logger),
		SubmissionHandler:  handler.NewSubmissionHandler(eng, logger),
		StudentHandler:     handler.NewStudentHandler(eng, logger),
		TestHandler:        handler.NewTestHandler(eng, logger),
		OverviewHandler:    handler.NewOverviewHandler(eng, logger),
		SeedHandler:        handler.NewSeedHandler(seeder, logger),
		Store:              st,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
		RateLimiter:        middleware.RateLimit("mutations", cfg.RateLimitMax, cfg.RateLimitWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, cfg.ShutdownTimeout, logger)
}

func openStore(cfg config.Config, redisClient *redis.Client) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := database.ConnectSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db)
	case config.StorePostgres:
		db, err := database.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store.NewSQLStore(db)
	case config.StoreRedis:
		return store.NewRedisStore(redisClient, cfg.RedisKeyPrefix), nil
	default:
		return store.NewMemoryStore(), nil
	}
}

func waitForShutdown(app *fiber.App, timeout time.Duration, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
