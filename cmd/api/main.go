// Package main is the entrypoint for the car sharing API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/carsharing/carsharing/internal/cache"
	"github.com/carsharing/carsharing/internal/config"
	"github.com/carsharing/carsharing/internal/handler"
	"github.com/carsharing/carsharing/internal/ledger"
	"github.com/carsharing/carsharing/internal/metrics"
	"github.com/carsharing/carsharing/internal/middleware"
	"github.com/carsharing/carsharing/internal/repository"
	"github.com/carsharing/carsharing/internal/server"
	"github.com/carsharing/carsharing/internal/service"
)

func main() {
	// run logs its own failures; deferred cleanup has already happened here.
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

// run wires the service and blocks until it shuts down.
func run(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger := initLogger(cfg)

	// Car store
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return err
	}
	defer repo.Close()
	logger.Info("connected to database")

	if err := repo.Migrate(ctx); err != nil {
		logger.Error("failed to migrate database", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
		return err
	}

	// Trip ledger; the process cannot serve trips without it.
	tripLedger, err := ledger.Load(cfg.LedgerPath)
	if err != nil {
		logger.Error("failed to load trip ledger",
			slog.String("error", err.Error()),
			slog.String("path", cfg.LedgerPath),
		)
		return err
	}
	logger.Info("loaded trip ledger", "path", tripLedger.Path(), "cars", tripLedger.Len())

	// Optional Redis for rate limiting
	var cacheClient *cache.Cache
	var cacheChecker handler.HealthChecker
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return err
		}
		defer cacheClient.Close()
		cacheChecker = cacheClient
		logger.Info("connected to Redis")
	}

	// Services
	recorder := metrics.NewInMemory()
	carService := service.NewCarService(repo, recorder)
	tripService := service.NewTripService(tripLedger, recorder)

	// Router
	var rateLimit *middleware.RateLimitConfig
	if cfg.RateLimitActive() {
		rateLimit = &middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: cacheClient,
			Enabled: true,
			RPS:     cfg.RateLimitRPS,
			Burst:   cfg.RateLimitBurst,
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.AllowedOrigins()
	corsCfg.MaxAge = cfg.CORSMaxAge

	r := handler.NewRouter(handler.RouterConfig{
		Root: handler.New(),
		Health: handler.NewHealthHandler(
			handler.Dependency{Name: "postgres", Checker: repo},
			handler.Dependency{Name: "ledger", Checker: tripLedger},
			handler.Dependency{Name: "redis", Checker: cacheChecker},
		),
		Metrics: handler.NewMetricsHandler(recorder),
		Cars:    handler.NewCarHandler(carService, logger),
		Trips:   handler.NewTripHandler(tripService, logger),
		Logger:  logger,
		Security: middleware.SecurityConfig{
			IsDevelopment:      cfg.IsDevelopment(),
			MaxRequestBodySize: cfg.MaxRequestBodySize,
		},
		CORS:      corsCfg,
		RateLimit: rateLimit,
	})

	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Flush the ledger once more after in-flight requests drain.
	srv.OnShutdown("ledger", func(ctx context.Context) error {
		return tripLedger.Save()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"rate_limit", rateLimit != nil,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		return err
	}

	return nil
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
