// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/escalapronta/web/internal/analytics"
	"github.com/escalapronta/web/internal/api"
	"github.com/escalapronta/web/internal/auth"
	"github.com/escalapronta/web/internal/billing"
	"github.com/escalapronta/web/internal/config"
	"github.com/escalapronta/web/internal/core"
	"github.com/escalapronta/web/internal/employees"
	"github.com/escalapronta/web/internal/feedback"
	"github.com/escalapronta/web/internal/health"
	"github.com/escalapronta/web/internal/middleware"
	"github.com/escalapronta/web/internal/schedule"
	"github.com/escalapronta/web/internal/server"
	"github.com/escalapronta/web/internal/session"
	"github.com/escalapronta/web/internal/web"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	//nolint:errcheck // a missing .env file is the normal production case
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	apiClient := api.New(cfg.API)
	logger.Info("scheduling api client ready",
		"base_url", cfg.API.BaseURL,
	)

	sessions, err := session.NewManager(
		session.NewRedisStore(redis.Client),
		cfg.Session,
	)
	if err != nil {
		return err
	}

	renderer, err := web.NewRenderer(cfg.Site)
	if err != nil {
		return err
	}

	analyticsClient := analytics.New(cfg.Analytics, logger)
	emailjs := feedback.NewEmailJS(cfg.EmailJS)

	webHandler := web.NewHandler(renderer, sessions, cfg.Site)
	authHandler := auth.NewHandler(apiClient, sessions, analyticsClient, renderer)
	employeesHandler := employees.NewHandler(apiClient, sessions, analyticsClient, renderer)
	scheduleHandler := schedule.NewHandler(apiClient, sessions, analyticsClient, renderer)
	billingHandler := billing.NewHandler(apiClient, sessions, analyticsClient, renderer)
	feedbackHandler := feedback.NewHandler(emailjs, sessions, analyticsClient)

	healthHandler := health.NewHandler(redis, apiClient)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(analytics.PageViews(analyticsClient, func(r *http.Request) string {
		if sess, sessErr := sessions.Get(r); sessErr == nil {
			return sess.ID
		}
		return ""
	}))

	healthHandler.RegisterRoutes(router)

	webHandler.RegisterRoutes(router)
	authHandler.RegisterRoutes(router)
	employeesHandler.RegisterRoutes(router)
	scheduleHandler.RegisterRoutes(router)
	billingHandler.RegisterRoutes(router)

	// Feedback gets its own tighter budget: it relays to a paid
	// third-party service.
	router.Group(func(r chi.Router) {
		r.Use(
			middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
				Limit: middleware.PerHour(
					cfg.RateLimit.FeedbackPerHour,
					cfg.RateLimit.FeedbackBurst,
				),
				KeyFunc:  middleware.KeyByIPAndScope("feedback"),
				FailOpen: true,
			}).Handler,
		)
		feedbackHandler.RegisterRoutes(r)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
