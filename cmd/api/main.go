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

	"github.com/techsyncfriends/hub/internal/access"
	"github.com/techsyncfriends/hub/internal/admin"
	"github.com/techsyncfriends/hub/internal/app"
	"github.com/techsyncfriends/hub/internal/auth"
	"github.com/techsyncfriends/hub/internal/comment"
	"github.com/techsyncfriends/hub/internal/config"
	"github.com/techsyncfriends/hub/internal/core"
	"github.com/techsyncfriends/hub/internal/health"
	"github.com/techsyncfriends/hub/internal/like"
	"github.com/techsyncfriends/hub/internal/metrics"
	"github.com/techsyncfriends/hub/internal/middleware"
	"github.com/techsyncfriends/hub/internal/post"
	"github.com/techsyncfriends/hub/internal/profile"
	"github.com/techsyncfriends/hub/internal/server"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
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

	logger := app.NewLogger(cfg.Log, os.Stdout)
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

	hub, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: hub.DB},
		health.Dependency{Name: "redis", Checker: hub.Redis, Optional: true},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	if telemetry != nil {
		router.Use(middleware.Tracing)
	}
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(hub.Metrics.Middleware)
	}
	router.Use(
		middleware.NewRateLimiter(hub.Redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler(hub.Registry))
	}

	router.Get("/.well-known/jwks.json", hub.JWT.JWKSHandler())

	authenticator := middleware.Authenticator(hub.Auth)
	optionalAuth := middleware.OptionalAuth(hub.Auth)

	feedGuard := chain(optionalAuth, hub.Gate.Middleware, access.RequireFeed)
	adminGuard := chain(authenticator, hub.Gate.Middleware, access.RequireAdmin)

	authThrottle := middleware.NewRateLimiter(
		hub.Redis.Client,
		middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.AuthRequests,
				cfg.RateLimit.AuthBurst,
			),
			FailOpen: true,
			Scope:    "auth",
		},
	).Handler

	router.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

		auth.NewHandler(hub.Auth, hub.Screener).RegisterRoutes(r, auth.RouteGuards{
			Authenticator: authenticator,
			OptionalAuth:  optionalAuth,
			Gate:          hub.Gate.Middleware,
			Throttle:      authThrottle,
		})

		profile.NewHandler(hub.Profiles).RegisterRoutes(r, authenticator)

		post.NewHandler(hub.Posts).RegisterRoutes(r, feedGuard)
		like.NewHandler(hub.Likes).RegisterRoutes(r, feedGuard)
		comment.NewHandler(hub.Comments).RegisterRoutes(r, feedGuard)

		admin.NewHandler(hub.Members, hub.Stats).RegisterRoutes(r, adminGuard)
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

	if err := hub.Close(); err != nil {
		logger.Error("close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func chain(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(mws...).Handler(next)
	}
}
