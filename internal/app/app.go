// AngelaMos | 2026
// app.go

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/techsyncfriends/hub/internal/access"
	"github.com/techsyncfriends/hub/internal/admin"
	"github.com/techsyncfriends/hub/internal/auth"
	"github.com/techsyncfriends/hub/internal/comment"
	"github.com/techsyncfriends/hub/internal/config"
	"github.com/techsyncfriends/hub/internal/core"
	"github.com/techsyncfriends/hub/internal/like"
	"github.com/techsyncfriends/hub/internal/metrics"
	"github.com/techsyncfriends/hub/internal/post"
	"github.com/techsyncfriends/hub/internal/profile"
	"github.com/techsyncfriends/hub/internal/registration"
)

// App holds every long lived dependency of the hub. The API server and
// hubctl both build one.
type App struct {
	Config   *config.Config
	DB       *core.Database
	Redis    *core.Redis
	Registry *prometheus.Registry
	Metrics  *metrics.Collector
	JWT      *auth.JWTManager
	Gate     *access.Gate
	Screener *registration.Screener

	Profiles *profile.Service
	Auth     *auth.Service
	Posts    *post.Service
	Likes    *like.Service
	Comments *comment.Service
	Members  *admin.MemberService
	Stats    *admin.Stats
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.Database.AutoMigrate {
		if err := core.RunMigrations(cfg.Database.URL); err != nil {
			return nil, err
		}
		slog.Info("database migrations applied")
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	slog.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, err
	}
	slog.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		_ = rdb.Close() //nolint:errcheck // already failing
		_ = db.Close()  //nolint:errcheck // already failing
		return nil, err
	}
	slog.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	registry := metrics.NewRegistry()
	collector := metrics.NewCollector(registry)

	profileSvc := profile.NewService(profile.NewRepository(db.DB))

	gate := access.NewGate(
		profileSvc,
		access.NewRedisCache(rdb.Client, cfg.Gate.CacheTTL),
		collector,
	)

	screener := registration.NewScreener(
		registration.NewGuard(cfg.Registration.MinFillTime),
		registration.NewRedisFormStore(rdb.Client, cfg.Registration.FormTTL),
		cfg.Registration.FormTTL,
		collector,
	)

	authSvc := auth.NewService(auth.Deps{
		Repo:      auth.NewRepository(db.DB),
		JWT:       jwtManager,
		Profiles:  profileSvc,
		Viewers:   gate,
		Screener:  screener,
		Blacklist: auth.NewRedisBlacklist(rdb.Client),
		RunInTx:   db.RunInTx,
		Recorder:  collector,
	})

	postSvc := post.NewService(post.NewRepository(db.DB), collector)

	stats := admin.NewStats(admin.StatsConfig{
		DBStats:    db.Stats,
		DBPing:     db.Ping,
		RedisStats: rdb.PoolStats,
		RedisPing:  rdb.Ping,
		Members:    profileSvc.Counts,
		Posts:      postSvc.Count,
	})

	return &App{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Registry: registry,
		Metrics:  collector,
		JWT:      jwtManager,
		Gate:     gate,
		Screener: screener,
		Profiles: profileSvc,
		Auth:     authSvc,
		Posts:    postSvc,
		Likes:    like.NewService(like.NewRepository(db.DB), postSvc, collector),
		Comments: comment.NewService(comment.NewRepository(db.DB), postSvc, collector),
		Members:  admin.NewMemberService(profileSvc, gate, collector),
		Stats:    stats,
	}, nil
}

// Close releases the Redis and database pools.
func (a *App) Close() error {
	var errs []error
	if err := a.Redis.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close redis: %w", err))
	}
	if err := a.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}

func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
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

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
