// AngelaMos | 2026
// stats.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"runtime"

	"github.com/redis/go-redis/v9"

	"github.com/techsyncfriends/hub/internal/profile"
)

// StatsConfig holds the probes behind GET /admin/stats. Nil probes are
// omitted from the report.
type StatsConfig struct {
	DBStats    func() sql.DBStats
	DBPing     func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	Members    func(ctx context.Context) (profile.Counts, error)
	Posts      func(ctx context.Context) (int, error)
}

type Stats struct {
	cfg StatsConfig
}

func NewStats(cfg StatsConfig) *Stats {
	return &Stats{cfg: cfg}
}

type StatsReport struct {
	Community CommunityStats `json:"community"`
	Database  ServiceStatus  `json:"database"`
	Redis     ServiceStatus  `json:"redis"`
	Runtime   RuntimeStats   `json:"runtime"`
}

type CommunityStats struct {
	Members *profile.Counts `json:"members,omitempty"`
	Posts   *int            `json:"posts,omitempty"`
}

type ServiceStatus struct {
	Healthy bool `json:"healthy"`
	Pool    any  `json:"pool,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	NumGC        uint32 `json:"num_gc"`
}

// Collect never fails. A probe that errors marks its section unhealthy or
// leaves it out.
func (s *Stats) Collect(ctx context.Context) StatsReport {
	report := StatsReport{
		Database: ServiceStatus{Healthy: probe(ctx, "database", s.cfg.DBPing)},
		Redis:    ServiceStatus{Healthy: probe(ctx, "redis", s.cfg.RedisPing)},
		Runtime:  readRuntimeStats(),
	}

	if s.cfg.DBStats != nil {
		st := s.cfg.DBStats()
		report.Database.Pool = DBPoolStats{
			MaxOpenConnections: st.MaxOpenConnections,
			OpenConnections:    st.OpenConnections,
			InUse:              st.InUse,
			Idle:               st.Idle,
			WaitCount:          st.WaitCount,
			WaitDuration:       st.WaitDuration.String(),
		}
	}

	if s.cfg.RedisStats != nil {
		if st := s.cfg.RedisStats(); st != nil {
			report.Redis.Pool = RedisPoolStats{
				Hits:       st.Hits,
				Misses:     st.Misses,
				Timeouts:   st.Timeouts,
				TotalConns: st.TotalConns,
				IdleConns:  st.IdleConns,
			}
		}
	}

	if s.cfg.Members != nil {
		if counts, err := s.cfg.Members(ctx); err == nil {
			report.Community.Members = &counts
		} else {
			slog.Warn("member counts unavailable", "error", err)
		}
	}

	if s.cfg.Posts != nil {
		if n, err := s.cfg.Posts(ctx); err == nil {
			report.Community.Posts = &n
		} else {
			slog.Warn("post count unavailable", "error", err)
		}
	}

	return report
}

func probe(ctx context.Context, name string, ping func(context.Context) error) bool {
	if ping == nil {
		return true
	}
	if err := ping(ctx); err != nil {
		slog.Warn("stats probe failed", "service", name, "error", err)
		return false
	}
	return true
}

func readRuntimeStats() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		MemAlloc:     mem.Alloc,
		NumGC:        mem.NumGC,
	}
}
