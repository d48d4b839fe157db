// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v10"
)

type stubAllower struct {
	keys    []string
	err     error
	allowed int
}

func (s *stubAllower) Allow(
	_ context.Context,
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return nil, s.err
	}
	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    s.allowed,
		Remaining:  limit.Burst - 1,
		RetryAfter: 3 * time.Second,
		ResetAfter: time.Second,
	}, nil
}

var noContent = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/signin", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterUsesRedisResult(t *testing.T) {
	allower := &stubAllower{allowed: 0}
	h := NewRateLimiterWith(allower, RateLimitConfig{
		Limit: PerMinute(10, 5),
		Scope: "auth",
	}).Handler(noContent)

	rec := hit(h, "203.0.113.7:5555")

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "3" {
		t.Errorf("Retry-After = %q, want 3", got)
	}
	if len(allower.keys) != 1 || allower.keys[0] != "auth:ratelimit:ip:203.0.113.7" {
		t.Errorf("keys = %v", allower.keys)
	}
}

func TestRateLimiterFallsBackWhenRedisDown(t *testing.T) {
	allower := &stubAllower{err: errors.New("dial tcp: connection refused")}
	h := NewRateLimiterWith(allower, RateLimitConfig{
		Limit: PerHour(1, 2),
	}).Handler(noContent)

	for i := range 2 {
		if rec := hit(h, "198.51.100.1:1"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d, want 204", i, rec.Code)
		}
	}

	if rec := hit(h, "198.51.100.1:1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over burst status = %d, want 429", rec.Code)
	}

	if rec := hit(h, "198.51.100.2:1"); rec.Code != http.StatusNoContent {
		t.Fatalf("other client status = %d, want 204", rec.Code)
	}
}

func TestRateLimiterFailOpen(t *testing.T) {
	allower := &stubAllower{err: errors.New("redis down")}
	invalid := redis_rate.Limit{}

	open := NewRateLimiterWith(allower, RateLimitConfig{Limit: invalid, FailOpen: true}).Handler(noContent)
	if rec := hit(open, "192.0.2.1:1"); rec.Code != http.StatusNoContent {
		t.Fatalf("fail open status = %d", rec.Code)
	}

	closed := NewRateLimiterWith(allower, RateLimitConfig{Limit: invalid}).Handler(noContent)
	if rec := hit(closed, "192.0.2.1:1"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("fail closed status = %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "remote addr", remote: "192.0.2.10:443", want: "192.0.2.10"},
		{
			name:    "last forwarded hop",
			headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 192.0.2.20"},
			remote:  "127.0.0.1:1",
			want:    "192.0.2.20",
		},
		{
			name:    "real ip",
			headers: map[string]string{"X-Real-IP": "192.0.2.30"},
			remote:  "127.0.0.1:1",
			want:    "192.0.2.30",
		},
		{name: "no port", remote: "192.0.2.40", want: "192.0.2.40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
