// AngelaMos | 2026
// metrics_test.go

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordGateDecision("member")
	c.RecordGateDecision("member")
	c.RecordSignup("too_fast")
	c.RecordModeration("approve")
	c.RecordLikeToggle(true)
	c.RecordLikeToggle(false)
	c.RecordLikeToggle(false)
	c.RecordPostCreated("Blockchain")
	c.RecordCommentCreated()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"gate member", testutil.ToFloat64(c.gateDecisions.WithLabelValues("member")), 2},
		{"signup too fast", testutil.ToFloat64(c.signups.WithLabelValues("too_fast")), 1},
		{"approve", testutil.ToFloat64(c.moderation.WithLabelValues("approve")), 1},
		{"like", testutil.ToFloat64(c.likeToggles.WithLabelValues("like")), 1},
		{"unlike", testutil.ToFloat64(c.likeToggles.WithLabelValues("unlike")), 2},
		{"posts", testutil.ToFloat64(c.postsCreated.WithLabelValues("Blockchain")), 1},
		{"comments", testutil.ToFloat64(c.commentsCreated), 1},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/posts/{postID}/likes", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/"+id+"/likes", nil))
	}

	got := testutil.ToFloat64(c.requests.WithLabelValues("/posts/{postID}/likes", http.MethodGet, "200"))
	if got != 3 {
		t.Fatalf("requests for pattern = %v, want 3", got)
	}
	if n := testutil.CollectAndCount(c.requests); n != 1 {
		t.Fatalf("series = %d, want one per route", n)
	}
}

func TestHandlerExposesRuntimeMetrics(t *testing.T) {
	reg := NewRegistry()
	NewCollector(reg).RecordSignup("created")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{"go_goroutines", `techsync_signups_total{outcome="created"} 1`} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
