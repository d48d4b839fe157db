// AngelaMos | 2026
// members_test.go

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/techsyncfriends/hub/internal/access"
	"github.com/techsyncfriends/hub/internal/core"
	"github.com/techsyncfriends/hub/internal/profile"
)

const (
	adaID   = "11111111-1111-1111-1111-111111111111"
	graceID = "22222222-2222-2222-2222-222222222222"
	rootID  = "33333333-3333-3333-3333-333333333333"
	ghostID = "44444444-4444-4444-4444-444444444444"
)

type memoryStore struct {
	profiles map[string]*profile.Profile
}

func newMemoryStore() *memoryStore {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return &memoryStore{profiles: map[string]*profile.Profile{
		adaID:   {ID: adaID, Username: "ada", RequestedAt: base},
		graceID: {ID: graceID, Username: "grace", RequestedAt: base.Add(time.Hour)},
		rootID:  {ID: rootID, Username: "root", IsAdmin: true},
	}}
}

func (m *memoryStore) ListByApproval(_ context.Context, approved bool) ([]profile.Profile, error) {
	out := []profile.Profile{}
	for _, id := range []string{graceID, adaID, rootID} {
		p := m.profiles[id]
		if !p.IsAdmin && p.Approved == approved {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryStore) SetApproved(_ context.Context, id string, approved bool) error {
	p, ok := m.profiles[id]
	if !ok {
		return core.ErrNotFound
	}
	if p.IsAdmin {
		return core.ErrForbidden
	}
	p.Approved = approved
	return nil
}

type forgetLog []string

func (f *forgetLog) Forget(_ context.Context, id string) error {
	*f = append(*f, id)
	return nil
}

type actionLog []string

func (a *actionLog) RecordModeration(action string) { *a = append(*a, action) }

func ids(list []profile.ProfileResponse) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestApproveAndRevoke(t *testing.T) {
	store := newMemoryStore()
	forgotten := &forgetLog{}
	actions := &actionLog{}
	svc := NewMemberService(store, forgotten, actions)
	ctx := context.Background()

	lists, err := svc.ListMembers(ctx)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(lists.Pending) != 2 || len(lists.Approved) != 0 {
		t.Fatalf("initial lists = %v / %v", ids(lists.Pending), ids(lists.Approved))
	}

	lists, err = svc.Approve(ctx, adaID)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if got := ids(lists.Approved); len(got) != 1 || got[0] != adaID {
		t.Fatalf("approved = %v", got)
	}
	if got := ids(lists.Pending); len(got) != 1 || got[0] != graceID {
		t.Fatalf("pending = %v", got)
	}
	if lists.Approved[0].State != access.StateMember {
		t.Errorf("state = %q, want member", lists.Approved[0].State)
	}

	if _, err := svc.Approve(ctx, adaID); err != nil {
		t.Fatalf("second Approve() error = %v", err)
	}

	lists, err = svc.Revoke(ctx, adaID)
	if err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if len(lists.Approved) != 0 || len(lists.Pending) != 2 {
		t.Fatalf("after revoke = %v / %v", ids(lists.Pending), ids(lists.Approved))
	}

	if len(*forgotten) != 3 {
		t.Errorf("forgotten = %v, want one entry per decision", *forgotten)
	}
	if len(*actions) != 3 || (*actions)[2] != "revoke" {
		t.Errorf("actions = %v", *actions)
	}
}

func TestModerationRejects(t *testing.T) {
	svc := NewMemberService(newMemoryStore(), &forgetLog{}, nil)

	tests := []struct {
		name string
		id   string
		want error
	}{
		{name: "unknown member", id: ghostID, want: core.ErrNotFound},
		{name: "malformed id", id: "not-a-uuid", want: core.ErrNotFound},
		{name: "admin target", id: rootID, want: core.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Revoke(context.Background(), tt.id); !errors.Is(err, tt.want) {
				t.Fatalf("Revoke() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMembersHandler(t *testing.T) {
	svc := NewMemberService(newMemoryStore(), &forgetLog{}, nil)
	stats := NewStats(StatsConfig{
		Members: func(context.Context) (profile.Counts, error) {
			return profile.Counts{Pending: 2, Admins: 1}, nil
		},
		Posts: func(context.Context) (int, error) { return 0, errors.New("db down") },
	})

	newRouter := func(viewer access.Viewer) http.Handler {
		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(access.WithViewer(req.Context(), viewer)))
			})
		})
		NewHandler(svc, stats).RegisterRoutes(r, access.RequireAdmin)
		return r
	}

	admin := newRouter(access.NewViewer(rootID, &access.Snapshot{IsAdmin: true}))
	member := newRouter(access.NewViewer(adaID, &access.Snapshot{Approved: true}))

	tests := []struct {
		name   string
		router http.Handler
		method string
		target string
		want   int
	}{
		{name: "member listing", router: member, method: http.MethodGet, target: "/admin/members", want: http.StatusForbidden},
		{name: "member approving", router: member, method: http.MethodPost, target: "/admin/members/" + graceID + "/approve", want: http.StatusForbidden},
		{name: "list", router: admin, method: http.MethodGet, target: "/admin/members", want: http.StatusOK},
		{name: "approve", router: admin, method: http.MethodPost, target: "/admin/members/" + graceID + "/approve", want: http.StatusOK},
		{name: "unknown", router: admin, method: http.MethodPost, target: "/admin/members/" + ghostID + "/approve", want: http.StatusNotFound},
		{name: "admin target", router: admin, method: http.MethodPost, target: "/admin/members/" + rootID + "/revoke", want: http.StatusForbidden},
		{name: "stats", router: admin, method: http.MethodGet, target: "/admin/stats", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestStatsCollectSkipsFailedProbes(t *testing.T) {
	stats := NewStats(StatsConfig{
		DBPing: func(context.Context) error { return errors.New("refused") },
		Members: func(context.Context) (profile.Counts, error) {
			return profile.Counts{Pending: 4, Approved: 9, Admins: 1}, nil
		},
		Posts: func(context.Context) (int, error) { return 0, errors.New("timeout") },
	})

	report := stats.Collect(context.Background())

	if report.Database.Healthy {
		t.Error("database reported healthy after a failed ping")
	}
	if !report.Redis.Healthy {
		t.Error("redis without a probe reported unhealthy")
	}
	if report.Community.Members == nil || report.Community.Members.Approved != 9 {
		t.Errorf("members = %+v", report.Community.Members)
	}
	if report.Community.Posts != nil {
		t.Errorf("posts = %d, want omitted", *report.Community.Posts)
	}

	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["community"]["posts"]; ok {
		t.Error("failed post count serialized")
	}
}
