// AngelaMos | 2026
// service_test.go

package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/techsyncfriends/hub/internal/access"
	"github.com/techsyncfriends/hub/internal/core"
	"github.com/techsyncfriends/hub/internal/middleware"
)

type mockRepository struct {
	profiles map[string]*Profile
	emails   map[string]string
	promoted []string
}

func newMockRepository(ps ...*Profile) *mockRepository {
	m := &mockRepository{
		profiles: make(map[string]*Profile),
		emails:   make(map[string]string),
	}
	for _, p := range ps {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *mockRepository) Create(_ context.Context, p *Profile) error {
	if _, ok := m.profiles[p.ID]; ok {
		return core.ErrDuplicateKey
	}
	m.profiles[p.ID] = p
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	id, ok := m.emails[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *mockRepository) ListByApproval(_ context.Context, approved bool) ([]Profile, error) {
	out := []Profile{}
	for _, p := range m.profiles {
		if p.Approved == approved && !p.IsAdmin {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockRepository) SetApproved(_ context.Context, id string, approved bool) (bool, error) {
	p, ok := m.profiles[id]
	if !ok || p.IsAdmin {
		return false, nil
	}
	p.Approved = approved
	return true, nil
}

func (m *mockRepository) PromoteAdmin(_ context.Context, id string) error {
	p, ok := m.profiles[id]
	if !ok {
		return core.ErrNotFound
	}
	p.IsAdmin = true
	m.promoted = append(m.promoted, id)
	return nil
}

func (m *mockRepository) CountByState(context.Context) (Counts, error) {
	return Counts{}, nil
}

func (m *mockRepository) WithTx(core.DBTX) Repository { return m }

func TestSetApproved(t *testing.T) {
	repo := newMockRepository(
		&Profile{ID: "member-1"},
		&Profile{ID: "admin-1", IsAdmin: true},
	)
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.SetApproved(ctx, "member-1", true); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !repo.profiles["member-1"].Approved {
		t.Fatal("member not approved")
	}

	if err := svc.SetApproved(ctx, "member-1", true); err != nil {
		t.Fatalf("approving twice should be a no-op, got %v", err)
	}

	if err := svc.SetApproved(ctx, "admin-1", false); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("admin target: got %v, want ErrForbidden", err)
	}

	if err := svc.SetApproved(ctx, "ghost", true); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown target: got %v, want ErrNotFound", err)
	}
}

func TestProvisionStartsPending(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	snap, err := svc.Provision(context.Background(), nil, "new-1", "  <b>ada</b> ")
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}
	if snap.Username != "ada" {
		t.Errorf("Username = %q, want sanitized %q", snap.Username, "ada")
	}
	if snap.Approved || snap.IsAdmin {
		t.Errorf("new profile should be pending, got %+v", snap)
	}

	if _, err := svc.Provision(context.Background(), nil, "new-1", "ada"); !errors.Is(err, core.ErrDuplicateKey) {
		t.Errorf("second provision: got %v, want ErrDuplicateKey", err)
	}
}

func TestPromoteByEmail(t *testing.T) {
	repo := newMockRepository(&Profile{ID: "u1", Approved: true})
	repo.emails["ops@example.com"] = "u1"
	svc := NewService(repo)

	p, err := svc.PromoteByEmail(context.Background(), "  OPS@example.com ")
	if err != nil {
		t.Fatalf("PromoteByEmail() error = %v", err)
	}
	if !p.IsAdmin || len(repo.promoted) != 1 {
		t.Fatalf("not promoted: %+v, %v", p, repo.promoted)
	}

	if _, err := svc.PromoteByEmail(context.Background(), "ops@example.com"); err != nil {
		t.Fatalf("second promote: %v", err)
	}
	if len(repo.promoted) != 1 {
		t.Error("already-admin profile promoted again")
	}
}

func TestGetMeHandler(t *testing.T) {
	repo := newMockRepository(&Profile{ID: "u1", Username: "ada"})
	h := NewHandler(NewService(repo))

	tests := []struct {
		name       string
		userID     string
		wantStatus int
		wantState  access.State
	}{
		{name: "pending member", userID: "u1", wantStatus: http.StatusOK, wantState: access.StatePendingApproval},
		{name: "no profile row", userID: "u2", wantStatus: http.StatusNotFound},
		{name: "no session", userID: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/profiles/me", nil)
			if tt.userID != "" {
				req = req.WithContext(middleware.WithUserID(req.Context(), tt.userID))
			}
			rec := httptest.NewRecorder()

			h.GetMe(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				Data ProfileResponse `json:"data"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Data.State != tt.wantState {
				t.Errorf("state = %q, want %q", body.Data.State, tt.wantState)
			}
		})
	}
}
