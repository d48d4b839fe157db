// AngelaMos | 2026
// viewer.go

package access

import (
	"context"
	"time"
)

type contextKey string

const viewerKey contextKey = "access_viewer"

// Snapshot is the slice of a profile the gate needs. It is what gets
// cached between requests.
type Snapshot struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Approved    bool      `json:"approved"`
	IsAdmin     bool      `json:"is_admin"`
	RequestedAt time.Time `json:"requested_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Viewer is the resolved caller of a request.
type Viewer struct {
	UserID  string
	Profile *Snapshot
	State   State
}

// NewViewer resolves the state for a caller. An empty userID means no
// session; a session without a profile row is still waiting for approval.
func NewViewer(userID string, profile *Snapshot) Viewer {
	if userID == "" {
		return Viewer{State: StateAnonymous}
	}

	var approved, isAdmin bool
	if profile != nil {
		approved = profile.Approved
		isAdmin = profile.IsAdmin
	}

	return Viewer{
		UserID:  userID,
		Profile: profile,
		State:   Resolve(true, approved, isAdmin),
	}
}

func (v Viewer) SignedIn() bool {
	return v.UserID != ""
}

func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, v)
}

// ViewerFrom returns the viewer stored by the gate, or an anonymous viewer
// when the gate did not run.
func ViewerFrom(ctx context.Context) Viewer {
	if v, ok := ctx.Value(viewerKey).(Viewer); ok {
		return v
	}
	return Viewer{State: StateAnonymous}
}

// SessionView is the body of the current-session endpoint.
type SessionView struct {
	State      State      `json:"state"`
	Visibility Visibility `json:"visibility"`
	Profile    *Snapshot  `json:"profile"`
}

func (v Viewer) SessionView() SessionView {
	return SessionView{
		State:      v.State,
		Visibility: v.State.Visibility(),
		Profile:    v.Profile,
	}
}
