// AngelaMos | 2026
// gate.go

package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/techsyncfriends/hub/internal/core"
	"github.com/techsyncfriends/hub/internal/middleware"
)

// ProfileSource reads the current profile of an identity from the store.
// It returns core.ErrNotFound when the identity has no profile.
type ProfileSource interface {
	Snapshot(ctx context.Context, userID string) (*Snapshot, error)
}

type DecisionRecorder interface {
	RecordGateDecision(state string)
}

type Gate struct {
	profiles ProfileSource
	cache    Cache
	recorder DecisionRecorder
}

func NewGate(profiles ProfileSource, cache Cache, recorder DecisionRecorder) *Gate {
	if cache == nil {
		cache = NoCache{}
	}
	return &Gate{
		profiles: profiles,
		cache:    cache,
		recorder: recorder,
	}
}

// Resolve computes the viewer for userID from the cache or, on a miss,
// from the profile store.
func (g *Gate) Resolve(ctx context.Context, userID string) (Viewer, error) {
	if userID == "" {
		return g.record(NewViewer("", nil)), nil
	}

	snap, hit, err := g.cache.Get(ctx, userID)
	if err != nil {
		slog.Warn("viewer cache read failed, using store",
			"error", err,
			"user_id", userID,
		)
	}
	if hit {
		return g.record(NewViewer(userID, snap)), nil
	}

	gen, genErr := g.cache.Generation(ctx, userID)

	snap, err = g.profiles.Snapshot(ctx, userID)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return Viewer{}, fmt.Errorf("resolve viewer: %w", err)
		}
		snap = nil
	}

	if snap != nil && genErr == nil {
		if err := g.cache.Set(ctx, snap, gen); err != nil {
			slog.Warn("viewer cache write failed", "error", err, "user_id", userID)
		}
	}

	return g.record(NewViewer(userID, snap)), nil
}

// Forget drops the cached snapshot so the next request re-reads the store.
func (g *Gate) Forget(ctx context.Context, userID string) error {
	return g.cache.Invalidate(ctx, userID)
}

func (g *Gate) record(v Viewer) Viewer {
	if g.recorder != nil {
		g.recorder.RecordGateDecision(v.State.String())
	}
	return v
}

// Middleware resolves the viewer of every request and stores it in the
// context. It relies on the authenticator having run first; requests
// without a user id resolve to anonymous.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, err := g.Resolve(r.Context(), middleware.GetUserID(r.Context()))
		if err != nil {
			core.InternalServerError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
	})
}

// Require rejects requests whose viewer state is not one of allowed.
func Require(allowed ...State) func(http.Handler) http.Handler {
	set := make(map[State]struct{}, len(allowed))
	for _, s := range allowed {
		set[s] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			viewer := ViewerFrom(r.Context())

			if _, ok := set[viewer.State]; ok {
				next.ServeHTTP(w, r)
				return
			}

			core.JSONError(w, deniedError(viewer.State))
		})
	}
}

// RequireFeed admits members and admins.
func RequireFeed(next http.Handler) http.Handler {
	return Require(StateMember, StateAdmin)(next)
}

func RequireAdmin(next http.Handler) http.Handler {
	return Require(StateAdmin)(next)
}

func deniedError(s State) *core.AppError {
	switch s {
	case StateAnonymous:
		return core.UnauthorizedError("members only content, please sign in")
	case StatePendingApproval:
		return core.NewAppError(
			core.ErrForbidden,
			"your request to join is waiting for admin approval",
			http.StatusForbidden,
			"APPROVAL_PENDING",
		)
	default:
		return core.ForbiddenError("insufficient permissions")
	}
}
