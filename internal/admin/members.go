// AngelaMos | 2026
// members.go

package admin

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/techsyncfriends/hub/internal/core"
	"github.com/techsyncfriends/hub/internal/profile"
)

type MemberStore interface {
	ListByApproval(ctx context.Context, approved bool) ([]profile.Profile, error)
	SetApproved(ctx context.Context, id string, approved bool) error
}

// ViewerForgetter drops a member's cached gate state so a decision applies
// on their next request.
type ViewerForgetter interface {
	Forget(ctx context.Context, userID string) error
}

type ModerationRecorder interface {
	RecordModeration(action string)
}

// MemberLists is the admin dashboard: join requests and approved members.
// Admins appear in neither.
type MemberLists struct {
	Pending  []profile.ProfileResponse `json:"pending"`
	Approved []profile.ProfileResponse `json:"approved"`
}

type MemberService struct {
	store    MemberStore
	viewers  ViewerForgetter
	recorder ModerationRecorder
}

func NewMemberService(
	store MemberStore,
	viewers ViewerForgetter,
	recorder ModerationRecorder,
) *MemberService {
	return &MemberService{store: store, viewers: viewers, recorder: recorder}
}

func (s *MemberService) ListMembers(ctx context.Context) (*MemberLists, error) {
	pending, err := s.store.ListByApproval(ctx, false)
	if err != nil {
		return nil, err
	}

	approved, err := s.store.ListByApproval(ctx, true)
	if err != nil {
		return nil, err
	}

	return &MemberLists{
		Pending:  profile.ToProfileResponseList(pending),
		Approved: profile.ToProfileResponseList(approved),
	}, nil
}

// Approve admits a member. Approving an approved member changes nothing.
func (s *MemberService) Approve(ctx context.Context, userID string) (*MemberLists, error) {
	return s.setApproved(ctx, userID, true, "approve")
}

// Revoke withdraws feed access. The member's posts, likes and comments
// stay where they are.
func (s *MemberService) Revoke(ctx context.Context, userID string) (*MemberLists, error) {
	return s.setApproved(ctx, userID, false, "revoke")
}

func (s *MemberService) setApproved(
	ctx context.Context,
	userID string,
	approved bool,
	action string,
) (*MemberLists, error) {
	if !core.ValidID(userID) {
		return nil, fmt.Errorf("%s: %w", action, core.ErrNotFound)
	}

	ctx, span := core.StartSpan(ctx, "admin."+action,
		attribute.String("target.id", userID),
	)
	defer span.End()

	if err := s.store.SetApproved(ctx, userID, approved); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	if err := s.viewers.Forget(ctx, userID); err != nil {
		slog.Warn("viewer cache invalidation failed",
			"error", err,
			"user_id", userID,
		)
	}

	if s.recorder != nil {
		s.recorder.RecordModeration(action)
	}
	core.AddSpanEvent(ctx, "membership."+action)

	slog.Info("membership changed",
		"action", action,
		"user_id", userID,
		"trace_id", core.TraceIDFromContext(ctx),
	)

	return s.ListMembers(ctx)
}
