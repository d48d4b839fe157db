// AngelaMos | 2026
// service.go

package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/techsyncfriends/hub/internal/access"
	"github.com/techsyncfriends/hub/internal/auth"
	"github.com/techsyncfriends/hub/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Provision creates the profile of a new identity inside the caller's
// transaction. New profiles always start unapproved and without admin
// rights; the store defaults guarantee it.
func (s *Service) Provision(
	ctx context.Context,
	tx core.DBTX,
	id, username string,
) (*access.Snapshot, error) {
	p := &Profile{
		ID:       id,
		Username: core.PlainText(username),
	}

	if err := s.repo.WithTx(tx).Create(ctx, p); err != nil {
		return nil, err
	}

	return p.Snapshot(), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Snapshot(
	ctx context.Context,
	id string,
) (*access.Snapshot, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Snapshot(), nil
}

func (s *Service) ListByApproval(
	ctx context.Context,
	approved bool,
) ([]Profile, error) {
	return s.repo.ListByApproval(ctx, approved)
}

// SetApproved flips the approval flag of a non-admin profile. An unknown
// id is ErrNotFound and an admin target is ErrForbidden.
func (s *Service) SetApproved(
	ctx context.Context,
	id string,
	approved bool,
) error {
	matched, err := s.repo.SetApproved(ctx, id, approved)
	if err != nil {
		return err
	}
	if matched {
		return nil
	}

	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if target.IsAdmin {
		return fmt.Errorf("set approved: admin target: %w", core.ErrForbidden)
	}

	return fmt.Errorf("set approved: %w", core.ErrNotFound)
}

// PromoteByEmail grants admin rights. It is only reachable from hubctl.
func (s *Service) PromoteByEmail(
	ctx context.Context,
	email string,
) (*Profile, error) {
	p, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	if p.IsAdmin {
		return p, nil
	}

	if err := s.repo.PromoteAdmin(ctx, p.ID); err != nil {
		return nil, err
	}

	p.IsAdmin = true
	return p, nil
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.repo.CountByState(ctx)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

var (
	_ access.ProfileSource = (*Service)(nil)
	_ auth.ProfileProvider = (*Service)(nil)
)
