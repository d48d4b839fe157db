// AngelaMos | 2026
// repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techsyncfriends/hub/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	ListByApproval(ctx context.Context, approved bool) ([]Profile, error)
	SetApproved(ctx context.Context, id string, approved bool) (bool, error)
	PromoteAdmin(ctx context.Context, id string) error
	CountByState(ctx context.Context) (Counts, error)
	WithTx(tx core.DBTX) Repository
}

// Counts summarises the membership for the admin stats endpoint.
type Counts struct {
	Pending  int `db:"pending"  json:"pending"`
	Approved int `db:"approved" json:"approved"`
	Admins   int `db:"admins"   json:"admins"`
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

const profileColumns = `id, username, avatar_url, approved, is_admin, requested_at, created_at`

func (r *repository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (id, username, avatar_url)
		VALUES ($1, $2, $3)
		RETURNING approved, is_admin, requested_at, created_at`

	err := r.db.GetContext(ctx, p, query, p.ID, p.Username, p.AvatarURL)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create profile: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &p, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Profile, error) {
	query := `
		SELECT p.id, p.username, p.avatar_url, p.approved, p.is_admin,
		       p.requested_at, p.created_at
		FROM profiles p
		JOIN identities i ON i.id = p.id
		WHERE i.email = $1`

	var p Profile
	err := r.db.GetContext(ctx, &p, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by email: %w", err)
	}

	return &p, nil
}

// ListByApproval never includes admins. Pending requests are newest
// request first, approved members newest member first.
func (r *repository) ListByApproval(
	ctx context.Context,
	approved bool,
) ([]Profile, error) {
	order := "requested_at DESC"
	if approved {
		order = "created_at DESC"
	}

	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE approved = $1 AND is_admin = FALSE
		ORDER BY ` + order

	profiles := []Profile{}
	if err := r.db.SelectContext(ctx, &profiles, query, approved); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return profiles, nil
}

// SetApproved reports whether a non-admin row matched. Setting the value
// a row already has still counts as a match.
func (r *repository) SetApproved(
	ctx context.Context,
	id string,
	approved bool,
) (bool, error) {
	query := `
		UPDATE profiles
		SET approved = $2
		WHERE id = $1 AND is_admin = FALSE`

	result, err := r.db.ExecContext(ctx, query, id, approved)
	if err != nil {
		return false, fmt.Errorf("set approved: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set approved: %w", err)
	}

	return rows > 0, nil
}

func (r *repository) PromoteAdmin(ctx context.Context, id string) error {
	query := `UPDATE profiles SET is_admin = TRUE WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("promote admin: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountByState(ctx context.Context) (Counts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE approved = FALSE AND is_admin = FALSE) AS pending,
			COUNT(*) FILTER (WHERE approved = TRUE AND is_admin = FALSE) AS approved,
			COUNT(*) FILTER (WHERE is_admin = TRUE) AS admins
		FROM profiles`

	var c Counts
	if err := r.db.GetContext(ctx, &c, query); err != nil {
		return Counts{}, fmt.Errorf("count profiles: %w", err)
	}

	return c, nil
}
