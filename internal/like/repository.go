// AngelaMos | 2026
// repository.go

package like

import (
	"context"
	"fmt"

	"github.com/techsyncfriends/hub/internal/core"
)

type Repository interface {
	Exists(ctx context.Context, postID, userID string) (bool, error)
	Insert(ctx context.Context, postID, userID string) error
	Delete(ctx context.Context, postID, userID string) error
	Count(ctx context.Context, postID string) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Exists(
	ctx context.Context,
	postID, userID string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, postID, userID); err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}

	return exists, nil
}

// Insert relies on the (post_id, user_id) unique constraint. A concurrent
// insert of the same pair is absorbed rather than reported.
func (r *repository) Insert(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO likes (id, post_id, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT likes_post_user_unique DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, core.NewID(), postID, userID); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, postID, userID string) error {
	query := `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, postID, userID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	return nil
}

func (r *repository) Count(ctx context.Context, postID string) (int, error) {
	query := `SELECT COUNT(*) FROM likes WHERE post_id = $1`

	var n int
	if err := r.db.GetContext(ctx, &n, query, postID); err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return n, nil
}
