// AngelaMos | 2026
// repository.go

package comment

import (
	"context"
	"fmt"

	"github.com/techsyncfriends/hub/internal/core"
)

type Repository interface {
	ListByPost(ctx context.Context, postID string) ([]Comment, error)
	Create(ctx context.Context, c *Comment) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// ListByPost returns a post's thread oldest first.
func (r *repository) ListByPost(
	ctx context.Context,
	postID string,
) ([]Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       p.username AS author_username,
		       p.avatar_url AS author_avatar_url
		FROM comments c
		JOIN profiles p ON p.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC`

	comments := []Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return comments, nil
}

func (r *repository) Create(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (id, post_id, user_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &c.CreatedAt, query,
		c.ID,
		c.PostID,
		c.UserID,
		c.Content,
	)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}
