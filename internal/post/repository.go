// AngelaMos | 2026
// repository.go

package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/techsyncfriends/hub/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *Post) error
	List(ctx context.Context, filter Filter, viewerID string) ([]FeedEntry, error)
	GetEntry(ctx context.Context, id, viewerID string) (*FeedEntry, error)
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const feedSelect = `
	SELECT p.id, p.user_id, p.title, p.url, p.description, p.category,
	       p.created_at, p.updated_at,
	       pr.username AS author_username,
	       pr.avatar_url AS author_avatar_url,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
	       EXISTS (
	           SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1::uuid
	       ) AS liked
	FROM posts p
	JOIN profiles pr ON pr.id = p.user_id`

func (r *repository) Create(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (id, user_id, title, url, description, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.UserID,
		p.Title,
		p.URL,
		p.Description,
		p.Category,
	)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

// List returns the whole feed newest first. The store does the filtering;
// an empty category matches everything.
func (r *repository) List(
	ctx context.Context,
	filter Filter,
	viewerID string,
) ([]FeedEntry, error) {
	query := feedSelect + `
		WHERE ($2::text = '' OR p.category = $2::text)
		ORDER BY p.created_at DESC, p.id DESC`

	entries := []FeedEntry{}
	err := r.db.SelectContext(ctx, &entries, query,
		nullableID(viewerID),
		string(filter.Category),
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return entries, nil
}

func (r *repository) GetEntry(
	ctx context.Context,
	id, viewerID string,
) (*FeedEntry, error) {
	query := feedSelect + ` WHERE p.id = $2`

	var entry FeedEntry
	err := r.db.GetContext(ctx, &entry, query, nullableID(viewerID), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get post: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &entry, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}

	return exists, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
