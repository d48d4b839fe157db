// AngelaMos | 2026
// entity.go

package post

import (
	"time"
)

type Post struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Title       string    `db:"title"`
	URL         string    `db:"url"`
	Description string    `db:"description"`
	Category    Category  `db:"category"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// FeedEntry is a post joined with its author's public fields and its
// engagement counts as of the query.
type FeedEntry struct {
	Post
	AuthorUsername  string  `db:"author_username"`
	AuthorAvatarURL *string `db:"author_avatar_url"`
	LikeCount       int     `db:"like_count"`
	CommentCount    int     `db:"comment_count"`
	Liked           bool    `db:"liked"`
}
