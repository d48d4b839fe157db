// AngelaMos | 2026
// entity.go

package comment

import (
	"time"
)

type Comment struct {
	ID              string    `db:"id"`
	PostID          string    `db:"post_id"`
	UserID          string    `db:"user_id"`
	Content         string    `db:"content"`
	CreatedAt       time.Time `db:"created_at"`
	AuthorUsername  string    `db:"author_username"`
	AuthorAvatarURL *string   `db:"author_avatar_url"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"max=2000"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type Author struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

func ToCommentResponseList(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentResponse{
			ID:      c.ID,
			PostID:  c.PostID,
			Content: c.Content,
			Author: Author{
				ID:        c.UserID,
				Username:  c.AuthorUsername,
				AvatarURL: c.AuthorAvatarURL,
			},
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}
