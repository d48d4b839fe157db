// AngelaMos | 2026
// dto.go

package post

import (
	"time"
)

type CreatePostRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	URL         string `json:"url"         validate:"required,http_url,max=2048"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category"    validate:"required"`
}

type AuthorResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

type PostResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	URL          string         `json:"url"`
	Description  string         `json:"description"`
	Category     Category       `json:"category"`
	Author       AuthorResponse `json:"author"`
	LikeCount    int            `json:"like_count"`
	CommentCount int            `json:"comment_count"`
	Liked        bool           `json:"liked"`
	CreatedAt    time.Time      `json:"created_at"`
}

type FeedResponse struct {
	Filter string         `json:"filter"`
	Posts  []PostResponse `json:"posts"`
}

// CreatePostResponse returns the new post together with the feed it now
// appears in, so a client never re-fetches after posting.
type CreatePostResponse struct {
	Post PostResponse `json:"post"`
	Feed FeedResponse `json:"feed"`
}

type CategoriesResponse struct {
	All        string     `json:"all"`
	Categories []Category `json:"categories"`
}

func ToPostResponse(e *FeedEntry) PostResponse {
	return PostResponse{
		ID:          e.ID,
		Title:       e.Title,
		URL:         e.URL,
		Description: e.Description,
		Category:    e.Category,
		Author: AuthorResponse{
			ID:        e.UserID,
			Username:  e.AuthorUsername,
			AvatarURL: e.AuthorAvatarURL,
		},
		LikeCount:    e.LikeCount,
		CommentCount: e.CommentCount,
		Liked:        e.Liked,
		CreatedAt:    e.CreatedAt,
	}
}

func ToFeedResponse(f Filter, entries []FeedEntry) FeedResponse {
	name := FilterAll
	if !f.All() {
		name = string(f.Category)
	}

	posts := make([]PostResponse, 0, len(entries))
	for i := range entries {
		posts = append(posts, ToPostResponse(&entries[i]))
	}

	return FeedResponse{Filter: name, Posts: posts}
}
