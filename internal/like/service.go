// AngelaMos | 2026
// service.go

package like

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/techsyncfriends/hub/internal/core"
)

// State is a member's like on a post and the post's count as read back
// from the store.
type State struct {
	PostID string `json:"post_id"`
	Liked  bool   `json:"liked"`
	Count  int    `json:"count"`
}

// PostChecker tells whether a post id exists.
type PostChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Recorder interface {
	RecordLikeToggle(liked bool)
}

type Service struct {
	repo     Repository
	posts    PostChecker
	recorder Recorder
}

func NewService(repo Repository, posts PostChecker, recorder Recorder) *Service {
	return &Service{repo: repo, posts: posts, recorder: recorder}
}

// Toggle removes the member's like when present and adds it otherwise.
// The count is re-read after the write; other members may have changed it
// in between and that is accepted.
func (s *Service) Toggle(ctx context.Context, postID, userID string) (*State, error) {
	ctx, span := core.StartSpan(ctx, "like.Toggle",
		attribute.String("post.id", postID),
	)
	defer span.End()

	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.repo.Exists(ctx, postID, userID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	if liked {
		err = s.repo.Delete(ctx, postID, userID)
	} else {
		err = s.repo.Insert(ctx, postID, userID)
	}
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordLikeToggle(!liked)
	}

	return s.read(ctx, postID, userID)
}

func (s *Service) State(ctx context.Context, postID, userID string) (*State, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.read(ctx, postID, userID)
}

func (s *Service) read(ctx context.Context, postID, userID string) (*State, error) {
	liked, err := s.repo.Exists(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Count(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &State{PostID: postID, Liked: liked, Count: count}, nil
}

func (s *Service) ensurePost(ctx context.Context, postID string) error {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("post %s: %w", postID, core.ErrNotFound)
	}
	return nil
}
