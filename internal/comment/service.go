// AngelaMos | 2026
// service.go

package comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/techsyncfriends/hub/internal/core"
)

var ErrEmptyContent = errors.New("comment is empty")

type PostChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Recorder interface {
	RecordCommentCreated()
}

type Service struct {
	repo     Repository
	posts    PostChecker
	recorder Recorder
}

func NewService(repo Repository, posts PostChecker, recorder Recorder) *Service {
	return &Service{repo: repo, posts: posts, recorder: recorder}
}

func (s *Service) List(ctx context.Context, postID string) ([]Comment, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.repo.ListByPost(ctx, postID)
}

// Create appends a comment and returns the post's refreshed thread.
// Content is reduced to plain text and trimmed; nothing is left means
// nothing is stored.
func (s *Service) Create(
	ctx context.Context,
	postID, userID, content string,
) ([]Comment, error) {
	content = core.PlainText(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	c := &Comment{
		ID:      core.NewID(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordCommentCreated()
	}

	return s.repo.ListByPost(ctx, postID)
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
