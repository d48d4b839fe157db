// AngelaMos | 2026
// service.go

package post

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/techsyncfriends/hub/internal/core"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyTitle      = errors.New("title is empty after sanitizing")
)

type Recorder interface {
	RecordPostCreated(category string)
}

type Service struct {
	repo     Repository
	recorder Recorder
}

func NewService(repo Repository, recorder Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

// List returns the feed for a raw filter value.
func (s *Service) List(
	ctx context.Context,
	rawFilter, viewerID string,
) (Filter, []FeedEntry, error) {
	filter, ok := ParseFilter(rawFilter)
	if !ok {
		return Filter{}, nil, fmt.Errorf("list posts: %q: %w", rawFilter, ErrUnknownCategory)
	}

	ctx, span := core.StartSpan(ctx, "post.List",
		attribute.String("post.filter", rawFilter),
	)
	defer span.End()

	entries, err := s.repo.List(ctx, filter, viewerID)
	if err != nil {
		core.SetSpanError(ctx, err)
		return Filter{}, nil, err
	}

	return filter, entries, nil
}

// Create stores a post authored by userID. Title and description are
// reduced to plain text; the url is kept verbatim after validation.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreatePostRequest,
) (*FeedEntry, error) {
	category, ok := ParseCategory(req.Category)
	if !ok {
		return nil, fmt.Errorf("create post: %q: %w", req.Category, ErrUnknownCategory)
	}

	title := core.PlainText(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	p := &Post{
		ID:          core.NewID(),
		UserID:      userID,
		Title:       title,
		URL:         req.URL,
		Description: core.PlainText(req.Description),
		Category:    category,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if s.recorder != nil {
		s.recorder.RecordPostCreated(string(category))
	}

	return s.repo.GetEntry(ctx, p.ID, userID)
}

// Exists reports whether a post id names a stored post.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if !core.ValidID(id) {
		return false, nil
	}
	return s.repo.Exists(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
