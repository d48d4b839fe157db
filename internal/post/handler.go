// AngelaMos | 2026
// handler.go

package post

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/techsyncfriends/hub/internal/access"
	"github.com/techsyncfriends/hub/internal/core"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the feed behind feedGuard. Sub-resources of a
// post are mounted by their own packages under /posts/{postID}.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	feedGuard func(http.Handler) http.Handler,
) {
	r.Get("/categories", h.Categories)

	r.With(feedGuard).Get("/posts", h.List)
	r.With(feedGuard).Post("/posts", h.Create)
}

func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, CategoriesResponse{All: FilterAll, Categories: Categories})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	viewer := access.ViewerFrom(r.Context())

	filter, entries, err := h.service.List(
		r.Context(),
		r.URL.Query().Get("category"),
		viewer.UserID,
	)
	if err != nil {
		if errors.Is(err, ErrUnknownCategory) {
			core.BadRequest(w, "unknown category")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToFeedResponse(filter, entries))
}

// Create answers with the new post and the refreshed feed for the filter
// given in the query string.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	viewer := access.ViewerFrom(r.Context())

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	rawFilter := r.URL.Query().Get("category")
	if _, ok := ParseFilter(rawFilter); !ok {
		core.BadRequest(w, "unknown category")
		return
	}

	entry, err := h.service.Create(r.Context(), viewer.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownCategory):
			core.BadRequest(w, "category must be one of the listed categories")
		case errors.Is(err, ErrEmptyTitle):
			core.BadRequest(w, "title is required")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	filter, entries, err := h.service.List(r.Context(), rawFilter, viewer.UserID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, CreatePostResponse{
		Post: ToPostResponse(entry),
		Feed: ToFeedResponse(filter, entries),
	})
}
