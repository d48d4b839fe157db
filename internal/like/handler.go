// AngelaMos | 2026
// handler.go

package like

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/techsyncfriends/hub/internal/access"
	"github.com/techsyncfriends/hub/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	feedGuard func(http.Handler) http.Handler,
) {
	r.Route("/posts/{postID}/likes", func(r chi.Router) {
		r.Use(feedGuard)

		r.Get("/", h.Get)
		r.Post("/toggle", h.Toggle)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(
		r.Context(),
		chi.URLParam(r, "postID"),
		access.ViewerFrom(r.Context()).UserID,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, state)
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Toggle(
		r.Context(),
		chi.URLParam(r, "postID"),
		access.ViewerFrom(r.Context()).UserID,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, state)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "post")
		return
	}
	core.InternalServerError(w, err)
}
