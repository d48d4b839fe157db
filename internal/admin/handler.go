// AngelaMos | 2026
// handler.go

package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/techsyncfriends/hub/internal/core"
)

type Handler struct {
	members *MemberService
	stats   *Stats
}

func NewHandler(members *MemberService, stats *Stats) *Handler {
	return &Handler{members: members, stats: stats}
}

// RegisterRoutes mounts the admin dashboard. adminGuard must reject every
// viewer that is not an admin.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	adminGuard func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminGuard)

		r.Get("/members", h.ListMembers)
		r.Post("/members/{userID}/approve", h.Approve)
		r.Post("/members/{userID}/revoke", h.Revoke)

		r.Get("/stats", h.GetStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	lists, err := h.members.ListMembers(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, lists)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	lists, err := h.members.Approve(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeModerationError(w, err)
		return
	}

	core.OK(w, lists)
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	lists, err := h.members.Revoke(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeModerationError(w, err)
		return
	}

	core.OK(w, lists)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.stats.Collect(r.Context()))
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntimeStats())
}

func writeModerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "member")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "admins cannot be approved or revoked")
	default:
		core.InternalServerError(w, err)
	}
}
