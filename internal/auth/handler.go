// AngelaMos | 2026
// handler.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/techsyncfriends/hub/internal/access"
	"github.com/techsyncfriends/hub/internal/core"
	"github.com/techsyncfriends/hub/internal/middleware"
	"github.com/techsyncfriends/hub/internal/registration"
)

type FormIssuer interface {
	NewForm(ctx context.Context) (*registration.Form, error)
}

// RouteGuards are the middlewares the auth routes are mounted behind.
type RouteGuards struct {
	Authenticator func(http.Handler) http.Handler
	OptionalAuth  func(http.Handler) http.Handler
	Gate          func(http.Handler) http.Handler
	Throttle      func(http.Handler) http.Handler
}

type Handler struct {
	service   *Service
	forms     FormIssuer
	validator *validator.Validate
}

func NewHandler(service *Service, forms FormIssuer) *Handler {
	return &Handler{
		service:   service,
		forms:     forms,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router, g RouteGuards) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if g.Throttle != nil {
				r.Use(g.Throttle)
			}
			r.Get("/signup-form", h.SignUpForm)
			r.Post("/signup", h.SignUp)
			r.Post("/signin", h.SignIn)
			r.Post("/refresh", h.Refresh)
		})

		r.With(g.Authenticator).Post("/signout", h.SignOut)
		r.With(g.OptionalAuth, g.Gate).Get("/session", h.Session)
	})
}

func (h *Handler) SignUpForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.forms.NewForm(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, form)
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.SignUp(
		r.Context(),
		req,
		r.UserAgent(),
		middleware.ClientIP(r),
	)
	if err != nil {
		switch {
		case registration.IsRejection(err):
			core.BadRequest(w, registration.UserMessage(err))
		case errors.Is(err, ErrEmptyUsername):
			core.BadRequest(w, "username must contain visible text")
		case errors.Is(err, ErrEmailExists):
			core.JSONError(w, core.DuplicateError("email"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, resp)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.SignIn(
		r.Context(),
		req,
		r.UserAgent(),
		middleware.ClientIP(r),
	)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(
				w,
				core.UnauthorizedError("invalid email or password"),
			)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.Refresh(
		r.Context(),
		req.RefreshToken,
		r.UserAgent(),
		middleware.ClientIP(r),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenReuse):
			core.JSONError(w, core.NewAppError(
				core.ErrTokenRevoked,
				"security alert: token reuse detected, session revoked",
				http.StatusUnauthorized,
				"TOKEN_REUSE_DETECTED",
			))
		case errors.Is(err, core.ErrTokenExpired):
			core.JSONError(w, core.TokenExpiredError())
		case errors.Is(err, core.ErrTokenRevoked):
			core.JSONError(w, core.TokenRevokedError())
		case errors.Is(err, core.ErrTokenInvalid):
			core.JSONError(w, core.TokenInvalidError())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, resp)
}

// SignOut accepts an empty body; the refresh token is revoked only when
// the client sends it.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req SignOutRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
	}

	err := h.service.SignOut(
		r.Context(),
		middleware.GetClaims(r.Context()),
		req.RefreshToken,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUnauthorized):
			core.Unauthorized(w, "")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "cannot revoke another member's token")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

// Session reports what the caller may see. It never fails for a missing
// or invalid token; those callers are simply anonymous.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	core.OK(w, access.ViewerFrom(r.Context()).SessionView())
}
