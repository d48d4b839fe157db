// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/techsyncfriends/hub/internal/access"
)

// SignUpRequest carries the honeypot under an innocuous name; a front end
// renders it hidden so only bots fill it in.
type SignUpRequest struct {
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=6,max=128"`
	Username  string `json:"username"   validate:"required,min=1,max=50"`
	FormToken string `json:"form_token"`
	Website   string `json:"website"`
}

type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type IdentityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Identity IdentityResponse   `json:"identity"`
	Tokens   TokenResponse      `json:"tokens"`
	Session  access.SessionView `json:"session"`
}
