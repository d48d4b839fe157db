// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/techsyncfriends/hub/internal/core"
)

type stubVerifier map[string]error

func (s stubVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	if err, ok := s[token]; ok && err != nil {
		return nil, err
	}
	if _, ok := s[token]; !ok {
		return nil, core.ErrTokenInvalid
	}
	return &AccessTokenClaims{
		UserID:    "user-" + token,
		TokenID:   "jti-" + token,
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil
}

func TestAuthenticator(t *testing.T) {
	verifier := stubVerifier{
		"good":    nil,
		"expired": core.ErrTokenExpired,
		"revoked": core.ErrTokenRevoked,
	}

	var seen string
	h := Authenticator(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "missing", wantCode: http.StatusUnauthorized, wantBody: "missing authorization token"},
		{name: "wrong scheme", header: "Basic good", wantCode: http.StatusUnauthorized},
		{name: "expired", header: "Bearer expired", wantCode: http.StatusUnauthorized, wantBody: "TOKEN_EXPIRED"},
		{name: "revoked", header: "Bearer revoked", wantCode: http.StatusUnauthorized, wantBody: "TOKEN_REVOKED"},
		{name: "garbage", header: "Bearer nope", wantCode: http.StatusUnauthorized, wantBody: "TOKEN_INVALID"},
		{name: "valid", header: "bearer good", wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body %s missing %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantCode == http.StatusNoContent && seen != "user-good" {
				t.Errorf("user id = %q", seen)
			}
		})
	}
}

func TestOptionalAuthNeverRejects(t *testing.T) {
	verifier := stubVerifier{"good": nil}

	var seen string
	h := OptionalAuth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r.Context())
		if claims := GetClaims(r.Context()); claims != nil && claims.TokenID == "" {
			t.Error("claims without a token id")
		}
	}))

	for header, want := range map[string]string{
		"":             "",
		"Bearer nope":  "",
		"Bearer good":  "user-good",
		"Bearer  good": "user-good",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%q status = %d", header, rec.Code)
		}
		if seen != want {
			t.Errorf("%q user id = %q, want %q", header, seen, want)
		}
	}
}
