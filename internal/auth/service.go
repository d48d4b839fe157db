// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/techsyncfriends/hub/internal/access"
	"github.com/techsyncfriends/hub/internal/core"
	"github.com/techsyncfriends/hub/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")
	ErrEmptyUsername      = errors.New("username is empty after sanitizing")
)

// ProfileProvider creates the profile of a new identity inside the
// sign-up transaction.
type ProfileProvider interface {
	Provision(
		ctx context.Context,
		tx core.DBTX,
		id, username string,
	) (*access.Snapshot, error)
}

// ViewerResolver is the part of the access gate the auth service needs.
type ViewerResolver interface {
	Resolve(ctx context.Context, userID string) (access.Viewer, error)
	Forget(ctx context.Context, userID string) error
}

// SignupScreener rejects automated sign-up submissions.
type SignupScreener interface {
	Screen(ctx context.Context, formToken, honeypot string) error
}

type SignupRecorder interface {
	RecordSignup(outcome string)
}

type Deps struct {
	Repo      Repository
	JWT       *JWTManager
	Profiles  ProfileProvider
	Viewers   ViewerResolver
	Screener  SignupScreener
	Blacklist Blacklist
	RunInTx   core.TxRunner
	Recorder  SignupRecorder
}

type Service struct {
	repo      Repository
	jwt       *JWTManager
	profiles  ProfileProvider
	viewers   ViewerResolver
	screener  SignupScreener
	blacklist Blacklist
	runInTx   core.TxRunner
	recorder  SignupRecorder
	now       func() time.Time
}

func NewService(d Deps) *Service {
	return &Service{
		repo:      d.Repo,
		jwt:       d.JWT,
		profiles:  d.Profiles,
		viewers:   d.Viewers,
		screener:  d.Screener,
		blacklist: d.Blacklist,
		runInTx:   d.RunInTx,
		recorder:  d.Recorder,
		now:       time.Now,
	}
}

// SignUp screens the submission, then creates the identity and its
// pending profile in one transaction. Nothing is hashed or written for a
// rejected submission.
func (s *Service) SignUp(
	ctx context.Context,
	req SignUpRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.SignUp")
	defer span.End()

	if core.PlainText(req.Username) == "" {
		return nil, ErrEmptyUsername
	}

	if err := s.screener.Screen(ctx, req.FormToken, req.Website); err != nil {
		return nil, err
	}

	identity, snap, err := s.CreateMember(ctx, req.Email, req.Password, req.Username)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			s.record("duplicate")
		}
		return nil, err
	}

	s.record("created")
	span.SetAttributes(attribute.String("user.id", identity.ID))

	return s.issueSession(
		ctx,
		identity,
		access.NewViewer(identity.ID, snap),
		userAgent,
		ipAddress,
		"",
		nil,
	)
}

// CreateMember writes an identity and its pending profile in one
// transaction without screening. hubctl uses it to bootstrap the first
// admin.
func (s *Service) CreateMember(
	ctx context.Context,
	email, password, username string,
) (*Identity, *access.Snapshot, error) {
	username = core.PlainText(username)
	if username == "" {
		return nil, nil, ErrEmptyUsername
	}

	passwordHash, err := core.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	identity := &Identity{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
	}

	var snap *access.Snapshot
	err = s.runInTx(ctx, func(tx core.DBTX) error {
		if err := s.repo.WithTx(tx).CreateIdentity(ctx, identity); err != nil {
			return err
		}

		created, err := s.profiles.Provision(ctx, tx, identity.ID, username)
		if err != nil {
			return err
		}
		snap = created
		return nil
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, nil, ErrEmailExists
		}
		core.SetSpanError(ctx, err)
		return nil, nil, fmt.Errorf("create member: %w", err)
	}

	return identity, snap, nil
}

func (s *Service) SignIn(
	ctx context.Context,
	req SignInRequest,
	userAgent, ipAddress string,
) (*AuthResponse, error) {
	identity, err := s.repo.GetIdentityByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get identity: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&identity.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.repo.UpdatePassword(ctx, identity.ID, newHash); err != nil {
			slog.Warn("password rehash failed", "error", err, "user_id", identity.ID)
		}
	}

	viewer, err := s.viewers.Resolve(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, identity, viewer, userAgent, ipAddress, "", nil)
}

// Refresh rotates a refresh token. Presenting an already rotated token
// revokes its whole family.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken, userAgent, ipAddress string,
) (*AuthResponse, error) {
	storedToken, err := s.repo.FindTokenByHash(ctx, core.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("find token: %w", err)
	}

	if storedToken.IsUsed {
		if err := s.repo.RevokeTokenFamily(ctx, storedToken.FamilyID); err != nil {
			slog.Error("revoke reused token family failed",
				"error", err,
				"family_id", storedToken.FamilyID,
			)
		}
		return nil, ErrTokenReuse
	}

	if !storedToken.IsValid(s.now()) {
		if storedToken.IsRevoked() {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
		}
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	identity, err := s.repo.GetIdentityByID(ctx, storedToken.UserID)
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	viewer, err := s.viewers.Resolve(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	return s.issueSession(
		ctx,
		identity,
		viewer,
		userAgent,
		ipAddress,
		storedToken.FamilyID,
		&storedToken.ID,
	)
}

// SignOut ends the session of the caller: the refresh token (if given) is
// revoked, the access token is refused until it expires and the cached
// viewer is dropped.
func (s *Service) SignOut(
	ctx context.Context,
	claims *middleware.AccessTokenClaims,
	refreshToken string,
) error {
	if claims == nil || claims.UserID == "" {
		return fmt.Errorf("sign out: %w", core.ErrUnauthorized)
	}

	if refreshToken != "" {
		storedToken, err := s.repo.FindTokenByHash(ctx, core.HashToken(refreshToken))
		switch {
		case errors.Is(err, core.ErrNotFound):
		case err != nil:
			return fmt.Errorf("find token: %w", err)
		case storedToken.UserID != claims.UserID:
			return fmt.Errorf("sign out: %w", core.ErrForbidden)
		default:
			if err := s.repo.RevokeToken(ctx, storedToken.ID); err != nil {
				return err
			}
		}
	}

	if claims.TokenID != "" {
		ttl := claims.ExpiresAt.Sub(s.now())
		if err := s.blacklist.Add(ctx, claims.TokenID, ttl); err != nil {
			return err
		}
	}

	if err := s.viewers.Forget(ctx, claims.UserID); err != nil {
		slog.Warn("viewer cache invalidation failed",
			"error", err,
			"user_id", claims.UserID,
		)
	}

	return nil
}

// VerifyAccessToken implements middleware.TokenVerifier. A blacklist that
// cannot be reached is logged and treated as empty so a Redis outage does
// not sign everyone out; tokens are short lived.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.Contains(ctx, claims.TokenID)
	if err != nil {
		slog.Warn("token blacklist unavailable", "error", err)
		return claims, nil
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

// PruneExpiredTokens deletes refresh tokens that expired more than a day
// ago.
func (s *Service) PruneExpiredTokens(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredTokens(ctx, s.now().Add(-24*time.Hour))
}

// rotateToken marks the presented token used and stores its replacement
// in one transaction, so a failed insert leaves the old token usable.
func (s *Service) rotateToken(
	ctx context.Context,
	oldTokenID string,
	next *RefreshToken,
) error {
	return s.runInTx(ctx, func(tx core.DBTX) error {
		repo := s.repo.WithTx(tx)

		if err := repo.MarkTokenUsed(ctx, oldTokenID, next.ID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return ErrTokenReuse
			}
			return fmt.Errorf("mark token used: %w", err)
		}

		if err := repo.CreateToken(ctx, next); err != nil {
			return fmt.Errorf("store refresh token: %w", err)
		}
		return nil
	})
}

func (s *Service) issueSession(
	ctx context.Context,
	identity *Identity,
	viewer access.Viewer,
	userAgent, ipAddress, familyID string,
	oldTokenID *string,
) (*AuthResponse, error) {
	accessToken, err := s.jwt.CreateAccessToken(identity.ID)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshData, err := s.jwt.CreateRefreshToken(familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	token := &RefreshToken{
		ID:        uuid.New().String(),
		UserID:    identity.ID,
		TokenHash: refreshData.Hash,
		FamilyID:  refreshData.FamilyID,
		ExpiresAt: refreshData.ExpiresAt,
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}

	if oldTokenID == nil {
		if err := s.repo.CreateToken(ctx, token); err != nil {
			return nil, fmt.Errorf("store refresh token: %w", err)
		}
	} else if err := s.rotateToken(ctx, *oldTokenID, token); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Identity: IdentityResponse{
			ID:    identity.ID,
			Email: identity.Email,
		},
		Tokens: TokenResponse{
			AccessToken:  accessToken.Token,
			RefreshToken: refreshData.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTokenTTL() / time.Second),
			ExpiresAt:    accessToken.ExpiresAt,
		},
		Session: viewer.SessionView(),
	}, nil
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordSignup(outcome)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ middleware.TokenVerifier = (*Service)(nil)
