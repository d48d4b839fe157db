// AngelaMos | 2026
// forms.go

package registration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techsyncfriends/hub/internal/core"
)

// Form is handed to the client when it displays the sign-up form and must
// come back with the submission.
type Form struct {
	Token       string        `json:"form_token"`
	IssuedAt    time.Time     `json:"issued_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
	MinFillTime time.Duration `json:"-"`
	// HoneypotField is the field name a front end must render hidden.
	HoneypotField string `json:"honeypot_field"`
}

const HoneypotField = "website"

// FormStore remembers when each form was displayed.
type FormStore interface {
	Issue(ctx context.Context, token string, issuedAt time.Time) error
	IssuedAt(ctx context.Context, token string) (time.Time, error)
	Consume(ctx context.Context, token string) error
}

type RedisFormStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFormStore(client *redis.Client, ttl time.Duration) *RedisFormStore {
	return &RedisFormStore{client: client, ttl: ttl}
}

func formKey(token string) string {
	return core.RedisKey("signup_form", core.HashToken(token))
}

func (s *RedisFormStore) Issue(
	ctx context.Context,
	token string,
	issuedAt time.Time,
) error {
	val := strconv.FormatInt(issuedAt.UnixMilli(), 10)
	if err := s.client.Set(ctx, formKey(token), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("store signup form: %w", err)
	}
	return nil
}

func (s *RedisFormStore) IssuedAt(
	ctx context.Context,
	token string,
) (time.Time, error) {
	val, err := s.client.Get(ctx, formKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, ErrFormExpired
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read signup form: %w", err)
	}

	ms, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse signup form: %w", err)
	}

	return time.UnixMilli(ms), nil
}

func (s *RedisFormStore) Consume(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, formKey(token)).Err(); err != nil {
		return fmt.Errorf("consume signup form: %w", err)
	}
	return nil
}

type OutcomeRecorder interface {
	RecordSignup(outcome string)
}

// Screener ties the form store to the guard.
type Screener struct {
	guard    *Guard
	forms    FormStore
	ttl      time.Duration
	recorder OutcomeRecorder
	now      func() time.Time
}

func NewScreener(
	guard *Guard,
	forms FormStore,
	ttl time.Duration,
	recorder OutcomeRecorder,
) *Screener {
	return &Screener{
		guard:    guard,
		forms:    forms,
		ttl:      ttl,
		recorder: recorder,
		now:      time.Now,
	}
}

func (s *Screener) NewForm(ctx context.Context) (*Form, error) {
	token, err := core.GenerateSecureToken(24)
	if err != nil {
		return nil, fmt.Errorf("generate form token: %w", err)
	}

	now := s.now()
	if err := s.forms.Issue(ctx, token, now); err != nil {
		return nil, err
	}

	return &Form{
		Token:         token,
		IssuedAt:      now,
		ExpiresAt:     now.Add(s.ttl),
		MinFillTime:   s.guard.minFillTime,
		HoneypotField: HoneypotField,
	}, nil
}

// Screen returns nil when the submission may proceed to the auth service.
// A form that fails the timing check stays valid so the member can simply
// submit again; a passing form is consumed.
func (s *Screener) Screen(ctx context.Context, token, honeypot string) error {
	if honeypot != "" {
		return s.reject(ErrHoneypotFilled, "honeypot")
	}

	if token == "" {
		return s.reject(ErrFormExpired, "form_expired")
	}

	issuedAt, err := s.forms.IssuedAt(ctx, token)
	if err != nil {
		if errors.Is(err, ErrFormExpired) {
			return s.reject(err, "form_expired")
		}
		return err
	}

	if err := s.guard.Check(Submission{StartedAt: issuedAt}); err != nil {
		return s.reject(err, "too_fast")
	}

	if err := s.forms.Consume(ctx, token); err != nil {
		return err
	}

	return nil
}

func (s *Screener) reject(err error, outcome string) error {
	if s.recorder != nil {
		s.recorder.RecordSignup(outcome)
	}
	return err
}
