// AngelaMos | 2026
// guard.go

// Package registration screens sign-up submissions for obvious automation
// before any credential reaches the auth service. Both heuristics are best
// effort: a client that reads the form and waits can pass them, so they
// reduce spam and are not a security boundary.
package registration

import (
	"errors"
	"time"
)

const DefaultMinFillTime = 3 * time.Second

var (
	ErrHoneypotFilled   = errors.New("honeypot field filled")
	ErrSubmittedTooFast = errors.New("form submitted too fast")
	ErrFormExpired      = errors.New("form token unknown or expired")
)

// UserMessage is the inline text shown next to the form for a rejection.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrHoneypotFilled):
		return "Invalid submission detected"
	case errors.Is(err, ErrSubmittedTooFast):
		return "Please take your time filling out the form"
	case errors.Is(err, ErrFormExpired):
		return "This form has expired, please reload it and try again"
	default:
		return "Invalid submission"
	}
}

func IsRejection(err error) bool {
	return errors.Is(err, ErrHoneypotFilled) ||
		errors.Is(err, ErrSubmittedTooFast) ||
		errors.Is(err, ErrFormExpired)
}

type Submission struct {
	Honeypot  string
	StartedAt time.Time
}

type Guard struct {
	minFillTime time.Duration
	now         func() time.Time
}

func NewGuard(minFillTime time.Duration) *Guard {
	return &Guard{minFillTime: minFillTime, now: time.Now}
}

// Check rejects a filled honeypot or a form completed faster than the
// minimum fill time. The honeypot wins when both apply.
func (g *Guard) Check(s Submission) error {
	if s.Honeypot != "" {
		return ErrHoneypotFilled
	}

	if g.now().Sub(s.StartedAt) < g.minFillTime {
		return ErrSubmittedTooFast
	}

	return nil
}
