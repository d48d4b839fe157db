// AngelaMos | 2026
// entity.go

package profile

import (
	"time"

	"github.com/techsyncfriends/hub/internal/access"
)

// Profile is the community record of an identity. It is created with the
// identity and never deleted independently of it.
type Profile struct {
	ID          string    `db:"id"`
	Username    string    `db:"username"`
	AvatarURL   *string   `db:"avatar_url"`
	Approved    bool      `db:"approved"`
	IsAdmin     bool      `db:"is_admin"`
	RequestedAt time.Time `db:"requested_at"`
	CreatedAt   time.Time `db:"created_at"`
}

func (p *Profile) Snapshot() *access.Snapshot {
	return &access.Snapshot{
		ID:          p.ID,
		Username:    p.Username,
		AvatarURL:   p.AvatarURL,
		Approved:    p.Approved,
		IsAdmin:     p.IsAdmin,
		RequestedAt: p.RequestedAt,
		CreatedAt:   p.CreatedAt,
	}
}
