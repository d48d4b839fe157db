// AngelaMos | 2026
// dto.go

package profile

import (
	"time"

	"github.com/techsyncfriends/hub/internal/access"
)

type ProfileResponse struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	AvatarURL   *string      `json:"avatar_url"`
	Approved    bool         `json:"approved"`
	IsAdmin     bool         `json:"is_admin"`
	State       access.State `json:"state"`
	RequestedAt time.Time    `json:"requested_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

func ToProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Username:    p.Username,
		AvatarURL:   p.AvatarURL,
		Approved:    p.Approved,
		IsAdmin:     p.IsAdmin,
		State:       access.Resolve(true, p.Approved, p.IsAdmin),
		RequestedAt: p.RequestedAt,
		CreatedAt:   p.CreatedAt,
	}
}

func ToProfileResponseList(profiles []Profile) []ProfileResponse {
	responses := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, ToProfileResponse(&profiles[i]))
	}
	return responses
}
