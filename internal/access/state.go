// AngelaMos | 2026
// state.go

package access

// State is the visibility state of whoever is making a request. Exactly
// one holds at any time and it is a pure function of
// (session present, approved, is_admin).
type State string

const (
	StateAnonymous       State = "anonymous"
	StatePendingApproval State = "pending_approval"
	StateMember          State = "member"
	StateAdmin           State = "admin"
)

// AllStates lists every state in gate order.
var AllStates = []State{
	StateAnonymous,
	StatePendingApproval,
	StateMember,
	StateAdmin,
}

// Resolve maps the three inputs onto a state. An admin is authorized
// whatever the approved flag says.
func Resolve(sessionPresent, approved, isAdmin bool) State {
	switch {
	case !sessionPresent:
		return StateAnonymous
	case isAdmin:
		return StateAdmin
	case approved:
		return StateMember
	default:
		return StatePendingApproval
	}
}

func (s State) String() string {
	return string(s)
}

func (s State) Valid() bool {
	switch s {
	case StateAnonymous, StatePendingApproval, StateMember, StateAdmin:
		return true
	}
	return false
}

// Visibility is what a front end should render for a state.
type Visibility struct {
	Feed           bool `json:"feed"`
	Composer       bool `json:"composer"`
	AdminDashboard bool `json:"admin_dashboard"`
	JoinPrompt     bool `json:"join_prompt"`
	PendingNotice  bool `json:"pending_notice"`
}

func (s State) Visibility() Visibility {
	switch s {
	case StateAdmin:
		return Visibility{Feed: true, Composer: true, AdminDashboard: true}
	case StateMember:
		return Visibility{Feed: true, Composer: true}
	case StatePendingApproval:
		return Visibility{PendingNotice: true}
	default:
		return Visibility{JoinPrompt: true}
	}
}

func (s State) CanViewFeed() bool {
	return s.Visibility().Feed
}

func (s State) CanPost() bool {
	return s.Visibility().Composer
}

func (s State) CanModerate() bool {
	return s.Visibility().AdminDashboard
}
