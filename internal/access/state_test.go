// AngelaMos | 2026
// state_test.go

package access

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		session, approved, admin bool
		want                     State
	}{
		{false, false, false, StateAnonymous},
		{false, true, false, StateAnonymous},
		{false, false, true, StateAnonymous},
		{false, true, true, StateAnonymous},
		{true, false, false, StatePendingApproval},
		{true, true, false, StateMember},
		{true, false, true, StateAdmin},
		{true, true, true, StateAdmin},
	}

	for _, tt := range tests {
		got := Resolve(tt.session, tt.approved, tt.admin)
		if got != tt.want {
			t.Errorf("Resolve(%t, %t, %t) = %q, want %q",
				tt.session, tt.approved, tt.admin, got, tt.want)
		}
		if !got.Valid() {
			t.Errorf("Resolve returned invalid state %q", got)
		}
	}
}

func TestVisibility(t *testing.T) {
	tests := []struct {
		state State
		want  Visibility
	}{
		{StateAnonymous, Visibility{JoinPrompt: true}},
		{StatePendingApproval, Visibility{PendingNotice: true}},
		{StateMember, Visibility{Feed: true, Composer: true}},
		{StateAdmin, Visibility{Feed: true, Composer: true, AdminDashboard: true}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.Visibility(); got != tt.want {
				t.Errorf("Visibility() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if State("superuser").Valid() {
		t.Error("unknown state reported valid")
	}
	if StatePendingApproval.CanViewFeed() || StatePendingApproval.CanPost() {
		t.Error("pending member can reach the feed")
	}
	if StateMember.CanModerate() {
		t.Error("member can moderate")
	}
}

func TestNewViewerWithoutProfileIsPending(t *testing.T) {
	v := NewViewer("u1", nil)
	if v.State != StatePendingApproval {
		t.Fatalf("state = %q, want pending_approval", v.State)
	}
	if !v.SignedIn() {
		t.Fatal("viewer with a user id not signed in")
	}

	if anon := NewViewer("", &Snapshot{IsAdmin: true}); anon.State != StateAnonymous {
		t.Fatalf("state without session = %q", anon.State)
	}
}
