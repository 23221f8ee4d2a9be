package auth

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"mentor":      RoleMentor,
		" Candidate ": RoleCandidate,
		"ADMIN":       RoleAdmin,
		"reviewer":    Role("reviewer"),
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
	if Role("reviewer").Valid() {
		t.Fatalf("unknown role must not be valid")
	}
	if !RoleAdmin.Valid() {
		t.Fatalf("admin must be valid")
	}
}

func TestIdentity_IsMentor(t *testing.T) {
	if !(Identity{Role: RoleMentor}).IsMentor() {
		t.Fatalf("expected mentor")
	}
	if (Identity{Role: RoleCandidate}).IsMentor() {
		t.Fatalf("did not expect mentor")
	}
}

func TestSessionState_Authenticated(t *testing.T) {
	id := &Identity{ID: "u1", Role: RoleCandidate}
	if (SessionState{Loading: true, Identity: id}).Authenticated() {
		t.Fatalf("loading state must not count as authenticated")
	}
	if (SessionState{}).Authenticated() {
		t.Fatalf("missing identity must not count as authenticated")
	}
	if !(SessionState{Identity: id}).Authenticated() {
		t.Fatalf("expected authenticated")
	}
}
