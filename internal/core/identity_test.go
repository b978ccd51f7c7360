package core

import "testing"

func TestDecorateDisplayName(t *testing.T) {
	plain := DecorateDisplayName("alice", []string{RoleUser})
	if plain != "alice" {
		t.Fatalf("plain user decorated: %q", plain)
	}

	decorated := DecorateDisplayName("FakaSys", []string{RoleDeveloper, RoleOwner})
	if decorated == "FakaSys" {
		t.Fatalf("owner not decorated")
	}
	if BareUsername(decorated) != "FakaSys" {
		t.Fatalf("decoration does not round-trip: %q", decorated)
	}
}

func TestBareUsernameLeavesPlainNamesAlone(t *testing.T) {
	if got := BareUsername("bob"); got != "bob" {
		t.Fatalf("plain name mangled: %q", got)
	}
}

func TestNewIdentitySnapshotsDisplayName(t *testing.T) {
	id := NewIdentity("FakaSys", "0007", []string{RoleOwner}, "/avatars/x.png")
	if id.Username != "FakaSys" {
		t.Fatalf("identity key must stay bare: %q", id.Username)
	}
	if id.DisplayName != DecorateDisplayName("FakaSys", id.Roles) {
		t.Fatalf("display name not rendered at construction: %q", id.DisplayName)
	}
}
