package core

import "strings"

// Role names assigned at registration.
const (
	RoleUser      = "User"
	RoleDeveloper = "Developer"
	RoleOwner     = "Owner"
)

// ownerDecoration is appended to the display name of owner accounts.
// It is presentation only and never part of the identity key.
const ownerDecoration = " \U0001F451" // crown

// Identity is the per-connection snapshot of who is on the other end.
// It is taken once when the connection is admitted and never mutated;
// profile or role changes made during a session take effect on reconnect.
type Identity struct {
	Username      string // identity key, always undecorated
	DisplayName   string // rendered form, decorated for owner accounts
	Discriminator string // 4 digits, zero-padded
	Roles         []string
	AvatarURL     string
}

// NewIdentity builds an immutable identity snapshot. The display name is
// rendered here and nowhere else.
func NewIdentity(username, discriminator string, roles []string, avatarURL string) Identity {
	return Identity{
		Username:      username,
		DisplayName:   DecorateDisplayName(username, roles),
		Discriminator: discriminator,
		Roles:         roles,
		AvatarURL:     avatarURL,
	}
}

// HasRole reports whether the role set contains the given role.
func HasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// DecorateDisplayName renders the display form of a username.
// Owner accounts get a crown suffix.
func DecorateDisplayName(username string, roles []string) string {
	if HasRole(roles, RoleOwner) {
		return username + ownerDecoration
	}
	return username
}

// BareUsername strips the display decoration, if present, so that inputs
// holding either form resolve to the same identity key.
func BareUsername(name string) string {
	return strings.TrimSuffix(name, ownerDecoration)
}
