package store

import (
	"context"
	"time"
)

// HistoryLimit bounds the public chat log. The oldest message is evicted
// once the limit is exceeded.
const HistoryLimit = 50

// User statuses tracked for the presence-adjacent profile fields.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// User represents a registered account.
type User struct {
	ID            int64
	Username      string
	PasswordHash  string
	Discriminator string
	Roles         []string
	Bio           string
	AvatarURL     string
	Status        string
	LastSeen      time.Time
	CreatedAt     time.Time
}

// ChatMessage is a persisted public chat message. Username holds the
// decorated display form, matching what was broadcast.
type ChatMessage struct {
	ID            int64
	Username      string
	Discriminator string
	Roles         []string
	Text          string
	SentAt        time.Time
}

// UserStore handles account persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash, discriminator string, roles []string) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// UpdateProfile updates bio and status for a user.
	UpdateProfile(ctx context.Context, username, bio, status string) error

	// UpdateAvatar sets the avatar URL for a user.
	UpdateAvatar(ctx context.Context, username, avatarURL string) error

	// UpdateStatus records online/offline transitions. lastSeen is stored
	// as given; callers pass time.Now() on going offline.
	UpdateStatus(ctx context.Context, username, status string, lastSeen time.Time) error
}

// MessageStore handles the bounded public chat log.
type MessageStore interface {
	// AppendMessage appends a message and evicts the oldest entries beyond
	// HistoryLimit, atomically.
	AppendMessage(ctx context.Context, msg *ChatMessage) error

	// ListMessages returns the log oldest-first.
	ListMessages(ctx context.Context) ([]*ChatMessage, error)
}

// FriendStore handles the friend graph and pending requests. The graph is
// symmetric by construction: accepting a request writes both directions.
// Readers rely on that and check a single direction only.
type FriendStore interface {
	// IsFriend checks one direction of the friend graph.
	IsFriend(ctx context.Context, username, friend string) (bool, error)

	// ListFriends lists the friends of a user.
	ListFriends(ctx context.Context, username string) ([]string, error)

	// AddFriendship records the friendship in both directions.
	AddFriendship(ctx context.Context, a, b string) error

	// CreateFriendRequest records a pending request from one user to another.
	CreateFriendRequest(ctx context.Context, fromUser, toUser string) error

	// HasFriendRequest checks for a pending request.
	HasFriendRequest(ctx context.Context, fromUser, toUser string) (bool, error)

	// DeleteFriendRequest removes a pending request. Absent requests are a no-op.
	DeleteFriendRequest(ctx context.Context, fromUser, toUser string) error

	// ListFriendRequests lists usernames with a pending request to the user.
	ListFriendRequests(ctx context.Context, toUser string) ([]string, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore
	FriendStore

	// Close closes the underlying database connection.
	Close() error
}
