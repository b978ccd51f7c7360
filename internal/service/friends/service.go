package friends

import (
	"context"
	"errors"
	"fmt"

	"github.com/fakasys/fakachat-server/internal/store"
)

// Common errors for friend operations.
var (
	ErrCannotFriendSelf     = errors.New("cannot send friend request to yourself")
	ErrAlreadyFriends       = errors.New("already friends")
	ErrRequestAlreadyExists = errors.New("friend request already exists")
	ErrRequestNotFound      = errors.New("friend request not found")
	ErrUserNotFound         = errors.New("user not found")
)

// Service provides friend management business logic.
type Service struct {
	users   store.UserStore
	friends store.FriendStore
}

// New creates a new friends service.
func New(users store.UserStore, friendStore store.FriendStore) *Service {
	return &Service{
		users:   users,
		friends: friendStore,
	}
}

// SendRequest sends a friend request from one user to another.
func (s *Service) SendRequest(ctx context.Context, fromUser, toUser string) error {
	if fromUser == toUser {
		return ErrCannotFriendSelf
	}

	if _, err := s.users.GetUserByUsername(ctx, toUser); err != nil {
		return ErrUserNotFound
	}

	already, err := s.friends.IsFriend(ctx, fromUser, toUser)
	if err != nil {
		return fmt.Errorf("check friendship: %w", err)
	}
	if already {
		return ErrAlreadyFriends
	}

	pending, err := s.friends.HasFriendRequest(ctx, fromUser, toUser)
	if err != nil {
		return fmt.Errorf("check pending request: %w", err)
	}
	if pending {
		return ErrRequestAlreadyExists
	}

	if err := s.friends.CreateFriendRequest(ctx, fromUser, toUser); err != nil {
		return fmt.Errorf("create friend request: %w", err)
	}
	return nil
}

// Respond accepts or rejects a pending request addressed to username.
// Accepting writes both directions of the friend graph, which is what lets
// readers get away with a single-direction lookup.
func (s *Service) Respond(ctx context.Context, username, fromUser string, accept bool) error {
	pending, err := s.friends.HasFriendRequest(ctx, fromUser, username)
	if err != nil {
		return fmt.Errorf("check pending request: %w", err)
	}
	if !pending {
		return ErrRequestNotFound
	}

	if err := s.friends.DeleteFriendRequest(ctx, fromUser, username); err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}

	if !accept {
		return nil
	}

	if err := s.friends.AddFriendship(ctx, username, fromUser); err != nil {
		return fmt.Errorf("add friendship: %w", err)
	}
	return nil
}

// Overview returns the incoming pending requests and current friends of a user.
func (s *Service) Overview(ctx context.Context, username string) (incoming, friendsOf []string, err error) {
	incoming, err = s.friends.ListFriendRequests(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("list friend requests: %w", err)
	}
	friendsOf, err = s.friends.ListFriends(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("list friends: %w", err)
	}
	return incoming, friendsOf, nil
}
