package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fakasys/fakachat-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMessageLogBoundedAt50(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 51; i++ {
		err := s.AppendMessage(ctx, &store.ChatMessage{
			Username:      "alice",
			Discriminator: "0001",
			Roles:         []string{"User"},
			Text:          fmt.Sprintf("m%d", i),
			SentAt:        time.Now(),
		})
		if err != nil {
			t.Fatalf("append m%d: %v", i, err)
		}
	}

	msgs, err := s.ListMessages(ctx)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != store.HistoryLimit {
		t.Fatalf("expected %d messages, got %d", store.HistoryLimit, len(msgs))
	}
	if msgs[0].Text != "m2" {
		t.Fatalf("oldest message not evicted: first is %q", msgs[0].Text)
	}
	for i, m := range msgs {
		if want := fmt.Sprintf("m%d", i+2); m.Text != want {
			t.Fatalf("message %d out of order: got %q want %q", i, m.Text, want)
		}
	}
}

func TestAppendMessageSetsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msg := &store.ChatMessage{Username: "bob", Discriminator: "1234", Roles: []string{"User"}, Text: "hi", SentAt: time.Now()}
	if err := s.AppendMessage(ctx, msg); err != nil {
		t.Fatalf("append: %v", err)
	}
	if msg.ID == 0 {
		t.Fatalf("expected ID to be assigned")
	}
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "alice", "hash", "0042", []string{"User"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Discriminator != "0042" || len(u.Roles) != 1 || u.Roles[0] != "User" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Status != store.StatusOnline {
		t.Fatalf("new users start online, got %q", u.Status)
	}

	if err := s.UpdateProfile(ctx, "alice", "hello there", store.StatusOnline); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if err := s.UpdateAvatar(ctx, "alice", "/avatars/a.png"); err != nil {
		t.Fatalf("update avatar: %v", err)
	}

	lastSeen := time.Now()
	if err := s.UpdateStatus(ctx, "alice", store.StatusOffline, lastSeen); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Bio != "hello there" || got.AvatarURL != "/avatars/a.png" || got.Status != store.StatusOffline {
		t.Fatalf("updates not persisted: %+v", got)
	}
}

func TestDuplicateUsernameRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "alice", "hash", "0001", []string{"User"}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.CreateUser(ctx, "alice", "hash2", "0002", []string{"User"}); err == nil {
		t.Fatalf("expected unique constraint violation")
	}
}

func TestFriendGraphSymmetricWrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddFriendship(ctx, "alice", "bob"); err != nil {
		t.Fatalf("add friendship: %v", err)
	}

	for _, pair := range [][2]string{{"alice", "bob"}, {"bob", "alice"}} {
		ok, err := s.IsFriend(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("is friend: %v", err)
		}
		if !ok {
			t.Fatalf("friendship %v not symmetric", pair)
		}
	}

	ok, err := s.IsFriend(ctx, "alice", "carol")
	if err != nil {
		t.Fatalf("is friend: %v", err)
	}
	if ok {
		t.Fatalf("unexpected friendship")
	}

	// Re-adding is idempotent.
	if err := s.AddFriendship(ctx, "alice", "bob"); err != nil {
		t.Fatalf("re-add friendship: %v", err)
	}
	friends, err := s.ListFriends(ctx, "alice")
	if err != nil {
		t.Fatalf("list friends: %v", err)
	}
	if len(friends) != 1 || friends[0] != "bob" {
		t.Fatalf("unexpected friends: %v", friends)
	}
}

func TestFriendRequestLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateFriendRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := s.CreateFriendRequest(ctx, "carol", "bob"); err != nil {
		t.Fatalf("create request: %v", err)
	}

	ok, err := s.HasFriendRequest(ctx, "alice", "bob")
	if err != nil || !ok {
		t.Fatalf("expected pending request, ok=%v err=%v", ok, err)
	}

	incoming, err := s.ListFriendRequests(ctx, "bob")
	if err != nil {
		t.Fatalf("list requests: %v", err)
	}
	if len(incoming) != 2 {
		t.Fatalf("expected 2 incoming requests, got %v", incoming)
	}

	if err := s.DeleteFriendRequest(ctx, "alice", "bob"); err != nil {
		t.Fatalf("delete request: %v", err)
	}
	ok, _ = s.HasFriendRequest(ctx, "alice", "bob")
	if ok {
		t.Fatalf("request not deleted")
	}

	// Deleting an absent request is a no-op.
	if err := s.DeleteFriendRequest(ctx, "ghost", "bob"); err != nil {
		t.Fatalf("delete absent request: %v", err)
	}
}
