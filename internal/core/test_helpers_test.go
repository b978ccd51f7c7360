package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fakasys/fakachat-server/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, wait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v received: %+v", kind, ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// fakeMessageLog implements store.MessageStore in memory with the same
// bounded-append contract as the sqlite store.
type fakeMessageLog struct {
	mu       sync.Mutex
	messages []*store.ChatMessage
}

func (f *fakeMessageLog) AppendMessage(_ context.Context, msg *store.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	if len(f.messages) > store.HistoryLimit {
		f.messages = f.messages[len(f.messages)-store.HistoryLimit:]
	}
	return nil
}

func (f *fakeMessageLog) ListMessages(_ context.Context) ([]*store.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*store.ChatMessage, len(f.messages))
	copy(out, f.messages)
	return out, nil
}

// fakeFriendGraph implements store.FriendStore over a plain adjacency map.
type fakeFriendGraph struct {
	friends map[string][]string
}

func newFakeFriendGraph() *fakeFriendGraph {
	return &fakeFriendGraph{friends: make(map[string][]string)}
}

func (f *fakeFriendGraph) befriend(a, b string) {
	f.friends[a] = append(f.friends[a], b)
	f.friends[b] = append(f.friends[b], a)
}

func (f *fakeFriendGraph) IsFriend(_ context.Context, username, friend string) (bool, error) {
	for _, name := range f.friends[username] {
		if name == friend {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriendGraph) ListFriends(_ context.Context, username string) ([]string, error) {
	return f.friends[username], nil
}

func (f *fakeFriendGraph) AddFriendship(_ context.Context, a, b string) error {
	f.befriend(a, b)
	return nil
}

func (f *fakeFriendGraph) CreateFriendRequest(_ context.Context, _, _ string) error { return nil }

func (f *fakeFriendGraph) HasFriendRequest(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (f *fakeFriendGraph) DeleteFriendRequest(_ context.Context, _, _ string) error { return nil }

func (f *fakeFriendGraph) ListFriendRequests(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func testIdentity(username string, roles ...string) Identity {
	if roles == nil {
		roles = []string{RoleUser}
	}
	return NewIdentity(username, "0042", roles, "")
}
