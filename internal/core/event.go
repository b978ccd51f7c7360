package core

import (
	"encoding/json"
	"time"

	"github.com/fakasys/fakachat-server/internal/store"
)

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventChatMessage carries a public chat message to every connection.
	EventChatMessage EventKind = iota
	// EventPrivateMessage carries a direct message to one connection.
	EventPrivateMessage
	// EventRoster delivers the full presence list after every admit and evict.
	EventRoster
	// EventError notifies a single client about a domain error.
	EventError

	// Call signaling events
	// EventCallIncoming delivers a call offer to the callee.
	EventCallIncoming
	// EventCallAccepted delivers the callee's answer to the caller.
	EventCallAccepted
	// EventCallRejected tells the caller the call was declined.
	EventCallRejected
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	Message *store.ChatMessage // EventChatMessage
	Private *PrivateMessage    // EventPrivateMessage
	Roster  []Identity         // EventRoster
	Error   *CoreError         // EventError
	Call    *CallSignal        // call events
}

// PrivateMessage is a one-hop direct message. It is never persisted.
type PrivateMessage struct {
	FromUsername string // decorated display form
	FromRoles    []string
	Text         string
	SentAt       time.Time
}

// CallSignal is a relayed signaling payload with the sender attached.
// Payload is nil for rejections.
type CallSignal struct {
	FromUsername string // decorated display form
	Payload      json.RawMessage
}
