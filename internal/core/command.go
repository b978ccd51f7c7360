package core

import "encoding/json"

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandChatMessage broadcasts a chat message to everyone connected.
	CommandChatMessage CommandKind = iota
	// CommandPrivateMessage sends a direct message to a mutual friend.
	CommandPrivateMessage
	// CommandCallOffer relays a call offer to the target user.
	CommandCallOffer
	// CommandCallAnswer relays a call answer back to the caller.
	CommandCallAnswer
	// CommandCallReject tells the caller the call was declined.
	CommandCallReject
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind
	To   string // target username for private messages and signaling
	Text string
	// Payload carries the SDP offer or answer for signaling commands.
	// It is opaque to the server and forwarded byte-for-byte.
	Payload json.RawMessage
}
