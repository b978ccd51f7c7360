package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client. Type carries
// the event name; Data the event payload.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Event names. Clients match on these strings, so they must stay stable.
const (
	InboundTypeChatMessage    = "chatMessage"
	InboundTypePrivateMessage = "privateMessage"
	InboundTypeCallUser       = "call-user"
	InboundTypeCallAnswer     = "call-answer"
	InboundTypeCallReject     = "call-reject"

	OutboundTypeMessage        = "message"
	OutboundTypePrivateMessage = "privateMessage"
	OutboundTypeErrorMessage   = "errorMessage"
	OutboundTypeUserList       = "userList"
	OutboundTypeIncomingCall   = "incoming-call"
	OutboundTypeCallAccepted   = "call-accepted"
	OutboundTypeCallRejected   = "call-rejected"
)

// ChatMessageData is a public chat message from the client.
type ChatMessageData struct {
	Text string `json:"text"`
}

// PrivateMessageData is a direct message addressed to a friend.
type PrivateMessageData struct {
	ToUsername string `json:"toUsername"`
	Text       string `json:"text"`
}

// CallUserData carries a WebRTC offer. The offer is opaque to the server.
type CallUserData struct {
	ToUsername string          `json:"toUsername"`
	Offer      json.RawMessage `json:"offer"`
}

// CallAnswerData carries a WebRTC answer back to the caller.
type CallAnswerData struct {
	ToUsername string          `json:"toUsername"`
	Answer     json.RawMessage `json:"answer"`
}

// CallRejectData declines an incoming call.
type CallRejectData struct {
	ToUsername string `json:"toUsername"`
}

// Outbound is the envelope for messages sent to the client. For
// errorMessage events Data is a bare string, not an object.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// MessageEvent is broadcast to all clients for each public chat message.
type MessageEvent struct {
	Username      string   `json:"username"`
	Discriminator string   `json:"discriminator"`
	Roles         []string `json:"roles"`
	Text          string   `json:"text"`
	Time          string   `json:"time"`
}

// PrivateMessageEvent is unicast to the recipient of a direct message.
type PrivateMessageEvent struct {
	FromUsername string   `json:"fromUsername"`
	FromRoles    []string `json:"fromRoles"`
	Text         string   `json:"text"`
	Time         string   `json:"time"`
}

// UserListEntry is one row of the presence roster.
type UserListEntry struct {
	Username      string   `json:"username"`
	Discriminator string   `json:"discriminator"`
	Roles         []string `json:"roles"`
	AvatarURL     *string  `json:"avatarUrl"`
}

// IncomingCallEvent delivers a call offer to the callee.
type IncomingCallEvent struct {
	FromUsername string          `json:"fromUsername"`
	Offer        json.RawMessage `json:"offer"`
}

// CallAcceptedEvent delivers the callee's answer to the caller.
type CallAcceptedEvent struct {
	FromUsername string          `json:"fromUsername"`
	Answer       json.RawMessage `json:"answer"`
}

// CallRejectedEvent tells the caller the call was declined.
type CallRejectedEvent struct {
	FromUsername string `json:"fromUsername"`
}
