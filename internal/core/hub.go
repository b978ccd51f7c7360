package core

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fakasys/fakachat-server/internal/store"
)

// Hub owns the presence registry and routes every inbound event on a single
// goroutine: register, unregister, and client commands are each handled to
// completion before the next one is picked up. That discipline is what makes
// the registry lock-free and the chat-log append single-writer.
type Hub struct {
	registry *Registry
	clients  map[string]*Client

	messages store.MessageStore
	friends  store.FriendStore

	register   chan *Client
	unregister chan *Client
	requests   chan request

	log *zerolog.Logger
}

type request struct {
	client *Client
	cmd    *Command
}

// NewHub constructs a hub over the given stores. The message store must
// append atomically; the friend store is consulted for private sends only.
func NewHub(messages store.MessageStore, friends store.FriendStore, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   NewRegistry(),
		clients:    make(map[string]*Client),
		messages:   messages,
		friends:    friends,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		requests:   make(chan request),
		log:        logger,
	}
}

// RegisterClient admits a client into the hub. The roster broadcast happens
// on the hub goroutine.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient evicts a client. Safe to call for clients whose
// registration was refused; eviction is idempotent.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes hub traffic until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.admit(c)
		case c := <-h.unregister:
			h.evict(c)
		case r := <-h.requests:
			h.dispatch(ctx, r.client, r.cmd)
		}
	}
}

func (h *Hub) admit(c *Client) {
	if err := h.registry.Admit(c.ID, c.Identity); err != nil {
		// Invariant violation: refuse this registration without touching
		// the existing entry.
		h.log.Error().Err(err).Str("conn_id", c.ID).Str("user", c.Identity.Username).
			Msg("duplicate connection id refused")
		h.send(c, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeDuplicateConnection, "connection already registered"),
		})
		return
	}

	h.clients[c.ID] = c
	go h.pump(c)

	h.log.Info().Str("conn_id", c.ID).Str("user", c.Identity.Username).Msg("client admitted")
	h.broadcastRoster()
}

func (h *Hub) evict(c *Client) {
	// Only the client that owns the registry entry may evict it; a refused
	// duplicate unregistering must not disturb the original connection.
	current, ok := h.clients[c.ID]
	if !ok || current != c {
		return
	}

	h.registry.Evict(c.ID)
	delete(h.clients, c.ID)
	close(c.done)

	h.log.Info().Str("conn_id", c.ID).Str("user", c.Identity.Username).Msg("client evicted")
	h.broadcastRoster()
}

func (h *Hub) shutdown() {
	for id, c := range h.clients {
		h.registry.Evict(id)
		delete(h.clients, id)
		close(c.done)
	}
}

// pump forwards one client's commands into the hub loop, preserving
// per-client ordering. It exits when the client is evicted or its command
// channel is closed by the transport.
func (h *Hub) pump(c *Client) {
	for {
		select {
		case <-c.done:
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.requests <- request{client: c, cmd: cmd}:
			case <-c.done:
				return
			}
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandChatMessage:
		h.handleChat(ctx, c, cmd)
	case CommandPrivateMessage:
		h.handlePrivate(ctx, c, cmd)
	case CommandCallOffer:
		h.relaySignal(c, cmd, EventCallIncoming)
	case CommandCallAnswer:
		h.relaySignal(c, cmd, EventCallAccepted)
	case CommandCallReject:
		h.relaySignal(c, cmd, EventCallRejected)
	}
}

func (h *Hub) handleChat(ctx context.Context, c *Client, cmd *Command) {
	if strings.TrimSpace(cmd.Text) == "" {
		return
	}

	msg := &store.ChatMessage{
		Username:      c.Identity.DisplayName,
		Discriminator: c.Identity.Discriminator,
		Roles:         c.Identity.Roles,
		Text:          cmd.Text,
		SentAt:        time.Now(),
	}

	if err := h.messages.AppendMessage(ctx, msg); err != nil {
		h.log.Error().Err(err).Str("user", c.Identity.Username).Msg("append chat message")
		return
	}

	ev := &Event{Kind: EventChatMessage, Message: msg}
	for _, client := range h.clients {
		h.send(client, ev)
	}
}

func (h *Hub) handlePrivate(ctx context.Context, c *Client, cmd *Command) {
	if strings.TrimSpace(cmd.Text) == "" {
		return
	}

	// The friend graph is keyed by bare usernames; the decorated display
	// form never reaches the store.
	ok, err := h.friends.IsFriend(ctx, c.Identity.Username, BareUsername(cmd.To))
	if err != nil {
		h.log.Error().Err(err).Str("user", c.Identity.Username).Msg("friend lookup")
		return
	}
	if !ok {
		h.send(c, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodeNotFriends, "Can only message friends"),
		})
		return
	}

	connID, found := h.registry.FindByUsername(cmd.To)
	if !found {
		// Recipient went offline; dropped without notice. The sender is
		// told about authorization failures but not about this — observed
		// behavior, kept as is.
		return
	}

	h.send(h.clients[connID], &Event{
		Kind: EventPrivateMessage,
		Private: &PrivateMessage{
			FromUsername: c.Identity.DisplayName,
			FromRoles:    c.Identity.Roles,
			Text:         cmd.Text,
			SentAt:       time.Now(),
		},
	})
}

// relaySignal forwards a signaling payload to the target's earliest-admitted
// connection. No call state is kept: the server is a pure relay and call
// lifecycle correctness belongs to the two peers. A missing target is an
// accepted race (callee went offline mid-dial) and is dropped silently.
func (h *Hub) relaySignal(c *Client, cmd *Command, kind EventKind) {
	connID, found := h.registry.FindByUsername(cmd.To)
	if !found {
		return
	}

	signal := &CallSignal{FromUsername: c.Identity.DisplayName}
	if kind != EventCallRejected {
		signal.Payload = cmd.Payload
	}

	h.send(h.clients[connID], &Event{Kind: kind, Call: signal})
}

func (h *Hub) broadcastRoster() {
	ev := &Event{Kind: EventRoster, Roster: h.registry.Snapshot()}
	for _, client := range h.clients {
		h.send(client, ev)
	}
}

func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
