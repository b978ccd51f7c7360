package core

// Client is a live connection as seen by the core layer. The transport
// pushes commands into Commands and drains Events back out.
type Client struct {
	ID       string
	Identity Identity
	Commands chan *Command
	Events   chan *Event

	// done is closed by the hub when the client is evicted, stopping the
	// command pump for this connection.
	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id string, identity Identity) *Client {
	return &Client{
		ID:       id,
		Identity: identity,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
		done:     make(chan struct{}),
	}
}
