package core

// Client is one realtime connection as seen by the hub. The transport
// layer writes commands into Commands and drains Events to the socket;
// closing Commands tells the hub the connection is gone.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
	}
}

// send delivers an event without blocking. Events to a slow consumer are
// dropped rather than stalling delivery to others.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}
