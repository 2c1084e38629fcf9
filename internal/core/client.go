package core

// Client is a connected participant as seen by the core layer.
type Client struct {
	ID     string
	Name   string
	Leader bool
	// Room is the code of the room the client currently occupies, "" if none.
	// A client is visible in at most one room's roster at a time.
	Room     string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels. The name is
// usually empty until the client announces readiness.
func NewClient(id, name string) *Client {
	return &Client{
		ID:       id,
		Name:     name,
		Commands: make(chan *Command, 16),
		Events:   make(chan *Event, 64),
	}
}
