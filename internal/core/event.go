package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRosterRequest asks an existing member to report its roster to a
	// newcomer, identified by Name.
	EventRosterRequest EventKind = iota
	// EventRosterUpdate delivers one existing member's roster report to the
	// newcomer; Name is the reporting member, merged in by the receiver.
	EventRosterUpdate
	// EventMemberRemoved tells remaining members to drop a departed name.
	EventMemberRemoved
	// EventStateRequest asks an existing member to produce a canvas snapshot.
	EventStateRequest
	// EventCanvasState delivers a canvas snapshot to the newcomer.
	EventCanvasState
	// EventStroke relays a drawn segment.
	EventStroke
	// EventClear relays a clear-surface instruction.
	EventClear
	// EventError notifies the client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in their room.
type Event struct {
	Kind   EventKind
	Room   string
	Name   string
	Roster []string
	Image  string
	Stroke *Stroke
	Error  *CoreError
}
