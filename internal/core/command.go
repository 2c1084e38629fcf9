package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom registers the client under a room, creating it if absent.
	CommandJoinRoom CommandKind = iota
	// CommandReadyLeader announces the room's originating member. No roster
	// collection happens because the leader is first by construction.
	CommandReadyLeader
	// CommandReady announces a non-originating member and triggers roster
	// collection plus a canvas snapshot transfer from an existing member.
	CommandReady
	// CommandReportRoster carries one existing member's roster view, addressed
	// to a newcomer by name.
	CommandReportRoster
	// CommandCanvasState carries an encoded canvas image in reply to a
	// snapshot request.
	CommandCanvasState
	// CommandStroke relays a drawn segment to the other room members.
	CommandStroke
	// CommandClear relays a clear-surface instruction to the other members.
	CommandClear
	// CommandExit is a voluntary departure from the room.
	CommandExit
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind
	Room string
	// Name is the member name the command concerns: the client's own name for
	// ready/exit, the addressed newcomer for roster reports.
	Name   string
	Roster []string
	Image  string
	Stroke *Stroke
}
