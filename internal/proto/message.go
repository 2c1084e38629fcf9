package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client. Type names
// mirror the browser client's socket events.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinRoom       = "join-room"
	InboundTypeReadyLeader    = "client-ready-leader"
	InboundTypeReady          = "client-ready"
	InboundTypeReceiveMembers = "receive-members"
	InboundTypeCanvasState    = "canvas-state"
	InboundTypeDraw           = "onDraw"
	InboundTypeClear          = "handleClear"
	InboundTypeExit           = "exit"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventGetMembers    = "get-members"
	EventUpdateMembers = "update-members"
	EventRemoveMember  = "remove-member"
	EventGetState      = "get-state"
	EventCanvasState   = "canvas-state-from-server"
	EventDraw          = "onDraw"
	EventClear         = "handleClear"
)

// Point is a canvas coordinate on the wire.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// JoinRoomData requests to enter a room, creating it implicitly on first use.
type JoinRoomData struct {
	Room string `json:"roomId"`
}

// ReadyData announces a member under its display name. Sent as
// "client-ready-leader" by the room's originating member, "client-ready"
// otherwise.
type ReadyData struct {
	Room string `json:"roomId"`
	Name string `json:"name"`
}

// ReceiveMembersData is one existing member's roster report, addressed to the
// newcomer by name.
type ReceiveMembersData struct {
	Room    string   `json:"roomId"`
	Members []string `json:"members"`
	Name    string   `json:"name"`
}

// CanvasStateData carries an encoded canvas image (a data URI) in reply to a
// snapshot request.
type CanvasStateData struct {
	Room  string `json:"roomId"`
	State string `json:"state"`
}

// DrawData is a stroke segment, relayed verbatim in both directions.
type DrawData struct {
	Room          string  `json:"roomId"`
	CurrentPoints []Point `json:"currentPoints"`
	PrePoints     []Point `json:"prePoints"`
	Color         string  `json:"color"`
	Size          float64 `json:"size"`
}

// ClearData is a clear-surface instruction, relayed in both directions.
type ClearData struct {
	Room string `json:"roomId"`
}

// ExitData is a voluntary departure.
type ExitData struct {
	Room string `json:"roomId"`
	Name string `json:"name"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// OutboundFrame mirrors Outbound with the payload kept raw, for consumers
// that decode server frames.
type OutboundFrame struct {
	Type  string          `json:"type"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

// GetMembersData asks an existing member to report its roster to the named
// newcomer.
type GetMembersData struct {
	Name string `json:"name"`
}

// UpdateMembersData delivers a roster report; the receiver merges the members
// plus the reporting name into its view.
type UpdateMembersData struct {
	Members []string `json:"members"`
	Name    string   `json:"name"`
}

// RemoveMemberData tells clients to drop a departed member.
type RemoveMemberData struct {
	Name string `json:"name"`
}

// CanvasStateFromServerData delivers a snapshot to the newcomer.
type CanvasStateFromServerData struct {
	State string `json:"state"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
