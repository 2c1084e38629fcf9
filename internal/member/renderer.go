// Package member implements the participant side of the room protocol: the
// roster a client accretes from peer reports, the canvas snapshot exchange
// that seeds a newcomer, and the local-first drawing relay. The state machine
// is transport-free; Client runs it over a live websocket.
package member

import "github.com/nextpaint/paintroom-server/internal/proto"

// Renderer is the local drawing surface a session paints on. Implementations
// live outside this package; tests use a recording fake.
type Renderer interface {
	// DrawStroke paints a segment using the same deterministic routine on
	// every surface: same color, brush size and point interpolation.
	DrawStroke(current, previous []proto.Point, color string, size float64)
	// Clear wipes the surface.
	Clear()
	// ApplySnapshot composites an encoded image onto the surface at the
	// origin. Applying the same image twice must not corrupt the result.
	ApplySnapshot(state string)
	// Snapshot encodes the current surface, typically as a data URI.
	Snapshot() string
}
