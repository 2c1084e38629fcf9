package core

import "time"

// Registry is the server-authoritative mapping from room code to the set of
// connected members. It is plain data: the hub actor owns it and serializes
// every mutation, so no locking happens here.
type Registry struct {
	rooms map[string]*Room
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Join registers the client under the room code, creating the room implicitly
// on first use. Any code is valid on first join; there is no "room not found"
// path here.
func (g *Registry) Join(code string, c *Client) *Room {
	room, ok := g.rooms[code]
	if !ok {
		room = NewRoom(code)
		g.rooms[code] = room
	}
	room.AddMember(c)
	return room
}

// Leave removes the client from the room. An emptied room is kept around
// until ReapEmpty collects it, so a quick rejoin resurrects it.
func (g *Registry) Leave(code string, c *Client, now time.Time) (*Room, bool) {
	room, ok := g.rooms[code]
	if !ok {
		return nil, false
	}
	if !room.RemoveMember(c, now) {
		return room, false
	}
	return room, true
}

// Room looks up a room by code.
func (g *Registry) Room(code string) (*Room, bool) {
	room, ok := g.rooms[code]
	return room, ok
}

// Len returns the number of live rooms, empty-but-unreaped ones included.
func (g *Registry) Len() int {
	return len(g.rooms)
}

// ReapEmpty deletes rooms that have been empty for at least the grace period
// and returns their codes.
func (g *Registry) ReapEmpty(now time.Time, grace time.Duration) []string {
	var reaped []string
	for code, room := range g.rooms {
		if !room.Empty() {
			continue
		}
		if now.Sub(room.EmptySince()) >= grace {
			delete(g.rooms, code)
			reaped = append(reaped, code)
		}
	}
	return reaped
}
