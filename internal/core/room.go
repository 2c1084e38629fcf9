package core

import "time"

// Room groups the connected members of one shared drawing surface. Member
// order is join order; the earliest still-connected member is the preferred
// canvas snapshot source for newcomers.
type Room struct {
	Code       string
	members    []*Client
	emptySince time.Time
}

// NewRoom constructs a room with no members.
func NewRoom(code string) *Room {
	return &Room{Code: code}
}

// AddMember appends a client to the room. Returns true if newly added.
func (r *Room) AddMember(c *Client) bool {
	if r.Contains(c) {
		return false
	}
	r.members = append(r.members, c)
	r.emptySince = time.Time{}
	return true
}

// RemoveMember deletes a client from the room, marking the time the room
// emptied when the last member left. Returns true if removed.
func (r *Room) RemoveMember(c *Client, now time.Time) bool {
	for i, m := range r.members {
		if m == c {
			r.members = append(r.members[:i], r.members[i+1:]...)
			if len(r.members) == 0 {
				r.emptySince = now
			}
			return true
		}
	}
	return false
}

// Contains reports whether the client is a member of the room.
func (r *Room) Contains(c *Client) bool {
	for _, m := range r.members {
		if m == c {
			return true
		}
	}
	return false
}

// Members returns the members in join order.
func (r *Room) Members() []*Client {
	out := make([]*Client, len(r.members))
	copy(out, r.members)
	return out
}

// MembersBefore returns the members that joined strictly before c, in join
// order. Returns nil if c is not a member.
func (r *Room) MembersBefore(c *Client) []*Client {
	for i, m := range r.members {
		if m == c {
			out := make([]*Client, i)
			copy(out, r.members[:i])
			return out
		}
	}
	return nil
}

// Names returns the display names of all members, join order, skipping
// members that have not announced yet.
func (r *Room) Names() []string {
	names := make([]string, 0, len(r.members))
	for _, m := range r.members {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

// Empty returns true if no members are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// EmptySince returns when the room last emptied, zero while occupied.
func (r *Room) EmptySince() time.Time {
	return r.emptySince
}

// Broadcast sends an event to all members of the room.
func (r *Room) Broadcast(event *Event) {
	r.BroadcastExcept(event, nil)
}

// BroadcastExcept sends an event to every member but the excluded one.
// Delivery is fire-and-forget: a slow member's event is dropped rather than
// stalling the room.
func (r *Room) BroadcastExcept(event *Event, except *Client) {
	for _, m := range r.members {
		if m == except {
			continue
		}
		select {
		case m.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}
