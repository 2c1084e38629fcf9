package member

import (
	"encoding/json"
	"fmt"

	"github.com/nextpaint/paintroom-server/internal/core"
	"github.com/nextpaint/paintroom-server/internal/proto"
)

// Session is one participant's protocol state machine. It consumes server
// frames, keeps the roster converged, answers roster and snapshot requests,
// and applies relayed drawing events to the renderer. It performs no I/O;
// callers send the frames it returns.
type Session struct {
	room     string
	name     string
	leader   bool
	roster   *Roster
	renderer Renderer
}

// NewSession validates the identifiers at the boundary and builds a session.
// The leader flag marks the member who created the room; it only changes
// which announce frame is sent.
func NewSession(room, name string, leader bool, renderer Renderer) (*Session, error) {
	code, err := proto.NormalizeRoomCode(room)
	if err != nil {
		return nil, err
	}
	if err := proto.ValidateName(name); err != nil {
		return nil, err
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	return &Session{
		room:     code,
		name:     name,
		leader:   leader,
		roster:   NewRoster(),
		renderer: renderer,
	}, nil
}

// Room returns the normalized room code.
func (s *Session) Room() string { return s.room }

// Name returns the display name.
func (s *Session) Name() string { return s.name }

// Roster returns the current roster view, the session itself excluded.
func (s *Session) Roster() []string { return s.roster.Names() }

// Announce returns the frames a participant sends on entering its room: the
// join plus the readiness announcement. The leader announces directly without
// triggering roster collection, since it is first by construction.
func (s *Session) Announce() ([]proto.Inbound, error) {
	join, err := encode(proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: s.room})
	if err != nil {
		return nil, err
	}
	readyType := proto.InboundTypeReady
	if s.leader {
		readyType = proto.InboundTypeReadyLeader
	}
	ready, err := encode(readyType, proto.ReadyData{Room: s.room, Name: s.name})
	if err != nil {
		return nil, err
	}
	return []proto.Inbound{join, ready}, nil
}

// Exit returns the voluntary departure frame.
func (s *Session) Exit() (proto.Inbound, error) {
	return encode(proto.InboundTypeExit, proto.ExitData{Room: s.room, Name: s.name})
}

// PublishStroke applies the stroke to the local surface first, so the author
// perceives zero latency, then returns the relay frame for everyone else.
func (s *Session) PublishStroke(current, previous []proto.Point, color string, size float64) (proto.Inbound, error) {
	if !core.ValidBrushSize(size) {
		return proto.Inbound{}, fmt.Errorf("unsupported brush size %v", size)
	}
	s.renderer.DrawStroke(current, previous, color, size)
	return encode(proto.InboundTypeDraw, proto.DrawData{
		Room:          s.room,
		CurrentPoints: current,
		PrePoints:     previous,
		Color:         color,
		Size:          size,
	})
}

// PublishClear clears the local surface, then returns the relay frame. The
// relay never loops a clear back to its sender, so the local clear here is
// the only one the author gets.
func (s *Session) PublishClear() (proto.Inbound, error) {
	s.renderer.Clear()
	return encode(proto.InboundTypeClear, proto.ClearData{Room: s.room})
}

// HandleFrame consumes one server frame and returns any frames to send back.
// Unknown events are ignored; a server error frame is returned as an error
// for the caller to surface.
func (s *Session) HandleFrame(frame proto.OutboundFrame) ([]proto.Inbound, error) {
	if frame.Type == proto.OutboundTypeError {
		if frame.Error != nil {
			return nil, fmt.Errorf("server error %s: %s", frame.Error.Code, frame.Error.Msg)
		}
		return nil, fmt.Errorf("server error")
	}
	if frame.Type != proto.OutboundTypeEvent {
		return nil, nil
	}

	switch frame.Event {
	case proto.EventGetMembers:
		var data proto.GetMembersData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return nil, err
		}
		// The request names the newcomer, which is how an existing member
		// learns about it. The reply must not echo the newcomer back at
		// itself, so it is filtered out of the reported view.
		members := make([]string, 0, s.roster.Len())
		for _, n := range s.roster.Names() {
			if n != data.Name {
				members = append(members, n)
			}
		}
		s.roster.Merge(nil, data.Name)
		report, err := encode(proto.InboundTypeReceiveMembers, proto.ReceiveMembersData{
			Room:    s.room,
			Members: members,
			Name:    data.Name,
		})
		if err != nil {
			return nil, err
		}
		return []proto.Inbound{report}, nil

	case proto.EventUpdateMembers:
		var data proto.UpdateMembersData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return nil, err
		}
		s.roster.Merge(data.Members, data.Name)
		return nil, nil

	case proto.EventRemoveMember:
		var data proto.RemoveMemberData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return nil, err
		}
		s.roster.Remove(data.Name)
		return nil, nil

	case proto.EventGetState:
		state, err := encode(proto.InboundTypeCanvasState, proto.CanvasStateData{
			Room:  s.room,
			State: s.renderer.Snapshot(),
		})
		if err != nil {
			return nil, err
		}
		return []proto.Inbound{state}, nil

	case proto.EventCanvasState:
		var data proto.CanvasStateFromServerData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return nil, err
		}
		if data.State != "" {
			s.renderer.ApplySnapshot(data.State)
		}
		return nil, nil

	case proto.EventDraw:
		var data proto.DrawData
		if err := json.Unmarshal(frame.Data, &data); err != nil {
			return nil, err
		}
		s.renderer.DrawStroke(data.CurrentPoints, data.PrePoints, data.Color, data.Size)
		return nil, nil

	case proto.EventClear:
		s.renderer.Clear()
		return nil, nil
	}
	return nil, nil
}

func encode(frameType string, payload any) (proto.Inbound, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return proto.Inbound{}, fmt.Errorf("marshal %s: %w", frameType, err)
	}
	return proto.Inbound{Type: frameType, Data: data}, nil
}
