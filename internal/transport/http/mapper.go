package http

import (
	"encoding/json"
	"fmt"

	"github.com/nextpaint/paintroom-server/internal/core"
	"github.com/nextpaint/paintroom-server/internal/proto"
)

// inboundToCommand validates one client frame at the boundary and maps it to
// a core command. A non-nil proto.Error means the frame was malformed and the
// client should be told; a non-nil error means the connection is broken.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		code, err := proto.NormalizeRoomCode(join.Room)
		if err != nil {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRoom, Msg: err.Error()}, nil
		}
		return &core.Command{Kind: core.CommandJoinRoom, Room: code}, nil, nil

	case proto.InboundTypeReadyLeader, proto.InboundTypeReady:
		var ready proto.ReadyData
		if err := json.Unmarshal(inbound.Data, &ready); err != nil {
			return nil, nil, err
		}
		code, err := proto.NormalizeRoomCode(ready.Room)
		if err != nil {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRoom, Msg: err.Error()}, nil
		}
		if err := proto.ValidateName(ready.Name); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: err.Error()}, nil
		}
		kind := core.CommandReady
		if inbound.Type == proto.InboundTypeReadyLeader {
			kind = core.CommandReadyLeader
		}
		return &core.Command{Kind: kind, Room: code, Name: ready.Name}, nil, nil

	case proto.InboundTypeReceiveMembers:
		var report proto.ReceiveMembersData
		if err := json.Unmarshal(inbound.Data, &report); err != nil {
			return nil, nil, err
		}
		code, err := proto.NormalizeRoomCode(report.Room)
		if err != nil {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRoom, Msg: err.Error()}, nil
		}
		if err := proto.ValidateName(report.Name); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: err.Error()}, nil
		}
		return &core.Command{
			Kind:   core.CommandReportRoster,
			Room:   code,
			Name:   report.Name,
			Roster: report.Members,
		}, nil, nil

	case proto.InboundTypeCanvasState:
		var state proto.CanvasStateData
		if err := json.Unmarshal(inbound.Data, &state); err != nil {
			return nil, nil, err
		}
		code, err := proto.NormalizeRoomCode(state.Room)
		if err != nil {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRoom, Msg: err.Error()}, nil
		}
		return &core.Command{Kind: core.CommandCanvasState, Room: code, Image: state.State}, nil, nil

	case proto.InboundTypeDraw:
		var draw proto.DrawData
		if err := json.Unmarshal(inbound.Data, &draw); err != nil {
			return nil, nil, err
		}
		code, err := proto.NormalizeRoomCode(draw.Room)
		if err != nil {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRoom, Msg: err.Error()}, nil
		}
		if !core.ValidBrushSize(draw.Size) {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: fmt.Sprintf("unsupported brush size %v", draw.Size)}, nil
		}
		if draw.Color == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "color is required"}, nil
		}
		return &core.Command{
			Kind: core.CommandStroke,
			Room: code,
			Stroke: &core.Stroke{
				Current:  toCorePoints(draw.CurrentPoints),
				Previous: toCorePoints(draw.PrePoints),
				Color:    draw.Color,
				Size:     draw.Size,
			},
		}, nil, nil

	case proto.InboundTypeClear:
		var clear proto.ClearData
		if err := json.Unmarshal(inbound.Data, &clear); err != nil {
			return nil, nil, err
		}
		code, err := proto.NormalizeRoomCode(clear.Room)
		if err != nil {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRoom, Msg: err.Error()}, nil
		}
		return &core.Command{Kind: core.CommandClear, Room: code}, nil, nil

	case proto.InboundTypeExit:
		var exit proto.ExitData
		if err := json.Unmarshal(inbound.Data, &exit); err != nil {
			return nil, nil, err
		}
		code, err := proto.NormalizeRoomCode(exit.Room)
		if err != nil {
			return nil, &proto.Error{Code: core.ErrCodeInvalidRoom, Msg: err.Error()}, nil
		}
		return &core.Command{Kind: core.CommandExit, Room: code, Name: exit.Name}, nil, nil

	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRosterRequest:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventGetMembers,
			Data:  proto.GetMembersData{Name: event.Name},
		}
	case core.EventRosterUpdate:
		members := event.Roster
		if members == nil {
			members = []string{}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventUpdateMembers,
			Data:  proto.UpdateMembersData{Members: members, Name: event.Name},
		}
	case core.EventMemberRemoved:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRemoveMember,
			Data:  proto.RemoveMemberData{Name: event.Name},
		}
	case core.EventStateRequest:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventGetState,
		}
	case core.EventCanvasState:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCanvasState,
			Data:  proto.CanvasStateFromServerData{State: event.Image},
		}
	case core.EventStroke:
		data := proto.DrawData{Room: event.Room, Color: "", Size: 0}
		if event.Stroke != nil {
			data = proto.DrawData{
				Room:          event.Room,
				CurrentPoints: toProtoPoints(event.Stroke.Current),
				PrePoints:     toProtoPoints(event.Stroke.Previous),
				Color:         event.Stroke.Color,
				Size:          event.Stroke.Size,
			}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventDraw,
			Data:  data,
		}
	case core.EventClear:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventClear,
			Data:  proto.ClearData{Room: event.Room},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func toCorePoints(points []proto.Point) []core.Point {
	out := make([]core.Point, len(points))
	for i, p := range points {
		out[i] = core.Point{X: p.X, Y: p.Y}
	}
	return out
}

func toProtoPoints(points []core.Point) []proto.Point {
	out := make([]proto.Point, len(points))
	for i, p := range points {
		out[i] = proto.Point{X: p.X, Y: p.Y}
	}
	return out
}
