package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextpaint/paintroom-server/internal/core"
	"github.com/nextpaint/paintroom-server/internal/proto"
)

func inbound(t *testing.T, frameType string, payload any) proto.Inbound {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return proto.Inbound{Type: frameType, Data: data}
}

func TestInboundToCommandJoinNormalizesCode(t *testing.T) {
	cmd, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "ab12"}))
	require.NoError(t, err)
	require.Nil(t, protoErr)
	assert.Equal(t, core.CommandJoinRoom, cmd.Kind)
	assert.Equal(t, "AB12", cmd.Room)
}

func TestInboundToCommandJoinRejectsBadCode(t *testing.T) {
	_, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeJoinRoom, proto.JoinRoomData{Room: "TOOLONG"}))
	require.NoError(t, err)
	require.NotNil(t, protoErr)
	assert.Equal(t, core.ErrCodeInvalidRoom, protoErr.Code)
}

func TestInboundToCommandReadyVariants(t *testing.T) {
	cases := []struct {
		frameType string
		want      core.CommandKind
	}{
		{proto.InboundTypeReadyLeader, core.CommandReadyLeader},
		{proto.InboundTypeReady, core.CommandReady},
	}
	for _, tc := range cases {
		cmd, protoErr, err := inboundToCommand(inbound(t, tc.frameType, proto.ReadyData{Room: "AB12", Name: "alice"}))
		require.NoError(t, err)
		require.Nil(t, protoErr)
		assert.Equal(t, tc.want, cmd.Kind)
		assert.Equal(t, "alice", cmd.Name)
	}
}

func TestInboundToCommandReadyRejectsEmptyName(t *testing.T) {
	_, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeReady, proto.ReadyData{Room: "AB12", Name: "  "}))
	require.NoError(t, err)
	require.NotNil(t, protoErr)
	assert.Equal(t, core.ErrCodeBadRequest, protoErr.Code)
}

func TestInboundToCommandReceiveMembers(t *testing.T) {
	cmd, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeReceiveMembers, proto.ReceiveMembersData{
		Room:    "AB12",
		Members: []string{"alice", "bob"},
		Name:    "carol",
	}))
	require.NoError(t, err)
	require.Nil(t, protoErr)
	assert.Equal(t, core.CommandReportRoster, cmd.Kind)
	assert.Equal(t, "carol", cmd.Name)
	assert.Equal(t, []string{"alice", "bob"}, cmd.Roster)
}

func TestInboundToCommandDraw(t *testing.T) {
	cmd, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeDraw, proto.DrawData{
		Room:          "AB12",
		CurrentPoints: []proto.Point{{X: 10, Y: 20}},
		PrePoints:     []proto.Point{{X: 9, Y: 19}},
		Color:         "#ff0000",
		Size:          5,
	}))
	require.NoError(t, err)
	require.Nil(t, protoErr)
	require.NotNil(t, cmd.Stroke)
	assert.Equal(t, "#ff0000", cmd.Stroke.Color)
	assert.Equal(t, []core.Point{{X: 10, Y: 20}}, cmd.Stroke.Current)
}

func TestInboundToCommandDrawValidation(t *testing.T) {
	_, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeDraw, proto.DrawData{
		Room: "AB12", Color: "#fff", Size: 42,
	}))
	require.NoError(t, err)
	require.NotNil(t, protoErr)
	assert.Equal(t, core.ErrCodeBadRequest, protoErr.Code)

	_, protoErr, err = inboundToCommand(inbound(t, proto.InboundTypeDraw, proto.DrawData{
		Room: "AB12", Size: 5,
	}))
	require.NoError(t, err)
	require.NotNil(t, protoErr)
	assert.Equal(t, core.ErrCodeBadRequest, protoErr.Code)
}

func TestInboundToCommandExit(t *testing.T) {
	cmd, protoErr, err := inboundToCommand(inbound(t, proto.InboundTypeExit, proto.ExitData{Room: "AB12", Name: "alice"}))
	require.NoError(t, err)
	require.Nil(t, protoErr)
	assert.Equal(t, core.CommandExit, cmd.Kind)
	assert.Equal(t, "alice", cmd.Name)
}

func TestInboundToCommandUnknownType(t *testing.T) {
	_, protoErr, err := inboundToCommand(proto.Inbound{Type: "mystery"})
	require.NoError(t, err)
	require.NotNil(t, protoErr)
	assert.Equal(t, core.ErrCodeInvalidMessage, protoErr.Code)
}

func TestInboundToCommandMalformedJSON(t *testing.T) {
	_, _, err := inboundToCommand(proto.Inbound{Type: proto.InboundTypeJoinRoom, Data: []byte("{")})
	assert.Error(t, err)
}

func TestOutboundFromEventRosterUpdateNeverNil(t *testing.T) {
	out := outboundFromEvent(&core.Event{Kind: core.EventRosterUpdate, Name: "alice"})
	data, ok := out.Data.(proto.UpdateMembersData)
	require.True(t, ok)
	assert.NotNil(t, data.Members)
	assert.Empty(t, data.Members)
	assert.Equal(t, "alice", data.Name)
}

func TestOutboundFromEventStroke(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind: core.EventStroke,
		Room: "AB12",
		Stroke: &core.Stroke{
			Current:  []core.Point{{X: 1, Y: 2}},
			Previous: []core.Point{{X: 0, Y: 1}},
			Color:    "#00ff00",
			Size:     7.5,
		},
	})
	assert.Equal(t, proto.OutboundTypeEvent, out.Type)
	assert.Equal(t, proto.EventDraw, out.Event)

	data, ok := out.Data.(proto.DrawData)
	require.True(t, ok)
	assert.Equal(t, "#00ff00", data.Color)
	assert.Equal(t, 7.5, data.Size)
	assert.Equal(t, []proto.Point{{X: 1, Y: 2}}, data.CurrentPoints)
}

func TestOutboundFromEventError(t *testing.T) {
	out := outboundFromEvent(&core.Event{
		Kind:  core.EventError,
		Error: &core.CoreError{Code: core.ErrCodeNotInRoom, Message: "not in room"},
	})
	assert.Equal(t, proto.OutboundTypeError, out.Type)
	require.NotNil(t, out.Error)
	assert.Equal(t, core.ErrCodeNotInRoom, out.Error.Code)
}
