package member

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextpaint/paintroom-server/internal/proto"
)

type recordedStroke struct {
	current  []proto.Point
	previous []proto.Point
	color    string
	size     float64
}

// fakeRenderer records everything applied to the drawing surface.
type fakeRenderer struct {
	strokes []recordedStroke
	clears  int
	applied []string
	state   string
}

func (f *fakeRenderer) DrawStroke(current, previous []proto.Point, color string, size float64) {
	f.strokes = append(f.strokes, recordedStroke{current, previous, color, size})
}

func (f *fakeRenderer) Clear()                     { f.clears++ }
func (f *fakeRenderer) ApplySnapshot(state string) { f.applied = append(f.applied, state) }
func (f *fakeRenderer) Snapshot() string           { return f.state }

func newTestSession(t *testing.T, leader bool) (*Session, *fakeRenderer) {
	t.Helper()
	r := &fakeRenderer{}
	s, err := NewSession("AB12", "bob", leader, r)
	require.NoError(t, err)
	return s, r
}

func eventFrame(t *testing.T, event string, payload any) proto.OutboundFrame {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return proto.OutboundFrame{Type: proto.OutboundTypeEvent, Event: event, Data: data}
}

func decodePayload[T any](t *testing.T, in proto.Inbound) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(in.Data, &out))
	return out
}

func TestNewSessionNormalizesRoomCode(t *testing.T) {
	s, err := NewSession("  ab12 ", "bob", false, &fakeRenderer{})
	require.NoError(t, err)
	assert.Equal(t, "AB12", s.Room())
}

func TestNewSessionRejectsBadInput(t *testing.T) {
	_, err := NewSession("TOOLONG", "bob", false, &fakeRenderer{})
	assert.ErrorIs(t, err, proto.ErrInvalidRoomCode)

	_, err = NewSession("AB12", "", false, &fakeRenderer{})
	assert.ErrorIs(t, err, proto.ErrInvalidName)

	_, err = NewSession("AB12", "bob", false, nil)
	assert.Error(t, err)
}

func TestAnnounceLeader(t *testing.T) {
	s, _ := newTestSession(t, true)
	frames, err := s.Announce()
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, proto.InboundTypeJoinRoom, frames[0].Type)
	assert.Equal(t, proto.InboundTypeReadyLeader, frames[1].Type)

	ready := decodePayload[proto.ReadyData](t, frames[1])
	assert.Equal(t, "AB12", ready.Room)
	assert.Equal(t, "bob", ready.Name)
}

func TestAnnounceFollower(t *testing.T) {
	s, _ := newTestSession(t, false)
	frames, err := s.Announce()
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, proto.InboundTypeReady, frames[1].Type)
}

func TestHandleGetMembersReportsRoster(t *testing.T) {
	s, _ := newTestSession(t, false)
	s.roster.Merge([]string{"alice"}, "carol")

	replies, err := s.HandleFrame(eventFrame(t, proto.EventGetMembers, proto.GetMembersData{Name: "dave"}))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, proto.InboundTypeReceiveMembers, replies[0].Type)

	report := decodePayload[proto.ReceiveMembersData](t, replies[0])
	assert.Equal(t, "AB12", report.Room)
	assert.Equal(t, []string{"alice", "carol"}, report.Members)
	assert.Equal(t, "dave", report.Name)

	// Answering the request is how this member learns about the newcomer.
	assert.Contains(t, s.Roster(), "dave")
}

func TestHandleGetMembersLearnsRequester(t *testing.T) {
	s, _ := newTestSession(t, true)

	replies, err := s.HandleFrame(eventFrame(t, proto.EventGetMembers, proto.GetMembersData{Name: "carol"}))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, []string{"carol"}, s.Roster())

	// The reply never echoes the newcomer back at itself, even on a repeated
	// request.
	report := decodePayload[proto.ReceiveMembersData](t, replies[0])
	assert.Empty(t, report.Members)

	replies, err = s.HandleFrame(eventFrame(t, proto.EventGetMembers, proto.GetMembersData{Name: "carol"}))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	report = decodePayload[proto.ReceiveMembersData](t, replies[0])
	assert.Empty(t, report.Members)
	assert.Equal(t, []string{"carol"}, s.Roster())
}

func TestHandleUpdateMembersMergesReporter(t *testing.T) {
	s, _ := newTestSession(t, false)

	_, err := s.HandleFrame(eventFrame(t, proto.EventUpdateMembers, proto.UpdateMembersData{
		Members: []string{"carol"},
		Name:    "alice",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "alice"}, s.Roster())
}

func TestHandleRemoveMember(t *testing.T) {
	s, _ := newTestSession(t, false)
	s.roster.Merge([]string{"alice"}, "carol")

	_, err := s.HandleFrame(eventFrame(t, proto.EventRemoveMember, proto.RemoveMemberData{Name: "alice"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, s.Roster())
}

func TestHandleGetStateRepliesWithSnapshot(t *testing.T) {
	s, r := newTestSession(t, false)
	r.state = "data:image/png;base64,abc"

	replies, err := s.HandleFrame(eventFrame(t, proto.EventGetState, struct{}{}))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, proto.InboundTypeCanvasState, replies[0].Type)

	state := decodePayload[proto.CanvasStateData](t, replies[0])
	assert.Equal(t, "data:image/png;base64,abc", state.State)
	assert.Equal(t, "AB12", state.Room)
}

func TestHandleCanvasStateApplies(t *testing.T) {
	s, r := newTestSession(t, false)

	_, err := s.HandleFrame(eventFrame(t, proto.EventCanvasState, proto.CanvasStateFromServerData{State: "data:blank"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"data:blank"}, r.applied)
}

func TestHandleCanvasStateSkipsEmpty(t *testing.T) {
	s, r := newTestSession(t, false)

	_, err := s.HandleFrame(eventFrame(t, proto.EventCanvasState, proto.CanvasStateFromServerData{}))
	require.NoError(t, err)
	assert.Empty(t, r.applied)
}

func TestHandleDrawPaints(t *testing.T) {
	s, r := newTestSession(t, false)

	_, err := s.HandleFrame(eventFrame(t, proto.EventDraw, proto.DrawData{
		CurrentPoints: []proto.Point{{X: 10, Y: 20}},
		PrePoints:     []proto.Point{{X: 9, Y: 19}},
		Color:         "#ff0000",
		Size:          5,
	}))
	require.NoError(t, err)
	require.Len(t, r.strokes, 1)
	assert.Equal(t, "#ff0000", r.strokes[0].color)
	assert.Equal(t, 5.0, r.strokes[0].size)
	assert.Equal(t, []proto.Point{{X: 10, Y: 20}}, r.strokes[0].current)
}

func TestHandleClearClears(t *testing.T) {
	s, r := newTestSession(t, false)

	_, err := s.HandleFrame(eventFrame(t, proto.EventClear, struct{}{}))
	require.NoError(t, err)
	assert.Equal(t, 1, r.clears)
}

func TestHandleErrorFrame(t *testing.T) {
	s, _ := newTestSession(t, false)

	_, err := s.HandleFrame(proto.OutboundFrame{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: "not_in_room", Msg: "not in room"},
	})
	assert.ErrorContains(t, err, "not_in_room")
}

func TestHandleUnknownEventIgnored(t *testing.T) {
	s, _ := newTestSession(t, false)

	replies, err := s.HandleFrame(eventFrame(t, "mystery-event", struct{}{}))
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestPublishStrokeAppliesLocallyFirst(t *testing.T) {
	s, r := newTestSession(t, false)

	frame, err := s.PublishStroke([]proto.Point{{X: 1, Y: 2}}, []proto.Point{{X: 0, Y: 1}}, "#00ff00", 7.5)
	require.NoError(t, err)
	assert.Equal(t, proto.InboundTypeDraw, frame.Type)
	require.Len(t, r.strokes, 1)
	assert.Equal(t, "#00ff00", r.strokes[0].color)

	draw := decodePayload[proto.DrawData](t, frame)
	assert.Equal(t, "AB12", draw.Room)
	assert.Equal(t, 7.5, draw.Size)
}

func TestPublishStrokeRejectsBadBrushSize(t *testing.T) {
	s, r := newTestSession(t, false)

	_, err := s.PublishStroke(nil, nil, "#000", 42)
	assert.Error(t, err)
	assert.Empty(t, r.strokes)
}

func TestPublishClear(t *testing.T) {
	s, r := newTestSession(t, false)

	frame, err := s.PublishClear()
	require.NoError(t, err)
	assert.Equal(t, proto.InboundTypeClear, frame.Type)
	assert.Equal(t, 1, r.clears)
}

// TestJoinScenario walks a follower through the full entry sequence: roster
// report, snapshot delivery, a relayed stroke, then the reporter's departure.
func TestJoinScenario(t *testing.T) {
	s, r := newTestSession(t, false)

	_, err := s.HandleFrame(eventFrame(t, proto.EventUpdateMembers, proto.UpdateMembersData{
		Members: []string{},
		Name:    "Alice",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, s.Roster())

	_, err = s.HandleFrame(eventFrame(t, proto.EventCanvasState, proto.CanvasStateFromServerData{State: "data:blank"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"data:blank"}, r.applied)

	_, err = s.HandleFrame(eventFrame(t, proto.EventDraw, proto.DrawData{
		CurrentPoints: []proto.Point{{X: 5, Y: 5}},
		Color:         "#ff0000",
		Size:          5,
	}))
	require.NoError(t, err)
	assert.Len(t, r.strokes, 1)

	_, err = s.HandleFrame(eventFrame(t, proto.EventRemoveMember, proto.RemoveMemberData{Name: "Alice"}))
	require.NoError(t, err)
	assert.Empty(t, s.Roster())

	// A later joiner announces; answering the roster request converges this
	// member's view on the new membership.
	replies, err := s.HandleFrame(eventFrame(t, proto.EventGetMembers, proto.GetMembersData{Name: "Carol"}))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, []string{"Carol"}, s.Roster())
}
