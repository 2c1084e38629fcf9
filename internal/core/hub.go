package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Options tune hub timing. Zero values fall back to defaults.
type Options struct {
	// SnapshotTimeout bounds how long a snapshot source may take to reply
	// before the hub asks the next candidate.
	SnapshotTimeout time.Duration
	// RoomGrace is how long an empty room survives before it is reaped.
	RoomGrace time.Duration
	// TickInterval is the actor's housekeeping cadence.
	TickInterval time.Duration
}

const (
	defaultSnapshotTimeout = 5 * time.Second
	defaultRoomGrace       = 30 * time.Second
	defaultTickInterval    = time.Second
)

func (o Options) withDefaults() Options {
	if o.SnapshotTimeout <= 0 {
		o.SnapshotTimeout = defaultSnapshotTimeout
	}
	if o.RoomGrace <= 0 {
		o.RoomGrace = defaultRoomGrace
	}
	if o.TickInterval <= 0 {
		o.TickInterval = defaultTickInterval
	}
	return o
}

// RoomInfo is a point-in-time roster view answered to registry queries.
type RoomInfo struct {
	Code    string
	Members []string
}

type envelope struct {
	client *Client
	cmd    *Command
}

type roomQuery struct {
	code string
	resp chan *RoomInfo
}

// transfer tracks one newcomer waiting for a canvas snapshot. The source is
// the earliest-joined member present strictly before the newcomer; fallbacks
// are the remaining prior members in join order, promoted if the source
// disconnects or misses the deadline.
type transfer struct {
	newcomer  *Client
	source    *Client
	fallbacks []*Client
	deadline  time.Time
}

// Hub is the single actor that owns the registry, all room membership and all
// in-flight snapshot transfers. Every mutation runs on the Run goroutine, so
// a roster broadcast never observes a half-updated room.
type Hub struct {
	registry *Registry
	opts     Options
	log      zerolog.Logger

	inbox      chan envelope
	register   chan *Client
	unregister chan *Client
	queries    chan roomQuery

	forwarders map[*Client]chan struct{}
	transfers  []*transfer
}

// NewHub creates a hub. A nil logger disables logging.
func NewHub(opts Options, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   NewRegistry(),
		opts:       opts.withDefaults(),
		log:        *logger,
		inbox:      make(chan envelope, 256),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		queries:    make(chan roomQuery, 16),
		forwarders: make(map[*Client]chan struct{}),
	}
}

// RegisterClient hands a connected client to the hub. The hub consumes the
// client's Commands channel until UnregisterClient or context cancellation.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient detaches a disconnected client. Treated as an implicit
// leave of whatever room the client occupied.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// RoomInfo answers a roster query for the given room code, or false if the
// room does not exist.
func (h *Hub) RoomInfo(ctx context.Context, code string) (*RoomInfo, bool) {
	q := roomQuery{code: code, resp: make(chan *RoomInfo, 1)}
	select {
	case h.queries <- q:
	case <-ctx.Done():
		return nil, false
	}
	select {
	case info := <-q.resp:
		if info == nil {
			return nil, false
		}
		return info, true
	case <-ctx.Done():
		return nil, false
	}
}

// Run processes registrations, commands and housekeeping until the context is
// canceled. It must be running before clients are registered.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.handleRegister(ctx, c)
		case c := <-h.unregister:
			h.handleUnregister(c)
		case env := <-h.inbox:
			h.handleCommand(env.client, env.cmd)
		case q := <-h.queries:
			h.handleQuery(q)
		case now := <-ticker.C:
			h.handleTick(now)
		}
	}
}

func (h *Hub) handleRegister(ctx context.Context, c *Client) {
	if _, ok := h.forwarders[c]; ok {
		return
	}
	stop := make(chan struct{})
	h.forwarders[c] = stop
	go h.forward(ctx, c, stop)
	h.log.Debug().Str("client_id", c.ID).Msg("client registered")
}

// forward fans one client's commands into the shared inbox, preserving that
// client's send order.
func (h *Hub) forward(ctx context.Context, c *Client, stop chan struct{}) {
	for {
		select {
		case cmd := <-c.Commands:
			select {
			case h.inbox <- envelope{client: c, cmd: cmd}:
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleUnregister(c *Client) {
	if stop, ok := h.forwarders[c]; ok {
		close(stop)
		delete(h.forwarders, c)
	}
	if c.Room != "" {
		h.depart(c, c.Room, c.Name)
	} else {
		h.dropFromTransfers(c)
	}
	h.log.Debug().Str("client_id", c.ID).Str("name", c.Name).Msg("client unregistered")
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	if cmd == nil {
		return
	}
	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd.Room)
	case CommandReadyLeader:
		h.handleReadyLeader(c, cmd)
	case CommandReady:
		h.handleReady(c, cmd)
	case CommandReportRoster:
		h.handleReportRoster(c, cmd)
	case CommandCanvasState:
		h.handleCanvasState(c, cmd)
	case CommandStroke:
		h.handleRelay(c, cmd, &Event{Kind: EventStroke, Room: cmd.Room, Name: c.Name, Stroke: cmd.Stroke})
	case CommandClear:
		h.handleRelay(c, cmd, &Event{Kind: EventClear, Room: cmd.Room, Name: c.Name})
	case CommandExit:
		h.handleExit(c, cmd)
	}
}

func (h *Hub) handleJoin(c *Client, code string) {
	if c.Room == code {
		return
	}
	if c.Room != "" {
		h.depart(c, c.Room, c.Name)
	}
	h.registry.Join(code, c)
	c.Room = code
	h.log.Debug().Str("client_id", c.ID).Str("room", code).Msg("client joined room")
}

func (h *Hub) handleReadyLeader(c *Client, cmd *Command) {
	h.handleJoin(c, cmd.Room)
	c.Name = cmd.Name
	c.Leader = true
	h.log.Info().Str("room", cmd.Room).Str("name", cmd.Name).Msg("leader ready")
}

// handleReady announces a non-originating member: every member present
// strictly before the newcomer is asked to report its roster, and the
// earliest of them is asked for a canvas snapshot.
func (h *Hub) handleReady(c *Client, cmd *Command) {
	// An announced member re-sending ready must not restart roster collection
	// or stack another snapshot transfer.
	if c.Room == cmd.Room && c.Name != "" {
		if room, ok := h.registry.Room(cmd.Room); ok && room.Contains(c) {
			return
		}
	}
	h.handleJoin(c, cmd.Room)
	c.Name = cmd.Name

	room, ok := h.registry.Room(cmd.Room)
	if !ok {
		return
	}
	prior := room.MembersBefore(c)
	for _, m := range prior {
		h.send(m, &Event{Kind: EventRosterRequest, Room: cmd.Room, Name: c.Name})
	}
	if len(prior) > 0 {
		t := &transfer{
			newcomer:  c,
			source:    prior[0],
			fallbacks: prior[1:],
			deadline:  time.Now().Add(h.opts.SnapshotTimeout),
		}
		h.transfers = append(h.transfers, t)
		h.send(t.source, &Event{Kind: EventStateRequest, Room: cmd.Room})
	}
	h.log.Info().Str("room", cmd.Room).Str("name", cmd.Name).Int("prior_members", len(prior)).Msg("member ready")
}

// handleReportRoster routes one member's roster view to the newcomer it is
// addressed to. Duplicate display names all receive the report; the merge on
// the receiving side is idempotent, so overdelivery is harmless.
func (h *Hub) handleReportRoster(c *Client, cmd *Command) {
	room, ok := h.memberRoom(c, cmd.Room)
	if !ok {
		return
	}
	ev := &Event{Kind: EventRosterUpdate, Room: cmd.Room, Name: c.Name, Roster: cmd.Roster}
	for _, m := range room.Members() {
		if m != c && m.Name == cmd.Name {
			h.send(m, ev)
		}
	}
}

// handleCanvasState forwards a snapshot reply to the newcomer waiting on this
// source. Late or unsolicited snapshots are dropped silently.
func (h *Hub) handleCanvasState(c *Client, cmd *Command) {
	for i, t := range h.transfers {
		if t.source != c || t.newcomer.Room != cmd.Room {
			continue
		}
		h.send(t.newcomer, &Event{Kind: EventCanvasState, Room: cmd.Room, Image: cmd.Image})
		h.transfers = append(h.transfers[:i], h.transfers[i+1:]...)
		return
	}
	h.log.Debug().Str("client_id", c.ID).Str("room", cmd.Room).Msg("dropping unsolicited canvas state")
}

// handleRelay broadcasts a stroke or clear to every other room member. The
// sender already applied it locally, so it is deliberately excluded.
func (h *Hub) handleRelay(c *Client, cmd *Command, ev *Event) {
	room, ok := h.memberRoom(c, cmd.Room)
	if !ok {
		h.send(c, &Event{Kind: EventError, Room: cmd.Room, Error: coreError(ErrCodeNotInRoom, "not in room")})
		return
	}
	room.BroadcastExcept(ev, c)
}

func (h *Hub) handleExit(c *Client, cmd *Command) {
	if c.Room != cmd.Room {
		return
	}
	name := c.Name
	if name == "" {
		name = cmd.Name
	}
	h.depart(c, cmd.Room, name)
}

// depart removes the client from its room and tells the remaining members to
// drop the name. Removal is keyed by connection identity, so two members
// sharing a display name cannot evict each other from the registry.
func (h *Hub) depart(c *Client, code, name string) {
	room, removed := h.registry.Leave(code, c, time.Now())
	c.Room = ""
	if removed && name != "" {
		room.Broadcast(&Event{Kind: EventMemberRemoved, Room: code, Name: name})
	}
	h.dropFromTransfers(c)
	if removed {
		h.log.Info().Str("room", code).Str("name", name).Msg("member departed")
	}
}

// dropFromTransfers fixes up in-flight snapshot transfers after a departure:
// a departed newcomer's transfer is abandoned, a departed source is replaced
// by the next fallback candidate.
func (h *Hub) dropFromTransfers(c *Client) {
	kept := h.transfers[:0]
	for _, t := range h.transfers {
		if t.newcomer == c {
			continue
		}
		if t.source == c {
			if !h.promote(t) {
				continue
			}
		} else {
			t.removeFallback(c)
		}
		kept = append(kept, t)
	}
	h.transfers = kept
}

// promote asks the next fallback candidate for a snapshot. Returns false when
// no candidates remain and the newcomer proceeds with a blank canvas.
func (h *Hub) promote(t *transfer) bool {
	if len(t.fallbacks) == 0 {
		h.log.Debug().Str("room", t.newcomer.Room).Str("name", t.newcomer.Name).Msg("snapshot transfer abandoned")
		return false
	}
	t.source = t.fallbacks[0]
	t.fallbacks = t.fallbacks[1:]
	t.deadline = time.Now().Add(h.opts.SnapshotTimeout)
	h.send(t.source, &Event{Kind: EventStateRequest, Room: t.newcomer.Room})
	return true
}

func (t *transfer) removeFallback(c *Client) {
	for i, m := range t.fallbacks {
		if m == c {
			t.fallbacks = append(t.fallbacks[:i], t.fallbacks[i+1:]...)
			return
		}
	}
}

func (h *Hub) handleQuery(q roomQuery) {
	room, ok := h.registry.Room(q.code)
	if !ok || room.Empty() {
		q.resp <- nil
		return
	}
	q.resp <- &RoomInfo{Code: room.Code, Members: room.Names()}
}

func (h *Hub) handleTick(now time.Time) {
	kept := h.transfers[:0]
	for _, t := range h.transfers {
		if now.After(t.deadline) && !h.promote(t) {
			continue
		}
		kept = append(kept, t)
	}
	h.transfers = kept

	for _, code := range h.registry.ReapEmpty(now, h.opts.RoomGrace) {
		h.log.Debug().Str("room", code).Msg("reaped empty room")
	}
}

// memberRoom resolves the room a command targets, requiring the client to be
// a member of it.
func (h *Hub) memberRoom(c *Client, code string) (*Room, bool) {
	if c.Room != code || code == "" {
		return nil, false
	}
	room, ok := h.registry.Room(code)
	if !ok || !room.Contains(c) {
		return nil, false
	}
	return room, true
}

// send delivers an event to one client, dropping it if the client's buffer is
// full so one stalled connection cannot stall the room.
func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("client_id", c.ID).Msg("dropping event for slow client")
	}
}
