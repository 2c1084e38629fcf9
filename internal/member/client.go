package member

import (
	"context"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/nextpaint/paintroom-server/internal/proto"
)

// Client drives a Session over a live websocket connection. Reads happen on
// the Run goroutine; writes are serialized with a mutex so publishing from
// other goroutines is safe.
type Client struct {
	session *Session
	conn    *websocket.Conn
	log     zerolog.Logger

	writeMu sync.Mutex
}

// Dial connects to the server, announces the session and returns the client.
// A nil logger disables logging.
func Dial(ctx context.Context, url string, session *Session, logger *zerolog.Logger) (*Client, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	c := &Client{session: session, conn: conn, log: *logger}

	frames, err := session.Announce()
	if err != nil {
		conn.Close(websocket.StatusInternalError, "announce failed")
		return nil, err
	}
	for _, frame := range frames {
		if err := c.send(ctx, frame); err != nil {
			conn.Close(websocket.StatusInternalError, "announce failed")
			return nil, err
		}
	}
	return c, nil
}

// Run reads server frames and feeds them through the session until the
// context is canceled or the connection drops.
func (c *Client) Run(ctx context.Context) error {
	for {
		var frame proto.OutboundFrame
		if err := wsjson.Read(ctx, c.conn, &frame); err != nil {
			return err
		}
		replies, err := c.session.HandleFrame(frame)
		if err != nil {
			c.log.Warn().Err(err).Str("event", frame.Event).Msg("frame handling failed")
			continue
		}
		for _, reply := range replies {
			if err := c.send(ctx, reply); err != nil {
				return err
			}
		}
	}
}

// PublishStroke applies the stroke locally and relays it to the room.
func (c *Client) PublishStroke(ctx context.Context, current, previous []proto.Point, color string, size float64) error {
	frame, err := c.session.PublishStroke(current, previous, color, size)
	if err != nil {
		return err
	}
	return c.send(ctx, frame)
}

// PublishClear clears the local surface and relays the clear to the room.
func (c *Client) PublishClear(ctx context.Context) error {
	frame, err := c.session.PublishClear()
	if err != nil {
		return err
	}
	return c.send(ctx, frame)
}

// Exit announces a voluntary departure.
func (c *Client) Exit(ctx context.Context) error {
	frame, err := c.session.Exit()
	if err != nil {
		return err
	}
	return c.send(ctx, frame)
}

// Roster returns the session's current roster view.
func (c *Client) Roster() []string {
	return c.session.Roster()
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "closing")
}

func (c *Client) send(ctx context.Context, frame proto.Inbound) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return wsjson.Write(ctx, c.conn, frame)
}
