// Command ws_paint is a smoke-test client: it joins a room, answers roster
// and snapshot requests like a real participant, draws one stroke, and prints
// what it sees until the timeout elapses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nextpaint/paintroom-server/internal/member"
	"github.com/nextpaint/paintroom-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_paint: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "AB12", "room code to join")
	name := flag.String("name", "painter", "display name")
	leader := flag.Bool("leader", false, "announce as the room's originating member")
	timeout := flag.Duration("timeout", 10*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session, err := member.NewSession(*room, *name, *leader, &consoleRenderer{})
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	client, err := member.Dial(ctx, *addr, session, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer client.Close()

	// Give the roster and snapshot exchange a moment before drawing.
	runErr := make(chan error, 1)
	go func() { runErr <- client.Run(ctx) }()

	time.Sleep(time.Second)
	stroke := []proto.Point{{X: 10, Y: 10}, {X: 40, Y: 40}}
	if err := client.PublishStroke(ctx, stroke, nil, "#ff0000", 5); err != nil {
		return fmt.Errorf("publish stroke: %w", err)
	}
	fmt.Printf("roster after join: %v\n", client.Roster())

	err = <-runErr
	if errors.Is(err, context.DeadlineExceeded) {
		if exitErr := client.Exit(context.Background()); exitErr == nil {
			fmt.Println("exited cleanly")
		}
		return nil
	}
	return err
}

// consoleRenderer prints drawing activity instead of painting pixels.
type consoleRenderer struct {
	state string
}

func (r *consoleRenderer) DrawStroke(current, previous []proto.Point, color string, size float64) {
	fmt.Printf("stroke: %d points, color=%s size=%v\n", len(current), color, size)
}

func (r *consoleRenderer) Clear() {
	r.state = ""
	fmt.Println("canvas cleared")
}

func (r *consoleRenderer) ApplySnapshot(state string) {
	r.state = state
	fmt.Printf("snapshot applied: %d bytes\n", len(state))
}

func (r *consoleRenderer) Snapshot() string {
	return r.state
}
