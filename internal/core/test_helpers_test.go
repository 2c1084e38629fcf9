package core

import (
	"context"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, window time.Duration) {
	t.Helper()

	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v received: %+v", kind, ev)
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// waitForMembers polls the hub until the room's announced roster has the
// wanted size. Commands flow through channels, so tests need a state sync
// point between steps.
func waitForMembers(t testing.TB, hub *Hub, room string, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		info, ok := hub.RoomInfo(ctx, room)
		cancel()
		if ok && len(info.Members) == want {
			return
		}
		if !ok && want == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room %s did not reach %d announced members", room, want)
}

func join(room string) *Command {
	return &Command{Kind: CommandJoinRoom, Room: room}
}

func readyLeader(room, name string) *Command {
	return &Command{Kind: CommandReadyLeader, Room: room, Name: name}
}

func ready(room, name string) *Command {
	return &Command{Kind: CommandReady, Room: room, Name: name}
}
