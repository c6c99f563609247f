package core

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/roomchat/roomchat-server/internal/model"
	redisstore "github.com/roomchat/roomchat-server/internal/store/redis"
)

func newTestHub(t *testing.T) (*Hub, *redisstore.Store) {
	t.Helper()

	srv := miniredis.RunT(t)
	st, err := redisstore.New(srv.Addr())
	if err != nil {
		t.Fatalf("connect to test redis: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	for _, room := range []model.ChatRoom{{ID: 1, Topic: "cats"}, {ID: 2, Topic: "dogs"}} {
		if err := st.RegisterRoom(context.Background(), room); err != nil {
			t.Fatalf("register room: %v", err)
		}
	}

	logger := zerolog.New(nil)
	return NewHub(st, &logger), st
}

func TestHubJoinDeliversHistoryBatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub, st := newTestHub(t)
	go hub.Run(ctx)

	if _, err := st.SendMessage(ctx, 1, "bob", "earlier message"); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	alice := NewClient("a")
	hub.RegisterClient(alice)
	mustEvent(t, alice.Events, EventConnected)

	alice.Commands <- &Command{Kind: CommandJoin, Username: "alice", Room: 1}

	join := mustEvent(t, alice.Events, EventText)
	if join.Line != "alice has entered the room." {
		t.Fatalf("unexpected join announcement: %q", join.Line)
	}

	batch := mustEvent(t, alice.Events, EventBatch)
	if len(batch.Messages) != 1 {
		t.Fatalf("expected 1 history message, got %d", len(batch.Messages))
	}
	if batch.Messages[0].SenderID != "bob" || batch.Messages[0].Message != "earlier message" {
		t.Fatalf("unexpected history message: %+v", batch.Messages[0])
	}
}

func TestHubBroadcastsMessageToAllMembers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub, _ := newTestHub(t)
	go hub.Run(ctx)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoin, Username: "alice", Room: 1}
	mustEvent(t, alice.Events, EventBatch)
	bob.Commands <- &Command{Kind: CommandJoin, Username: "bob", Room: 1}
	mustEvent(t, bob.Events, EventBatch)

	bob.Commands <- &Command{Kind: CommandMessage, Room: 1, Username: "bob", Text: "hi"}

	for _, c := range []*Client{alice, bob} {
		ev := mustEvent(t, c.Events, EventText)
		for ev.Line != "bob: hi" {
			// Skip join announcements still queued ahead of the message.
			ev = mustEvent(t, c.Events, EventText)
		}
	}
}

func TestHubInvalidMessageErrorsSenderOnly(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub, _ := newTestHub(t)
	go hub.Run(ctx)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoin, Username: "alice", Room: 1}
	mustEvent(t, alice.Events, EventBatch)
	bob.Commands <- &Command{Kind: CommandJoin, Username: "bob", Room: 1}
	mustEvent(t, bob.Events, EventBatch)

	bob.Commands <- &Command{Kind: CommandMessage, Room: 1, Username: "bob", Text: strings.Repeat("x", model.MaxMessageLen+1)}

	ev := mustEvent(t, bob.Events, EventError)
	if ev.Err == "" {
		t.Fatal("expected error description for oversized message")
	}

	// Bob retries with a valid message; Alice must see only that line,
	// never an error event.
	bob.Commands <- &Command{Kind: CommandMessage, Room: 1, Username: "bob", Text: "ok now"}
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-alice.Events:
			if got.Kind == EventError {
				t.Fatal("error event leaked to another room member")
			}
			if got.Kind == EventText && got.Line == "bob: ok now" {
				return
			}
		case <-deadline:
			t.Fatal("valid message never reached alice")
		}
	}
}

func TestHubExplicitLeaveAnnounces(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub, _ := newTestHub(t)
	go hub.Run(ctx)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoin, Username: "alice", Room: 1}
	mustEvent(t, alice.Events, EventBatch)
	bob.Commands <- &Command{Kind: CommandJoin, Username: "bob", Room: 1}
	mustEvent(t, bob.Events, EventBatch)

	alice.Commands <- &Command{Kind: CommandLeave, Username: "alice", Room: 1}

	ev := mustEvent(t, bob.Events, EventText)
	for ev.Line != "alice has left the room." {
		ev = mustEvent(t, bob.Events, EventText)
	}
}

func TestHubDisconnectWithoutLeaveAnnounces(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub, _ := newTestHub(t)
	go hub.Run(ctx)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoin, Username: "alice", Room: 1}
	mustEvent(t, alice.Events, EventBatch)
	bob.Commands <- &Command{Kind: CommandJoin, Username: "bob", Room: 1}
	mustEvent(t, bob.Events, EventBatch)

	// Transport closing Commands simulates a dropped connection.
	close(alice.Commands)

	ev := mustEvent(t, bob.Events, EventText)
	for ev.Line != "alice has left the room." {
		ev = mustEvent(t, bob.Events, EventText)
	}
	drainUntilClosed(t, alice.Events)
}

func TestHubJoinSwitchesRoom(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	hub, _ := newTestHub(t)
	go hub.Run(ctx)

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	alice.Commands <- &Command{Kind: CommandJoin, Username: "alice", Room: 1}
	mustEvent(t, alice.Events, EventBatch)
	bob.Commands <- &Command{Kind: CommandJoin, Username: "bob", Room: 1}
	mustEvent(t, bob.Events, EventBatch)

	// A session holds at most one room: joining another room leaves the
	// first, and the first room's members see the departure.
	bob.Commands <- &Command{Kind: CommandJoin, Username: "bob", Room: 2}
	mustEvent(t, bob.Events, EventBatch)

	ev := mustEvent(t, alice.Events, EventText)
	for ev.Line != "bob has left the room." {
		ev = mustEvent(t, alice.Events, EventText)
	}

	// Messages to room 1 no longer reach bob's new session state; a
	// message to room 2 must reach bob.
	bob.Commands <- &Command{Kind: CommandMessage, Room: 2, Username: "bob", Text: "hello dogs"}
	ev = mustEvent(t, bob.Events, EventText)
	for ev.Line != "bob: hello dogs" {
		ev = mustEvent(t, bob.Events, EventText)
	}
}
