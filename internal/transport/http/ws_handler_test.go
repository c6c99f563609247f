package http

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// testFrame mirrors proto.Outbound with raw data for assertions.
type testFrame struct {
	Type  string          `json:"type"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func dialWS(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	return conn
}

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) testFrame {
	t.Helper()
	var frame testFrame
	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func sendFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, frameType string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal frame data: %v", err)
	}
	frame := struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}{Type: frameType, Data: raw}
	if err := wsjson.Write(ctx, conn, frame); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func TestWebSocketJoinAndChat(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts.URL)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	if frame := readFrame(t, ctx, conn); frame.Event != "connected" {
		t.Fatalf("first frame = %+v, want connected event", frame)
	}

	sendFrame(t, ctx, conn, "join", map[string]any{"username": "alice", "room": 1})

	if frame := readFrame(t, ctx, conn); frame.Type != "message" ||
		string(frame.Data) != `"alice has entered the room."` {
		t.Fatalf("join announcement = %+v", frame)
	}
	if frame := readFrame(t, ctx, conn); frame.Event != "batch" {
		t.Fatalf("second frame = %+v, want history batch", frame)
	}

	sendFrame(t, ctx, conn, "message", map[string]any{
		"room_id": 1, "username": "alice", "message": "hi everyone",
	})
	if frame := readFrame(t, ctx, conn); frame.Type != "message" ||
		string(frame.Data) != `"alice: hi everyone"` {
		t.Fatalf("chat frame = %+v", frame)
	}
}

func TestWebSocketBroadcastBetweenPeers(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dialWS(t, ctx, ts.URL)
	defer alice.Close(websocket.StatusNormalClosure, "done")
	bob := dialWS(t, ctx, ts.URL)
	defer bob.Close(websocket.StatusNormalClosure, "done")

	readFrame(t, ctx, alice) // connected
	readFrame(t, ctx, bob)   // connected

	sendFrame(t, ctx, alice, "join", map[string]any{"username": "alice", "room": 2})
	readFrame(t, ctx, alice) // own join announcement
	readFrame(t, ctx, alice) // history batch

	sendFrame(t, ctx, bob, "join", map[string]any{"username": "bob", "room": 2})
	readFrame(t, ctx, bob) // own join announcement
	readFrame(t, ctx, bob) // history batch

	if frame := readFrame(t, ctx, alice); string(frame.Data) != `"bob has entered the room."` {
		t.Fatalf("alice saw %+v, want bob's arrival", frame)
	}

	sendFrame(t, ctx, bob, "message", map[string]any{
		"room_id": 2, "username": "bob", "message": "hello",
	})
	if frame := readFrame(t, ctx, alice); string(frame.Data) != `"bob: hello"` {
		t.Fatalf("alice saw %+v, want bob's message", frame)
	}

	sendFrame(t, ctx, bob, "leave", map[string]any{"username": "bob", "room": 2})
	if frame := readFrame(t, ctx, alice); string(frame.Data) != `"bob has left the room."` {
		t.Fatalf("alice saw %+v, want bob's departure", frame)
	}
}

func TestWebSocketRejectsUnknownType(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts.URL)
	defer conn.Close(websocket.StatusNormalClosure, "done")

	readFrame(t, ctx, conn) // connected

	sendFrame(t, ctx, conn, "shout", map[string]any{"username": "alice"})
	frame := readFrame(t, ctx, conn)
	if frame.Event != "error" {
		t.Fatalf("frame = %+v, want error event", frame)
	}
}
