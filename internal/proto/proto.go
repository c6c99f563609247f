// Package proto defines the JSON envelopes exchanged over the realtime
// connection.
package proto

import (
	"encoding/json"

	"github.com/roomchat/roomchat-server/internal/model"
)

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin    = "join"
	InboundTypeLeave   = "leave"
	InboundTypeMessage = "message"

	// OutboundTypeEvent carries a named event (connected, batch, error).
	OutboundTypeEvent = "event"
	// OutboundTypeText carries a plain broadcast line: join and leave
	// announcements and chat messages.
	OutboundTypeText = "message"

	EventConnected = "connected"
	EventBatch     = "batch"
	EventError     = "error"
)

// JoinData requests to join a room. Leave uses the same shape.
type JoinData struct {
	Username string `json:"username"`
	Room     int    `json:"room"`
}

// MessageData is a chat message from the client.
type MessageData struct {
	RoomID   int    `json:"room_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// BatchData delivers a room's message history to a joining client.
type BatchData struct {
	Data []model.Message `json:"data"`
}

// ErrorData carries a user-visible error description.
type ErrorData struct {
	Data string `json:"data"`
}

// Connected acknowledges a new connection.
func Connected() Outbound {
	return Outbound{Type: OutboundTypeEvent, Event: EventConnected, Data: struct{}{}}
}

// Batch wraps message history for a joining client.
func Batch(messages []model.Message) Outbound {
	if messages == nil {
		messages = []model.Message{}
	}
	return Outbound{Type: OutboundTypeEvent, Event: EventBatch, Data: BatchData{Data: messages}}
}

// Error wraps a user-visible error event.
func Error(msg string) Outbound {
	return Outbound{Type: OutboundTypeEvent, Event: EventError, Data: ErrorData{Data: msg}}
}

// Text wraps a plain broadcast line.
func Text(line string) Outbound {
	return Outbound{Type: OutboundTypeText, Data: line}
}
