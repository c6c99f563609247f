package core

import "github.com/roomchat/roomchat-server/internal/model"

// EventKind is a notification the hub emits to clients.
type EventKind int

const (
	// EventConnected acknowledges a new connection.
	EventConnected EventKind = iota
	// EventBatch delivers a room's message history to a joining client.
	EventBatch
	// EventText is a plain broadcast line: a join or leave announcement
	// or a formatted chat message.
	EventText
	// EventError notifies the sender about a failed operation.
	EventError
)

// Event is sent to clients to describe what happened.
type Event struct {
	Kind     EventKind
	Line     string          // for EventText
	Messages []model.Message // for EventBatch
	Err      string          // for EventError
}
