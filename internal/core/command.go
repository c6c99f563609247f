package core

// CommandKind identifies a client request to the hub.
type CommandKind int

const (
	// CommandJoin subscribes the session to a room.
	CommandJoin CommandKind = iota
	// CommandLeave unsubscribes the session from a room.
	CommandLeave
	// CommandMessage sends a chat message to a room.
	CommandMessage
)

// Command is a client request processed by the hub loop.
type Command struct {
	Kind     CommandKind
	Username string
	Room     int
	Text     string
}
