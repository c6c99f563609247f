// Package store defines the gateway the chat service uses to talk to its
// persistent set/sorted-set store, together with the error taxonomy every
// boundary layer maps to user-visible responses.
package store

import (
	"context"
	"errors"

	"github.com/roomchat/roomchat-server/internal/model"
)

var (
	// ErrNotFound is returned when an operation references an
	// unregistered room.
	ErrNotFound = errors.New("room not found")
	// ErrValidation is returned when a field fails its constraints.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when a username is already registered.
	ErrConflict = errors.New("already exists")
	// ErrUnauthorized is returned on bad credentials or an unknown token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStore is returned on transport or decoding failures of the
	// underlying store.
	ErrStore = errors.New("store failure")
)

// RoomStore manages the room registry and room membership.
type RoomStore interface {
	// RegisterRoom adds a room to the registry. Re-registering the same
	// room is a no-op by set semantics.
	RegisterRoom(ctx context.Context, room model.ChatRoom) error

	// ListRooms returns the full registry ordered by room id.
	ListRooms(ctx context.Context) ([]model.ChatRoom, error)

	// JoinRoom adds userID to the room's member set. Returns ErrNotFound
	// for an unregistered room and ErrValidation for a malformed userID.
	JoinRoom(ctx context.Context, roomID int, userID string) error

	// LeaveRoom removes userID from the room's member set. Error
	// contract matches JoinRoom.
	LeaveRoom(ctx context.Context, roomID int, userID string) error
}

// MessageStore manages per-room ordered message collections.
type MessageStore interface {
	// SendMessage validates the sender and text, stamps the message with
	// the current time and inserts it with add-if-absent semantics. The
	// returned id is the number of members added: 0 means an identical
	// message+timestamp already existed and the insert was a no-op.
	SendMessage(ctx context.Context, roomID int, senderID, text string) (int64, error)

	// ListMessages returns the room's full collection, oldest first.
	ListMessages(ctx context.Context, roomID int) ([]model.Message, error)
}

// CredentialStore holds username -> password-hash and token -> username
// records. Hashing and token minting live in the auth service; this layer
// only persists.
type CredentialStore interface {
	// SaveCredential stores a password hash for a new username. Returns
	// ErrConflict if the name is taken.
	SaveCredential(ctx context.Context, username, passwordHash string) error

	// GetCredential returns the stored password hash. Returns
	// ErrUnauthorized if the user is unknown.
	GetCredential(ctx context.Context, username string) (string, error)

	// SaveToken records an issued token against its username. Tokens are
	// never expired or revoked.
	SaveToken(ctx context.Context, token, username string) error

	// LookupToken resolves a token back to its username. Returns
	// ErrUnauthorized for an unknown token.
	LookupToken(ctx context.Context, token string) (string, error)
}

// Store aggregates all gateway interfaces.
type Store interface {
	RoomStore
	MessageStore
	CredentialStore

	// Close releases the underlying connection.
	Close() error
}
