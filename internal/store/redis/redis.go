// Package redis implements the store gateway on top of Redis sets,
// sorted sets and hashes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/roomchat/roomchat-server/internal/model"
	"github.com/roomchat/roomchat-server/internal/store"
)

// Key layout. Room-scoped keys embed the integer room id.
const (
	keyRooms    = "rooms"     // set of serialized ChatRoom blobs
	keyRoomIDs  = "rooms_ids" // set of registered room ids
	keyUsers    = "users"     // hash: username -> password hash
	keyTokens   = "tokens"    // hash: token -> username
	pingTimeout = 5 * time.Second
)

func roomKey(roomID int) string {
	return fmt.Sprintf("room:%d", roomID)
}

func roomUsersKey(roomID int) string {
	return fmt.Sprintf("room:%d:users", roomID)
}

// Store is a Redis-backed store.Store.
type Store struct {
	rdb *goredis.Client
}

var _ store.Store = (*Store)(nil)

// New connects to Redis at addr and verifies the connection with a ping.
func New(addr string) (*Store, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Store{rdb: rdb}, nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// RegisterRoom adds the room blob and its id to the registry sets.
// SADD makes re-registration a no-op.
func (s *Store) RegisterRoom(ctx context.Context, room model.ChatRoom) error {
	if err := room.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	blob, err := json.Marshal(room)
	if err != nil {
		return storeErr("encode room", err)
	}
	if err := s.rdb.SAdd(ctx, keyRooms, blob).Err(); err != nil {
		return storeErr("sadd rooms", err)
	}
	if err := s.rdb.SAdd(ctx, keyRoomIDs, strconv.Itoa(room.ID)).Err(); err != nil {
		return storeErr("sadd rooms_ids", err)
	}
	return nil
}

// ListRooms reads the full registry. Set members come back in arbitrary
// order, so the result is sorted by id.
func (s *Store) ListRooms(ctx context.Context) ([]model.ChatRoom, error) {
	blobs, err := s.rdb.SMembers(ctx, keyRooms).Result()
	if err != nil {
		return nil, storeErr("smembers rooms", err)
	}

	rooms := make([]model.ChatRoom, 0, len(blobs))
	for _, blob := range blobs {
		var room model.ChatRoom
		if err := json.Unmarshal([]byte(blob), &room); err != nil {
			return nil, storeErr("decode room", err)
		}
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

// JoinRoom adds userID to the room's member set.
func (s *Store) JoinRoom(ctx context.Context, roomID int, userID string) error {
	if err := s.checkMembershipArgs(ctx, roomID, userID); err != nil {
		return err
	}
	if err := s.rdb.SAdd(ctx, roomUsersKey(roomID), userID).Err(); err != nil {
		return storeErr("sadd room users", err)
	}
	return nil
}

// LeaveRoom removes userID from the room's member set.
func (s *Store) LeaveRoom(ctx context.Context, roomID int, userID string) error {
	if err := s.checkMembershipArgs(ctx, roomID, userID); err != nil {
		return err
	}
	if err := s.rdb.SRem(ctx, roomUsersKey(roomID), userID).Err(); err != nil {
		return storeErr("srem room users", err)
	}
	return nil
}

func (s *Store) checkMembershipArgs(ctx context.Context, roomID int, userID string) error {
	registered, err := s.rdb.SIsMember(ctx, keyRoomIDs, strconv.Itoa(roomID)).Result()
	if err != nil {
		return storeErr("sismember rooms_ids", err)
	}
	if !registered {
		return fmt.Errorf("%w: room %d", store.ErrNotFound, roomID)
	}
	if err := (model.User{Name: userID}).Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrValidation, err)
	}
	return nil
}

// SendMessage stamps the message with the current time and inserts it
// into the room's sorted set with ZADD NX, scored by timestamp. The
// returned count is 0 when an identical serialized message was already
// present; that no-op is a documented quirk, not content dedup.
func (s *Store) SendMessage(ctx context.Context, roomID int, senderID, text string) (int64, error) {
	if err := (model.User{Name: senderID}).Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}

	ts := float64(time.Now().UnixMicro()) / 1e6
	msg := model.Message{SenderID: senderID, Timestamp: ts, Message: text}
	if err := msg.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrValidation, err)
	}

	blob, err := json.Marshal(msg)
	if err != nil {
		return 0, storeErr("encode message", err)
	}

	added, err := s.rdb.ZAddNX(ctx, roomKey(roomID), goredis.Z{Score: ts, Member: blob}).Result()
	if err != nil {
		return 0, storeErr("zadd room", err)
	}
	return added, nil
}

// ListMessages returns the room's collection in score order, oldest first.
func (s *Store) ListMessages(ctx context.Context, roomID int) ([]model.Message, error) {
	blobs, err := s.rdb.ZRange(ctx, roomKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, storeErr("zrange room", err)
	}

	messages := make([]model.Message, 0, len(blobs))
	for _, blob := range blobs {
		var msg model.Message
		if err := json.Unmarshal([]byte(blob), &msg); err != nil {
			return nil, storeErr("decode message", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// SaveCredential stores the password hash. HSETNX reports whether the
// field was new, which gives the conflict check for free.
func (s *Store) SaveCredential(ctx context.Context, username, passwordHash string) error {
	created, err := s.rdb.HSetNX(ctx, keyUsers, username, passwordHash).Result()
	if err != nil {
		return storeErr("hsetnx users", err)
	}
	if !created {
		return fmt.Errorf("%w: user %q", store.ErrConflict, username)
	}
	return nil
}

// GetCredential returns the stored password hash for username.
func (s *Store) GetCredential(ctx context.Context, username string) (string, error) {
	hash, err := s.rdb.HGet(ctx, keyUsers, username).Result()
	if errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("%w: unknown user", store.ErrUnauthorized)
	}
	if err != nil {
		return "", storeErr("hget users", err)
	}
	return hash, nil
}

// SaveToken records an issued token. Tokens accumulate for the lifetime
// of the store; there is no expiry or revocation.
func (s *Store) SaveToken(ctx context.Context, token, username string) error {
	if err := s.rdb.HSet(ctx, keyTokens, token, username).Err(); err != nil {
		return storeErr("hset tokens", err)
	}
	return nil
}

// LookupToken resolves a token back to its username.
func (s *Store) LookupToken(ctx context.Context, token string) (string, error) {
	username, err := s.rdb.HGet(ctx, keyTokens, token).Result()
	if errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("%w: unknown token", store.ErrUnauthorized)
	}
	if err != nil {
		return "", storeErr("hget tokens", err)
	}
	return username, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, store.ErrStore, err)
}
