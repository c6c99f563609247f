// Package core implements the realtime session manager: it tracks live
// connections, the room each session joined, and relays join, leave and
// message events to every socket subscribed to a room.
package core

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/roomchat/roomchat-server/internal/store"
)

// session is the live association between one connection and the
// username/room it last joined. A session maps to at most one room.
type session struct {
	username string
	room     int
	joined   bool
}

// envelope pairs an inbound command with its originating client.
type envelope struct {
	client *Client
	cmd    *Command
}

// Hub owns the session table and the per-room broadcast groups. A single
// goroutine started by Run is the only writer to either, so no further
// locking is needed.
type Hub struct {
	messages store.MessageStore
	log      *zerolog.Logger

	register   chan *Client
	unregister chan *Client
	in         chan envelope

	sessions map[*Client]session
	rooms    map[int]*group
}

// NewHub constructs a hub backed by the given message store.
func NewHub(messages store.MessageStore, logger *zerolog.Logger) *Hub {
	return &Hub{
		messages:   messages,
		log:        logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		in:         make(chan envelope),
		sessions:   make(map[*Client]session),
		rooms:      make(map[int]*group),
	}
}

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// Run processes registrations and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.connect(ctx, c)
		case c := <-h.unregister:
			h.disconnect(c)
		case env := <-h.in:
			h.handle(ctx, env.client, env.cmd)
		}
	}
}

// connect registers the session, acknowledges the connection and starts
// the command pump. The pump forwards the client's commands to the hub
// loop and reports the disconnect once the transport closes Commands.
func (h *Hub) connect(ctx context.Context, c *Client) {
	h.sessions[c] = session{}
	c.send(&Event{Kind: EventConnected})
	h.log.Debug().Str("conn_id", c.ID).Msg("client connected")

	go func() {
		for cmd := range c.Commands {
			select {
			case h.in <- envelope{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		}
		select {
		case h.unregister <- c:
		case <-ctx.Done():
		}
	}()
}

// disconnect performs the implicit leave for a closed connection. An
// unknown client is a no-op.
func (h *Hub) disconnect(c *Client) {
	sess, ok := h.sessions[c]
	if !ok {
		return
	}
	if sess.joined {
		h.leaveRoom(c, sess.username, sess.room)
	}
	delete(h.sessions, c)
	close(c.Events)
	h.log.Debug().Str("conn_id", c.ID).Msg("client disconnected")
}

func (h *Hub) handle(ctx context.Context, c *Client, cmd *Command) {
	if _, ok := h.sessions[c]; !ok {
		return
	}

	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(ctx, c, cmd.Username, cmd.Room)
	case CommandLeave:
		h.handleLeave(c, cmd.Username, cmd.Room)
	case CommandMessage:
		h.handleMessage(ctx, c, cmd.Room, cmd.Username, cmd.Text)
	}
}

// handleJoin subscribes the session to a room, announces the arrival to
// the group and pushes the room's history to the joiner only. A session
// already in another room leaves it first.
func (h *Hub) handleJoin(ctx context.Context, c *Client, username string, room int) {
	if sess := h.sessions[c]; sess.joined {
		h.leaveRoom(c, sess.username, sess.room)
	}

	h.sessions[c] = session{username: username, room: room, joined: true}
	g := h.group(room)
	g.add(c)
	g.broadcast(&Event{Kind: EventText, Line: username + " has entered the room."})

	history, err := h.messages.ListMessages(ctx, room)
	if err != nil {
		h.log.Warn().Err(err).Int("room", room).Msg("load history")
		c.send(&Event{Kind: EventError, Err: "error getting messages"})
		return
	}
	c.send(&Event{Kind: EventBatch, Messages: history})
	h.log.Info().Str("user", username).Int("room", room).Msg("joined room")
}

// handleLeave removes the session record and announces the departure.
func (h *Hub) handleLeave(c *Client, username string, room int) {
	h.leaveRoom(c, username, room)
	h.sessions[c] = session{}
	h.log.Info().Str("user", username).Int("room", room).Msg("left room")
}

// leaveRoom unsubscribes the client and announces the departure to the
// remaining group members.
func (h *Hub) leaveRoom(c *Client, username string, room int) {
	g, ok := h.rooms[room]
	if !ok {
		return
	}
	g.remove(c)
	g.broadcast(&Event{Kind: EventText, Line: username + " has left the room."})
	if g.empty() {
		delete(h.rooms, room)
	}
}

// handleMessage appends the message through the store gateway and, on
// success, broadcasts the formatted line to the whole group. Failures go
// back to the sender only; the session stays connected.
func (h *Hub) handleMessage(ctx context.Context, c *Client, room int, username, text string) {
	id, err := h.messages.SendMessage(ctx, room, username, text)
	if err != nil {
		h.log.Warn().Err(err).Int("room", room).Str("user", username).Msg("send message")
		c.send(&Event{Kind: EventError, Err: "error sending message"})
		return
	}
	if id == 0 {
		h.log.Debug().Int("room", room).Msg("duplicate message insert was a no-op")
	}
	if g, ok := h.rooms[room]; ok {
		g.broadcast(&Event{Kind: EventText, Line: username + ": " + text})
	}
}

func (h *Hub) group(room int) *group {
	g, ok := h.rooms[room]
	if !ok {
		g = newGroup(room)
		h.rooms[room] = g
	}
	return g
}
