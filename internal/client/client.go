// Package client implements the interactive terminal chat client.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/roomchat/roomchat-server/internal/model"
	"github.com/roomchat/roomchat-server/internal/proto"
)

// Client drives one interactive chat session against a server.
type Client struct {
	baseURL string
	http    *http.Client
	in      *bufio.Reader
	out     io.Writer
}

// New creates a client for the given server base URL, for example
// "http://localhost:8080".
func New(baseURL string, in io.Reader, out io.Writer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run walks the user through name entry and room selection, then relays
// messages until the input stream ends or the context is cancelled.
func (c *Client) Run(ctx context.Context) error {
	username, err := c.promptUsername()
	if err != nil {
		return err
	}

	room, err := c.chooseRoom(ctx)
	if err != nil {
		return err
	}

	if err := c.joinRoom(ctx, room.ID, username); err != nil {
		return err
	}
	defer c.leaveRoom(room.ID, username)

	return c.chat(ctx, room, username)
}

func (c *Client) promptUsername() (string, error) {
	for {
		fmt.Fprint(c.out, "Enter your name: ")
		line, err := c.in.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read name: %w", err)
		}
		name := strings.TrimSpace(line)
		if err := (model.User{Name: name}).Validate(); err != nil {
			fmt.Fprintf(c.out, "invalid name: %v\n", err)
			continue
		}
		return name, nil
	}
}

func (c *Client) chooseRoom(ctx context.Context) (model.ChatRoom, error) {
	rooms, err := c.listRooms(ctx)
	if err != nil {
		return model.ChatRoom{}, err
	}
	if len(rooms) == 0 {
		return model.ChatRoom{}, errors.New("the server has no rooms")
	}

	fmt.Fprintln(c.out, "Available rooms:")
	for _, room := range rooms {
		fmt.Fprintf(c.out, "  %d) %s\n", room.ID, room.Topic)
	}

	for {
		fmt.Fprint(c.out, "Pick a room by number: ")
		line, err := c.in.ReadString('\n')
		if err != nil {
			return model.ChatRoom{}, fmt.Errorf("read room choice: %w", err)
		}
		id, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(c.out, "please enter a room number")
			continue
		}
		for _, room := range rooms {
			if room.ID == id {
				return room, nil
			}
		}
		fmt.Fprintf(c.out, "no room with number %d\n", id)
	}
}

func (c *Client) listRooms(ctx context.Context) ([]model.ChatRoom, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rooms", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list rooms: server answered %s", resp.Status)
	}
	var rooms []model.ChatRoom
	if err := json.NewDecoder(resp.Body).Decode(&rooms); err != nil {
		return nil, fmt.Errorf("decode rooms: %w", err)
	}
	return rooms, nil
}

func (c *Client) joinRoom(ctx context.Context, roomID int, username string) error {
	url := fmt.Sprintf("%s/rooms/%d/users/%s", c.baseURL, roomID, username)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("join room: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("join room: server answered %s", resp.Status)
	}
	return nil
}

// leaveRoom runs during shutdown, after the session context is already
// cancelled, so it uses a fresh context.
func (c *Client) leaveRoom(roomID int, username string) {
	url := fmt.Sprintf("%s/rooms/%d/users/%s/leave", c.baseURL, roomID, username)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		fmt.Fprintf(c.out, "leave room: %v\n", err)
		return
	}
	resp.Body.Close()
}

func (c *Client) chat(ctx context.Context, room model.ChatRoom, username string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := c.send(ctx, conn, proto.InboundTypeJoin, proto.JoinData{Username: username, Room: room.ID}); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Joined %s. Type a message and press Enter. Ctrl+C to exit.\n", room.Topic)

	go func() {
		defer cancel()
		c.readLoop(ctx, conn)
	}()

	c.writeLoop(ctx, conn, room.ID, username)

	// Best effort: the connection may already be gone.
	_ = c.send(context.Background(), conn, proto.InboundTypeLeave, proto.JoinData{Username: username, Room: room.ID})
	return nil
}

func (c *Client) send(ctx context.Context, conn *websocket.Conn, frameType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", frameType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: frameType, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", frameType, err)
	}
	return nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var frame struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			fmt.Fprintf(c.out, "connection lost: %v\n", err)
			return
		}

		switch {
		case frame.Type == proto.OutboundTypeText:
			var line string
			if err := json.Unmarshal(frame.Data, &line); err != nil {
				continue
			}
			fmt.Fprintln(c.out, line)
		case frame.Event == proto.EventBatch:
			var batch proto.BatchData
			if err := json.Unmarshal(frame.Data, &batch); err != nil {
				continue
			}
			for _, msg := range batch.Data {
				fmt.Fprintf(c.out, "%s: %s\n", msg.SenderID, msg.Message)
			}
		case frame.Event == proto.EventError:
			var evErr proto.ErrorData
			if err := json.Unmarshal(frame.Data, &evErr); err != nil {
				continue
			}
			fmt.Fprintf(c.out, "server error: %s\n", evErr.Data)
		case frame.Event == proto.EventConnected:
			// Quiet ack, nothing to show.
		}
	}
}

func (c *Client) writeLoop(ctx context.Context, conn *websocket.Conn, roomID int, username string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			data := proto.MessageData{RoomID: roomID, Username: username, Message: text}
			if err := c.send(ctx, conn, proto.InboundTypeMessage, data); err != nil {
				fmt.Fprintf(c.out, "%v\n", err)
				return
			}
		}
	}
}
