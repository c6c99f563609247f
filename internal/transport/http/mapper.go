package http

import (
	"encoding/json"
	"fmt"

	"github.com/roomchat/roomchat-server/internal/core"
	"github.com/roomchat/roomchat-server/internal/proto"
)

// inboundToCommand translates a wire frame into a hub command. The error
// message is safe to echo back to the peer as an error event.
func inboundToCommand(in proto.Inbound) (*core.Command, error) {
	switch in.Type {
	case proto.InboundTypeJoin:
		var data proto.JoinData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, fmt.Errorf("decode join data: %w", err)
		}
		if data.Username == "" || data.Room <= 0 {
			return nil, fmt.Errorf("join requires username and room")
		}
		return &core.Command{Kind: core.CommandJoin, Username: data.Username, Room: data.Room}, nil
	case proto.InboundTypeLeave:
		var data proto.JoinData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, fmt.Errorf("decode leave data: %w", err)
		}
		return &core.Command{Kind: core.CommandLeave, Username: data.Username, Room: data.Room}, nil
	case proto.InboundTypeMessage:
		var data proto.MessageData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, fmt.Errorf("decode message data: %w", err)
		}
		if data.Username == "" || data.Message == "" || data.RoomID <= 0 {
			return nil, fmt.Errorf("message requires username, room_id and message")
		}
		return &core.Command{Kind: core.CommandMessage, Username: data.Username, Room: data.RoomID, Text: data.Message}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", in.Type)
	}
}

func eventToOutbound(ev *core.Event) proto.Outbound {
	switch ev.Kind {
	case core.EventConnected:
		return proto.Connected()
	case core.EventBatch:
		return proto.Batch(ev.Messages)
	case core.EventError:
		return proto.Error(ev.Err)
	default:
		return proto.Text(ev.Line)
	}
}
