package http

import (
	"github.com/chatline/chatline-server/internal/core"
	"github.com/chatline/chatline-server/internal/proto"
)

func messageData(msg core.Message) proto.MessageData {
	return proto.MessageData{
		Sender: msg.Sender,
		Text:   msg.Text,
		Time:   msg.Time,
		UserID: msg.UserID,
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventHistory:
		history := make([]proto.MessageData, 0, len(event.Messages))
		for _, msg := range event.Messages {
			history = append(history, messageData(msg))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeHistory,
			Data: history,
		}
	case core.EventMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeMessage,
			Data: messageData(event.Message),
		}
	default:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: proto.ErrCodeBadRequest, Msg: "unknown event"},
		}
	}
}
