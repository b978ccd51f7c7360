package http

import (
	"encoding/json"
	"time"

	"github.com/fakasys/fakachat-server/internal/core"
	"github.com/fakasys/fakachat-server/internal/proto"
)

// inboundToCommand maps a wire envelope to a core command. Unknown event
// types return (nil, nil) and are silently ignored.
func inboundToCommand(inbound proto.Inbound) (*core.Command, error) {
	switch inbound.Type {
	case proto.InboundTypeChatMessage:
		var data proto.ChatMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			// Older clients send the text as a bare JSON string.
			if strErr := json.Unmarshal(inbound.Data, &data.Text); strErr != nil {
				return nil, err
			}
		}
		return &core.Command{Kind: core.CommandChatMessage, Text: data.Text}, nil

	case proto.InboundTypePrivateMessage:
		var data proto.PrivateMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind: core.CommandPrivateMessage,
			To:   data.ToUsername,
			Text: data.Text,
		}, nil

	case proto.InboundTypeCallUser:
		var data proto.CallUserData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:    core.CommandCallOffer,
			To:      data.ToUsername,
			Payload: data.Offer,
		}, nil

	case proto.InboundTypeCallAnswer:
		var data proto.CallAnswerData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind:    core.CommandCallAnswer,
			To:      data.ToUsername,
			Payload: data.Answer,
		}, nil

	case proto.InboundTypeCallReject:
		var data proto.CallRejectData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, err
		}
		return &core.Command{
			Kind: core.CommandCallReject,
			To:   data.ToUsername,
		}, nil

	default:
		return nil, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventChatMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeMessage,
			Data: proto.MessageEvent{
				Username:      event.Message.Username,
				Discriminator: event.Message.Discriminator,
				Roles:         event.Message.Roles,
				Text:          event.Message.Text,
				Time:          wireTime(event.Message.SentAt),
			},
		}

	case core.EventPrivateMessage:
		return proto.Outbound{
			Type: proto.OutboundTypePrivateMessage,
			Data: proto.PrivateMessageEvent{
				FromUsername: event.Private.FromUsername,
				FromRoles:    event.Private.FromRoles,
				Text:         event.Private.Text,
				Time:         wireTime(event.Private.SentAt),
			},
		}

	case core.EventRoster:
		entries := make([]proto.UserListEntry, 0, len(event.Roster))
		for _, id := range event.Roster {
			entries = append(entries, proto.UserListEntry{
				Username:      id.DisplayName,
				Discriminator: id.Discriminator,
				Roles:         id.Roles,
				AvatarURL:     optionalString(id.AvatarURL),
			})
		}
		return proto.Outbound{Type: proto.OutboundTypeUserList, Data: entries}

	case core.EventError:
		msg := "unknown error"
		if event.Error != nil {
			msg = event.Error.Message
		}
		return proto.Outbound{Type: proto.OutboundTypeErrorMessage, Data: msg}

	case core.EventCallIncoming:
		return proto.Outbound{
			Type: proto.OutboundTypeIncomingCall,
			Data: proto.IncomingCallEvent{
				FromUsername: event.Call.FromUsername,
				Offer:        event.Call.Payload,
			},
		}

	case core.EventCallAccepted:
		return proto.Outbound{
			Type: proto.OutboundTypeCallAccepted,
			Data: proto.CallAcceptedEvent{
				FromUsername: event.Call.FromUsername,
				Answer:       event.Call.Payload,
			},
		}

	case core.EventCallRejected:
		return proto.Outbound{
			Type: proto.OutboundTypeCallRejected,
			Data: proto.CallRejectedEvent{
				FromUsername: event.Call.FromUsername,
			},
		}

	default:
		return proto.Outbound{Type: proto.OutboundTypeErrorMessage, Data: "unknown event"}
	}
}

func wireTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
