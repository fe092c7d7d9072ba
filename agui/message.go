package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/polli"
)

// Role constants matching AG-UI protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// ToPolliMessages converts AG-UI messages to polli messages.
func ToPolliMessages(msgs []events.Message) []polli.Message {
	result := make([]polli.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, ToPolliMessage(msg))
	}
	return result
}

// ToPolliMessage converts a single AG-UI message to a polli message.
func ToPolliMessage(msg events.Message) polli.Message {
	m := polli.Message{
		ID:   msg.ID,
		Role: toPolliRole(msg.Role),
	}
	if msg.Content != nil {
		m.Content = *msg.Content
	}

	if len(msg.ToolCalls) > 0 {
		m.ToolCalls = make([]polli.ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			m.ToolCalls[i] = polli.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			}
		}
	}

	if msg.ToolCallID != nil {
		m.ToolCallID = *msg.ToolCallID
	}
	return m
}

// FromPolliMessages converts polli messages to AG-UI messages.
func FromPolliMessages(msgs []polli.Message) []events.Message {
	result := make([]events.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, FromPolliMessage(msg))
	}
	return result
}

// FromPolliMessage converts a single polli message to an AG-UI message.
// Text parts are joined into the content string; other parts are dropped.
func FromPolliMessage(msg polli.Message) events.Message {
	id := msg.ID
	if id == "" {
		id = events.GenerateMessageID()
	}
	m := events.Message{
		ID:   id,
		Role: fromPolliRole(msg.Role),
	}

	content := msg.Content
	if msg.HasParts() {
		content = textOf(msg.Parts)
	}
	if content != "" {
		m.Content = &content
	}

	if len(msg.ToolCalls) > 0 {
		m.ToolCalls = make([]events.ToolCall, len(msg.ToolCalls))
		for i, tc := range msg.ToolCalls {
			m.ToolCalls[i] = events.ToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: events.Function{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			}
		}
	}

	if msg.ToolCallID != "" {
		callID := msg.ToolCallID
		m.ToolCallID = &callID
	}
	return m
}

func textOf(parts []polli.ContentPart) string {
	var text string
	for _, p := range parts {
		if p.Type != polli.ContentPartTypeText {
			continue
		}
		if text != "" {
			text += "\n"
		}
		text += p.Text
	}
	return text
}

func toPolliRole(role string) polli.Role {
	switch role {
	case RoleAssistant:
		return polli.RoleAssistant
	case RoleSystem, "developer":
		return polli.RoleSystem
	case RoleTool:
		return polli.RoleTool
	default:
		return polli.RoleUser
	}
}

func fromPolliRole(role polli.Role) string {
	switch role {
	case polli.RoleAssistant:
		return RoleAssistant
	case polli.RoleSystem:
		return RoleSystem
	case polli.RoleTool:
		return RoleTool
	default:
		return RoleUser
	}
}
