package polli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ContentPartType represents the type of content in a multimodal message part.
type ContentPartType string

const (
	ContentPartTypeText       ContentPartType = "text"
	ContentPartTypeImageURL   ContentPartType = "image_url"
	ContentPartTypeInputAudio ContentPartType = "input_audio"
)

// ImageURL references an image by URL or data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// InputAudio carries base64 audio inline.
type InputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

// ContentPart represents a single part of multimodal content.
// Exactly one of Text, ImageURL or InputAudio is set, matching Type.
type ContentPart struct {
	Type       ContentPartType `json:"type"`
	Text       string          `json:"text,omitempty"`
	ImageURL   *ImageURL       `json:"image_url,omitempty"`
	InputAudio *InputAudio     `json:"input_audio,omitempty"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: ContentPartTypeText, Text: text}
}

// NewImageURLPart creates an image content part from a URL or data URL.
func NewImageURLPart(url string) ContentPart {
	return ContentPart{Type: ContentPartTypeImageURL, ImageURL: &ImageURL{URL: url}}
}

// NewInputAudioPart creates an audio content part from base64 data.
func NewInputAudioPart(base64Data, format string) ContentPart {
	return ContentPart{
		Type:       ContentPartTypeInputAudio,
		InputAudio: &InputAudio{Data: base64Data, Format: format},
	}
}

// Message represents a single message in a conversation.
//
// On the wire Content and Parts share the "content" key: a message with
// Parts is encoded with an array of parts, otherwise with the Content string.
type Message struct {
	// ID is a local correlation identifier. It is never sent to the API.
	ID      string        `json:"-"`
	Role    Role          `json:"role"`
	Content string        `json:"-"`
	Parts   []ContentPart `json:"-"`
	// ToolCalls contains tool invocation requests from an assistant message.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID and Name tag a tool-role message with the call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
	Name       string `json:"name,omitempty"`
}

// NewUserMessage creates a user message with text content.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewAssistantMessage creates an assistant message with text content.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolMessage creates a tool-role message answering the given call.
func NewToolMessage(callID, name, content string) Message {
	return Message{Role: RoleTool, ToolCallID: callID, Name: name, Content: content}
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// HasParts returns true if the message has multimodal content parts.
func (m Message) HasParts() bool {
	return len(m.Parts) > 0
}

type messageAlias Message

type wireMessage struct {
	messageAlias
	Content any `json:"content"`
}

// MarshalJSON encodes the message in chat-completions wire format.
func (m Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{messageAlias: messageAlias(m)}
	switch {
	case m.HasParts():
		w.Content = m.Parts
	case m.Content == "" && len(m.ToolCalls) > 0:
		w.Content = nil
	default:
		w.Content = m.Content
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a wire message whose content may be a string,
// null, or an array of parts.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w struct {
		messageAlias
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = Message(w.messageAlias)
	if len(w.Content) == 0 || string(w.Content) == "null" {
		return nil
	}
	switch w.Content[0] {
	case '"':
		return json.Unmarshal(w.Content, &m.Content)
	case '[':
		return json.Unmarshal(w.Content, &m.Parts)
	default:
		return fmt.Errorf("message content: unexpected JSON %s", w.Content)
	}
}
