package polli

import "encoding/json"

// Response is the parsed result of a chat, vision or transcription call.
type Response struct {
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Model        string `json:"model,omitempty"`
	Usage        Usage  `json:"usage"`
	// ToolCalls holds the tool invocations requested by the model.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	// Raw is the complete response payload, returned as-is in JSON mode.
	Raw json.RawMessage `json:"-"`
}

// Usage contains token usage information for a request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// TextResult is the result of a plain text generation.
type TextResult struct {
	Text string
	// JSON holds the decoded body when JSON mode was requested and the body
	// parsed; otherwise it is nil and Text carries the raw body.
	JSON any
}

type chatCompletion struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// ParseResponse decodes an OpenAI-style chat completion body. A body without
// choices yields an empty Content, not an error.
func ParseResponse(body []byte) (*Response, error) {
	var cc chatCompletion
	if err := json.Unmarshal(body, &cc); err != nil {
		return nil, err
	}
	resp := &Response{
		Model: cc.Model,
		Usage: Usage{
			InputTokens:  cc.Usage.PromptTokens,
			OutputTokens: cc.Usage.CompletionTokens,
		},
		Raw: json.RawMessage(body),
	}
	if len(cc.Choices) > 0 {
		choice := cc.Choices[0]
		resp.Content = choice.Message.Content
		resp.FinishReason = choice.FinishReason
		resp.ToolCalls = choice.Message.ToolCalls
	}
	return resp, nil
}
