package client

import (
	"context"

	"github.com/openai/openai-go/option"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/internal/openaicompat"
	"github.com/spetersoncode/polli/model"
)

// compat returns the lazily created OpenAI-compatible client. Its HTTP
// traffic goes through the client's gate, so it is paced and retried like
// every other request.
func (c *Client) compat() *openaicompat.Client {
	c.openaiOnce.Do(func() {
		hc := *c.http
		hc.Transport = c.gate.Transport("openai", c.http.Transport)
		c.openai = openaicompat.New(c.cfg.TextPromptBase+"/openai/", "", &hc,
			openaicompat.WithModel(model.DefaultText))
	})
	return c.openai
}

// OpenAIChat sends a conversation to the OpenAI-compatible endpoint
// ({TextPromptBase}/openai/chat/completions) using the openai-go SDK.
func (c *Client) OpenAIChat(ctx context.Context, messages []polli.Message, opts ...polli.Option) (*polli.Response, error) {
	return c.OpenAIChatWithTools(ctx, messages, nil, opts...)
}

// OpenAIChatWithTools is OpenAIChat with tool specs attached. It makes a
// single request; tool calls in the response are returned, not executed.
func (c *Client) OpenAIChatWithTools(ctx context.Context, messages []polli.Message, tools []polli.Tool, opts ...polli.Option) (*polli.Response, error) {
	o := c.options(opts)
	if len(messages) == 0 {
		return nil, polli.NewUserInputError("openai", polli.ErrEmptyMessages)
	}
	if o.System != "" {
		messages = append([]polli.Message{polli.NewSystemMessage(o.System)}, messages...)
	}

	seed := seedOr(o.Seed)
	req := openaicompat.Request{
		Model:       o.Model,
		MaxTokens:   o.MaxTokens,
		Temperature: o.Temperature,
		Seed:        &seed,
		JSON:        o.JSON,
		Tools:       tools,
		ToolChoice:  o.ToolChoice,
	}
	if len(tools) > 0 && req.ToolChoice == nil {
		req.ToolChoice = polli.ToolChoiceAuto
	}

	reqOpts := []option.RequestOption{option.WithJSONSet("safe", false)}
	if o.Private != nil {
		reqOpts = append(reqOpts, option.WithJSONSet("private", *o.Private))
	}
	reqOpts = append(reqOpts, compatAuth(c.cfg.Auth.override(o.Referrer, o.Token))...)

	ctx, cancel := context.WithTimeout(ctx, timeoutOr(o.Timeout, defaultTextTimeout))
	defer cancel()

	start := c.clock.Now()
	c.emit(Event{Type: EventRequestStart, Operation: "openai"})
	resp, err := c.compat().Chat(ctx, messages, req, reqOpts...)
	if err != nil {
		c.emit(Event{Type: EventRequestError, Operation: "openai", Duration: c.clock.Now().Sub(start), Error: err})
		return nil, err
	}
	c.emit(Event{Type: EventRequestComplete, Operation: "openai", Duration: c.clock.Now().Sub(start), StatusCode: 200})
	return resp, nil
}

// compatAuth expresses a as SDK request options, following the same
// placement rules as the native endpoints.
func compatAuth(a Auth) []option.RequestOption {
	var opts []option.RequestOption
	if a.Referrer != "" {
		opts = append(opts, option.WithJSONSet("referrer", a.Referrer))
	}
	if a.Token == "" {
		return opts
	}
	switch a.Placement {
	case PlacementQuery:
		opts = append(opts, option.WithQuery("token", a.Token))
	case PlacementBody:
		opts = append(opts, option.WithJSONSet("token", a.Token))
	default:
		opts = append(opts, option.WithAPIKey(a.Token))
	}
	return opts
}
