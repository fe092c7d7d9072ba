// Package openaicompat talks to the OpenAI-compatible chat endpoint with the
// openai-go SDK and converts between SDK and polli types.
package openaicompat

import (
	"context"
	"errors"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spetersoncode/polli"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "openai"

var errNoChoices = errors.New("openai: response has no choices")

// Client wraps the openai-go SDK.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a client for baseURL. The SDK's own retries are disabled;
// pacing and retries belong to whatever RoundTripper httpClient uses.
// An empty apiKey sends no Authorization header.
func New(baseURL, apiKey string, httpClient *http.Client, opts ...ClientOption) *Client {
	reqOpts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(httpClient))
	}
	if apiKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(apiKey))
	} else {
		reqOpts = append(reqOpts, option.WithHeaderDel("Authorization"))
	}
	client := openai.NewClient(reqOpts...)
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// Request holds the per-call parameters.
type Request struct {
	Model       string
	MaxTokens   *int
	Temperature *float64
	Seed        *int
	JSON        bool
	Tools       []polli.Tool
	// ToolChoice is a polli.ToolChoice string or a ToolChoiceFunction object.
	ToolChoice any
}

// Chat sends a conversation and returns the first choice.
func (c *Client) Chat(ctx context.Context, messages []polli.Message, req Request, opts ...option.RequestOption) (*polli.Response, error) {
	params, err := c.params(messages, req)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Chat.Completions.New(ctx, params, opts...)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, polli.NewPermanentError("openai: decode response", http.StatusOK, errNoChoices)
	}

	choice := resp.Choices[0]
	out := &polli.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
		Usage: polli.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		ToolCalls: extractToolCalls(choice.Message),
	}
	if raw := resp.RawJSON(); raw != "" {
		out.Raw = []byte(raw)
	}
	return out, nil
}

func (c *Client) params(messages []polli.Message, req Request) (openai.ChatCompletionNewParams, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	converted, err := convertMessages(messages)
	if err != nil {
		return openai.ChatCompletionNewParams{}, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: converted,
	}
	if req.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.Seed != nil {
		params.Seed = openai.Int(int64(*req.Seed))
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
		if req.ToolChoice != nil {
			params.ToolChoice = convertToolChoice(req.ToolChoice)
		}
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		}
	}
	return params, nil
}
