package client

import (
	"context"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/event"
	"github.com/spetersoncode/polli/model"
	"github.com/spetersoncode/polli/sse"
)

// chatRequest validates messages and builds a POST to {textBase}/{model}.
func (c *Client) chatRequest(op string, messages []polli.Message, o *polli.Options) (*request, error) {
	if len(messages) == 0 {
		return nil, polli.NewUserInputError(op, polli.ErrEmptyMessages)
	}
	if o.System != "" {
		messages = append([]polli.Message{polli.NewSystemMessage(o.System)}, messages...)
	}
	name := modelOr(o.Model, model.DefaultText)

	body := map[string]any{
		"model":    name,
		"messages": messages,
		"seed":     seedOr(o.Seed),
		"safe":     false,
	}
	if o.Private != nil {
		body["private"] = *o.Private
	}
	if o.MaxTokens != nil {
		body["max_tokens"] = *o.MaxTokens
	}
	if o.Temperature != nil {
		body["temperature"] = *o.Temperature
	}

	return &request{
		op:      op,
		method:  http.MethodPost,
		url:     c.cfg.TextPromptBase + "/" + escapePath(name),
		body:    body,
		auth:    c.cfg.Auth.override(o.Referrer, o.Token),
		timeout: timeoutOr(o.Timeout, defaultTextTimeout),
	}, nil
}

// Chat sends a conversation and returns the first choice. The complete
// payload is always available in Response.Raw.
func (c *Client) Chat(ctx context.Context, messages []polli.Message, opts ...polli.Option) (*polli.Response, error) {
	r, err := c.chatRequest("chat", messages, c.options(opts))
	if err != nil {
		return nil, err
	}
	return c.doChat(ctx, r)
}

// streamConnect returns a ConnectFunc that opens r through the gate.
func (c *Client) streamConnect(r *request) sse.ConnectFunc {
	return func(ctx context.Context) (io.ReadCloser, error) {
		resp, err := c.open(ctx, r)
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	}
}

func (c *Client) chatStreamRequest(messages []polli.Message, opts []polli.Option) (*request, error) {
	o := c.options(opts)
	r, err := c.chatRequest("chat_stream", messages, o)
	if err != nil {
		return nil, err
	}
	r.body["stream"] = true
	r.accept = "text/event-stream"
	// Streams are bounded by ctx, not by a fixed deadline.
	r.timeout = o.Timeout
	return r, nil
}

// ChatStream streams the assistant's reply as content deltas. The
// connection is opened when iteration starts and closed when it stops.
// Validation, connect and read errors are yielded and end the sequence.
func (c *Client) ChatStream(ctx context.Context, messages []polli.Message, opts ...polli.Option) iter.Seq2[string, error] {
	r, err := c.chatStreamRequest(messages, opts)
	if err != nil {
		return failed[string](err)
	}
	return sse.Once(ctx, c.streamConnect(r), sse.ChatDeltas)
}

// ChatStreamRaw is ChatStream yielding each raw data: payload.
func (c *Client) ChatStreamRaw(ctx context.Context, messages []polli.Message, opts ...polli.Option) iter.Seq2[string, error] {
	r, err := c.chatStreamRequest(messages, opts)
	if err != nil {
		return failed[string](err)
	}
	return sse.Once(ctx, c.streamConnect(r), sse.Data)
}

// ChatStreamEvents streams the reply as run and message lifecycle events,
// ending with RunEnd or RunError.
func (c *Client) ChatStreamEvents(ctx context.Context, messages []polli.Message, opts ...polli.Option) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		if !yield(event.Event{Type: event.RunStart}) {
			return
		}
		messageID := polli.GenerateMessageID()
		started := false
		var content strings.Builder

		for delta, err := range c.ChatStream(ctx, messages, opts...) {
			if err != nil {
				yield(event.Event{Type: event.RunError, Error: err})
				return
			}
			if !started {
				started = true
				if !yield(event.Event{Type: event.MessageStart, MessageID: messageID}) {
					return
				}
			}
			content.WriteString(delta)
			if !yield(event.Event{Type: event.MessageDelta, MessageID: messageID, Delta: delta}) {
				return
			}
		}

		resp := &polli.Response{Content: content.String()}
		if started {
			if !yield(event.Event{Type: event.MessageEnd, MessageID: messageID, Response: resp}) {
				return
			}
		}
		yield(event.Event{Type: event.RunEnd, Response: resp})
	}
}

// failed returns a sequence yielding only err.
func failed[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}
