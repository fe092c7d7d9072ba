package client

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/polli"
)

const openAICompletion = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1,
  "model": "openai",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Hi!"}}],
  "usage": {"prompt_tokens": 4, "completion_tokens": 1, "total_tokens": 5}
}`

func TestOpenAIChat(t *testing.T) {
	var calls atomic.Int32
	c, fc, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, openAICompletion)
	}, func(cfg *Config) {
		cfg.Auth = Auth{Referrer: "app", Token: "tok"}
	})

	resp, err := c.OpenAIChat(context.Background(), []polli.Message{polli.NewUserMessage("hello")},
		polli.WithSeed(3), polli.WithSystem("be kind"))
	require.NoError(t, err)
	assert.Equal(t, "Hi!", resp.Content)
	assert.Equal(t, polli.Usage{InputTokens: 4, OutputTokens: 1}, resp.Usage)

	// The 502 is retried by the gate, not by the SDK.
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, fc.Sleeps())

	got := rec.last(t)
	assert.Equal(t, "/openai/chat/completions", got.Path)
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.Equal(t, false, got.Body["safe"])
	assert.Equal(t, "app", got.Body["referrer"])
	assert.Equal(t, 3.0, got.Body["seed"])
	assert.Equal(t, "openai", got.Body["model"])
	messages := got.Body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
}

func TestOpenAIChatWithTools(t *testing.T) {
	c, _, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, openAICompletion)
	}, func(cfg *Config) {
		cfg.Auth = Auth{Token: "tok", Placement: PlacementBody}
	})
	tools := []polli.Tool{{Name: "lookup", Description: "Look up", Parameters: []byte(`{"type":"object","properties":{}}`)}}

	_, err := c.OpenAIChatWithTools(context.Background(), []polli.Message{polli.NewUserMessage("x")}, tools,
		polli.WithModel("mistral"))
	require.NoError(t, err)

	got := rec.last(t)
	assert.Equal(t, "mistral", got.Body["model"])
	assert.Equal(t, "auto", got.Body["tool_choice"])
	assert.Equal(t, "tok", got.Body["token"])
	assert.Empty(t, got.Header.Get("Authorization"))
	assert.Len(t, got.Body["tools"], 1)
}

func TestOpenAIChatError(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad token"}}`)
	})
	_, err := c.OpenAIChat(context.Background(), []polli.Message{polli.NewUserMessage("x")})
	var httpErr *polli.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.True(t, polli.IsPermanent(err))
}
