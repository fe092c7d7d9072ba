package main

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/event"
	"github.com/spetersoncode/polli/tool"
)

type fakeChatter struct {
	messages []polli.Message
	opts     *polli.Options
	stream   []event.Event
	toolRun  func(ctx context.Context, exec tool.Executor, events chan<- event.Event)
}

func (f *fakeChatter) ChatStreamEvents(ctx context.Context, messages []polli.Message, opts ...polli.Option) iter.Seq[event.Event] {
	f.messages = messages
	f.opts = polli.ApplyOptions(opts...)
	return func(yield func(event.Event) bool) {
		for _, e := range f.stream {
			if !yield(e) {
				return
			}
		}
	}
}

func (f *fakeChatter) ChatWithToolsEvents(ctx context.Context, messages []polli.Message, tools []polli.Tool, exec tool.Executor, events chan<- event.Event, opts ...polli.Option) (*polli.Response, error) {
	f.messages = messages
	f.opts = polli.ApplyOptions(opts...)
	f.toolRun(ctx, exec, events)
	return &polli.Response{}, nil
}

func newHandler(c Chatter) *ChatHandler {
	return &ChatHandler{
		client:    c,
		logger:    slog.New(slog.DiscardHandler),
		maxRounds: 2,
	}
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func eventTypes(body string) []string {
	var types []string
	for _, line := range strings.Split(body, "\n") {
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			types = append(types, name)
		}
	}
	return types
}

const chatBody = `{
	"thread_id": "t1",
	"run_id": "r1",
	"messages": [{"id": "m1", "role": "user", "content": "Hello"}],
	"forwarded_props": {"model": "mistral"}
}`

func TestChatHandler(t *testing.T) {
	t.Run("streams mapped events", func(t *testing.T) {
		fake := &fakeChatter{stream: []event.Event{
			{Type: event.RunStart},
			{Type: event.MessageStart, MessageID: "msg-1"},
			{Type: event.MessageDelta, MessageID: "msg-1", Delta: "Hel"},
			{Type: event.MessageDelta, MessageID: "msg-1", Delta: "lo"},
			{Type: event.MessageEnd, MessageID: "msg-1"},
			{Type: event.RunEnd},
		}}
		rec := post(t, newHandler(fake), chatBody)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, []string{
			string(aguievents.EventTypeRunStarted),
			string(aguievents.EventTypeTextMessageStart),
			string(aguievents.EventTypeTextMessageContent),
			string(aguievents.EventTypeTextMessageContent),
			string(aguievents.EventTypeTextMessageEnd),
			string(aguievents.EventTypeRunFinished),
		}, eventTypes(rec.Body.String()))
		assert.Contains(t, rec.Body.String(), `"Hel"`)

		require.Len(t, fake.messages, 1)
		assert.Equal(t, "Hello", fake.messages[0].Content)
		assert.Equal(t, "mistral", fake.opts.Model)
	})

	t.Run("stream error becomes RUN_ERROR", func(t *testing.T) {
		fake := &fakeChatter{stream: []event.Event{
			{Type: event.RunStart},
			{Type: event.RunError, Error: &polli.HTTPError{Operation: "chat_stream", StatusCode: http.StatusBadRequest, Body: "bad model"}},
		}}
		rec := post(t, newHandler(fake), chatBody)

		assert.Equal(t, []string{
			string(aguievents.EventTypeRunStarted),
			string(aguievents.EventTypeRunError),
		}, eventTypes(rec.Body.String()))
		assert.Contains(t, rec.Body.String(), "bad model")
	})

	t.Run("tool runs stream tool calls", func(t *testing.T) {
		var echoed string
		reg := tool.NewRegistry().Add(tool.Func("echo", "Echo text",
			func(ctx context.Context, args struct {
				Text string `json:"text"`
			}) (any, error) {
				echoed = args.Text
				return args.Text, nil
			}))

		fake := &fakeChatter{toolRun: func(ctx context.Context, exec tool.Executor, events chan<- event.Event) {
			call := &polli.ToolCall{ID: "call-1", Name: "echo", Arguments: `{"text":"hi"}`}
			res := exec.Execute(ctx, *call)
			events <- event.Event{Type: event.RunStart}
			events <- event.Event{Type: event.ToolCallStart, ToolCall: call}
			events <- event.Event{Type: event.ToolCallArgs, ToolCall: call}
			events <- event.Event{Type: event.ToolCallEnd, ToolCall: call}
			events <- event.Event{Type: event.ToolCallResult, ToolCall: call, Result: res.Content}
			events <- event.Event{Type: event.RunEnd}
		}}
		h := newHandler(fake)
		h.tools = reg

		rec := post(t, h, chatBody)

		assert.Equal(t, "hi", echoed)
		require.NotNil(t, fake.opts.MaxRounds)
		assert.Equal(t, 2, *fake.opts.MaxRounds)
		assert.Equal(t, []string{
			string(aguievents.EventTypeRunStarted),
			string(aguievents.EventTypeToolCallStart),
			string(aguievents.EventTypeToolCallArgs),
			string(aguievents.EventTypeToolCallEnd),
			string(aguievents.EventTypeToolCallResult),
			string(aguievents.EventTypeRunFinished),
		}, eventTypes(rec.Body.String()))
	})

	t.Run("rejects other methods", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/chat", nil)
		rec := httptest.NewRecorder()
		newHandler(&fakeChatter{}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		rec := post(t, newHandler(&fakeChatter{}), `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty messages", func(t *testing.T) {
		rec := post(t, newHandler(&fakeChatter{}), `{"thread_id":"t","run_id":"r","messages":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "no messages")
	})
}

func TestCORSAndHealth(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("/api/chat", corsMiddleware(newHandler(&fakeChatter{})))
	mux.HandleFunc("/health", healthHandler)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/chat", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}
