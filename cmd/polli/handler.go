package main

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/agui"
	"github.com/spetersoncode/polli/event"
	"github.com/spetersoncode/polli/tool"
)

// Chatter is the part of *client.Client the handler drives.
type Chatter interface {
	ChatStreamEvents(ctx context.Context, messages []polli.Message, opts ...polli.Option) iter.Seq[event.Event]
	ChatWithToolsEvents(ctx context.Context, messages []polli.Message, tools []polli.Tool, exec tool.Executor, events chan<- event.Event, opts ...polli.Option) (*polli.Response, error)
}

// ChatHandler answers AG-UI RunAgentInput posts with an SSE stream of
// AG-UI events. With tools set it runs the tool loop, otherwise it streams
// a plain completion.
type ChatHandler struct {
	client     Chatter
	tools      *tool.Registry
	logger     *slog.Logger
	maxRounds  int
	runTimeout time.Duration
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	in, err := decodeInput(r)
	if err != nil {
		h.logger.Warn("rejected run", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mapper := agui.NewMapper(in.ThreadID, in.RunID)
	log := h.logger.With("thread_id", mapper.ThreadID(), "run_id", mapper.RunID())
	if len(in.ToolNames) > 0 {
		log.Warn("frontend tools are not supported, ignoring", "names", in.ToolNames)
	}

	sw, ok := newSSEWriter(w)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.runTimeout)
		defer cancel()
	}

	start := time.Now()
	log.Info("run started", "messages", len(in.Messages), "tools", h.tools != nil)
	if h.tools != nil {
		err = h.runTools(ctx, mapper, in, sw)
	} else {
		err = h.runStream(ctx, mapper, in, sw)
	}
	attrs := []any{"elapsed", time.Since(start), "events", sw.sent}
	if err != nil {
		log.Error("run aborted", append(attrs, "error", err)...)
		return
	}
	log.Info("run finished", attrs...)
}

func decodeInput(r *http.Request) (*agui.PreparedInput, error) {
	var input agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return nil, fmt.Errorf("decode run input: %w", err)
	}
	return input.Prepare()
}

func (h *ChatHandler) runStream(ctx context.Context, mapper *agui.Mapper, in *agui.PreparedInput, sw *sseWriter) error {
	for e := range h.client.ChatStreamEvents(ctx, in.Messages, in.Options()...) {
		if ev := mapper.MapEvent(e); ev != nil {
			if err := sw.write(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// runTools drives the tool loop in a goroutine. The loop reports its own
// outcome, RunError included, on the event channel, so its return values
// are not needed here.
func (h *ChatHandler) runTools(ctx context.Context, mapper *agui.Mapper, in *agui.PreparedInput, sw *sseWriter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan event.Event, 256)
	opts := append(in.Options(), polli.WithMaxRounds(h.maxRounds))
	go func() {
		defer close(events)
		h.client.ChatWithToolsEvents(ctx, in.Messages, h.tools.Tools(), h.tools, events, opts...)
	}()

	var failed error
	for ev := range mapper.MapStream(events) {
		if failed != nil {
			continue // drain so the loop can exit
		}
		if failed = sw.write(ev); failed != nil {
			cancel()
		}
	}
	return failed
}

// sseWriter frames AG-UI events as "event:"/"data:" records.
type sseWriter struct {
	w     http.ResponseWriter
	flush http.Flusher
	sent  int
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, bool) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	return &sseWriter{w: w, flush: f}, true
}

func (s *sseWriter) write(ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.Type(), err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", ev.Type(), data); err != nil {
		return err
	}
	s.flush.Flush()
	s.sent++
	return nil
}

// corsMiddleware adds CORS headers for cross-origin frontend requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
