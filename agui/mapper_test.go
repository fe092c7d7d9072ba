package agui

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/event"
)

func TestNewMapper(t *testing.T) {
	t.Run("with provided IDs", func(t *testing.T) {
		m := NewMapper("thread-123", "run-456")
		if m.ThreadID() != "thread-123" {
			t.Errorf("expected thread ID 'thread-123', got %q", m.ThreadID())
		}
		if m.RunID() != "run-456" {
			t.Errorf("expected run ID 'run-456', got %q", m.RunID())
		}
	})

	t.Run("generates IDs when empty", func(t *testing.T) {
		m := NewMapper("", "")
		if m.ThreadID() == "" {
			t.Error("expected generated thread ID, got empty")
		}
		if m.RunID() == "" {
			t.Error("expected generated run ID, got empty")
		}
	})
}

func TestMapper_MapEvent(t *testing.T) {
	m := NewMapper("thread-1", "run-1")
	call := &polli.ToolCall{ID: "call-1", Name: "get_weather", Arguments: `{"location":"NYC"}`}

	tests := []struct {
		name string
		in   event.Event
		want events.EventType
	}{
		{"RunStart", event.Event{Type: event.RunStart}, events.EventTypeRunStarted},
		{"RunEnd", event.Event{Type: event.RunEnd}, events.EventTypeRunFinished},
		{"RunError", event.Event{Type: event.RunError, Error: errors.New("boom")}, events.EventTypeRunError},
		{"StepStart", event.Event{Type: event.StepStart, StepName: "round_1"}, events.EventTypeStepStarted},
		{"StepEnd", event.Event{Type: event.StepEnd, StepName: "round_1"}, events.EventTypeStepFinished},
		{"MessageStart", event.Event{Type: event.MessageStart, MessageID: "msg-1"}, events.EventTypeTextMessageStart},
		{"MessageDelta", event.Event{Type: event.MessageDelta, MessageID: "msg-1", Delta: "Hi"}, events.EventTypeTextMessageContent},
		{"MessageEnd", event.Event{Type: event.MessageEnd, MessageID: "msg-1"}, events.EventTypeTextMessageEnd},
		{"ToolCallStart", event.Event{Type: event.ToolCallStart, ToolCall: call}, events.EventTypeToolCallStart},
		{"ToolCallArgs", event.Event{Type: event.ToolCallArgs, ToolCall: call}, events.EventTypeToolCallArgs},
		{"ToolCallEnd", event.Event{Type: event.ToolCallEnd, ToolCall: call}, events.EventTypeToolCallEnd},
		{"ToolCallResult", event.Event{Type: event.ToolCallResult, ToolCall: call, Result: `{"temp":21}`}, events.EventTypeToolCallResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := m.MapEvent(tt.in)
			if result == nil {
				t.Fatal("expected event, got nil")
			}
			if result.Type() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, result.Type())
			}
		})
	}
}

func TestMapper_MapEvent_Dropped(t *testing.T) {
	m := NewMapper("thread-1", "run-1")

	dropped := []event.Event{
		{Type: event.MessageDelta, MessageID: "msg-1"},
		{Type: event.ToolCallStart},
		{Type: event.ToolCallArgs},
		{Type: event.ToolCallEnd},
		{Type: event.ToolCallResult, Result: "x"},
		{Type: event.Type("unknown")},
	}
	for _, e := range dropped {
		if got := m.MapEvent(e); got != nil {
			t.Errorf("%s: expected nil, got %s", e.Type, got.Type())
		}
	}
}

func TestMapper_ToolCallResultContent(t *testing.T) {
	m := NewMapper("thread-1", "run-1")
	result := m.MapEvent(event.Event{
		Type:     event.ToolCallResult,
		ToolCall: &polli.ToolCall{ID: "call-9", Name: "lookup"},
		Result:   "42",
	})

	if result == nil {
		t.Fatal("expected event, got nil")
	}
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"call-9"`, `"42"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected %s in %s", want, data)
		}
	}
}

func TestMapper_MapStream(t *testing.T) {
	m := NewMapper("thread-1", "run-1")

	input := make(chan event.Event, 10)
	input <- event.Event{Type: event.RunStart}
	input <- event.Event{Type: event.MessageStart, MessageID: "msg-1"}
	input <- event.Event{Type: event.MessageDelta, MessageID: "msg-1", Delta: "Hi"}
	input <- event.Event{Type: event.MessageDelta, MessageID: "msg-1"}
	input <- event.Event{Type: event.MessageEnd, MessageID: "msg-1"}
	input <- event.Event{Type: event.RunEnd}
	close(input)

	var received []events.EventType
	for ev := range m.MapStream(input) {
		received = append(received, ev.Type())
	}

	expected := []events.EventType{
		events.EventTypeRunStarted,
		events.EventTypeTextMessageStart,
		events.EventTypeTextMessageContent,
		events.EventTypeTextMessageEnd,
		events.EventTypeRunFinished,
	}
	if len(received) != len(expected) {
		t.Fatalf("expected %d events, got %d: %v", len(expected), len(received), received)
	}
	for i, e := range expected {
		if received[i] != e {
			t.Errorf("event %d: expected %s, got %s", i, e, received[i])
		}
	}
}
