// Package event defines the events emitted by chat streams and the
// tool-calling loop. Each Type has a counterpart in the AG-UI protocol,
// see package agui.
package event

import (
	"time"

	"github.com/spetersoncode/polli"
)

// Type names an event.
type Type string

const (
	RunStart Type = "run_start"
	RunEnd   Type = "run_end"
	RunError Type = "run_error"

	// One step per tool-calling round.
	StepStart Type = "step_start"
	StepEnd   Type = "step_end"

	// MessageStart, MessageDelta and MessageEnd share a MessageID.
	MessageStart Type = "message_start"
	MessageDelta Type = "message_delta"
	MessageEnd   Type = "message_end"

	ToolCallStart  Type = "tool_call_start"
	ToolCallArgs   Type = "tool_call_args"
	ToolCallEnd    Type = "tool_call_end"
	ToolCallResult Type = "tool_call_result"
)

// Event is one occurrence in a run. Only the fields relevant to Type are set.
type Event struct {
	Type      Type
	MessageID string
	Delta     string

	// Response is the final reply, set on MessageEnd and RunEnd.
	Response *polli.Response

	ToolCall *polli.ToolCall
	// Result is the tool output sent back to the model; IsError marks a
	// failed handler.
	Result  string
	IsError bool

	Step     int // 1-indexed round
	StepName string

	Error     error
	Timestamp time.Time
}

// DefaultBuffer is the capacity of channels made by NewChannel.
const DefaultBuffer = 100

// NewChannel returns a channel buffered to DefaultBuffer.
func NewChannel() chan Event {
	return make(chan Event, DefaultBuffer)
}

// Emit stamps e and sends it on ch unless ch is nil or full.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
