package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/polli/event"
)

// Mapper translates the events of one polli run into AG-UI events.
// It holds the run's identifiers and is not safe for concurrent use.
type Mapper struct {
	threadID string
	runID    string
}

// NewMapper returns a Mapper for one run, generating any empty ID.
func NewMapper(threadID, runID string) *Mapper {
	m := &Mapper{threadID: threadID, runID: runID}
	if m.threadID == "" {
		m.threadID = events.GenerateThreadID()
	}
	if m.runID == "" {
		m.runID = events.GenerateRunID()
	}
	return m
}

func (m *Mapper) ThreadID() string { return m.threadID }
func (m *Mapper) RunID() string    { return m.runID }

// RunStarted returns the RUN_STARTED event for this run.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns the RUN_FINISHED event for this run.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event carrying err's message.
func (m *Mapper) RunError(err error) events.Event {
	if err == nil {
		return events.NewRunErrorEvent("unknown error")
	}
	return events.NewRunErrorEvent(err.Error())
}

// MapEvent returns the AG-UI form of e, or nil when e has none.
func (m *Mapper) MapEvent(e event.Event) events.Event {
	switch e.Type {
	case event.RunStart:
		return m.RunStarted()
	case event.RunEnd:
		return m.RunFinished()
	case event.RunError:
		return m.RunError(e.Error)
	case event.StepStart:
		return events.NewStepStartedEvent(e.StepName)
	case event.StepEnd:
		return events.NewStepFinishedEvent(e.StepName)
	case event.MessageStart, event.MessageDelta, event.MessageEnd:
		return mapMessage(e)
	case event.ToolCallStart, event.ToolCallArgs, event.ToolCallEnd, event.ToolCallResult:
		return mapToolCall(e)
	}
	return nil
}

func mapMessage(e event.Event) events.Event {
	switch e.Type {
	case event.MessageStart:
		return events.NewTextMessageStartEvent(e.MessageID, events.WithRole(RoleAssistant))
	case event.MessageDelta:
		// AG-UI rejects empty content chunks.
		if e.Delta == "" {
			return nil
		}
		return events.NewTextMessageContentEvent(e.MessageID, e.Delta)
	default:
		return events.NewTextMessageEndEvent(e.MessageID)
	}
}

func mapToolCall(e event.Event) events.Event {
	call := e.ToolCall
	if call == nil {
		return nil
	}
	switch e.Type {
	case event.ToolCallStart:
		return events.NewToolCallStartEvent(call.ID, call.Name)
	case event.ToolCallArgs:
		return events.NewToolCallArgsEvent(call.ID, call.Arguments)
	case event.ToolCallEnd:
		return events.NewToolCallEndEvent(call.ID)
	default:
		// The result is reported as its own tool message.
		return events.NewToolCallResultEvent(events.GenerateMessageID(), call.ID, e.Result)
	}
}

// MapStream maps every event read from in, dropping those without an
// AG-UI equivalent. The returned channel closes after in closes.
func (m *Mapper) MapStream(in <-chan event.Event) <-chan events.Event {
	out := make(chan events.Event, cap(in))
	go func() {
		defer close(out)
		for e := range in {
			if ev := m.MapEvent(e); ev != nil {
				out <- ev
			}
		}
	}()
	return out
}
