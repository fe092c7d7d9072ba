package gate

import "time"

// EventType names a step of gated execution.
type EventType string

const (
	EventWait         EventType = "wait"          // pacing before the first attempt
	EventAttemptStart EventType = "attempt_start" // an attempt is about to be sent
	EventRetrying     EventType = "retrying"      // backing off after a retryable status
	EventSuccess      EventType = "success"       // 2xx received
	EventFailed       EventType = "failed"        // transport error or non-retryable status
	EventExhausted    EventType = "exhausted"     // retryable status on the last attempt
)

// Event describes one step of a gated call. Delay is set for EventWait and
// EventRetrying; StatusCode is zero when no response arrived.
type Event struct {
	Type        EventType
	Operation   string
	Attempt     int // 1-indexed
	MaxAttempts int
	StatusCode  int
	Delay       time.Duration
	Error       error
	Timestamp   time.Time
}

// emit stamps e with the gate's clock, hands it to the observer and
// offers it to the events channel, dropping it when the channel is full.
func (g *Gate) emit(e Event) {
	if g.events == nil && g.observe == nil {
		return
	}
	e.Timestamp = g.clock.Now()
	if g.observe != nil {
		g.observe(e)
	}
	if g.events == nil {
		return
	}
	select {
	case g.events <- e:
	default:
	}
}
