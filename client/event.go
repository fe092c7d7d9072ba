package client

import (
	"time"

	"github.com/spetersoncode/polli/gate"
)

// EventType names something observable a Client did.
type EventType string

const (
	EventRequestStart    EventType = "request_start"
	EventRequestComplete EventType = "request_complete"
	EventRequestError    EventType = "request_error"

	// EventGate wraps a pacing or retry event from the client's gate.
	EventGate EventType = "gate"

	// EventFeedReconnect fires when a feed connection ends and is reopened.
	EventFeedReconnect EventType = "feed_reconnect"
	// EventFeedDropped fires when a feed image could not be fetched.
	EventFeedDropped EventType = "feed_dropped"
)

// Event is sent on Config.Events. Duration covers pacing and retries.
type Event struct {
	Type       EventType
	Operation  string // "image", "chat", "models", ...
	StatusCode int
	Duration   time.Duration
	Error      error
	GateEvent  *gate.Event
	Timestamp  time.Time
}

// emit offers e to Config.Events without blocking.
func (c *Client) emit(e Event) {
	if c.events == nil {
		return
	}
	e.Timestamp = c.clock.Now()
	select {
	case c.events <- e:
	default:
	}
}
