package gate

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/clock"
)

// maxErrorBody bounds how much of a failed response is kept in HTTPError.
const maxErrorBody = 4 << 10

// SendFunc performs one HTTP attempt. It is called again for every retry,
// so it must build a fresh request each time.
type SendFunc func(ctx context.Context) (*http.Response, error)

// Gate serializes, paces and retries calls. The zero value is not usable;
// create one with New. A Gate is safe for concurrent use; distinct Gates
// share nothing.
type Gate struct {
	// sem is a one-slot semaphore held for wait, send and evaluate.
	sem         chan struct{}
	lastSuccess time.Time
	minInterval time.Duration
	policy      Policy
	maxAttempts int

	clock  clock.Clock
	events  chan<- Event
	observe func(Event)
	logger *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock replaces the real clock, typically with a clock.Fake in tests.
func WithClock(c clock.Clock) Option {
	return func(g *Gate) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithEvents sets a channel for gate events. Sends never block.
func WithEvents(ch chan<- Event) Option {
	return func(g *Gate) {
		g.events = ch
	}
}

// WithObserver calls fn synchronously for every gate event. fn runs while
// the gate is held and must not block.
func WithObserver(fn func(Event)) Option {
	return func(g *Gate) {
		g.observe = fn
	}
}

// WithLogger sets the logger for pacing and retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Gate enforcing minInterval between a success and the next
// call, retrying per policy.
func New(minInterval time.Duration, policy Policy, opts ...Option) *Gate {
	g := &Gate{
		sem:         make(chan struct{}, 1),
		minInterval: minInterval,
		policy:      policy,
		maxAttempts: policy.MaxAttempts(),
		clock:       clock.Real(),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Policy returns the retry policy.
func (g *Gate) Policy() Policy {
	return g.policy
}

// MinInterval returns the pacing interval.
func (g *Gate) MinInterval() time.Duration {
	return g.minInterval
}

// LastSuccess returns the time of the last 2xx response, zero if none.
func (g *Gate) LastSuccess() time.Time {
	g.sem <- struct{}{}
	defer g.release()
	return g.lastSuccess
}

// Do runs send under the gate. A 2xx response is returned with its body
// unread; the caller must close it. Retryable statuses are retried until
// the policy's budget is spent, then returned as *polli.HTTPError like any
// other non-2xx status. Transport errors are returned as is.
func (g *Gate) Do(ctx context.Context, op string, send SendFunc) (*http.Response, error) {
	return g.run(ctx, op, send, false)
}

// run implements Do. With passThrough set, a final non-2xx response is
// returned instead of being converted to an error.
func (g *Gate) run(ctx context.Context, op string, send SendFunc, passThrough bool) (*http.Response, error) {
	if err := g.acquire(ctx); err != nil {
		return nil, err
	}
	defer g.release()

	for attempt := 0; ; attempt++ {
		if err := g.waitBefore(ctx, op, attempt); err != nil {
			return nil, err
		}

		g.emit(Event{
			Type:        EventAttemptStart,
			Operation:   op,
			Attempt:     attempt + 1,
			MaxAttempts: g.maxAttempts,
		})

		resp, err := send(ctx)
		if err != nil {
			g.emit(Event{
				Type:        EventFailed,
				Operation:   op,
				Attempt:     attempt + 1,
				MaxAttempts: g.maxAttempts,
				Error:       err,
			})
			return nil, err
		}

		status := resp.StatusCode
		if status >= 200 && status < 300 {
			g.lastSuccess = g.clock.Now()
			g.emit(Event{
				Type:        EventSuccess,
				Operation:   op,
				Attempt:     attempt + 1,
				MaxAttempts: g.maxAttempts,
				StatusCode:  status,
			})
			return resp, nil
		}

		if IsRetryableStatus(status) {
			if attempt+1 > g.maxAttempts {
				g.logger.Debug("retry budget exhausted", "op", op, "status", status, "attempts", attempt+1)
				if passThrough {
					g.emit(Event{Type: EventExhausted, Operation: op, Attempt: attempt + 1, MaxAttempts: g.maxAttempts, StatusCode: status})
					return resp, nil
				}
				herr := NewHTTPError(op, resp)
				g.emit(Event{Type: EventExhausted, Operation: op, Attempt: attempt + 1, MaxAttempts: g.maxAttempts, StatusCode: status, Error: herr})
				return nil, herr
			}
			discard(resp)
			continue
		}

		if passThrough {
			g.emit(Event{Type: EventFailed, Operation: op, Attempt: attempt + 1, MaxAttempts: g.maxAttempts, StatusCode: status})
			return resp, nil
		}
		herr := NewHTTPError(op, resp)
		g.emit(Event{Type: EventFailed, Operation: op, Attempt: attempt + 1, MaxAttempts: g.maxAttempts, StatusCode: status, Error: herr})
		return nil, herr
	}
}

// acquire takes the gate's slot, giving up when ctx ends first.
func (g *Gate) acquire(ctx context.Context) error {
	select {
	case g.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gate) release() { <-g.sem }

// waitBefore sleeps for pacing (attempt 0) or backoff (attempt >= 1).
func (g *Gate) waitBefore(ctx context.Context, op string, attempt int) error {
	if attempt == 0 {
		if g.lastSuccess.IsZero() || g.minInterval <= 0 {
			return ctx.Err()
		}
		wait := g.lastSuccess.Add(g.minInterval).Sub(g.clock.Now())
		if wait <= 0 {
			return ctx.Err()
		}
		g.emit(Event{Type: EventWait, Operation: op, Attempt: 1, MaxAttempts: g.maxAttempts, Delay: wait})
		g.logger.Debug("pacing request", "op", op, "wait", wait)
		return g.clock.Sleep(ctx, wait)
	}

	delay := g.policy.Delay(attempt)
	g.emit(Event{Type: EventRetrying, Operation: op, Attempt: attempt, MaxAttempts: g.maxAttempts, Delay: delay})
	g.logger.Debug("retrying request", "op", op, "attempt", attempt, "delay", delay)
	return g.clock.Sleep(ctx, delay)
}

// NewHTTPError drains and closes resp, returning the failure as *polli.HTTPError.
func NewHTTPError(op string, resp *http.Response) *polli.HTTPError {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &polli.HTTPError{
		Operation:  op,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		RequestID:  polli.RequestIDFrom(resp.Header),
		Body:       string(body),
	}
}

// discard releases a response that will not be used.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	_ = resp.Body.Close()
}
