package sse

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/spetersoncode/polli/clock"
)

// ConnectFunc opens one stream connection and returns its body.
type ConnectFunc func(ctx context.Context) (io.ReadCloser, error)

// ParseFunc turns a connection body into a sequence of values.
type ParseFunc[T any] func(r io.Reader) iter.Seq2[T, error]

// Once opens a single connection and yields its parsed values. A connect or
// read error is yielded and ends the sequence. The body is closed when the
// sequence ends, including when the caller stops early.
func Once[T any](ctx context.Context, connect ConnectFunc, parse ParseFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		body, err := connect(ctx)
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		defer body.Close()
		for v, err := range parse(body) {
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

type reconnectConfig struct {
	clock  clock.Clock
	logger *slog.Logger
}

// Option configures Reconnect.
type Option func(*reconnectConfig)

// WithClock sets the clock used to wait between connections.
func WithClock(c clock.Clock) Option {
	return func(cfg *reconnectConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithLogger sets the logger for suppressed connection errors.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *reconnectConfig) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// Reconnect yields values from successive connections forever. Any connect
// or read error is suppressed; after an error or a clean end of stream it
// waits delay and connects again. The sequence ends only when the caller
// stops ranging or ctx is done.
func Reconnect[T any](ctx context.Context, connect ConnectFunc, parse ParseFunc[T], delay time.Duration, opts ...Option) iter.Seq[T] {
	cfg := reconnectConfig{
		clock:  clock.Real(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(T) bool) {
		for connection := 1; ; connection++ {
			if ctx.Err() != nil {
				return
			}
			for v, err := range Once(ctx, connect, parse) {
				if err != nil {
					cfg.logger.Debug("stream connection failed", "connection", connection, "error", err)
					break
				}
				if !yield(v) {
					return
				}
			}
			if err := cfg.clock.Sleep(ctx, delay); err != nil {
				return
			}
		}
	}
}
