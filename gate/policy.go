// Package gate paces and retries outbound HTTP calls.
//
// A Gate serializes every call made through it, keeps a minimum interval
// between a successful call and the start of the next one, and retries
// rate-limit and gateway statuses with a bounded linear backoff.
package gate

import (
	"errors"
	"net/http"
	"time"
)

// ErrInvalidPolicy is returned by Policy.Validate.
var ErrInvalidPolicy = errors.New("gate: max delay must not be less than initial delay")

// Policy holds linear backoff parameters.
type Policy struct {
	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration
	// DelayStep is added for every retry after the first.
	DelayStep time.Duration
	// MaxDelay caps every wait.
	MaxDelay time.Duration
}

// DefaultPolicy returns 500ms initial delay, 100ms step, 2s cap.
func DefaultPolicy() Policy {
	return Policy{
		InitialDelay: 500 * time.Millisecond,
		DelayStep:    100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
	}
}

// Disabled returns a policy that never retries.
func Disabled() Policy {
	return Policy{}
}

// Validate reports ErrInvalidPolicy when MaxDelay < InitialDelay.
func (p Policy) Validate() error {
	if p.InitialDelay > 0 && p.MaxDelay > 0 && p.MaxDelay < p.InitialDelay {
		return ErrInvalidPolicy
	}
	return nil
}

// MaxAttempts is the number of backoff steps fitting between the initial
// and maximum delay, plus one. It is 0 when any parameter is non-positive
// or the policy is invalid, which disables retry.
func (p Policy) MaxAttempts() int {
	if p.InitialDelay <= 0 || p.DelayStep <= 0 || p.MaxDelay <= 0 {
		return 0
	}
	if p.MaxDelay < p.InitialDelay {
		return 0
	}
	return int((p.MaxDelay-p.InitialDelay)/p.DelayStep) + 1
}

// Delay returns the wait before retry attempt (1-based):
// min(initial, max) for the first retry and
// min(initial + (attempt-1)*step, max) after that.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	d := p.InitialDelay
	if attempt > 1 {
		d += time.Duration(attempt-1) * p.DelayStep
	}
	return min(d, p.MaxDelay)
}

// IsRetryableStatus reports whether status is 429, 502, 503 or 504.
func IsRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
