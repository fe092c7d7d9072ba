package polli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Validation sentinels. They are returned wrapped in a user-input *Error
// before any network call is made.
var (
	ErrEmptyPrompt   = errors.New("prompt must be a non-empty string")
	ErrEmptyMessages = errors.New("messages must be a non-empty list")
	ErrEmptyTools    = errors.New("tools must be a non-empty list of tool specs")
	ErrInvalidSize   = errors.New("width and height must be positive integers")
)

// ErrUnsupportedFormat is returned when a local file has an extension the
// endpoint cannot accept. No request is made.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation can be retried.
	// Examples: rate limits, gateway errors, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the caller provided invalid input that must be corrected.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool // convenience: returns true if Category == ErrorTransient
	StatusCode() int // HTTP status code if applicable, 0 otherwise
}

// Error is a categorized error with metadata for error handling decisions.
type Error struct {
	Msg   string
	Cat   ErrorCategory
	Code  int   // HTTP status code, 0 if not applicable
	Cause error // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// NewUserInputError creates an error indicating invalid caller input.
func NewUserInputError(msg string, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorUserInput, Cause: cause}
}

// NewPermanentError creates a permanent error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorPermanent, Code: statusCode, Cause: cause}
}

// HTTPError is returned when the API answers with a non-2xx status.
type HTTPError struct {
	// Operation names the client call, e.g. "image" or "chat".
	Operation  string
	StatusCode int
	Status     string
	// RequestID is taken from the response's request-id headers, if any.
	RequestID string
	// Body holds the (possibly truncated) response body.
	Body string
}

// Error formats the failure as "Pollinations <op> request failed (<status>) | request <id> | <body>".
func (e *HTTPError) Error() string {
	header := "Pollinations request failed"
	if e.Operation != "" {
		header = "Pollinations " + e.Operation + " request failed"
	}
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	label := "unknown status"
	if e.StatusCode != 0 {
		label = strings.TrimSpace(fmt.Sprintf("%d %s", e.StatusCode, strings.TrimPrefix(status, fmt.Sprintf("%d ", e.StatusCode))))
	}
	parts := []string{fmt.Sprintf("%s (%s)", header, label)}
	if e.RequestID != "" {
		parts = append(parts, "request "+e.RequestID)
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		parts = append(parts, body)
	}
	return strings.Join(parts, " | ")
}

// Category classifies the status: gateway and rate-limit statuses are
// transient, 400 and 422 are user input, everything else is permanent.
func (e *HTTPError) Category() ErrorCategory {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrorTransient
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}

// Retryable returns true if the status is transient.
func (e *HTTPError) Retryable() bool {
	return e.Category() == ErrorTransient
}

// HTTPStatus returns the HTTP status code.
func (e *HTTPError) HTTPStatus() int {
	return e.StatusCode
}

// requestIDHeaders are checked in order for a request identifier.
var requestIDHeaders = []string{"X-Request-Id", "X-Amzn-Requestid", "X-Amz-Request-Id"}

// RequestIDFrom extracts a request identifier from response headers.
func RequestIDFrom(h http.Header) string {
	for _, name := range requestIDHeaders {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// statusError adapts HTTPError to CategorizedError; the StatusCode field
// shadows the interface method name.
type statusError struct{ *HTTPError }

func (s statusError) StatusCode() int { return s.HTTPError.StatusCode }

func categorized(err error) (CategorizedError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return statusError{he}, true
	}
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsTransient returns true if the error is categorized as transient.
func IsTransient(err error) bool {
	ce, ok := categorized(err)
	return ok && ce.Category() == ErrorTransient
}

// IsPermanent returns true if the error is categorized as permanent.
func IsPermanent(err error) bool {
	ce, ok := categorized(err)
	return ok && ce.Category() == ErrorPermanent
}

// IsUserInput returns true if the error is categorized as user input error.
func IsUserInput(err error) bool {
	ce, ok := categorized(err)
	return ok && ce.Category() == ErrorUserInput
}

// StatusCodeOf returns the HTTP status code carried by err, or 0.
func StatusCodeOf(err error) int {
	ce, ok := categorized(err)
	if !ok {
		return 0
	}
	return ce.StatusCode()
}
