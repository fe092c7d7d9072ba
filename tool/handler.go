package tool

import (
	"context"

	"github.com/spetersoncode/polli"
)

// Handler executes a tool call. Args are the decoded call arguments; a
// malformed payload arrives as an empty map. A string result is sent to
// the model verbatim, any other value is JSON-encoded.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// TypedHandler is a Handler whose arguments are decoded into T.
type TypedHandler[T any] func(ctx context.Context, args T) (any, error)

// Executor runs tool calls requested by the model.
type Executor interface {
	Execute(ctx context.Context, call polli.ToolCall) Result
}

// Handlers maps function names to handlers. It is the simplest Executor.
type Handlers map[string]Handler

// Execute runs the handler named by call.
func (h Handlers) Execute(ctx context.Context, call polli.ToolCall) Result {
	return run(ctx, call, h[call.Name])
}
