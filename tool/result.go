package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spetersoncode/polli"
)

// Result is the outcome of one tool call, ready to be sent back as a
// tool-role message.
type Result struct {
	CallID  string
	Name    string
	Content string
	// IsError is set when Content is an {"error": ...} payload.
	IsError bool
	// Err is the failure that produced an error payload, if any.
	Err error
}

// Message converts the result into a tool-role message.
func (r Result) Message() polli.Message {
	return polli.NewToolMessage(r.CallID, r.Name, r.Content)
}

// run executes h for call, converting a missing handler, an error or a
// panic into an error payload so the conversation can continue.
func run(ctx context.Context, call polli.ToolCall, h Handler) (res Result) {
	res = Result{CallID: call.ID, Name: call.Name}
	if h == nil {
		return res.fail(&UnknownError{Name: call.Name})
	}

	defer func() {
		if p := recover(); p != nil {
			res = res.fail(&HandlerError{Name: call.Name, Err: fmt.Errorf("panic: %v", p)})
		}
	}()

	out, err := h(ctx, call.ParseArguments())
	if err != nil {
		return res.fail(&HandlerError{Name: call.Name, Err: err})
	}
	content, err := encode(out)
	if err != nil {
		return res.fail(&HandlerError{Name: call.Name, Err: err})
	}
	res.Content = content
	return res
}

func (r Result) fail(err error) Result {
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	r.Content = string(payload)
	r.IsError = true
	r.Err = err
	return r
}

func encode(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case json.RawMessage:
		return string(val), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
