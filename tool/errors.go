package tool

import "fmt"

// UnknownError reports a call to a function with no registered handler.
// Its message is what the model sees as the tool result.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("no handler for function '%s'", e.Name)
}

// HandlerError wraps a handler's returned error or recovered panic.
type HandlerError struct {
	Name string
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("function '%s' raised: %v", e.Name, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// DuplicateError is returned by Register for a name already in use.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return "tool: duplicate name " + e.Name
}
