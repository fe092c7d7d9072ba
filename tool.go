package polli

import (
	"encoding/json"
	"errors"
)

// Tool defines a function that can be called by the model.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does (helps the model decide when to use it).
	Description string
	// Parameters is a JSON Schema object defining the function parameters.
	Parameters json.RawMessage
}

type wireFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

// MarshalJSON encodes the tool as a {"type":"function"} spec.
func (t Tool) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireTool{
		Type: "function",
		Function: wireFunction{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		},
	})
}

// UnmarshalJSON decodes a {"type":"function"} tool spec.
func (t *Tool) UnmarshalJSON(data []byte) error {
	var w wireTool
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Function.Name == "" {
		return errors.New("tool spec: missing function name")
	}
	*t = Tool{
		Name:        w.Function.Name,
		Description: w.Function.Description,
		Parameters:  w.Function.Parameters,
	}
	return nil
}

// ToolCall represents a request from the model to invoke a tool.
type ToolCall struct {
	// ID is a unique identifier for this tool call (used to match results).
	ID string
	// Name is the name of the tool to invoke.
	Name string
	// Arguments is a JSON string containing the arguments to pass.
	Arguments string
}

type wireToolCall struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments,omitempty"`
	} `json:"function"`
}

// MarshalJSON encodes the call in chat-completions wire format.
func (c ToolCall) MarshalJSON() ([]byte, error) {
	var w wireToolCall
	w.ID = c.ID
	w.Type = "function"
	w.Function.Name = c.Name
	args, err := json.Marshal(c.Arguments)
	if err != nil {
		return nil, err
	}
	w.Function.Arguments = args
	return json.Marshal(w)
}

// UnmarshalJSON decodes a wire tool call. Arguments sent as a JSON object
// instead of a string are kept as their raw text.
func (c *ToolCall) UnmarshalJSON(data []byte) error {
	var w wireToolCall
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.ID = w.ID
	c.Name = w.Function.Name
	c.Arguments = ""
	if len(w.Function.Arguments) == 0 || string(w.Function.Arguments) == "null" {
		return nil
	}
	if w.Function.Arguments[0] == '"' {
		return json.Unmarshal(w.Function.Arguments, &c.Arguments)
	}
	c.Arguments = string(w.Function.Arguments)
	return nil
}

// ParseArguments decodes the call arguments into a map. Malformed or
// non-object arguments yield an empty map, never an error.
func (c ToolCall) ParseArguments() map[string]any {
	args := map[string]any{}
	if c.Arguments == "" {
		return args
	}
	if err := json.Unmarshal([]byte(c.Arguments), &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}

// ToolChoice controls how the model uses tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide when to use tools (default).
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone disables tool use for the request.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceRequired forces the model to use a tool.
	ToolChoiceRequired ToolChoice = "required"
)

// ToolChoiceFunction forces the model to call the named function.
func ToolChoiceFunction(name string) map[string]any {
	return map[string]any{
		"type":     "function",
		"function": map[string]any{"name": name},
	}
}
