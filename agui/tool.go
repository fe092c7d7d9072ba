package agui

import (
	"encoding/json"

	"github.com/spetersoncode/polli"
)

// Tool is a tool declared by an AG-UI frontend.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Polli returns t as a polli tool spec.
func (t Tool) Polli() polli.Tool {
	return polli.Tool{Name: t.Name, Description: t.Description, Parameters: t.Parameters}
}

// ParseTools decodes the untyped tools list of a RunAgentInput.
func ParseTools(raw []any) ([]Tool, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return decode[[]Tool](raw)
}

// ToPolliTools converts frontend tools to polli tool specs.
func ToPolliTools(tools []Tool) []polli.Tool {
	var specs []polli.Tool
	for _, t := range tools {
		specs = append(specs, t.Polli())
	}
	return specs
}

// ToolNames lists the names of tools in order.
func ToolNames(tools []Tool) []string {
	var names []string
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}
