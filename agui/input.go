package agui

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/polli"
)

// RunAgentInput is the AG-UI request body for a run.
type RunAgentInput struct {
	ThreadID       string           `json:"thread_id"`
	RunID          string           `json:"run_id"`
	Messages       []events.Message `json:"messages"`
	Tools          []any            `json:"tools,omitempty"`
	Context        []any            `json:"context,omitempty"`
	State          any              `json:"state,omitempty"`
	ForwardedProps any              `json:"forwarded_props,omitempty"`
}

// Props are the request settings a frontend may forward with a run.
type Props struct {
	Model       string   `json:"model,omitempty"`
	Seed        *int     `json:"seed,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	System      string   `json:"system,omitempty"`
}

// Options converts the props to request options.
func (p Props) Options() []polli.Option {
	var opts []polli.Option
	if p.Model != "" {
		opts = append(opts, polli.WithModel(p.Model))
	}
	if p.Seed != nil {
		opts = append(opts, polli.WithSeed(*p.Seed))
	}
	if p.MaxTokens != nil {
		opts = append(opts, polli.WithMaxTokens(*p.MaxTokens))
	}
	if p.Temperature != nil {
		opts = append(opts, polli.WithTemperature(*p.Temperature))
	}
	if p.System != "" {
		opts = append(opts, polli.WithSystem(p.System))
	}
	return opts
}

// PreparedInput is a validated run request in polli types.
type PreparedInput struct {
	ThreadID  string
	RunID     string
	Messages  []polli.Message
	Tools     []Tool
	ToolNames []string
	Props     Props
	State     any
}

// ErrNoMessages is returned when the input contains no messages.
var ErrNoMessages = errors.New("no messages provided")

// Prepare validates the input and converts it to polli types.
func (r *RunAgentInput) Prepare() (*PreparedInput, error) {
	messages := ToPolliMessages(r.Messages)
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	result := &PreparedInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		Messages: messages,
		State:    r.State,
	}

	if len(r.Tools) > 0 {
		tools, err := ParseTools(r.Tools)
		if err != nil {
			return nil, fmt.Errorf("parse tools: %w", err)
		}
		result.Tools = tools
		result.ToolNames = ToolNames(tools)
	}

	if r.ForwardedProps != nil {
		props, err := decode[Props](r.ForwardedProps)
		if err != nil {
			return nil, fmt.Errorf("parse forwarded props: %w", err)
		}
		result.Props = props
	}
	return result, nil
}

// PolliTools converts the parsed frontend tools to polli tools.
func (p *PreparedInput) PolliTools() []polli.Tool {
	return ToPolliTools(p.Tools)
}

// Options returns the request options carried in the forwarded props.
func (p *PreparedInput) Options() []polli.Option {
	return p.Props.Options()
}

// DecodeState decodes the raw frontend state into T.
// Returns the zero value of T if State is nil.
func DecodeState[T any](input *PreparedInput) (T, error) {
	if input.State == nil {
		var zero T
		return zero, nil
	}
	return decode[T](input.State)
}

func decode[T any](v any) (T, error) {
	var result T
	data, err := json.Marshal(v)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, err
	}
	return result, nil
}
