package agui

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/polli"
)

func userInput(content string) RunAgentInput {
	return RunAgentInput{
		ThreadID: "thread-1",
		RunID:    "run-1",
		Messages: []events.Message{
			{ID: "msg-1", Role: "user", Content: &content},
		},
	}
}

func TestRunAgentInput_Prepare(t *testing.T) {
	t.Run("valid input with messages", func(t *testing.T) {
		input := userInput("Hello")

		prepared, err := input.Prepare()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if prepared.ThreadID != "thread-1" {
			t.Errorf("ThreadID = %q, want %q", prepared.ThreadID, "thread-1")
		}
		if prepared.RunID != "run-1" {
			t.Errorf("RunID = %q, want %q", prepared.RunID, "run-1")
		}
		if len(prepared.Messages) != 1 {
			t.Fatalf("len(Messages) = %d, want 1", len(prepared.Messages))
		}
		if prepared.Messages[0].Content != "Hello" {
			t.Errorf("Messages[0].Content = %q, want %q", prepared.Messages[0].Content, "Hello")
		}
		if len(prepared.Options()) != 0 {
			t.Errorf("expected no options without forwarded props")
		}
	})

	t.Run("empty messages returns error", func(t *testing.T) {
		input := RunAgentInput{ThreadID: "thread-1", Messages: []events.Message{}}
		if _, err := input.Prepare(); !errors.Is(err, ErrNoMessages) {
			t.Errorf("error = %v, want ErrNoMessages", err)
		}
	})

	t.Run("nil messages returns error", func(t *testing.T) {
		input := RunAgentInput{ThreadID: "thread-1"}
		if _, err := input.Prepare(); !errors.Is(err, ErrNoMessages) {
			t.Errorf("error = %v, want ErrNoMessages", err)
		}
	})

	t.Run("with frontend tools", func(t *testing.T) {
		input := userInput("Use my tool")
		input.Tools = []any{
			map[string]any{
				"name":        "my_tool",
				"description": "A custom tool",
				"parameters":  map[string]any{"type": "object"},
			},
		}

		prepared, err := input.Prepare()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(prepared.ToolNames) != 1 || prepared.ToolNames[0] != "my_tool" {
			t.Errorf("ToolNames = %v, want [my_tool]", prepared.ToolNames)
		}

		tools := prepared.PolliTools()
		if len(tools) != 1 {
			t.Fatalf("len(PolliTools) = %d, want 1", len(tools))
		}
		if tools[0].Name != "my_tool" || tools[0].Description != "A custom tool" {
			t.Errorf("PolliTools[0] = %+v", tools[0])
		}
		if string(tools[0].Parameters) != `{"type":"object"}` {
			t.Errorf("Parameters = %s", tools[0].Parameters)
		}
	})

	t.Run("malformed tools returns error", func(t *testing.T) {
		input := userInput("Hello")
		input.Tools = []any{func() {}}
		if _, err := input.Prepare(); err == nil {
			t.Error("expected error for malformed tools")
		}
	})

	t.Run("forwarded props become options", func(t *testing.T) {
		input := userInput("Hello")
		input.ForwardedProps = map[string]any{
			"model":       "mistral",
			"seed":        float64(7),
			"max_tokens":  float64(64),
			"temperature": 0.2,
			"system":      "Be brief.",
		}

		prepared, err := input.Prepare()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		o := polli.ApplyOptions(prepared.Options()...)
		if o.Model != "mistral" {
			t.Errorf("Model = %q, want mistral", o.Model)
		}
		if o.Seed == nil || *o.Seed != 7 {
			t.Errorf("Seed = %v, want 7", o.Seed)
		}
		if o.MaxTokens == nil || *o.MaxTokens != 64 {
			t.Errorf("MaxTokens = %v, want 64", o.MaxTokens)
		}
		if o.Temperature == nil || *o.Temperature != 0.2 {
			t.Errorf("Temperature = %v, want 0.2", o.Temperature)
		}
		if o.System != "Be brief." {
			t.Errorf("System = %q", o.System)
		}
	})

	t.Run("malformed forwarded props returns error", func(t *testing.T) {
		input := userInput("Hello")
		input.ForwardedProps = map[string]any{"seed": "not a number"}
		if _, err := input.Prepare(); err == nil {
			t.Error("expected error for malformed props")
		}
	})
}

func TestDecodeState(t *testing.T) {
	type MyState struct {
		Progress int      `json:"progress"`
		Items    []string `json:"items"`
	}

	t.Run("decodes state into struct", func(t *testing.T) {
		prepared := &PreparedInput{
			State: map[string]any{
				"progress": float64(50),
				"items":    []any{"a", "b"},
			},
		}

		state, err := DecodeState[MyState](prepared)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Progress != 50 {
			t.Errorf("Progress = %d, want 50", state.Progress)
		}
		if len(state.Items) != 2 || state.Items[0] != "a" {
			t.Errorf("Items = %v, want [a b]", state.Items)
		}
	})

	t.Run("nil state returns zero value", func(t *testing.T) {
		state, err := DecodeState[MyState](&PreparedInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if state.Progress != 0 || state.Items != nil {
			t.Errorf("state = %+v, want zero", state)
		}
	})
}

func TestRunAgentInput_JSON(t *testing.T) {
	jsonData := `{
		"thread_id": "thread-123",
		"run_id": "run-456",
		"messages": [
			{"id": "msg-1", "role": "user", "content": "Hello"}
		],
		"tools": [
			{"name": "search", "description": "Search the web"}
		],
		"forwarded_props": {"model": "openai"}
	}`

	var input RunAgentInput
	if err := json.Unmarshal([]byte(jsonData), &input); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	prepared, err := input.Prepare()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prepared.ThreadID != "thread-123" || prepared.RunID != "run-456" {
		t.Errorf("IDs = %q/%q", prepared.ThreadID, prepared.RunID)
	}
	if len(prepared.Messages) != 1 || prepared.Messages[0].Role != polli.RoleUser {
		t.Errorf("Messages = %+v", prepared.Messages)
	}
	if len(prepared.Tools) != 1 {
		t.Errorf("len(Tools) = %d, want 1", len(prepared.Tools))
	}
	if prepared.Props.Model != "openai" {
		t.Errorf("Props.Model = %q, want openai", prepared.Props.Model)
	}
}
