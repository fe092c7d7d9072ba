package agui

import (
	"testing"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/polli"
)

func TestToPolliMessages(t *testing.T) {
	hello := "Hello"
	result := `{"temp":21}`
	callID := "call-1"

	msgs := ToPolliMessages([]events.Message{
		{ID: "m1", Role: "developer", Content: &hello},
		{ID: "m2", Role: "user", Content: &hello},
		{ID: "m3", Role: "assistant", ToolCalls: []events.ToolCall{{
			ID:       "call-1",
			Type:     "function",
			Function: events.Function{Name: "weather", Arguments: `{"city":"Paris"}`},
		}}},
		{ID: "m4", Role: "tool", Content: &result, ToolCallID: &callID},
		{ID: "m5", Role: "other"},
	})

	if len(msgs) != 5 {
		t.Fatalf("len = %d, want 5", len(msgs))
	}
	if msgs[0].Role != polli.RoleSystem {
		t.Errorf("developer role = %q, want system", msgs[0].Role)
	}
	if msgs[1].Role != polli.RoleUser || msgs[1].Content != "Hello" || msgs[1].ID != "m2" {
		t.Errorf("user message = %+v", msgs[1])
	}

	calls := msgs[2].ToolCalls
	if len(calls) != 1 || calls[0].ID != "call-1" || calls[0].Name != "weather" || calls[0].Arguments != `{"city":"Paris"}` {
		t.Errorf("tool calls = %+v", calls)
	}

	if msgs[3].Role != polli.RoleTool || msgs[3].ToolCallID != "call-1" || msgs[3].Content != result {
		t.Errorf("tool message = %+v", msgs[3])
	}
	if msgs[4].Role != polli.RoleUser {
		t.Errorf("unknown role = %q, want user", msgs[4].Role)
	}
}

func TestFromPolliMessages(t *testing.T) {
	msgs := FromPolliMessages([]polli.Message{
		{ID: "keep", Role: polli.RoleUser, Parts: []polli.ContentPart{
			polli.NewTextPart("look"),
			polli.NewImageURLPart("https://example.com/cat.png"),
			polli.NewTextPart("here"),
		}},
		{Role: polli.RoleAssistant, ToolCalls: []polli.ToolCall{{ID: "c1", Name: "f", Arguments: "{}"}}},
		polli.NewToolMessage("c1", "f", "ok"),
	})

	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[0].ID != "keep" {
		t.Errorf("ID = %q, want keep", msgs[0].ID)
	}
	if msgs[0].Content == nil || *msgs[0].Content != "look\nhere" {
		t.Errorf("Content = %v, want joined text parts", msgs[0].Content)
	}

	if msgs[1].ID == "" {
		t.Error("expected generated ID")
	}
	if msgs[1].Content != nil {
		t.Errorf("Content = %q, want nil", *msgs[1].Content)
	}
	if len(msgs[1].ToolCalls) != 1 || msgs[1].ToolCalls[0].Type != "function" || msgs[1].ToolCalls[0].Function.Name != "f" {
		t.Errorf("ToolCalls = %+v", msgs[1].ToolCalls)
	}

	if msgs[2].Role != RoleTool || msgs[2].ToolCallID == nil || *msgs[2].ToolCallID != "c1" {
		t.Errorf("tool message = %+v", msgs[2])
	}
}
