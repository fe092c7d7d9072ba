package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spetersoncode/polli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addArgs struct {
	A float64 `json:"a" jsonschema:"description=First addend"`
	B float64 `json:"b" jsonschema:"description=Second addend"`
}

type searchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

func add(ctx context.Context, args addArgs) (any, error) {
	return args.A + args.B, nil
}

func TestRegistryAdd(t *testing.T) {
	t.Run("registers in order", func(t *testing.T) {
		registry := NewRegistry().Add(
			Func("add", "Add two numbers", add),
			Func("search", "Search", func(ctx context.Context, args searchArgs) (any, error) {
				return "found " + args.Query, nil
			}),
		)

		assert.Equal(t, 2, registry.Len())
		assert.Equal(t, []string{"add", "search"}, registry.Names())

		tools := registry.Tools()
		require.Len(t, tools, 2)
		assert.Equal(t, "add", tools[0].Name)
		assert.Equal(t, "Add two numbers", tools[0].Description)

		tl, ok := registry.GetTool("search")
		assert.True(t, ok)
		assert.Equal(t, "search", tl.Name)
		_, ok = registry.GetTool("missing")
		assert.False(t, ok)
	})

	t.Run("panics on duplicate", func(t *testing.T) {
		registry := NewRegistry().Add(Func("add", "Add", add))
		assert.Panics(t, func() {
			registry.Add(Func("add", "Add again", add))
		})
	})

	t.Run("register returns duplicate error", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(polli.Tool{Name: "x"}, nil))
		err := registry.Register(polli.Tool{Name: "x"}, nil)
		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "x", dup.Name)
	})

	t.Run("unregister keeps order", func(t *testing.T) {
		h := func(context.Context, map[string]any) (any, error) { return "", nil }
		registry := NewRegistry().Add(
			WithHandler("a", "", nil, h),
			WithHandler("b", "", nil, h),
			WithTool(polli.Tool{Name: "c"}, h),
		)
		registry.Unregister("b")
		registry.Unregister("missing")
		assert.Equal(t, []string{"a", "c"}, registry.Names())
	})
}

func TestSchemaFor(t *testing.T) {
	raw, err := SchemaFor[searchArgs]()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))
	assert.Equal(t, "object", schema["type"])
	assert.NotContains(t, schema, "$schema")
	assert.NotContains(t, schema, "$ref")

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")
	assert.Equal(t, []any{"query"}, schema["required"])

	_, err = SchemaFor[string]()
	assert.Error(t, err)
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry().Add(
		Func("add", "Add two numbers", add),
		WithHandler("echo", "", nil, func(ctx context.Context, args map[string]any) (any, error) {
			return args, nil
		}),
		WithHandler("fail", "", nil, func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("boom")
		}),
		WithHandler("explode", "", nil, func(context.Context, map[string]any) (any, error) {
			panic("kaboom")
		}),
		WithHandler("text", "", nil, func(context.Context, map[string]any) (any, error) {
			return "plain text", nil
		}),
	)

	tests := []struct {
		name    string
		call    polli.ToolCall
		content string
		isError bool
	}{
		{"typed handler json encodes result", polli.ToolCall{ID: "1", Name: "add", Arguments: `{"a":2,"b":3}`}, `5`, false},
		{"string result verbatim", polli.ToolCall{ID: "2", Name: "text"}, `plain text`, false},
		{"malformed arguments become empty object", polli.ToolCall{ID: "3", Name: "echo", Arguments: `{"a":`}, `{}`, false},
		{"handler error", polli.ToolCall{ID: "4", Name: "fail"}, `{"error":"function 'fail' raised: boom"}`, true},
		{"handler panic", polli.ToolCall{ID: "5", Name: "explode"}, `{"error":"function 'explode' raised: panic: kaboom"}`, true},
		{"missing handler", polli.ToolCall{ID: "6", Name: "nope"}, `{"error":"no handler for function 'nope'"}`, true},
		{"typed decode failure", polli.ToolCall{ID: "7", Name: "add", Arguments: `{"a":"x"}`}, ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := registry.Execute(ctx, tt.call)
			assert.Equal(t, tt.call.ID, res.CallID)
			assert.Equal(t, tt.call.Name, res.Name)
			assert.Equal(t, tt.isError, res.IsError)
			if tt.content != "" {
				if tt.isError {
					assert.JSONEq(t, tt.content, res.Content)
				} else {
					assert.Equal(t, tt.content, res.Content)
				}
			}
			if tt.isError {
				assert.Error(t, res.Err)
			}
		})
	}
}

func TestHandlersMap(t *testing.T) {
	handlers := Handlers{
		"add": Typed(add),
	}
	res := handlers.Execute(context.Background(), polli.ToolCall{ID: "c1", Name: "add", Arguments: `{"a":1,"b":1}`})
	assert.False(t, res.IsError)
	assert.Equal(t, "2", res.Content)

	msg := res.Message()
	assert.Equal(t, polli.RoleTool, msg.Role)
	assert.Equal(t, "c1", msg.ToolCallID)
	assert.Equal(t, "add", msg.Name)
	assert.Equal(t, "2", msg.Content)

	missing := handlers.Execute(context.Background(), polli.ToolCall{ID: "c2", Name: "sub"})
	assert.True(t, missing.IsError)
	var notFound *UnknownError
	assert.ErrorAs(t, missing.Err, &notFound)
}

func TestNilRegistryExecute(t *testing.T) {
	var registry *Registry
	res := registry.Execute(context.Background(), polli.ToolCall{ID: "c1", Name: "add", Arguments: `{}`})

	assert.True(t, res.IsError)
	assert.Equal(t, "c1", res.CallID)
	assert.Contains(t, res.Content, "no handler for function 'add'")
	_, ok := registry.GetTool("add")
	assert.False(t, ok)
}
