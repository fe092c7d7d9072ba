// Package mcp exposes Pollinations operations over the Model Context
// Protocol and lets remote MCP tools take part in tool-calling chats.
//
//   - Server: NewPollinationsServer publishes image generation, speech and
//     model listing as MCP tools. NewServer publishes any tool.Registry.
//   - Client: RemoteRegistry connects to an MCP server and implements
//     tool.Executor, so its tools can be passed to client.ChatWithTools.
//
// # Serving
//
//	c, _ := client.New(client.DefaultConfig())
//	if err := mcp.ServeStdio(mcp.PollinationsTools(c)); err != nil {
//	    log.Fatal(err)
//	}
//
// # Consuming
//
//	remote, err := mcp.NewRemoteRegistry(ctx, "./some-mcp-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	resp, err := c.ChatWithTools(ctx, messages, remote.Tools(), remote)
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/tool"
)

// ToMCPTool converts a polli Tool to an MCP Tool. The parameters schema
// becomes the raw input schema.
func ToMCPTool(t polli.Tool) mcp.Tool {
	schema := t.Parameters
	if len(schema) == 0 {
		schema = json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return mcp.NewToolWithRawSchema(t.Name, t.Description, schema)
}

// FromMCPTool converts an MCP Tool to a polli Tool, preferring the raw
// input schema when present.
func FromMCPTool(t mcp.Tool) polli.Tool {
	var schema json.RawMessage
	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		schema = data
	}
	return polli.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// FromMCPTools converts a slice of MCP Tools.
func FromMCPTools(tools []mcp.Tool) []polli.Tool {
	result := make([]polli.Tool, len(tools))
	for i, t := range tools {
		result[i] = FromMCPTool(t)
	}
	return result
}

// ToMCPCallToolRequest converts a model tool call into an MCP request.
// Malformed arguments are sent as an empty object.
func ToMCPCallToolRequest(call polli.ToolCall) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: call.ParseArguments(),
		},
	}
}

// FromMCPCallToolResult flattens an MCP result into a tool.Result. Text
// content is joined with newlines; other content is JSON-encoded.
func FromMCPCallToolResult(call polli.ToolCall, result *mcp.CallToolResult) tool.Result {
	res := tool.Result{CallID: call.ID, Name: call.Name}
	if result == nil {
		res.IsError = true
		return res
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}

	res.Content = strings.Join(parts, "\n")
	res.IsError = result.IsError
	return res
}

// ToMCPCallToolResult converts a tool.Result into an MCP result.
func ToMCPCallToolResult(res tool.Result) *mcp.CallToolResult {
	if res.IsError {
		return mcp.NewToolResultError(res.Content)
	}
	return mcp.NewToolResultText(res.Content)
}

// errorPayload matches the {"error": ...} shape tool.Registry produces.
func errorPayload(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}
