package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/tool"
)

// DefaultServerName is the name reported in the MCP handshake.
const DefaultServerName = "pollinations-multimodal-api"

type serverInfo struct {
	name    string
	version string
}

type ServerOption func(*serverInfo)

func WithName(name string) ServerOption {
	return func(i *serverInfo) { i.name = name }
}

func WithVersion(version string) ServerOption {
	return func(i *serverInfo) { i.version = version }
}

// NewServer publishes every tool in registry over MCP.
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	info := serverInfo{name: DefaultServerName, version: "1.0.0"}
	for _, opt := range opts {
		opt(&info)
	}

	s := server.NewMCPServer(info.name, info.version, server.WithToolCapabilities(true))
	for _, spec := range registry.Tools() {
		s.AddTool(ToMCPTool(spec), callThrough(registry, spec.Name))
	}
	return s
}

// NewPollinationsServer publishes PollinationsTools(c).
func NewPollinationsServer(c Client, opts ...ServerOption) *server.MCPServer {
	return NewServer(PollinationsTools(c), opts...)
}

// callThrough adapts one registry tool to an MCP handler. Tool failures
// are reported in the result with isError set, never as protocol errors.
func callThrough(registry *tool.Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call := polli.ToolCall{Name: name, Arguments: "{}"}
		if args := req.GetArguments(); len(args) > 0 {
			raw, err := json.Marshal(args)
			if err != nil {
				return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
			}
			call.Arguments = string(raw)
		}
		return ToMCPCallToolResult(registry.Execute(ctx, call)), nil
	}
}

// ServeStdio runs NewServer(registry) on stdin and stdout.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
