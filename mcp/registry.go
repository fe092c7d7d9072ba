package mcp

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/tool"
)

// RemoteRegistry executes tool calls on an MCP server and implements
// tool.Executor. The server's tool list is snapshotted at connect time and
// on Refresh. It is safe for concurrent use.
type RemoteRegistry struct {
	client *client.Client
	tools  atomic.Pointer[toolSnapshot]
}

// toolSnapshot is replaced wholesale on Refresh and never mutated.
type toolSnapshot struct {
	specs  []polli.Tool
	byName map[string]int
}

var _ tool.Executor = (*RemoteRegistry)(nil)

// NewRemoteRegistry launches command as a stdio MCP server.
func NewRemoteRegistry(ctx context.Context, command string, env []string, args ...string) (*RemoteRegistry, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: launch %s: %w", command, err)
	}
	return NewRemoteRegistryFromClient(ctx, c)
}

// NewRemoteRegistrySSE connects to an MCP server at baseURL over SSE.
func NewRemoteRegistrySSE(ctx context.Context, baseURL string) (*RemoteRegistry, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("mcp: dial %s: %w", baseURL, err)
	}
	return NewRemoteRegistryFromClient(ctx, c)
}

// NewRemoteRegistryFromClient performs the MCP handshake on c and loads
// its tools. On failure c is closed.
func NewRemoteRegistryFromClient(ctx context.Context, c *client.Client) (*RemoteRegistry, error) {
	r := &RemoteRegistry{client: c}
	if err := r.connect(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return r, nil
}

func (r *RemoteRegistry) connect(ctx context.Context) error {
	if err := r.client.Start(ctx); err != nil {
		return fmt.Errorf("mcp: start: %w", err)
	}
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "polli", Version: "1.0.0"}
	if _, err := r.client.Initialize(ctx, req); err != nil {
		return fmt.Errorf("mcp: initialize: %w", err)
	}
	if err := r.Refresh(ctx); err != nil {
		return fmt.Errorf("mcp: list tools: %w", err)
	}
	return nil
}

func (r *RemoteRegistry) Close() error {
	return r.client.Close()
}

// Refresh reloads the tool list from the server.
func (r *RemoteRegistry) Refresh(ctx context.Context) error {
	listed, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}
	snap := &toolSnapshot{
		specs:  make([]polli.Tool, len(listed.Tools)),
		byName: make(map[string]int, len(listed.Tools)),
	}
	for i, t := range listed.Tools {
		snap.specs[i] = FromMCPTool(t)
		snap.byName[t.Name] = i
	}
	r.tools.Store(snap)
	return nil
}

func (r *RemoteRegistry) snapshot() *toolSnapshot {
	if s := r.tools.Load(); s != nil {
		return s
	}
	return &toolSnapshot{}
}

// Tools returns the server's tools in listing order.
func (r *RemoteRegistry) Tools() []polli.Tool {
	return slices.Clone(r.snapshot().specs)
}

func (r *RemoteRegistry) GetTool(name string) (polli.Tool, bool) {
	s := r.snapshot()
	i, ok := s.byName[name]
	if !ok {
		return polli.Tool{}, false
	}
	return s.specs[i], true
}

func (r *RemoteRegistry) Names() []string {
	specs := r.snapshot().specs
	names := make([]string, len(specs))
	for i, t := range specs {
		names[i] = t.Name
	}
	return names
}

func (r *RemoteRegistry) Len() int { return len(r.snapshot().specs) }

// Has reports whether the server lists name.
func (r *RemoteRegistry) Has(name string) bool {
	_, ok := r.snapshot().byName[name]
	return ok
}

// Execute forwards call to the server. An unknown name or a failed
// round trip becomes an error result rather than ending the conversation.
func (r *RemoteRegistry) Execute(ctx context.Context, call polli.ToolCall) tool.Result {
	if !r.Has(call.Name) {
		return failed(call, &tool.UnknownError{Name: call.Name})
	}
	out, err := r.client.CallTool(ctx, ToMCPCallToolRequest(call))
	if err != nil {
		return failed(call, err)
	}
	return FromMCPCallToolResult(call, out)
}

func failed(call polli.ToolCall, err error) tool.Result {
	return tool.Result{CallID: call.ID, Name: call.Name, Content: errorPayload(err), IsError: true, Err: err}
}
