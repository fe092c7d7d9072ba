package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/spetersoncode/polli/mcp"
)

// version is reported to MCP clients.
var version = "0.1.0"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the Pollinations tools over MCP stdio",
	Long: `Serve the Pollinations tools to an MCP client over stdin/stdout.

Example client configuration:

	{
	    "mcpServers": {
	        "pollinations": {"command": "polli", "args": ["mcp"]}
	    }
	}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().String("name", mcp.DefaultServerName, "Server name reported to clients")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	c, logger, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	name, _ := cmd.Flags().GetString("name")
	s := mcp.NewPollinationsServer(c, mcp.WithName(name), mcp.WithVersion(version))
	logger.Info("serving MCP over stdio", "name", name)
	return server.ServeStdio(s)
}
