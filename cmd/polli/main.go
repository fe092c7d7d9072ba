// Command polli is a command-line client for the Pollinations API.
//
// Every capability of the client package is exposed as a subcommand.
// Settings come from flags, POLLI_* environment variables, a .env file
// and an optional polli.yaml, in that order of precedence:
//
//	POLLI_TOKEN=... polli image "a lighthouse at dusk" --width 1024 --height 768
//	polli chat "What is the capital of France?" --stream
//	polli feed image --limit 5
//	polli mcp                      # MCP server over stdio
//	polli serve --addr :8000       # AG-UI endpoint at POST /api/chat
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
