package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spetersoncode/polli/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve chat over the AG-UI protocol",
	Long: `Serve an AG-UI endpoint for chat frontends such as CopilotKit.

	POST /api/chat   run a chat, streaming AG-UI events over SSE
	GET  /health     health check

With --tools the model may call the built-in Pollinations tools, and each
run streams the tool calls and their results.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("addr", ":8000", "Listen address")
	f.Bool("tools", false, "Enable the built-in Pollinations tools")
	f.Int("max-rounds", 3, "Maximum tool-calling rounds per run")
	f.Duration("run-timeout", 2*time.Minute, "Timeout for one run")

	_ = viper.BindPFlag("serve.addr", f.Lookup("addr"))
	_ = viper.BindPFlag("serve.tools", f.Lookup("tools"))
	_ = viper.BindPFlag("serve.max_rounds", f.Lookup("max-rounds"))
	_ = viper.BindPFlag("serve.run_timeout", f.Lookup("run-timeout"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	c, logger, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	h := &ChatHandler{
		client:     c,
		logger:     logger,
		maxRounds:  viper.GetInt("serve.max_rounds"),
		runTimeout: viper.GetDuration("serve.run_timeout"),
	}
	if viper.GetBool("serve.tools") {
		h.tools = mcp.PollinationsTools(c)
		logger.Info("enabled tools", "names", h.tools.Names())
	}

	mux := http.NewServeMux()
	mux.Handle("/api/chat", corsMiddleware(h))
	mux.HandleFunc("/health", healthHandler)

	addr := viper.GetString("serve.addr")
	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("AG-UI server starting", "addr", addr)
	fmt.Fprintf(cmd.ErrOrStderr(), "AG-UI endpoint: POST http://localhost%s/api/chat\n", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
