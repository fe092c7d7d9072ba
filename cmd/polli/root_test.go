package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/polli/client"
)

func TestPlacement(t *testing.T) {
	tests := []struct {
		in   string
		want client.TokenPlacement
		err  bool
	}{
		{"", client.PlacementHeader, false},
		{"header", client.PlacementHeader, false},
		{"QUERY", client.PlacementQuery, false},
		{"body", client.PlacementBody, false},
		{"cookie", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := placement(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("referrer", "my-app")
	viper.Set("token", "secret")
	viper.Set("token_placement", "query")
	viper.Set("min_interval", "500ms")
	viper.Set("timeout", 4*time.Second)
	viper.Set("text_prompt_base", "http://localhost:9999")

	cfg, err := clientConfig(slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	assert.Equal(t, client.Auth{Referrer: "my-app", Token: "secret", Placement: client.PlacementQuery}, cfg.Auth)
	assert.Equal(t, 500*time.Millisecond, cfg.MinInterval)
	assert.Equal(t, 4*time.Second, cfg.Timeout)
	assert.Equal(t, "http://localhost:9999", cfg.TextPromptBase)
	assert.Equal(t, client.DefaultImagePromptBase, cfg.ImagePromptBase)
	assert.NotNil(t, cfg.Logger)

	viper.Set("token_placement", "cookie")
	_, err = clientConfig(nil)
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"models", "image", "text", "chat", "vision", "transcribe", "tts", "feed", "mcp", "serve"} {
		assert.Contains(t, names, want)
	}
}

func TestTextCommand(t *testing.T) {
	t.Cleanup(viper.Reset)

	var gotPath, gotModel, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotModel = r.URL.Query().Get("model")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("Paris"))
	}))
	defer srv.Close()

	viper.Set("text_prompt_base", srv.URL)
	viper.Set("min_interval", 0)
	viper.Set("token", "secret")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"text", "capital", "of", "France", "--model", "mistral"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Equal(t, "Paris\n", out.String())
	assert.Equal(t, "/capital of France", gotPath)
	assert.Equal(t, "mistral", gotModel)
	assert.Equal(t, "Bearer secret", gotAuth)
}
