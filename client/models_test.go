package client

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/polli/model"
)

func modelsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/models":
		_, _ = io.WriteString(w, `[
			{"name":"openai","aliases":["gpt-4o-mini"],"tools":true},
			{"name":"openai-audio","voices":["alloy","nova"],"output_modalities":["audio"]},
			{"name":"mistral","teir":"seed"}
		]`)
	case "/image/models":
		_, _ = io.WriteString(w, `["flux","turbo","kontext"]`)
	default:
		http.NotFound(w, r)
	}
}

func TestListModels(t *testing.T) {
	c, fc, rec := newTestClient(t, modelsHandler)
	ctx := context.Background()

	text, err := c.ListModels(ctx, model.KindText)
	require.NoError(t, err)
	require.Len(t, text, 3)
	assert.Equal(t, "seed", text[2].Tier)

	images, err := c.ListModels(ctx, model.KindImage)
	require.NoError(t, err)
	assert.Equal(t, "turbo", images[1].Name)
	assert.True(t, images[1].SupportsSystemMessages)

	_, err = c.ListModels(ctx, model.KindText)
	require.NoError(t, err)
	assert.Len(t, rec.all(), 2)
	// Model fetches share the gate with every other request.
	assert.Equal(t, []time.Duration{3 * time.Second}, fc.Sleeps())

	c.RefreshModels()
	_, err = c.ListModels(ctx, model.KindText)
	require.NoError(t, err)
	assert.Len(t, rec.all(), 3)
}

func TestGetModelByName(t *testing.T) {
	c, _, _ := newTestClient(t, modelsHandler)
	ctx := context.Background()

	m, err := c.GetModelByName(ctx, "GPT-4O-MINI")
	require.NoError(t, err)
	assert.Equal(t, "openai", m.Name)

	m, err = c.GetModelByName(ctx, "kontext")
	require.NoError(t, err)
	assert.Equal(t, "kontext", m.Name)

	_, err = c.GetModelByName(ctx, "kontext", model.WithKind(model.KindText))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAudioModelsAndVoices(t *testing.T) {
	c, _, _ := newTestClient(t, modelsHandler)
	ctx := context.Background()

	audio, err := c.AudioModels(ctx)
	require.NoError(t, err)
	require.Len(t, audio, 1)
	assert.Equal(t, "openai-audio", audio[0].Name)

	voices, err := c.Voices(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alloy", "nova"}, voices)
}

func TestListModelsError(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	_, err := c.ListModels(context.Background(), model.KindImage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list image models")
}
