package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/model"
)

const (
	defaultAudioTimeout       = 120 * time.Second
	defaultTranscribeQuestion = "Transcribe this audio"
	defaultTranscribeProvider = "openai"
	defaultAudioMimeType      = "audio/mpeg"
)

var transcribeExts = []string{"mp3", "wav"}

// Transcribe sends a local mp3 or wav file to {textBase}/{provider} and
// returns the transcription. A missing file or an unsupported extension
// fails before any request is made; the latter wraps
// polli.ErrUnsupportedFormat.
func (c *Client) Transcribe(ctx context.Context, path string, opts ...polli.Option) (*polli.Response, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !slices.Contains(transcribeExts, ext) {
		return nil, polli.NewUserInputError("transcribe", fmt.Errorf("%w: %q", polli.ErrUnsupportedFormat, ext))
	}
	data, err := encodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	o := c.options(opts)
	question := o.Question
	if question == "" {
		question = defaultTranscribeQuestion
	}
	provider := o.Provider
	if provider == "" {
		provider = defaultTranscribeProvider
	}

	body := map[string]any{
		"model": modelOr(o.Model, model.DefaultAudio),
		"messages": []polli.Message{{
			Role: polli.RoleUser,
			Parts: []polli.ContentPart{
				polli.NewTextPart(question),
				polli.NewInputAudioPart(data, ext),
			},
		}},
	}
	if o.Language != "" {
		body["language"] = o.Language
	}
	if o.Temperature != nil {
		body["temperature"] = *o.Temperature
	}

	return c.doChat(ctx, &request{
		op:      "transcribe",
		method:  http.MethodPost,
		url:     c.cfg.TextPromptBase + "/" + escapePath(provider),
		body:    body,
		auth:    c.cfg.Auth.override(o.Referrer, o.Token),
		timeout: timeoutOr(o.Timeout, defaultAudioTimeout),
	})
}

func (c *Client) ttsRequest(text string, o *polli.Options) (*request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, polli.NewUserInputError("tts", polli.ErrEmptyPrompt)
	}
	q := url.Values{}
	q.Set("model", modelOr(o.Model, model.DefaultAudio))
	if o.Voice != "" {
		q.Set("voice", o.Voice)
	}
	if o.Format != "" {
		q.Set("format", o.Format)
	}
	if o.Language != "" {
		q.Set("language", o.Language)
	}
	return &request{
		op:      "tts",
		method:  http.MethodGet,
		url:     c.cfg.TextPromptBase + "/" + escapePath(text),
		query:   q,
		auth:    c.cfg.Auth.override(o.Referrer, o.Token),
		timeout: timeoutOr(o.Timeout, defaultAudioTimeout),
	}, nil
}

// TTS synthesizes speech for text.
func (c *Client) TTS(ctx context.Context, text string, opts ...polli.Option) (*polli.Audio, error) {
	r, err := c.ttsRequest(text, c.options(opts))
	if err != nil {
		return nil, err
	}
	data, header, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	return &polli.Audio{
		Data:     data,
		MimeType: polli.MediaType(header.Get("Content-Type"), defaultAudioMimeType),
	}, nil
}

// TTSURL returns the speech URL for text without fetching it. The referrer
// and token, if any, are embedded in the query.
func (c *Client) TTSURL(text string, opts ...polli.Option) (string, error) {
	r, err := c.ttsRequest(text, c.options(opts))
	if err != nil {
		return "", err
	}
	r.auth.signURL(r.query)
	return r.url + "?" + r.query.Encode(), nil
}
