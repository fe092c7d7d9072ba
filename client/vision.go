package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/model"
)

const (
	defaultVisionQuestion  = "What's in this image?"
	defaultVisionMaxTokens = 500
)

var visionExts = []string{"jpeg", "jpg", "png", "gif", "webp"}

// AnalyzeImageURL asks a vision model about the image at imageURL, which
// may also be a data: URL.
func (c *Client) AnalyzeImageURL(ctx context.Context, imageURL string, opts ...polli.Option) (*polli.Response, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, polli.NewUserInputError("vision", errors.New("image url must be non-empty"))
	}
	return c.analyze(ctx, imageURL, c.options(opts))
}

// AnalyzeImageFile is AnalyzeImageURL for a local file, sent inline as a
// data URL. Unknown extensions are sent as image/jpeg. A missing file
// fails before any request is made.
func (c *Client) AnalyzeImageFile(ctx context.Context, path string, opts ...polli.Option) (*polli.Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vision: %w", err)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !slices.Contains(visionExts, ext) {
		ext = "jpeg"
	}
	return c.analyze(ctx, polli.DataURL("image/"+ext, data), c.options(opts))
}

func (c *Client) analyze(ctx context.Context, imageURL string, o *polli.Options) (*polli.Response, error) {
	question := o.Question
	if question == "" {
		question = defaultVisionQuestion
	}
	maxTokens := defaultVisionMaxTokens
	if o.MaxTokens != nil {
		maxTokens = *o.MaxTokens
	}
	name := modelOr(o.Model, model.DefaultText)

	body := map[string]any{
		"model": name,
		"messages": []polli.Message{{
			Role: polli.RoleUser,
			Parts: []polli.ContentPart{
				polli.NewTextPart(question),
				polli.NewImageURLPart(imageURL),
			},
		}},
		"max_tokens": maxTokens,
	}
	if o.Temperature != nil {
		body["temperature"] = *o.Temperature
	}

	return c.doChat(ctx, &request{
		op:      "vision",
		method:  http.MethodPost,
		url:     c.cfg.TextPromptBase + "/" + escapePath(name),
		body:    body,
		auth:    c.cfg.Auth.override(o.Referrer, o.Token),
		timeout: timeoutOr(o.Timeout, defaultTextTimeout),
	})
}

// encodeFile reads path as standard base64.
func encodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
