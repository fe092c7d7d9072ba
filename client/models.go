package client

import (
	"context"
	"net/http"

	"github.com/spetersoncode/polli/model"
)

// fetchModels retrieves the raw list for kind through the gate.
func (c *Client) fetchModels(ctx context.Context, kind model.Kind) ([]byte, error) {
	endpoint := c.cfg.TextModelsURL
	if kind == model.KindImage {
		endpoint = c.cfg.ImageModelsURL
	}
	data, _, err := c.do(ctx, &request{
		op:      "models",
		method:  http.MethodGet,
		url:     endpoint,
		auth:    c.cfg.Auth,
		timeout: c.cfg.Timeout,
	})
	return data, err
}

// ListModels returns the normalized model list for kind. Lists are fetched
// once and cached until RefreshModels.
func (c *Client) ListModels(ctx context.Context, kind model.Kind) ([]model.Model, error) {
	return c.catalog.List(ctx, kind)
}

// RefreshModels drops the cached model lists.
func (c *Client) RefreshModels() {
	c.catalog.Refresh()
}

// GetModelByName looks a model up by name or alias across the text and
// image lists.
func (c *Client) GetModelByName(ctx context.Context, name string, opts ...model.FindOption) (model.Model, error) {
	return c.catalog.Find(ctx, name, opts...)
}

// AudioModels returns the text models that produce or accept audio.
func (c *Client) AudioModels(ctx context.Context) ([]model.Model, error) {
	models, err := c.catalog.List(ctx, model.KindText)
	if err != nil {
		return nil, err
	}
	return model.AudioModels(models), nil
}

// Voices returns the distinct voices offered by the text models.
func (c *Client) Voices(ctx context.Context) ([]string, error) {
	models, err := c.catalog.List(ctx, model.KindText)
	if err != nil {
		return nil, err
	}
	return model.Voices(models), nil
}
