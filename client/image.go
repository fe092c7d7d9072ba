package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/model"
)

const (
	defaultImageSize    = 512
	defaultImageTimeout = 300 * time.Second
	defaultFetchTimeout = 120 * time.Second
	defaultImagesDir    = "images"
	defaultImageExt     = "jpeg"
	timestampLayout     = "20060102_150405"
)

// imageRequest validates a prompt and options and builds the GET request.
func (c *Client) imageRequest(prompt string, o *polli.ImageOptions) (*request, int, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, 0, polli.NewUserInputError("image", polli.ErrEmptyPrompt)
	}
	width, height := o.Width, o.Height
	if width == 0 {
		width = defaultImageSize
	}
	if height == 0 {
		height = defaultImageSize
	}
	if width < 0 || height < 0 {
		return nil, 0, polli.NewUserInputError("image", polli.ErrInvalidSize)
	}

	seed := seedOr(o.Seed)
	nologo := true
	if o.NoLogo != nil {
		nologo = *o.NoLogo
	}
	q := url.Values{}
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	q.Set("seed", strconv.Itoa(seed))
	q.Set("model", modelOr(o.Model, model.DefaultImage))
	q.Set("nologo", strconv.FormatBool(nologo))
	q.Set("safe", "false")
	if o.Image != "" {
		q.Set("image", o.Image)
	}
	if o.Enhance {
		q.Set("enhance", "true")
	}
	if o.Private != nil {
		q.Set("private", strconv.FormatBool(*o.Private))
	}

	return &request{
		op:      "image",
		method:  http.MethodGet,
		url:     c.cfg.ImagePromptBase + "/" + escapePath(prompt),
		query:   q,
		auth:    c.cfg.Auth.override(o.Referrer, o.Token),
		timeout: timeoutOr(o.Timeout, defaultImageTimeout),
	}, seed, nil
}

// ImageURL returns the generation URL for prompt without fetching it. The
// referrer and token, if any, are embedded in the query.
func (c *Client) ImageURL(prompt string, opts ...polli.ImageOption) (string, error) {
	r, _, err := c.imageRequest(prompt, c.imageOptions(opts))
	if err != nil {
		return "", err
	}
	q := r.query
	r.auth.signURL(q)
	return r.url + "?" + q.Encode(), nil
}

// GenerateImage generates an image and returns its bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string, opts ...polli.ImageOption) (*polli.Image, error) {
	r, seed, err := c.imageRequest(prompt, c.imageOptions(opts))
	if err != nil {
		return nil, err
	}
	data, header, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	return &polli.Image{
		Data:        data,
		ContentType: polli.MediaType(header.Get("Content-Type"), "image/jpeg"),
		Seed:        seed,
		URL:         r.url + "?" + r.query.Encode(),
	}, nil
}

// GenerateImageToFile generates an image and streams it to path.
func (c *Client) GenerateImageToFile(ctx context.Context, prompt, path string, opts ...polli.ImageOption) (string, error) {
	r, _, err := c.imageRequest(prompt, c.imageOptions(opts))
	if err != nil {
		return "", err
	}
	return c.download(ctx, r, path)
}

// SaveImageTimestamped generates an image and writes it to
// <dir>/<prefix><UTC YYYYMMDD_HHMMSS><suffix>.<ext>, creating dir if needed.
// It returns the written path. A random seed is always used.
func (c *Client) SaveImageTimestamped(ctx context.Context, prompt string, opts ...polli.ImageOption) (string, error) {
	o := c.imageOptions(opts)
	o.Seed = nil
	r, _, err := c.imageRequest(prompt, o)
	if err != nil {
		return "", err
	}

	dir := o.Dir
	if dir == "" {
		dir = defaultImagesDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("image: create dir: %w", err)
	}
	ext := strings.TrimLeft(o.Ext, ".")
	if ext == "" {
		ext = defaultImageExt
	}
	name := o.Prefix + c.clock.Now().UTC().Format(timestampLayout) + o.Suffix + "." + ext
	return c.download(ctx, r, filepath.Join(dir, name))
}

func (c *Client) fetchRequest(imageURL string, o *polli.ImageOptions) (*request, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, polli.NewUserInputError("image_fetch", errors.New("image url must be non-empty"))
	}
	return &request{
		op:      "image_fetch",
		method:  http.MethodGet,
		url:     imageURL,
		auth:    c.cfg.Auth.override(o.Referrer, o.Token),
		timeout: timeoutOr(o.Timeout, defaultFetchTimeout),
	}, nil
}

// FetchImage downloads an existing image URL through the gate.
func (c *Client) FetchImage(ctx context.Context, imageURL string, opts ...polli.ImageOption) (*polli.Image, error) {
	r, err := c.fetchRequest(imageURL, c.imageOptions(opts))
	if err != nil {
		return nil, err
	}
	data, header, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	return &polli.Image{
		Data:        data,
		ContentType: polli.MediaType(header.Get("Content-Type"), "image/jpeg"),
		URL:         imageURL,
	}, nil
}

// FetchImageToFile downloads an existing image URL to path.
func (c *Client) FetchImageToFile(ctx context.Context, imageURL, path string, opts ...polli.ImageOption) (string, error) {
	r, err := c.fetchRequest(imageURL, c.imageOptions(opts))
	if err != nil {
		return "", err
	}
	return c.download(ctx, r, path)
}

// download streams a gated response body to path. A partial file is
// removed on failure.
func (c *Client) download(ctx context.Context, r *request, path string) (string, error) {
	resp, err := c.open(ctx, r)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%s: create file: %w", r.op, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%s: write file: %w", r.op, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%s: close file: %w", r.op, err)
	}
	return path, nil
}
