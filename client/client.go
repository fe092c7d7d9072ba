package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/clock"
	"github.com/spetersoncode/polli/gate"
	"github.com/spetersoncode/polli/internal/openaicompat"
	"github.com/spetersoncode/polli/model"
)

// Default endpoints.
const (
	DefaultImagePromptBase = "https://image.pollinations.ai/prompt"
	DefaultTextPromptBase  = "https://text.pollinations.ai"
	DefaultImageModelsURL  = "https://image.pollinations.ai/models"
	DefaultTextModelsURL   = "https://text.pollinations.ai/models"
	DefaultImageFeedURL    = "https://image.pollinations.ai/feed"
	DefaultTextFeedURL     = "https://text.pollinations.ai/feed"
)

// Config holds configuration for creating a client.
type Config struct {
	ImagePromptBase string
	TextPromptBase  string
	ImageModelsURL  string
	TextModelsURL   string
	ImageFeedURL    string
	TextFeedURL     string

	// Timeout applies to requests without an operation-specific default,
	// such as model list fetches.
	Timeout time.Duration

	// MinInterval is the minimum time between a successful request and the
	// start of the next one.
	MinInterval time.Duration

	// Retry configures backoff for 429/502/503/504 responses.
	Retry gate.Policy

	// Auth supplies the referrer and token sent with every request.
	Auth Auth

	// HTTPClient performs requests. Defaults to a client without a global
	// timeout; per-request timeouts are applied by each operation.
	HTTPClient *http.Client

	// Clock drives pacing, backoff and feed reconnect waits.
	Clock clock.Clock

	// Logger receives debug diagnostics. Defaults to discarding.
	Logger *slog.Logger

	// Events is an optional channel for receiving client operation events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event
}

// DefaultConfig returns the public endpoints with a 3s pacing interval and
// the default retry policy.
func DefaultConfig() Config {
	return Config{
		ImagePromptBase: DefaultImagePromptBase,
		TextPromptBase:  DefaultTextPromptBase,
		ImageModelsURL:  DefaultImageModelsURL,
		TextModelsURL:   DefaultTextModelsURL,
		ImageFeedURL:    DefaultImageFeedURL,
		TextFeedURL:     DefaultTextFeedURL,
		Timeout:         10 * time.Second,
		MinInterval:     3 * time.Second,
		Retry:           gate.DefaultPolicy(),
	}
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultChatOptions sets default options for text, chat, vision and
// audio requests. Per-request options override these defaults.
func WithDefaultChatOptions(opts ...polli.Option) ClientOption {
	return func(c *Client) {
		c.defaultOpts = append(c.defaultOpts, opts...)
	}
}

// WithDefaultImageOptions sets default options for image requests.
// Per-request options override these defaults.
func WithDefaultImageOptions(opts ...polli.ImageOption) ClientOption {
	return func(c *Client) {
		c.defaultImageOpts = append(c.defaultImageOpts, opts...)
	}
}

// Client is the entry point to every Pollinations capability. All requests
// of one Client share a single gate, so they are serialized and paced
// together. A Client is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	gate    *gate.Gate
	catalog *model.Catalog
	clock   clock.Clock
	logger  *slog.Logger
	events  chan<- Event

	defaultOpts      []polli.Option
	defaultImageOpts []polli.ImageOption

	openaiOnce sync.Once
	openai     *openaicompat.Client
}

// New creates a client. It fails if the retry policy is inconsistent.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Retry.Validate(); err != nil {
		return nil, err
	}
	def := DefaultConfig()
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&cfg.ImagePromptBase, def.ImagePromptBase)
	fill(&cfg.TextPromptBase, def.TextPromptBase)
	fill(&cfg.ImageModelsURL, def.ImageModelsURL)
	fill(&cfg.TextModelsURL, def.TextModelsURL)
	fill(&cfg.ImageFeedURL, def.ImageFeedURL)
	fill(&cfg.TextFeedURL, def.TextFeedURL)
	cfg.ImagePromptBase = strings.TrimRight(cfg.ImagePromptBase, "/")
	cfg.TextPromptBase = strings.TrimRight(cfg.TextPromptBase, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Auth.Placement == "" {
		cfg.Auth.Placement = PlacementHeader
	}

	c := &Client{
		cfg:    cfg,
		http:   cfg.HTTPClient,
		clock:  cfg.Clock,
		logger: cfg.Logger,
		events: cfg.Events,
	}

	gateOpts := []gate.Option{gate.WithClock(cfg.Clock), gate.WithLogger(cfg.Logger)}
	if c.events != nil {
		gateOpts = append(gateOpts, gate.WithObserver(func(ge gate.Event) {
			c.emit(Event{Type: EventGate, Operation: ge.Operation, GateEvent: &ge})
		}))
	}
	c.gate = gate.New(cfg.MinInterval, cfg.Retry, gateOpts...)
	c.catalog = model.NewCatalog(c.fetchModels)

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close is a no-op; the client holds no background goroutines.
func (c *Client) Close() error {
	return nil
}

// Gate returns the client's request gate.
func (c *Client) Gate() *gate.Gate {
	return c.gate
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// request describes one logical HTTP call. It is rebuilt for every attempt.
type request struct {
	op      string
	method  string
	url     string
	query   url.Values
	body    map[string]any
	accept  string
	auth    Auth
	timeout time.Duration
}

func (r *request) build(ctx context.Context) (*http.Request, error) {
	u, err := url.Parse(r.url)
	if err != nil {
		return nil, fmt.Errorf("%s: parse url: %w", r.op, err)
	}
	q := u.Query()
	for k, vs := range r.query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	var body io.Reader
	if r.method == http.MethodPost {
		payload := make(map[string]any, len(r.body)+2)
		for k, v := range r.body {
			payload[k] = v
		}
		r.auth.applyBody(payload)
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode payload: %w", r.op, err)
		}
		body = bytes.NewReader(data)
	} else {
		r.auth.applyQuery(q)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.accept != "" {
		req.Header.Set("Accept", r.accept)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	r.auth.applyHeader(req.Header)
	return req, nil
}

// cancelOnClose ties a per-attempt timeout to the response body lifetime.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// open sends r through the gate and returns the live 2xx response.
func (c *Client) open(ctx context.Context, r *request) (*http.Response, error) {
	start := c.clock.Now()
	c.emit(Event{Type: EventRequestStart, Operation: r.op})

	resp, err := c.gate.Do(ctx, r.op, func(ctx context.Context) (*http.Response, error) {
		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if r.timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		req, err := r.build(attemptCtx)
		if err != nil {
			cancel()
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			cancel()
			return nil, err
		}
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	})
	if err != nil {
		c.emit(Event{Type: EventRequestError, Operation: r.op, Duration: c.clock.Now().Sub(start), Error: err})
		return nil, err
	}
	c.emit(Event{Type: EventRequestComplete, Operation: r.op, Duration: c.clock.Now().Sub(start), StatusCode: resp.StatusCode})
	return resp, nil
}

// do sends r and reads the whole body.
func (c *Client) do(ctx context.Context, r *request) ([]byte, http.Header, error) {
	resp, err := c.open(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: read body: %w", r.op, err)
	}
	return data, resp.Header, nil
}

// doChat sends r and decodes an OpenAI-style chat completion.
func (c *Client) doChat(ctx context.Context, r *request) (*polli.Response, error) {
	data, _, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	resp, err := polli.ParseResponse(data)
	if err != nil {
		return nil, polli.NewPermanentError(r.op+": decode response", http.StatusOK, err)
	}
	return resp, nil
}

// options merges client defaults with per-request options.
func (c *Client) options(opts []polli.Option) *polli.Options {
	return polli.ApplyOptions(append(append([]polli.Option{}, c.defaultOpts...), opts...)...)
}

func (c *Client) imageOptions(opts []polli.ImageOption) *polli.ImageOptions {
	return polli.ApplyImageOptions(append(append([]polli.ImageOption{}, c.defaultImageOpts...), opts...)...)
}

func timeoutOr(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}

func modelOr(name, def string) string {
	if name != "" {
		return name
	}
	return def
}

func seedOr(seed *int) int {
	if seed != nil {
		return *seed
	}
	return polli.RandomSeed()
}

// escapePath escapes s as a single path segment, encoding spaces as %20.
func escapePath(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
