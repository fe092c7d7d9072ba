package polli

import "time"

// FeedEvent is one parsed event from a public feed. Image feed events may
// carry the enrichment keys FeedKeyImageBytes or FeedKeyImageDataURL.
type FeedEvent map[string]any

// Enrichment keys added to image feed events.
const (
	FeedKeyImageBytes   = "image_bytes"
	FeedKeyImageDataURL = "image_data_url"
)

// ImageURL returns the event's image URL, accepting both spellings the
// feed has used.
func (e FeedEvent) ImageURL() string {
	for _, key := range []string{"imageURL", "image_url"} {
		if s, ok := e[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Text returns the string value at key, or "".
func (e FeedEvent) Text(key string) string {
	s, _ := e[key].(string)
	return s
}

// FeedOptions configures a feed subscription.
type FeedOptions struct {
	Reconnect      bool
	RetryDelay     time.Duration
	IncludeBytes   bool
	IncludeDataURL bool
	// Limit stops the sequence after that many events; 0 is unbounded.
	Limit    int
	Referrer string
	Token    string
}

// FeedOption is a functional option for configuring feeds.
type FeedOption func(*FeedOptions)

// WithReconnect keeps the feed alive across connection failures, waiting
// delay between attempts. A zero delay keeps the default.
func WithReconnect(delay time.Duration) FeedOption {
	return func(o *FeedOptions) {
		o.Reconnect = true
		if delay > 0 {
			o.RetryDelay = delay
		}
	}
}

// WithImageBytes attaches the fetched image bytes to each image event.
func WithImageBytes() FeedOption {
	return func(o *FeedOptions) {
		o.IncludeBytes = true
	}
}

// WithImageDataURL attaches a base64 data URL to each image event.
// It takes precedence over WithImageBytes.
func WithImageDataURL() FeedOption {
	return func(o *FeedOptions) {
		o.IncludeDataURL = true
	}
}

// WithLimit stops after n events.
func WithLimit(n int) FeedOption {
	return func(o *FeedOptions) {
		o.Limit = n
	}
}

// WithFeedAuth overrides the client's referrer and token for the feed.
func WithFeedAuth(referrer, token string) FeedOption {
	return func(o *FeedOptions) {
		o.Referrer = referrer
		o.Token = token
	}
}

// ApplyFeedOptions applies functional options with a 10s reconnect delay default.
func ApplyFeedOptions(opts ...FeedOption) *FeedOptions {
	o := &FeedOptions{RetryDelay: 10 * time.Second}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
