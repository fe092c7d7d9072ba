package client

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"sync/atomic"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/gate"
	"github.com/spetersoncode/polli/sse"
)

// ImageFeed streams the public image feed. With WithImageBytes or
// WithImageDataURL each event's image is downloaded and attached; an event
// whose image cannot be fetched is dropped. With WithReconnect the sequence
// never yields errors and runs until ctx is done or the caller stops.
func (c *Client) ImageFeed(ctx context.Context, opts ...polli.FeedOption) iter.Seq2[polli.FeedEvent, error] {
	o := polli.ApplyFeedOptions(opts...)
	return feed(ctx, c, c.feedConnect("image_feed", c.cfg.ImageFeedURL, o), c.imageFeedParser(ctx, o), o)
}

// ImageFeedRaw streams the public image feed as raw data: payloads.
func (c *Client) ImageFeedRaw(ctx context.Context, opts ...polli.FeedOption) iter.Seq2[string, error] {
	o := polli.ApplyFeedOptions(opts...)
	return feed(ctx, c, c.feedConnect("image_feed", c.cfg.ImageFeedURL, o), sse.Data, o)
}

// TextFeed streams the public text feed.
func (c *Client) TextFeed(ctx context.Context, opts ...polli.FeedOption) iter.Seq2[polli.FeedEvent, error] {
	o := polli.ApplyFeedOptions(opts...)
	return feed(ctx, c, c.feedConnect("text_feed", c.cfg.TextFeedURL, o), feedEvents, o)
}

// TextFeedRaw streams the public text feed as raw data: payloads.
func (c *Client) TextFeedRaw(ctx context.Context, opts ...polli.FeedOption) iter.Seq2[string, error] {
	o := polli.ApplyFeedOptions(opts...)
	return feed(ctx, c, c.feedConnect("text_feed", c.cfg.TextFeedURL, o), sse.Data, o)
}

// feedConnect opens the feed through the gate. Connections after the first
// are reported as EventFeedReconnect.
func (c *Client) feedConnect(op, feedURL string, o *polli.FeedOptions) sse.ConnectFunc {
	r := &request{
		op:     op,
		method: http.MethodGet,
		url:    feedURL,
		accept: "text/event-stream",
		auth:   c.cfg.Auth.override(o.Referrer, o.Token),
	}
	var connections atomic.Int64
	connect := c.streamConnect(r)
	return func(ctx context.Context) (io.ReadCloser, error) {
		if connections.Add(1) > 1 {
			c.emit(Event{Type: EventFeedReconnect, Operation: op})
		}
		return connect(ctx)
	}
}

// feed applies the reconnect and limit options to a parsed stream.
func feed[T any](ctx context.Context, c *Client, connect sse.ConnectFunc, parse sse.ParseFunc[T], o *polli.FeedOptions) iter.Seq2[T, error] {
	seq := sse.Once(ctx, connect, parse)
	if o.Reconnect {
		values := sse.Reconnect(ctx, connect, parse, o.RetryDelay, sse.WithClock(c.clock), sse.WithLogger(c.logger))
		seq = func(yield func(T, error) bool) {
			for v := range values {
				if !yield(v, nil) {
					return
				}
			}
		}
	}
	if o.Limit <= 0 {
		return seq
	}
	return func(yield func(T, error) bool) {
		n := 0
		for v, err := range seq {
			if !yield(v, err) {
				return
			}
			if err == nil {
				n++
				if n >= o.Limit {
					return
				}
			}
		}
	}
}

// feedEvents decodes feed payloads, skipping "data: null" records.
func feedEvents(r io.Reader) iter.Seq2[polli.FeedEvent, error] {
	return func(yield func(polli.FeedEvent, error) bool) {
		for ev, err := range sse.Decode[polli.FeedEvent](r) {
			if err == nil && ev == nil {
				continue
			}
			if !yield(ev, err) {
				return
			}
		}
	}
}

func (c *Client) imageFeedParser(ctx context.Context, o *polli.FeedOptions) sse.ParseFunc[polli.FeedEvent] {
	enrich := o.IncludeBytes || o.IncludeDataURL
	return func(r io.Reader) iter.Seq2[polli.FeedEvent, error] {
		return func(yield func(polli.FeedEvent, error) bool) {
			for ev, err := range feedEvents(r) {
				if err != nil {
					yield(nil, err)
					return
				}
				if enrich {
					if err := c.enrichFeedEvent(ctx, ev, o); err != nil {
						c.logger.Debug("dropping feed event", "error", err)
						c.emit(Event{Type: EventFeedDropped, Operation: "image_feed", Error: err})
						continue
					}
				}
				if !yield(ev, nil) {
					return
				}
			}
		}
	}
}

// enrichFeedEvent downloads the event's image and attaches it. Downloads
// bypass the gate so a busy feed does not starve other requests.
func (c *Client) enrichFeedEvent(ctx context.Context, ev polli.FeedEvent, o *polli.FeedOptions) error {
	imageURL := ev.ImageURL()
	if imageURL == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("feed image: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("feed image: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gate.NewHTTPError("feed_image", resp)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("feed image: %w", err)
	}

	if o.IncludeDataURL {
		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}
		ev[polli.FeedKeyImageDataURL] = polli.DataURL(contentType, data)
	} else {
		ev[polli.FeedKeyImageBytes] = data
	}
	return nil
}
