// Package client is the Pollinations API client.
//
// A Client owns one request gate. Every call it makes, including model list
// fetches, stream connects and OpenAI-compatible requests, is serialized
// through that gate: the next request starts no sooner than MinInterval
// after the last success, and 429/502/503/504 responses are retried with a
// linear backoff.
//
// # Basic Usage
//
//	c, err := client.New(client.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	img, err := c.GenerateImage(ctx, "a lighthouse at dusk",
//	    polli.WithImageSize(1024, 768))
//
//	text, err := c.GenerateText(ctx, "Name three primes", polli.WithJSON())
//
// # Authentication
//
// Referrer and token are optional and passed through unvalidated. The
// token goes in an Authorization header by default; set Auth.Placement to
// send it as a query parameter or a body field instead:
//
//	cfg := client.DefaultConfig()
//	cfg.Auth = client.Auth{Referrer: "my-app", Token: os.Getenv("POLLINATIONS_TOKEN")}
//
// # Tools
//
// ChatWithTools runs a bounded tool-calling loop against a tool.Registry:
//
//	reg := tool.NewRegistry().Add(
//	    tool.Func("get_weather", "Current weather", getWeather),
//	)
//	resp, err := c.ChatWithTools(ctx, messages, reg.Tools(), reg,
//	    polli.WithMaxRounds(2))
//
// # Feeds
//
// Feeds are range-over-func sequences:
//
//	for ev, err := range c.ImageFeed(ctx, polli.WithLimit(10), polli.WithImageDataURL()) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(ev.Text("prompt"))
//	}
//
// # Events
//
// Set Config.Events to observe requests, gate waits and retries, and feed
// reconnects. Sends never block; a full channel drops events.
package client
