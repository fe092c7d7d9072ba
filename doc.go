// Package polli holds the types shared by the Pollinations client packages.
//
// The API is reached through [github.com/spetersoncode/polli/client]; this
// package defines the values passed to and returned from it: chat
// [Message]s with multimodal [ContentPart]s, [Tool] specs and [ToolCall]s,
// [FeedEvent]s, result types, and the functional options each call accepts.
//
// # Basic Usage
//
//	c, err := client.New(client.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := c.Chat(ctx, []polli.Message{
//	    polli.NewSystemMessage("Answer in one word."),
//	    polli.NewUserMessage("What is the capital of France?"),
//	}, polli.WithModel("openai"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Streaming
//
// Streams are range-over-func sequences. Breaking out of the loop closes
// the underlying connection:
//
//	for delta, err := range c.ChatStream(ctx, messages) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Print(delta)
//	}
//
// # Images
//
//	img, err := c.GenerateImage(ctx, "a lighthouse at dusk",
//	    polli.WithImageSize(1024, 768),
//	    polli.WithImageSeed(12345),
//	)
//
// # Error Handling
//
// Validation failures are returned before any request is made and wrap one
// of the sentinel errors:
//
//	if errors.Is(err, polli.ErrEmptyPrompt) { ... }
//
// Non-2xx responses surface as [*HTTPError]. Errors carry a category:
//
//	if polli.IsTransient(err) {
//	    // rate limited or gateway failure after all retries
//	}
package polli
