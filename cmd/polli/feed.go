package main

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/polli"
)

var feedCmd = &cobra.Command{
	Use:   "feed image|text",
	Short: "Follow a public feed",
	Long: `Follow the public image or text feed, printing one JSON event per line.

The feed runs until interrupted, --limit events have been printed, or
the connection ends. --reconnect keeps it running across disconnects.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"image", "text"},
	RunE:      runFeed,
}

func init() {
	f := feedCmd.Flags()
	f.Int("limit", 0, "Stop after this many events (0 is unbounded)")
	f.Duration("reconnect", 0, "Reconnect after this delay when the stream ends (0 disables)")
	f.Bool("raw", false, "Print raw SSE payloads")
	f.Bool("data-url", false, "Attach each image as a data URL (image feed)")
	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	f := cmd.Flags()
	var opts []polli.FeedOption
	if n, _ := f.GetInt("limit"); n > 0 {
		opts = append(opts, polli.WithLimit(n))
	}
	if d, _ := f.GetDuration("reconnect"); d > 0 {
		opts = append(opts, polli.WithReconnect(d))
	}
	if dataURL, _ := f.GetBool("data-url"); dataURL {
		opts = append(opts, polli.WithImageDataURL())
	}
	raw, _ := f.GetBool("raw")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch args[0] {
	case "image":
		if raw {
			return printLines(out, c.ImageFeedRaw(ctx, opts...))
		}
		return printEvents(out, c.ImageFeed(ctx, opts...))
	case "text":
		if raw {
			return printLines(out, c.TextFeedRaw(ctx, opts...))
		}
		return printEvents(out, c.TextFeed(ctx, opts...))
	default:
		return fmt.Errorf("unknown feed %q (want image or text)", args[0])
	}
}

func printLines(w io.Writer, seq iter.Seq2[string, error]) error {
	for line, err := range seq {
		if err != nil {
			return err
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func printEvents(w io.Writer, seq iter.Seq2[polli.FeedEvent, error]) error {
	enc := json.NewEncoder(w)
	for ev, err := range seq {
		if err != nil {
			return err
		}
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	return nil
}
