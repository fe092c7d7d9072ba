package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/polli"
)

var textCmd = &cobra.Command{
	Use:   "text <prompt>",
	Short: "Generate text from a single prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runText,
}

func init() {
	addTextFlags(textCmd)
	textCmd.Flags().Bool("json", false, "Ask for a JSON reply and pretty-print it")
	rootCmd.AddCommand(textCmd)
}

// addTextFlags registers the flags shared by the text-model commands.
func addTextFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("model", "", "Text model (default openai)")
	f.Int("seed", -1, "Seed (random when negative)")
	f.String("system", "", "System prompt")
	f.Duration("request-timeout", 0, "Per-request timeout (0 uses the operation default)")
}

func textOptions(cmd *cobra.Command) []polli.Option {
	f := cmd.Flags()
	var opts []polli.Option
	if m, _ := f.GetString("model"); m != "" {
		opts = append(opts, polli.WithModel(m))
	}
	if seed, _ := f.GetInt("seed"); seed >= 0 {
		opts = append(opts, polli.WithSeed(seed))
	}
	if s, _ := f.GetString("system"); s != "" {
		opts = append(opts, polli.WithSystem(s))
	}
	if d, _ := f.GetDuration("request-timeout"); d > 0 {
		opts = append(opts, polli.WithTimeout(d))
	}
	return opts
}

func runText(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	opts := textOptions(cmd)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		opts = append(opts, polli.WithJSON())
	}
	res, err := c.GenerateText(cmd.Context(), strings.Join(args, " "), opts...)
	if err != nil {
		return err
	}
	if res.JSON != nil {
		return printJSON(cmd.OutOrStdout(), res.JSON)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return nil
}
