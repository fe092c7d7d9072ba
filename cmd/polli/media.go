package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/polli"
)

var visionCmd = &cobra.Command{
	Use:   "vision <image-url-or-file>",
	Short: "Describe an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runVision,
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe an mp3 or wav file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscribe,
}

var ttsCmd = &cobra.Command{
	Use:   "tts <text>",
	Short: "Synthesize speech",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTTS,
}

func init() {
	addTextFlags(visionCmd)
	visionCmd.Flags().String("question", "", "Question about the image")
	visionCmd.Flags().Int("max-tokens", 0, "Maximum tokens in the reply")

	addTextFlags(transcribeCmd)
	transcribeCmd.Flags().String("question", "", "Instruction sent with the audio")
	transcribeCmd.Flags().String("provider", "", "Transcription provider path segment")

	f := ttsCmd.Flags()
	f.String("model", "", "Audio model (default openai-audio)")
	f.String("voice", "", "Voice name")
	f.String("out", "speech.mp3", "Output file, or - for stdout")
	f.Bool("url", false, "Print the speech URL instead of downloading")

	rootCmd.AddCommand(visionCmd, transcribeCmd, ttsCmd)
}

func runVision(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	opts := textOptions(cmd)
	if q, _ := cmd.Flags().GetString("question"); q != "" {
		opts = append(opts, polli.WithQuestion(q))
	}
	if n, _ := cmd.Flags().GetInt("max-tokens"); n > 0 {
		opts = append(opts, polli.WithMaxTokens(n))
	}

	src := args[0]
	analyze := c.AnalyzeImageFile
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "data:") {
		analyze = c.AnalyzeImageURL
	}
	resp, err := analyze(cmd.Context(), src, opts...)
	if err != nil {
		return err
	}
	return printReply(cmd, resp)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	opts := textOptions(cmd)
	if q, _ := cmd.Flags().GetString("question"); q != "" {
		opts = append(opts, polli.WithQuestion(q))
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		opts = append(opts, polli.WithProvider(p))
	}
	resp, err := c.Transcribe(cmd.Context(), args[0], opts...)
	if err != nil {
		return err
	}
	return printReply(cmd, resp)
}

func runTTS(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()

	f := cmd.Flags()
	var opts []polli.Option
	if m, _ := f.GetString("model"); m != "" {
		opts = append(opts, polli.WithModel(m))
	}
	if v, _ := f.GetString("voice"); v != "" {
		opts = append(opts, polli.WithVoice(v))
	}
	text := strings.Join(args, " ")

	if urlOnly, _ := f.GetBool("url"); urlOnly {
		u, err := c.TTSURL(text, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	}

	audio, err := c.TTS(cmd.Context(), text, opts...)
	if err != nil {
		return err
	}
	out, _ := f.GetString("out")
	return writeOutput(cmd, out, audio.Data)
}
