package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/polli"
)

var imageCmd = &cobra.Command{
	Use:   "image <prompt>",
	Short: "Generate an image",
	Long: `Generate an image from a text prompt.

By default the image is saved under --dir with a timestamped name. Use
--out to choose the file, --out - to write the bytes to stdout, or --url
to print the generation URL without downloading.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImage,
}

func init() {
	f := imageCmd.Flags()
	f.String("model", "", "Image model (default flux)")
	f.Int("width", 0, "Width in pixels")
	f.Int("height", 0, "Height in pixels")
	f.Int("seed", -1, "Seed (random when negative)")
	f.Bool("nologo", true, "Remove the logo")
	f.Bool("private", true, "Keep the image out of the public feed")
	f.Bool("enhance", false, "Let the server rewrite the prompt")
	f.String("ref", "", "Reference image URL for image-to-image models")
	f.String("out", "", "Output file, or - for stdout")
	f.String("dir", "images", "Directory for timestamped files")
	f.String("prefix", "", "Timestamped file name prefix")
	f.String("suffix", "", "Timestamped file name suffix")
	f.Bool("url", false, "Print the generation URL instead of downloading")
	f.String("fetch", "", "Download an existing image URL instead of generating")
	rootCmd.AddCommand(imageCmd)
}

func imageOptions(cmd *cobra.Command) []polli.ImageOption {
	f := cmd.Flags()
	width, _ := f.GetInt("width")
	height, _ := f.GetInt("height")
	nologo, _ := f.GetBool("nologo")
	private, _ := f.GetBool("private")
	dir, _ := f.GetString("dir")
	prefix, _ := f.GetString("prefix")
	suffix, _ := f.GetString("suffix")

	opts := []polli.ImageOption{
		polli.WithImageSize(width, height),
		polli.WithNoLogo(nologo),
		polli.WithImagePrivate(private),
		polli.WithImagesDir(dir),
		polli.WithFilename(prefix, suffix),
	}
	if m, _ := f.GetString("model"); m != "" {
		opts = append(opts, polli.WithImageModel(m))
	}
	if seed, _ := f.GetInt("seed"); seed >= 0 {
		opts = append(opts, polli.WithImageSeed(seed))
	}
	if enhance, _ := f.GetBool("enhance"); enhance {
		opts = append(opts, polli.WithEnhance())
	}
	if ref, _ := f.GetString("ref"); ref != "" {
		opts = append(opts, polli.WithReferenceImage(ref))
	}
	return opts
}

func runImage(cmd *cobra.Command, args []string) error {
	c, _, err := newClient()
	if err != nil {
		return err
	}
	defer c.Close()
	ctx := cmd.Context()
	prompt := strings.Join(args, " ")
	opts := imageOptions(cmd)
	out, _ := cmd.Flags().GetString("out")

	if src, _ := cmd.Flags().GetString("fetch"); src != "" {
		if out == "" || out == "-" {
			img, err := c.FetchImage(ctx, src, opts...)
			if err != nil {
				return err
			}
			return writeOutput(cmd, "-", img.Data)
		}
		path, err := c.FetchImageToFile(ctx, src, out, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}

	if urlOnly, _ := cmd.Flags().GetBool("url"); urlOnly {
		u, err := c.ImageURL(prompt, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	}

	var path string
	switch out {
	case "":
		path, err = c.SaveImageTimestamped(ctx, prompt, opts...)
	case "-":
		img, err := c.GenerateImage(ctx, prompt, opts...)
		if err != nil {
			return err
		}
		return writeOutput(cmd, "-", img.Data)
	default:
		path, err = c.GenerateImageToFile(ctx, prompt, out, opts...)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
