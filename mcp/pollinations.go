package mcp

import (
	"context"
	"fmt"

	"github.com/spetersoncode/polli"
	"github.com/spetersoncode/polli/model"
	"github.com/spetersoncode/polli/tool"
)

// Client is the subset of *client.Client the Pollinations tools use.
type Client interface {
	ImageURL(prompt string, opts ...polli.ImageOption) (string, error)
	GenerateImage(ctx context.Context, prompt string, opts ...polli.ImageOption) (*polli.Image, error)
	TTS(ctx context.Context, text string, opts ...polli.Option) (*polli.Audio, error)
	ListModels(ctx context.Context, kind model.Kind) ([]model.Model, error)
	AudioModels(ctx context.Context) ([]model.Model, error)
	Voices(ctx context.Context) ([]string, error)
}

// ImageArgs are the parameters of generateImageUrl and generateImage.
type ImageArgs struct {
	Prompt  string `json:"prompt" jsonschema:"description=Text description of the image"`
	Model   string `json:"model,omitempty" jsonschema:"description=Image model; defaults to flux"`
	Seed    *int   `json:"seed,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	NoLogo  *bool  `json:"nologo,omitempty"`
	Private *bool  `json:"private,omitempty"`
}

func (a ImageArgs) options() []polli.ImageOption {
	opts := []polli.ImageOption{polli.WithImageSize(a.Width, a.Height)}
	if a.Model != "" {
		opts = append(opts, polli.WithImageModel(a.Model))
	}
	if a.Seed != nil {
		opts = append(opts, polli.WithImageSeed(*a.Seed))
	}
	if a.NoLogo != nil {
		opts = append(opts, polli.WithNoLogo(*a.NoLogo))
	}
	if a.Private != nil {
		opts = append(opts, polli.WithImagePrivate(*a.Private))
	}
	return opts
}

// SpeechArgs are the parameters of respondAudio and sayText.
type SpeechArgs struct {
	Text  string `json:"text" jsonschema:"description=Text to speak"`
	Voice string `json:"voice,omitempty" jsonschema:"description=Voice name such as alloy or nova"`
	Model string `json:"model,omitempty"`
}

// ListModelsArgs are the parameters of listModels.
type ListModelsArgs struct {
	Kind string `json:"kind,omitempty" jsonschema:"enum=image,enum=text,enum=audio"`
}

type noArgs struct{}

// ImageResult is returned by generateImage.
type ImageResult struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
	Seed     int    `json:"seed"`
}

// AudioResult is returned by respondAudio and sayText.
type AudioResult struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
	DataURL  string `json:"dataUrl"`
}

// PollinationsTools returns a registry with the Pollinations MCP tools:
// generateImageUrl, generateImage, respondAudio, sayText, listImageModels,
// listTextModels, listAudioVoices and listModels.
func PollinationsTools(c Client) *tool.Registry {
	speak := func(ctx context.Context, args SpeechArgs) (any, error) {
		var opts []polli.Option
		if args.Voice != "" {
			opts = append(opts, polli.WithVoice(args.Voice))
		}
		if args.Model != "" {
			opts = append(opts, polli.WithModel(args.Model))
		}
		audio, err := c.TTS(ctx, args.Text, opts...)
		if err != nil {
			return nil, err
		}
		return AudioResult{Base64: audio.Base64(), MimeType: audio.MimeType, DataURL: audio.DataURL()}, nil
	}

	return tool.NewRegistry().Add(
		tool.Func("generateImageUrl", "Generate an image and return its URL",
			func(ctx context.Context, args ImageArgs) (any, error) {
				return c.ImageURL(args.Prompt, args.options()...)
			}),
		tool.Func("generateImage", "Generate an image and return base64",
			func(ctx context.Context, args ImageArgs) (any, error) {
				img, err := c.GenerateImage(ctx, args.Prompt, args.options()...)
				if err != nil {
					return nil, err
				}
				return ImageResult{Base64: img.Base64(), MimeType: img.ContentType, Seed: img.Seed}, nil
			}),
		tool.Func("respondAudio", "Generate text-to-speech audio and return base64", speak),
		tool.Func("sayText", "Alias for respondAudio", speak),
		tool.Func("listImageModels", "List available image models",
			func(ctx context.Context, _ noArgs) (any, error) {
				return c.ListModels(ctx, model.KindImage)
			}),
		tool.Func("listTextModels", "List text & multimodal models",
			func(ctx context.Context, _ noArgs) (any, error) {
				return c.ListModels(ctx, model.KindText)
			}),
		tool.Func("listAudioVoices", "List available voices",
			func(ctx context.Context, _ noArgs) (any, error) {
				voices, err := c.Voices(ctx)
				if voices == nil && err == nil {
					voices = []string{}
				}
				return voices, err
			}),
		tool.Func("listModels", "List models by kind",
			func(ctx context.Context, args ListModelsArgs) (any, error) {
				return listModels(ctx, c, args.Kind)
			}),
	)
}

func listModels(ctx context.Context, c Client, kind string) (any, error) {
	switch kind {
	case "image":
		return c.ListModels(ctx, model.KindImage)
	case "text":
		return c.ListModels(ctx, model.KindText)
	case "audio":
		return c.AudioModels(ctx)
	case "":
		images, err := c.ListModels(ctx, model.KindImage)
		if err != nil {
			return nil, err
		}
		texts, err := c.ListModels(ctx, model.KindText)
		if err != nil {
			return nil, err
		}
		return map[string][]model.Model{
			"image": images,
			"text":  texts,
			"audio": model.AudioModels(texts),
		}, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", kind)
	}
}
