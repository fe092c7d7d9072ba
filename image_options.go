package polli

import "time"

// ImageOptions contains configuration for an image request.
type ImageOptions struct {
	Model    string
	Width    int
	Height   int
	Seed     *int
	NoLogo   *bool
	Private  *bool
	Enhance  bool
	Image    string // reference image URL for image-to-image
	Referrer string
	Token    string
	Timeout  time.Duration

	// Used by SaveImageTimestamped.
	Dir    string
	Prefix string
	Suffix string
	Ext    string
}

// ImageOption is a functional option for configuring image requests.
type ImageOption func(*ImageOptions)

// WithImageModel sets the model to use for image generation.
func WithImageModel(model string) ImageOption {
	return func(o *ImageOptions) {
		o.Model = model
	}
}

// WithImageSize sets the dimensions of the generated image.
func WithImageSize(width, height int) ImageOption {
	return func(o *ImageOptions) {
		o.Width = width
		o.Height = height
	}
}

// WithImageSeed fixes the generation seed.
func WithImageSeed(seed int) ImageOption {
	return func(o *ImageOptions) {
		o.Seed = &seed
	}
}

// WithNoLogo toggles the watermark.
func WithNoLogo(nologo bool) ImageOption {
	return func(o *ImageOptions) {
		o.NoLogo = &nologo
	}
}

// WithImagePrivate keeps the image out of the public feed.
func WithImagePrivate(private bool) ImageOption {
	return func(o *ImageOptions) {
		o.Private = &private
	}
}

// WithEnhance asks the service to rewrite the prompt before generating.
func WithEnhance() ImageOption {
	return func(o *ImageOptions) {
		o.Enhance = true
	}
}

// WithReferenceImage sets an input image URL.
func WithReferenceImage(url string) ImageOption {
	return func(o *ImageOptions) {
		o.Image = url
	}
}

// WithImageAuth overrides the client's referrer and token for one request.
// Empty values keep the client defaults.
func WithImageAuth(referrer, token string) ImageOption {
	return func(o *ImageOptions) {
		o.Referrer = referrer
		o.Token = token
	}
}

// WithImageTimeout overrides the default image timeout.
func WithImageTimeout(d time.Duration) ImageOption {
	return func(o *ImageOptions) {
		o.Timeout = d
	}
}

// WithImagesDir sets the directory used by SaveImageTimestamped.
func WithImagesDir(dir string) ImageOption {
	return func(o *ImageOptions) {
		o.Dir = dir
	}
}

// WithFilename sets the prefix and suffix around the timestamp.
func WithFilename(prefix, suffix string) ImageOption {
	return func(o *ImageOptions) {
		o.Prefix = prefix
		o.Suffix = suffix
	}
}

// WithExt sets the file extension; a leading dot is ignored.
func WithExt(ext string) ImageOption {
	return func(o *ImageOptions) {
		o.Ext = ext
	}
}

// ApplyImageOptions applies functional options to an ImageOptions struct.
func ApplyImageOptions(opts ...ImageOption) *ImageOptions {
	o := &ImageOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
