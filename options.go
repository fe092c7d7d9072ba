package polli

import "time"

// Options contains configuration for text, chat, vision and audio requests.
// Zero values mean "use the operation's default".
type Options struct {
	Model       string
	Seed        *int
	Private     *bool
	Referrer    string
	Token       string
	System      string
	JSON        bool
	Timeout     time.Duration
	MaxTokens   *int
	Temperature *float64
	// ToolChoice is a ToolChoice string or an object from ToolChoiceFunction.
	ToolChoice any
	// MaxRounds is nil for the default of one tool round.
	MaxRounds *int
	// Question is the instruction sent alongside vision or audio input.
	Question string
	// Provider selects the transcription endpoint path.
	Provider string
	Voice    string
	Format   string
	Language string
}

// Option is a functional option for configuring requests.
type Option func(*Options)

// WithModel sets the model to use for the request.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithSeed fixes the generation seed. Without it a random seed is used.
func WithSeed(seed int) Option {
	return func(o *Options) {
		o.Seed = &seed
	}
}

// WithPrivate keeps the request out of the public feeds.
func WithPrivate(private bool) Option {
	return func(o *Options) {
		o.Private = &private
	}
}

// WithReferrer overrides the client's referrer for one request.
func WithReferrer(referrer string) Option {
	return func(o *Options) {
		o.Referrer = referrer
	}
}

// WithToken overrides the client's token for one request.
func WithToken(token string) Option {
	return func(o *Options) {
		o.Token = token
	}
}

// WithSystem sets the system prompt for text generation.
func WithSystem(system string) Option {
	return func(o *Options) {
		o.System = system
	}
}

// WithJSON requests JSON output. Chat-style calls then return the full
// response payload instead of the extracted content.
func WithJSON() Option {
	return func(o *Options) {
		o.JSON = true
	}
}

// WithTimeout overrides the operation's default timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = &n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = &t
	}
}

// WithToolChoice sets tool_choice; accepts a ToolChoice or ToolChoiceFunction(name).
func WithToolChoice(choice any) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// WithMaxRounds bounds the number of tool-execution rounds. Zero returns
// the first response without running any tools; negative counts as zero.
func WithMaxRounds(n int) Option {
	return func(o *Options) {
		o.MaxRounds = &n
	}
}

// WithQuestion sets the instruction sent with an image or audio input.
func WithQuestion(q string) Option {
	return func(o *Options) {
		o.Question = q
	}
}

// WithProvider sets the transcription provider path.
func WithProvider(p string) Option {
	return func(o *Options) {
		o.Provider = p
	}
}

// WithVoice selects the speech voice.
func WithVoice(voice string) Option {
	return func(o *Options) {
		o.Voice = voice
	}
}

// WithAudioFormat selects the speech output format.
func WithAudioFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithLanguage sets the speech language hint.
func WithLanguage(lang string) Option {
	return func(o *Options) {
		o.Language = lang
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
