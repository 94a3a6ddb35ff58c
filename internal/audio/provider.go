package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Formatter is implemented by providers that can only produce one format
type Formatter interface {
	Format() string
}

// FormatOf returns the file extension (without dot) a provider writes,
// falling back to def when the provider accepts any format.
func FormatOf(p Provider, def string) string {
	if f, ok := p.(Formatter); ok && f.Format() != "" {
		return f.Format()
	}
	return def
}

// Config holds common configuration for audio providers
type Config struct {
	Provider     string // Provider name: "gtts", "openai", "google" or "gemini"
	Fallback     string // Optional second provider used when the first fails
	OutputFormat string // Output format: "mp3" or "wav"

	// gTTS settings
	Language          string // gTTS language code, "iw" for Hebrew
	GTTSCommand       string // gtts-cli binary
	GTTSSlow          bool
	RequestsPerMinute int

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIBaseURL     string  // Empty for the public API
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// Google Cloud Text-to-Speech settings
	GoogleCredentialsFile string
	GoogleLanguageCode    string // BCP-47, "he-IL" for Hebrew
	GoogleVoice           string // Empty lets the service choose

	// Gemini settings
	GeminiKey   string
	GeminiModel string
	GeminiVoice string

	// Circuit breaker around the provider chain
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:           "gtts",
		OutputFormat:       "mp3",
		Language:           "iw",
		GTTSCommand:        "gtts-cli",
		RequestsPerMinute:  50,
		OpenAIModel:        "gpt-4o-mini-tts",
		OpenAIVoice:        "alloy",
		OpenAISpeed:        1.0,
		OpenAIInstruction:  "You are speaking Hebrew (עברית). Pronounce the text with natural Israeli Hebrew phonetics. Speak slowly and clearly for language learners.",
		GoogleLanguageCode: "he-IL",
		GeminiModel:        "gemini-2.5-flash-preview-tts",
		GeminiVoice:        "Kore",
		BreakerFailures:    3,
		BreakerTimeout:     30 * time.Second,
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	return newNamedProvider(config.Provider, config)
}

func newNamedProvider(name string, config *Config) (Provider, error) {
	switch name {
	case "gtts":
		return NewGTTSProvider(config)

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	case "google":
		return NewGoogleProvider(config)

	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(config)

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

// BuildProvider creates the configured provider, adds the optional
// fallback and wraps the result in a circuit breaker.
func BuildProvider(config *Config, logger *log.Logger) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}
	if logger == nil {
		logger = log.Default()
	}

	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	if config.Fallback != "" && config.Fallback != config.Provider {
		fallback, err := newNamedProvider(config.Fallback, config)
		if err != nil {
			return nil, fmt.Errorf("fallback provider: %w", err)
		}
		pf, ff := FormatOf(provider, ""), FormatOf(fallback, "")
		if pf != "" && ff != "" && pf != ff {
			return nil, fmt.Errorf("fallback provider %s writes %s but %s writes %s", fallback.Name(), ff, provider.Name(), pf)
		}
		provider = NewProviderWithFallback(provider, fallback, logger)
	}

	return NewBreakerProvider(provider, config.BreakerFailures, config.BreakerTimeout, logger), nil
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
	logger   *log.Logger
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider, logger *log.Logger) Provider {
	if logger == nil {
		logger = log.Default()
	}
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err != nil {
		p.logger.Warn("Primary provider failed, falling back",
			"primary", p.primary.Name(), "fallback", p.fallback.Name(), "error", err)

		if fbErr := p.fallback.GenerateAudio(ctx, text, outputFile); fbErr != nil {
			return fmt.Errorf("both providers failed: primary=%v, fallback: %w", err, fbErr)
		}
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// Format reports the primary's format; both providers write to the same path.
func (p *ProviderWithFallback) Format() string {
	return FormatOf(p.primary, FormatOf(p.fallback, ""))
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
