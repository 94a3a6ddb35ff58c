package audio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// mockProvider implements Provider interface for testing
type mockProvider struct {
	name          string
	format        string
	generateErr   error
	availableErr  error
	generateCalls int
}

func (m *mockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.generateCalls++
	return m.generateErr
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) Format() string {
	return m.format
}

func (m *mockProvider) IsAvailable() error {
	return m.availableErr
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	if config.Provider != "gtts" {
		t.Errorf("Expected provider 'gtts', got '%s'", config.Provider)
	}

	if config.OutputFormat != "mp3" {
		t.Errorf("Expected output format 'mp3', got '%s'", config.OutputFormat)
	}

	if config.Language != "iw" {
		t.Errorf("Expected language 'iw', got '%s'", config.Language)
	}

	if config.GoogleLanguageCode != "he-IL" {
		t.Errorf("Expected Google language code 'he-IL', got '%s'", config.GoogleLanguageCode)
	}

	if config.BreakerFailures != 3 {
		t.Errorf("Expected 3 breaker failures, got %d", config.BreakerFailures)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantErr  bool
		errMsg   string
		wantName string
	}{
		{
			name:     "nil config uses gtts",
			config:   nil,
			wantName: "gtts",
		},
		{
			name:    "openai provider without key",
			config:  &Config{Provider: "openai"},
			wantErr: true,
			errMsg:  "OpenAI API key is required",
		},
		{
			name:     "openai provider with key",
			config:   &Config{Provider: "openai", OpenAIKey: "test-key"},
			wantName: "openai",
		},
		{
			name:    "gemini provider without key",
			config:  &Config{Provider: "gemini"},
			wantErr: true,
			errMsg:  "Gemini API key is required",
		},
		{
			name:     "gemini provider with key",
			config:   &Config{Provider: "gemini", GeminiKey: "test-key"},
			wantName: "gemini",
		},
		{
			name:     "google provider",
			config:   &Config{Provider: "google"},
			wantName: "google",
		},
		{
			name:    "unknown provider",
			config:  &Config{Provider: "unknown"},
			wantErr: true,
			errMsg:  "unknown audio provider: unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if err.Error() != tt.errMsg {
					t.Errorf("NewProvider() error = %v, want %v", err.Error(), tt.errMsg)
				}
				return
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Name() = %v, want %v", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		def      string
		want     string
	}{
		{"fixed format", &mockProvider{format: "wav"}, "mp3", "wav"},
		{"empty format uses default", &mockProvider{}, "mp3", "mp3"},
		{"gemini", &GeminiProvider{}, "mp3", "wav"},
		{"openai accepts any", &OpenAIProvider{config: &Config{}}, "flac", "flac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatOf(tt.provider, tt.def); got != tt.want {
				t.Errorf("FormatOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		wantErr  string
		wantName string
	}{
		{
			name:     "single provider",
			config:   &Config{Provider: "gtts"},
			wantName: "gtts",
		},
		{
			name:     "with fallback",
			config:   &Config{Provider: "gtts", Fallback: "openai", OpenAIKey: "k"},
			wantName: "gtts (fallback: openai)",
		},
		{
			name:     "fallback equal to primary is ignored",
			config:   &Config{Provider: "gtts", Fallback: "gtts"},
			wantName: "gtts",
		},
		{
			name:    "fallback misconfigured",
			config:  &Config{Provider: "gtts", Fallback: "openai"},
			wantErr: "fallback provider: OpenAI API key is required",
		},
		{
			name:    "fallback format mismatch",
			config:  &Config{Provider: "gemini", GeminiKey: "k", Fallback: "gtts"},
			wantErr: "writes mp3 but gemini writes wav",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := BuildProvider(tt.config, discardLogger())
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("BuildProvider() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildProvider() error = %v", err)
			}
			if _, ok := provider.(*BreakerProvider); !ok {
				t.Errorf("BuildProvider() = %T, want *BreakerProvider", provider)
			}
			if provider.Name() != tt.wantName {
				t.Errorf("Name() = %v, want %v", provider.Name(), tt.wantName)
			}
		})
	}
}

func TestProviderWithFallback(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback, discardLogger())

	// Test successful primary
	ctx := context.Background()
	err := provider.GenerateAudio(ctx, "שלום", "output.mp3")
	if err != nil {
		t.Errorf("GenerateAudio() unexpected error: %v", err)
	}
	if primary.generateCalls != 1 {
		t.Errorf("Expected 1 primary call, got %d", primary.generateCalls)
	}
	if fallback.generateCalls != 0 {
		t.Errorf("Expected 0 fallback calls, got %d", fallback.generateCalls)
	}

	// Test primary failure, fallback success
	primary.generateErr = errors.New("primary failed")
	primary.generateCalls = 0

	err = provider.GenerateAudio(ctx, "שלום", "output.mp3")
	if err != nil {
		t.Errorf("GenerateAudio() unexpected error: %v", err)
	}
	if primary.generateCalls != 1 {
		t.Errorf("Expected 1 primary call, got %d", primary.generateCalls)
	}
	if fallback.generateCalls != 1 {
		t.Errorf("Expected 1 fallback call, got %d", fallback.generateCalls)
	}

	// Test both fail
	fallbackErr := errors.New("fallback failed")
	fallback.generateErr = fallbackErr

	err = provider.GenerateAudio(ctx, "שלום", "output.mp3")
	if err == nil {
		t.Fatal("GenerateAudio() expected error when both providers fail")
	}
	if !errors.Is(err, fallbackErr) {
		t.Errorf("GenerateAudio() error = %v, want wrapping fallback error", err)
	}
}

func TestProviderWithFallbackName(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback, discardLogger())

	expected := "primary (fallback: fallback)"
	if provider.Name() != expected {
		t.Errorf("Name() = %v, want %v", provider.Name(), expected)
	}
}

func TestProviderWithFallbackIsAvailable(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	fallback := &mockProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback, discardLogger())

	// Both available
	err := provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error: %v", err)
	}

	// Primary unavailable, fallback available
	primary.availableErr = errors.New("primary unavailable")
	err = provider.IsAvailable()
	if err != nil {
		t.Errorf("IsAvailable() unexpected error when fallback available: %v", err)
	}

	// Both unavailable
	fallback.availableErr = errors.New("fallback unavailable")
	err = provider.IsAvailable()
	if err == nil {
		t.Error("IsAvailable() expected error when both providers unavailable")
	}
}
