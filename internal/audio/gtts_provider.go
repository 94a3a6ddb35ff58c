package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

// gttsTimeout bounds one gtts-cli run; the tool talks to Google over the network
const gttsTimeout = 30 * time.Second

// GTTSProvider implements Provider using gtts-cli (Google Translate TTS).
// It needs no API key but requires network access.
type GTTSProvider struct {
	command     string
	language    string
	slow        bool
	rateLimiter *rate.Limiter
}

// NewGTTSProvider creates a new gTTS provider
func NewGTTSProvider(config *Config) (Provider, error) {
	command := config.GTTSCommand
	if command == "" {
		command = "gtts-cli"
	}
	language := config.Language
	if language == "" {
		language = "iw"
	}
	perMinute := config.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 50
	}

	return &GTTSProvider{
		command:     command,
		language:    language,
		slow:        config.GTTSSlow,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}, nil
}

// GenerateAudio runs gtts-cli and writes the MP3 to outputFile
func (p *GTTSProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	// Rate limit to avoid being blocked
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	args := []string{text, "-l", p.language}
	if p.slow {
		args = append(args, "--slow")
	}
	args = append(args, "-o", outputFile)

	ctx, cancel := context.WithTimeout(ctx, gttsTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("gTTS synthesis timeout: %w", ctx.Err())
		}
		return fmt.Errorf("gtts-cli failed: %w, stderr: %s", err, stderr.String())
	}

	info, err := os.Stat(outputFile)
	if err != nil {
		return fmt.Errorf("gtts-cli produced no output file: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("gtts-cli produced no MP3 output, stderr: %s", stderr.String())
	}

	return nil
}

// Name returns the provider name
func (p *GTTSProvider) Name() string {
	return "gtts"
}

// Format returns mp3, the only format gTTS produces
func (p *GTTSProvider) Format() string {
	return "mp3"
}

// IsAvailable checks that gtts-cli is installed
func (p *GTTSProvider) IsAvailable() error {
	if _, err := exec.LookPath(p.command); err != nil {
		return fmt.Errorf("%s not found in PATH: %w (install with: pip install gtts)", p.command, err)
	}
	return nil
}
