package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"
)

// GoogleProvider implements Provider using Google Cloud Text-to-Speech
type GoogleProvider struct {
	credentialsFile string
	languageCode    string
	voice           string
}

// NewGoogleProvider creates a new Google Cloud TTS provider. Credentials
// come from the configured file or from Application Default Credentials.
func NewGoogleProvider(config *Config) (Provider, error) {
	languageCode := config.GoogleLanguageCode
	if languageCode == "" {
		languageCode = "he-IL"
	}
	return &GoogleProvider{
		credentialsFile: config.GoogleCredentialsFile,
		languageCode:    languageCode,
		voice:           config.GoogleVoice,
	}, nil
}

// GenerateAudio synthesizes text and writes the audio content to outputFile
func (p *GoogleProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	var opts []option.ClientOption
	if p.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(p.credentialsFile))
	}

	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create Google TTS client: %w", err)
	}
	defer client.Close()

	encoding := texttospeechpb.AudioEncoding_MP3
	if strings.ToLower(filepath.Ext(outputFile)) == ".wav" {
		// LINEAR16 responses carry a WAV header
		encoding = texttospeechpb.AudioEncoding_LINEAR16
	}

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: strings.TrimSpace(text)},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: p.languageCode,
			Name:         p.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: encoding,
		},
	}

	resp, err := client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return fmt.Errorf("Google TTS API error: %w", err)
	}
	if len(resp.AudioContent) == 0 {
		return fmt.Errorf("no audio data received from Google TTS")
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputFile, resp.AudioContent, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// IsAvailable checks that a configured credentials file exists
func (p *GoogleProvider) IsAvailable() error {
	if p.credentialsFile == "" {
		if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			return fmt.Errorf("Google credentials not configured")
		}
		return nil
	}
	if _, err := os.Stat(p.credentialsFile); err != nil {
		return fmt.Errorf("Google credentials file: %w", err)
	}
	return nil
}
