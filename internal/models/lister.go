package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Voices accepted by the OpenAI speech endpoint
var Voices = []string{"alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"}

// Lister handles listing available OpenAI speech models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. An empty baseURL uses the public API.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// SpeechModels returns the sorted ids of all TTS capable models
func (l *Lister) SpeechModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .hebrewtrainer.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var ttsModels []string
	for _, model := range models.Models {
		if strings.Contains(model.ID, "tts") || strings.Contains(model.ID, "audio") {
			ttsModels = append(ttsModels, model.ID)
		}
	}
	sort.Strings(ttsModels)
	return ttsModels, nil
}

// Print writes the speech models and voices to w, marking the configured ones
func (l *Lister) Print(ctx context.Context, w io.Writer, currentModel, currentVoice string) error {
	ttsModels, err := l.SpeechModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Text-to-Speech (TTS) Models:")
	if len(ttsModels) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
	}
	for _, model := range ttsModels {
		fmt.Fprintf(w, "  %s%s\n", model, marker(model == currentModel))
	}

	fmt.Fprintln(w, "\nVoices:")
	for _, voice := range Voices {
		fmt.Fprintf(w, "  %s%s\n", voice, marker(voice == currentVoice))
	}
	return nil
}

func marker(current bool) string {
	if current {
		return " (current)"
	}
	return ""
}
