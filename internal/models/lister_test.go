package models

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func newModelsServer(t *testing.T, ids ...string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-api-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var data []map[string]string
		for _, id := range ids {
			data = append(data, map[string]string{"id": id, "object": "model", "owned_by": "openai"})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}

	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestSpeechModels_NoAPIKey(t *testing.T) {
	lister := NewLister("", "")

	_, err := lister.SpeechModels(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("Error should mention OPENAI_API_KEY, got: %v", err)
	}
}

func TestSpeechModels(t *testing.T) {
	srv := newModelsServer(t, "gpt-4o", "tts-1-hd", "dall-e-3", "gpt-4o-mini-tts", "tts-1", "gpt-4o-mini-audio-preview")
	lister := NewLister("test-api-key", srv.URL+"/v1")

	got, err := lister.SpeechModels(context.Background())
	if err != nil {
		t.Fatalf("SpeechModels failed: %v", err)
	}

	want := []string{"gpt-4o-mini-audio-preview", "gpt-4o-mini-tts", "tts-1", "tts-1-hd"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("SpeechModels() = %v, want %v", got, want)
	}
}

func TestPrint(t *testing.T) {
	srv := newModelsServer(t, "tts-1", "gpt-4o-mini-tts")
	lister := NewLister("test-api-key", srv.URL+"/v1")

	var out strings.Builder
	if err := lister.Print(context.Background(), &out, "gpt-4o-mini-tts", "nova"); err != nil {
		t.Fatalf("Print failed: %v", err)
	}

	for _, want := range []string{"  tts-1\n", "  gpt-4o-mini-tts (current)\n", "  nova (current)\n", "  alloy\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrint_NoSpeechModels(t *testing.T) {
	srv := newModelsServer(t, "gpt-4o")
	lister := NewLister("test-api-key", srv.URL+"/v1")

	var out strings.Builder
	if err := lister.Print(context.Background(), &out, "", ""); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !strings.Contains(out.String(), "No TTS models found") {
		t.Errorf("Output = %q", out.String())
	}
}

func TestPrint_Unauthorized(t *testing.T) {
	srv := newModelsServer(t, "tts-1")
	lister := NewLister("wrong-key", srv.URL+"/v1")

	if err := lister.Print(context.Background(), &strings.Builder{}, "", ""); err == nil {
		t.Error("Expected error for a rejected API key")
	}
}

func TestSpeechModels_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	lister := NewLister(apiKey, "")
	if _, err := lister.SpeechModels(context.Background()); err != nil {
		t.Errorf("SpeechModels failed: %v", err)
	}
}
