package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// MockProvider is a speech provider that writes canned audio. It satisfies
// audio.Provider without importing it.
type MockProvider struct {
	ProviderName string
	Data         []byte // Written to the output file; defaults to MP3Frames(2)
	Err          error  // Returned from GenerateAudio when set
	Partial      bool   // Write Data before returning Err
	Block        chan struct{}

	mu    sync.Mutex
	calls []string
}

// GenerateAudio records the call and writes Data to outputFile
func (m *MockProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if m.Err != nil && !m.Partial {
		return m.Err
	}

	data := m.Data
	if data == nil {
		data = MP3Frames(2)
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return err
	}
	return m.Err
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// IsAvailable always succeeds
func (m *MockProvider) IsAvailable() error {
	return nil
}

// Calls returns the texts passed to GenerateAudio
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns how often GenerateAudio ran
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
