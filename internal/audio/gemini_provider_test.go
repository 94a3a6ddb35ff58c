package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"google.golang.org/genai"
)

func TestWriteWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	var buf bytes.Buffer
	if err := writeWAV(&buf, pcm, geminiSampleRate, geminiChannels, geminiBitsPerSample); err != nil {
		t.Fatalf("writeWAV() error = %v", err)
	}

	data := buf.Bytes()
	if len(data) != 44+len(pcm) {
		t.Fatalf("len = %d, want %d", len(data), 44+len(pcm))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[36:40]) != "data" {
		t.Errorf("bad chunk ids: %q", data[:40])
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != geminiSampleRate {
		t.Errorf("sample rate = %d, want %d", got, geminiSampleRate)
	}
	if got := binary.LittleEndian.Uint32(data[28:32]); got != geminiSampleRate*2 {
		t.Errorf("byte rate = %d, want %d", got, geminiSampleRate*2)
	}
	if got := binary.LittleEndian.Uint32(data[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d, want %d", got, len(pcm))
	}
	if !bytes.Equal(data[44:], pcm) {
		t.Error("pcm payload mismatch")
	}
}

func TestInlineAudio(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    []byte
		wantErr bool
	}{
		{name: "nil response", wantErr: true},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: true},
		{
			name: "text only",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{Text: "hi"}}}},
			}},
			wantErr: true,
		},
		{
			name: "audio part",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{
					{Text: "hi"},
					{InlineData: &genai.Blob{MIMEType: "audio/pcm", Data: []byte{9, 9}}},
				}}},
			}},
			want: []byte{9, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inlineAudio(tt.resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("inlineAudio() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("inlineAudio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewGeminiProviderDefaults(t *testing.T) {
	provider, err := NewGeminiProvider(&Config{GeminiKey: "k"})
	if err != nil {
		t.Fatalf("NewGeminiProvider() error = %v", err)
	}
	g := provider.(*GeminiProvider)
	if g.model != "gemini-2.5-flash-preview-tts" || g.voice != "Kore" {
		t.Errorf("defaults = %s/%s", g.model, g.voice)
	}
	if g.Format() != "wav" {
		t.Errorf("Format() = %v, want wav", g.Format())
	}
}
