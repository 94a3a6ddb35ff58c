package playback

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"
)

// oto allows one context per process
var (
	otoMu   sync.Mutex
	otoCtx  *oto.Context
	otoRate int
)

// otoContext returns the process wide context, creating it at sampleRate
func otoContext(sampleRate int) (*oto.Context, int, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		return otoCtx, otoRate, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2, // go-mp3 always decodes to stereo
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create audio context: %w", err)
	}
	<-ready

	otoCtx = ctx
	otoRate = sampleRate
	return otoCtx, otoRate, nil
}

// OtoBackend plays MP3 files in-process through the system audio device
type OtoBackend struct {
	logger *log.Logger
	poll   time.Duration
}

// NewOtoBackend creates an in-process MP3 backend
func NewOtoBackend(logger *log.Logger) *OtoBackend {
	if logger == nil {
		logger = log.Default()
	}
	return &OtoBackend{logger: logger, poll: 20 * time.Millisecond}
}

// Name returns the backend name
func (b *OtoBackend) Name() string {
	return "oto"
}

// Play decodes the MP3 file and blocks until it has been played
func (b *OtoBackend) Play(ctx context.Context, path string) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".mp3" {
		return fmt.Errorf("oto backend plays MP3 only, got %s (use the command backend)", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("audio file: %w", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	audioCtx, rate, err := otoContext(dec.SampleRate())
	if err != nil {
		return err
	}
	if rate != dec.SampleRate() {
		b.logger.Warn("Sample rate differs from audio output, playback speed will be off",
			"path", path, "file_rate", dec.SampleRate(), "output_rate", rate)
	}

	player := audioCtx.NewPlayer(dec)
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(b.poll)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if err := player.Err(); err != nil {
		return fmt.Errorf("playback of %s failed: %w", path, err)
	}
	return nil
}
