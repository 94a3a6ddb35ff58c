package playback

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/hebrewtrainer/internal/testutil"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test needs a POSIX shell")
	}
}

func TestCommandBackendPlays(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	audioFile := testutil.CreateTestMP3(t, dir, "a.mp3")
	marker := filepath.Join(dir, "played")

	backend := &CommandBackend{Command: "sh", Args: []string{"-c", `cp "$0" ` + marker}}
	if err := backend.Play(context.Background(), audioFile); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	testutil.AssertFileExists(t, marker)
}

func TestCommandBackendFailure(t *testing.T) {
	requireShell(t)

	audioFile := testutil.CreateTestMP3(t, t.TempDir(), "a.mp3")
	backend := &CommandBackend{Command: "sh", Args: []string{"-c", "echo 'device busy' >&2; exit 3"}}

	err := backend.Play(context.Background(), audioFile)
	if err == nil || !strings.Contains(err.Error(), "device busy") {
		t.Errorf("Play() error = %v, want stderr in error", err)
	}
}

func TestCommandBackendMissingFile(t *testing.T) {
	backend := &CommandBackend{Command: "true"}

	err := backend.Play(context.Background(), filepath.Join(t.TempDir(), "none.mp3"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Play() error = %v, want not exist", err)
	}
}

func TestCommandBackendCancel(t *testing.T) {
	requireShell(t)

	audioFile := testutil.CreateTestMP3(t, t.TempDir(), "a.mp3")
	backend := &CommandBackend{Command: "sh", Args: []string{"-c", "exec sleep 30"}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- backend.Play(ctx, audioFile) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Play() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Play() did not return after cancel")
	}
}

func TestPlayerWithCommandBackendStop(t *testing.T) {
	requireShell(t)

	audioFile := testutil.CreateTestMP3(t, t.TempDir(), "a.mp3")
	player := NewPlayer(&CommandBackend{Command: "sh", Args: []string{"-c", "exec sleep 30"}}, log.New(io.Discard))

	task := player.Play(audioFile)
	time.Sleep(50 * time.Millisecond)
	player.Stop()

	select {
	case <-task.Done():
		if task.Err() != nil {
			t.Errorf("stopped task Err() = %v, want nil", task.Err())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("task did not stop")
	}
}

func TestOtoBackendRejectsNonMP3(t *testing.T) {
	backend := NewOtoBackend(log.New(io.Discard))

	err := backend.Play(context.Background(), "speech.wav")
	if err == nil || !strings.Contains(err.Error(), "MP3 only") {
		t.Errorf("Play() error = %v, want MP3 only", err)
	}
}
