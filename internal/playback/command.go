package playback

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// waitDelay bounds how long a killed player may hold its output pipes open
const waitDelay = 2 * time.Second

// CommandBackend plays files with a platform audio player such as afplay or mpg123
type CommandBackend struct {
	// Command and Args override player detection; the file path is appended to Args
	Command string
	Args    []string
}

// NewCommandBackend creates a backend that detects the player on first use
func NewCommandBackend() *CommandBackend {
	return &CommandBackend{}
}

// Name returns the backend name
func (b *CommandBackend) Name() string {
	return "command"
}

// Play runs the player and waits for it; cancelling ctx kills the process
func (b *CommandBackend) Play(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("audio file: %w", err)
	}

	name, args, err := b.command(path)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// command returns the player invocation for path using platform-specific commands
func (b *CommandBackend) command(path string) (string, []string, error) {
	if b.Command != "" {
		return b.Command, append(append([]string(nil), b.Args...), path), nil
	}

	switch runtime.GOOS {
	case "darwin": // macOS
		return "afplay", []string{path}, nil
	case "linux", "freebsd", "openbsd":
		// Try multiple commands in order of preference
		// mpg123 first since it handles MP3 files best
		if _, err := exec.LookPath("mpg123"); err == nil && !strings.HasSuffix(path, ".wav") {
			return "mpg123", []string{"-q", path}, nil // -q for quiet mode
		} else if _, err := exec.LookPath("ffplay"); err == nil {
			return "ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}, nil
		} else if _, err := exec.LookPath("play"); err == nil {
			// SoX play command
			return "play", []string{"-q", path}, nil
		} else if _, err := exec.LookPath("paplay"); err == nil {
			return "paplay", []string{path}, nil
		} else if _, err := exec.LookPath("aplay"); err == nil {
			return "aplay", []string{"-q", path}, nil
		}
		return "", nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		// Use Windows Media Player
		return "cmd", []string{"/c", "start", "/min", path}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
