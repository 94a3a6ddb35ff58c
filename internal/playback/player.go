// Package playback plays audio files in the background. Play returns at
// once with a Task; failures are logged and recorded on the task instead
// of being returned to the caller.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Backend plays one file and blocks until it has finished or ctx is done
type Backend interface {
	Play(ctx context.Context, path string) error
	Name() string
}

// NewBackend returns the backend registered under name. An empty name
// selects the external command backend.
func NewBackend(name string, logger *log.Logger) (Backend, error) {
	switch name {
	case "", "command":
		return NewCommandBackend(), nil
	case "oto":
		return NewOtoBackend(logger), nil
	default:
		return nil, fmt.Errorf("unknown playback backend: %s", name)
	}
}

// Task is the handle of one playback
type Task struct {
	path   string
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// Path returns the file being played
func (t *Task) Path() string {
	return t.path
}

// Done is closed when playback has finished, failed or was cancelled
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task is done and returns its error
func (t *Task) Wait() error {
	<-t.done
	return t.Err()
}

// Err returns the playback error, nil while running, after success or
// after cancellation
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Cancel stops the playback; it is safe to call more than once
func (t *Task) Cancel() {
	t.cancel()
}

func (t *Task) setErr(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
}

// Player owns the audio output and plays one file at a time
type Player struct {
	backend Backend
	logger  *log.Logger

	mu      sync.Mutex
	current *Task
}

// NewPlayer creates a player on top of backend
func NewPlayer(backend Backend, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.Default()
	}
	return &Player{backend: backend, logger: logger}
}

// Play stops the current playback, if any, and starts path on a new
// goroutine. The new stream starts only after the previous one released
// the output.
func (p *Player) Play(path string) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	task := &Task{
		path:   path,
		done:   make(chan struct{}),
		cancel: cancel,
	}

	p.mu.Lock()
	prev := p.current
	p.current = task
	p.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	go p.run(ctx, task, prev)
	return task
}

func (p *Player) run(ctx context.Context, task, prev *Task) {
	defer close(task.done)
	defer task.cancel()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("playback panic: %v", r)
			p.logger.Warn("Audio playback failed", "path", task.path, "error", err)
			task.setErr(err)
		}
	}()

	if prev != nil {
		<-prev.done
	}
	if ctx.Err() != nil {
		return
	}

	p.logger.Debug("Playing audio", "path", task.path, "backend", p.backend.Name())
	err := p.backend.Play(ctx, task.path)
	if err == nil || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		return
	}

	p.logger.Warn("Audio playback failed", "path", task.path, "backend", p.backend.Name(), "error", err)
	task.setErr(err)
}

// Stop stops the active playback
func (p *Player) Stop() {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current != nil {
		current.Cancel()
	}
}

// Current returns the most recently started task, or nil
func (p *Player) Current() *Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}
