// Package session holds the interaction state shared by the views: the
// player and the item the user selected last.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/hebrewtrainer/internal/playback"
	"codeberg.org/snonux/hebrewtrainer/internal/store"
)

// Resolver returns a playable file for an item
type Resolver interface {
	Resolve(ctx context.Context, id int64, kind store.Kind) (string, error)
}

// Player starts background playback
type Player interface {
	Play(path string) *playback.Task
	Stop()
}

// Item identifies a word or example
type Item struct {
	ID   int64
	Kind store.Kind
}

// Controller resolves audio for items and plays it
type Controller struct {
	resolver Resolver
	player   Player
	logger   *log.Logger

	mu          sync.Mutex
	highlighted *Item
}

// NewController creates a new session controller
func NewController(resolver Resolver, player Player, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{resolver: resolver, player: player, logger: logger}
}

// Speak resolves the item's audio, synthesizing it if needed, and starts
// playback. Synthesis errors are returned; playback errors end up on the task.
func (c *Controller) Speak(ctx context.Context, id int64, kind store.Kind) (*playback.Task, error) {
	path, err := c.resolver.Resolve(ctx, id, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio for %s %d: %w", kind, id, err)
	}
	c.logger.Debug("Speaking", "kind", kind, "id", id, "path", path)
	return c.player.Play(path), nil
}

// SelectWord highlights the word and speaks it
func (c *Controller) SelectWord(ctx context.Context, id int64) (*playback.Task, error) {
	c.Highlight(Item{ID: id, Kind: store.KindWord})
	return c.Speak(ctx, id, store.KindWord)
}

// SelectExample highlights the example and speaks it
func (c *Controller) SelectExample(ctx context.Context, id int64) (*playback.Task, error) {
	c.Highlight(Item{ID: id, Kind: store.KindExample})
	return c.Speak(ctx, id, store.KindExample)
}

// Highlight marks item as the current selection
func (c *Controller) Highlight(item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.highlighted = &item
}

// ClearHighlight removes the current selection
func (c *Controller) ClearHighlight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.highlighted = nil
}

// Highlighted returns the current selection
func (c *Controller) Highlighted() (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.highlighted == nil {
		return Item{}, false
	}
	return *c.highlighted, true
}

// IsHighlighted reports whether id/kind is the current selection
func (c *Controller) IsHighlighted(id int64, kind store.Kind) bool {
	item, ok := c.Highlighted()
	return ok && item.ID == id && item.Kind == kind
}

// Stop stops any playback
func (c *Controller) Stop() {
	c.player.Stop()
}
