// Package resolver turns a stored item into a playable audio file. Audio is
// synthesized on first use, written to the cache directory and remembered in
// the item's row; later lookups reuse the file while it exists on disk.
package resolver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/hebrewtrainer/internal"
	"codeberg.org/snonux/hebrewtrainer/internal/audio"
	"codeberg.org/snonux/hebrewtrainer/internal/store"
)

const tempPrefix = ".tts-"

// Store is the part of the database the resolver reads and writes
type Store interface {
	GetAudioRef(id int64, kind store.Kind) (text string, path string, err error)
	SetAudioRef(id int64, kind store.Kind, path string) error
}

// Resolver maps (id, kind) to an audio file path
type Resolver struct {
	store    Store
	provider audio.Provider
	cacheDir string
	ext      string
	logger   *log.Logger
}

// New creates a resolver writing files with extension format (without dot)
// below cacheDir. Providers with a fixed format override it.
func New(s Store, provider audio.Provider, cacheDir, format string, logger *log.Logger) *Resolver {
	if format == "" {
		format = "mp3"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		store:    s,
		provider: provider,
		cacheDir: cacheDir,
		ext:      audio.FormatOf(provider, format),
		logger:   logger,
	}
}

// CacheDir returns the directory generated files are written to
func (r *Resolver) CacheDir() string {
	return r.cacheDir
}

// PathFor returns the cache path used for text
func (r *Resolver) PathFor(text string) string {
	return filepath.Join(r.cacheDir, internal.SanitizeFilename(text)+"."+r.ext)
}

// Resolve returns a playable path for the item, synthesizing it on a miss.
// A missing row yields store.ErrNotFound. Audio is written to a temporary
// file and renamed into place once valid, so on failure nothing is persisted
// and an existing file at the cache path is left alone.
func (r *Resolver) Resolve(ctx context.Context, id int64, kind store.Kind) (string, error) {
	text, path, err := r.store.GetAudioRef(id, kind)
	if err != nil {
		return "", err
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			r.logger.Debug("Audio cache hit", "kind", kind, "id", id, "path", path)
			return path, nil
		}
		r.logger.Debug("Cached audio file is gone, regenerating", "kind", kind, "id", id, "path", path)
	}

	path = r.PathFor(text)
	r.logger.Debug("Generating audio", "kind", kind, "id", id, "provider", r.provider.Name(), "path", path)

	// Items with the same text share path, so a failed fill must not touch it
	tmpPath, err := r.tempFile()
	if err != nil {
		return "", err
	}

	if err := r.provider.GenerateAudio(ctx, text, tmpPath); err != nil {
		r.removePartial(tmpPath)
		return "", fmt.Errorf("failed to synthesize %s %d: %w", kind, id, err)
	}

	if err := audio.ValidateAudioFile(tmpPath); err != nil {
		r.removePartial(tmpPath)
		return "", fmt.Errorf("invalid audio for %s %d: %w", kind, id, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		r.removePartial(tmpPath)
		return "", fmt.Errorf("failed to move audio into cache: %w", err)
	}

	if err := r.store.SetAudioRef(id, kind, path); err != nil {
		return "", fmt.Errorf("failed to store audio reference: %w", err)
	}

	r.logger.Info("Audio cached", "kind", kind, "id", id, "path", path)
	return path, nil
}

// tempFile reserves a file in the cache directory for the provider to
// write. It keeps the cache extension since providers pick the encoding
// from it.
func (r *Resolver) tempFile() (string, error) {
	if err := os.MkdirAll(r.cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	f, err := os.CreateTemp(r.cacheDir, tempPrefix+"*."+r.ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary audio file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		r.removePartial(name)
		return "", fmt.Errorf("failed to create temporary audio file: %w", err)
	}
	return name, nil
}

func (r *Resolver) removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("Failed to remove partial audio file", "path", path, "error", err)
	}
}

// Stats returns the number of files and their total size in the cache directory
func (r *Resolver) Stats() (files int, size int64, err error) {
	err = filepath.Walk(r.cacheDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files++
			size += info.Size()
		}
		return nil
	})
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	return files, size, err
}

// Clear removes all cached audio. Stored references then fail the
// existence check and are regenerated on the next request.
func (r *Resolver) Clear() error {
	if err := os.RemoveAll(r.cacheDir); err != nil {
		return fmt.Errorf("failed to clear audio cache: %w", err)
	}
	return nil
}
