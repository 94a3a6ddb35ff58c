// Package archive moves the database and audio cache aside before a reset
// so a reseed never destroys previous data.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backup moves every existing path into a new timestamped directory below
// archiveDir and returns that directory. Missing paths are skipped; when none
// exists nothing is created and an empty string is returned.
func Backup(archiveDir string, paths ...string) (string, error) {
	var existing []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return "", nil
	}

	// Create archive directory if it doesn't exist
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	// Generate timestamp
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("backup-%s", timestamp))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("backup-%s", timestamp))
	}

	if err := os.Mkdir(archivePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	for _, p := range existing {
		target := filepath.Join(archivePath, filepath.Base(p))
		if err := os.Rename(p, target); err != nil {
			return archivePath, fmt.Errorf("failed to archive %s: %w", p, err)
		}
	}

	return archivePath, nil
}
