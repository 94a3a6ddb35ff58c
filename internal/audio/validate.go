package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tcolgate/mp3"
)

// ValidateText rejects text with nothing to speak. Any script is passed on
// to the backend, so seeded numbers and Latin abbreviations still play.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}

// ValidateAudioFile checks that a generated file is usable. Empty files are
// rejected for every format; MP3 files must contain at least one frame.
func ValidateAudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("audio file missing: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("audio file %s is empty", path)
	}

	if strings.ToLower(filepath.Ext(path)) != ".mp3" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var (
		dec     = mp3.NewDecoder(f)
		frame   mp3.Frame
		skipped int
	)
	if err := dec.Decode(&frame, &skipped); err != nil {
		return fmt.Errorf("audio file %s is not valid MP3: %w", path, err)
	}
	return nil
}

// MP3Duration walks all frames of an MP3 file and sums their durations.
func MP3Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var (
		dur     time.Duration
		dec     = mp3.NewDecoder(f)
		frame   mp3.Frame
		skipped int
	)

	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, err
		}
		dur += frame.Duration()
	}

	return dur, nil
}
