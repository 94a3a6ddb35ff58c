package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// mp3FrameHeader is MPEG-1 Layer III, 128 kbit/s, 44.1 kHz, no padding
var mp3FrameHeader = []byte{0xFF, 0xFB, 0x90, 0x00}

// mp3FrameSize is 144 * 128000 / 44100 for the header above
const mp3FrameSize = 417

// MP3Frames returns n silent but well-formed MP3 frames
func MP3Frames(n int) []byte {
	data := make([]byte, 0, n*mp3FrameSize)
	for i := 0; i < n; i++ {
		frame := make([]byte, mp3FrameSize)
		copy(frame, mp3FrameHeader)
		data = append(data, frame...)
	}
	return data
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateTestMP3 writes a small valid MP3 file and returns its path
func CreateTestMP3(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	CreateTestFile(t, path, MP3Frames(2))
	return path
}

// WriteWordLists writes tab separated seed files and returns their paths
func WriteWordLists(t *testing.T, dir string, words, examples []string) (string, string) {
	t.Helper()

	wordsFile := filepath.Join(dir, "words.txt")
	CreateTestFile(t, wordsFile, []byte(strings.Join(words, "\n")+"\n"))

	examplesFile := filepath.Join(dir, "examples.txt")
	CreateTestFile(t, examplesFile, []byte(strings.Join(examples, "\n")+"\n"))

	return wordsFile, examplesFile
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContent checks if a file has expected content
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("File content mismatch in %s\nExpected: %d bytes\nActual: %d bytes", path, len(expected), len(actual))
	}
}

// CountFiles returns the number of regular files below dir
func CountFiles(t *testing.T, dir string) int {
	t.Helper()

	count := 0
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("Failed to walk %s: %v", dir, err)
	}
	return count
}
