package seed

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/hebrewtrainer/internal/store"
)

func newTestLoader(t *testing.T) (*Loader, *store.Store, string) {
	t.Helper()

	dir := t.TempDir()
	s := store.New(filepath.Join(dir, "hebrew.db"))
	return NewLoader(s, log.New(io.Discard)), s, dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return path
}

func TestLoadWordsSingleEntry(t *testing.T) {
	loader, s, dir := newTestLoader(t)
	wordsFile := writeFile(t, dir, "words.txt", "שלום\tHello\n")

	report, _, err := loader.Seed(Options{WordsFile: wordsFile})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if report.Inserted != 1 {
		t.Errorf("Inserted = %d, want 1", report.Inserted)
	}

	words, err := s.ListWords()
	if err != nil {
		t.Fatalf("ListWords() error = %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(words))
	}
	w := words[0]
	if w.ID != 1 || w.Hebrew != "שלום" || w.English != "Hello" || w.AudioFile != "" {
		t.Errorf("unexpected word %+v", w)
	}
}

func TestLoadWordsFileOrder(t *testing.T) {
	loader, s, dir := newTestLoader(t)
	wordsFile := writeFile(t, dir, "words.txt", "א\tA\nbad line\nב\tB\n\nג\tC\n")

	report, _, err := loader.Seed(Options{WordsFile: wordsFile})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if report.Inserted != 3 || report.Skipped != 1 {
		t.Errorf("report = %+v, want 3 inserted 1 skipped", report)
	}

	words, _ := s.ListWords()
	want := []string{"א", "ב", "ג"}
	var lastID int64
	for i, w := range words {
		if w.Hebrew != want[i] {
			t.Errorf("word %d = %q, want %q", i, w.Hebrew, want[i])
		}
		if w.ID <= lastID {
			t.Errorf("ids not strictly increasing: %d after %d", w.ID, lastID)
		}
		lastID = w.ID
	}
}

func TestLoadExamples(t *testing.T) {
	tests := []struct {
		name          string
		examples      string
		wantInserted  int
		wantUnmatched int
	}{
		{
			name:         "owner exists",
			examples:     "שלום\tשלום לך\tHello to you\n",
			wantInserted: 1,
		},
		{
			name:          "owner missing",
			examples:      "להתראות\tלהתראות מחר\tSee you tomorrow\n",
			wantUnmatched: 1,
		},
		{
			name:          "mixed",
			examples:      "שלום\tשלום לך\tHello to you\nלהתראות\tלהתראות מחר\tSee you tomorrow\nשלום\tשלום לכולם\tHello everyone\n",
			wantInserted:  2,
			wantUnmatched: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, s, dir := newTestLoader(t)
			wordsFile := writeFile(t, dir, "words.txt", "שלום\tHello\n")
			examplesFile := writeFile(t, dir, "examples.txt", tt.examples)

			_, report, err := loader.Seed(Options{WordsFile: wordsFile, ExamplesFile: examplesFile})
			if err != nil {
				t.Fatalf("Seed() error = %v", err)
			}
			if report.Inserted != tt.wantInserted {
				t.Errorf("Inserted = %d, want %d", report.Inserted, tt.wantInserted)
			}
			if report.Unmatched != tt.wantUnmatched {
				t.Errorf("Unmatched = %d, want %d", report.Unmatched, tt.wantUnmatched)
			}

			examples, err := s.ListExamples(1)
			if err != nil {
				t.Fatalf("ListExamples() error = %v", err)
			}
			if len(examples) != tt.wantInserted {
				t.Errorf("stored %d examples, want %d", len(examples), tt.wantInserted)
			}
			for _, e := range examples {
				if e.WordID != 1 {
					t.Errorf("example %d owned by %d, want 1", e.ID, e.WordID)
				}
			}
		})
	}
}

func TestSeedMissingWordsFile(t *testing.T) {
	loader, s, dir := newTestLoader(t)

	_, _, err := loader.Seed(Options{WordsFile: filepath.Join(dir, "nope.txt")})
	if err == nil {
		t.Fatal("expected error for missing words file")
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("database should not be created when the words file is missing")
	}
}

func TestSeedMissingExamplesFileIsOptional(t *testing.T) {
	loader, _, dir := newTestLoader(t)
	wordsFile := writeFile(t, dir, "words.txt", "שלום\tHello\n")

	words, examples, err := loader.Seed(Options{WordsFile: wordsFile, ExamplesFile: filepath.Join(dir, "none.txt")})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if words.Inserted != 1 || examples.Inserted != 0 {
		t.Errorf("unexpected reports %+v %+v", words, examples)
	}
}

func TestSeedRefusesNonEmptyStore(t *testing.T) {
	loader, s, dir := newTestLoader(t)
	wordsFile := writeFile(t, dir, "words.txt", "שלום\tHello\nתודה\tThanks\n")

	if _, _, err := loader.Seed(Options{WordsFile: wordsFile}); err != nil {
		t.Fatalf("first Seed() error = %v", err)
	}

	_, _, err := loader.Seed(Options{WordsFile: wordsFile})
	if !errors.Is(err, ErrStoreNotEmpty) {
		t.Fatalf("second Seed() error = %v, want ErrStoreNotEmpty", err)
	}
	if n, _ := s.CountWords(); n != 2 {
		t.Errorf("CountWords() = %d, want 2 (no duplicates)", n)
	}

	// Reset recreates the database
	if _, _, err := loader.Seed(Options{WordsFile: wordsFile, Reset: true}); err != nil {
		t.Fatalf("Seed() with reset error = %v", err)
	}
	words, _ := s.ListWords()
	if len(words) != 2 || words[0].ID != 1 {
		t.Errorf("expected 2 words starting at id 1 after reset, got %+v", words)
	}
}
