package seed

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/hebrewtrainer/internal/store"
)

// ErrStoreNotEmpty is returned by Seed when words already exist and no
// reset was requested. Seeding twice would duplicate every word.
var ErrStoreNotEmpty = errors.New("store already contains words")

// Store is the subset of the store used while seeding
type Store interface {
	Create() error
	Reset() error
	CountWords() (int, error)
	InsertWord(hebrew, english string) (int64, error)
	InsertExample(wordID int64, hebrew, english string) (int64, error)
	FindWordID(hebrew string) (int64, error)
}

// Report summarizes one file load
type Report struct {
	Inserted  int
	Skipped   int // malformed lines
	Unmatched int // examples whose word was not found
}

// Options controls a full seed run
type Options struct {
	WordsFile    string
	ExamplesFile string // optional
	Reset        bool   // delete and recreate the database first
}

// Loader ingests seed files into a store
type Loader struct {
	store  Store
	logger *log.Logger
}

// NewLoader creates a loader. A nil logger uses the default logger.
func NewLoader(s Store, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{store: s, logger: logger}
}

// Seed runs a full ingestion: words first, then examples.
func (l *Loader) Seed(opts Options) (words Report, examples Report, err error) {
	if opts.WordsFile == "" {
		return words, examples, fmt.Errorf("words file is required")
	}
	// A missing words file aborts before the database is touched
	if _, err := os.Stat(opts.WordsFile); err != nil {
		return words, examples, fmt.Errorf("words file not found: %w", err)
	}

	if opts.Reset {
		l.logger.Info("Recreating database")
		if err := l.store.Reset(); err != nil {
			return words, examples, err
		}
	} else {
		if err := l.store.Create(); err != nil {
			return words, examples, err
		}
		n, err := l.store.CountWords()
		if err != nil {
			return words, examples, err
		}
		if n > 0 {
			return words, examples, fmt.Errorf("%w (%d words), use reset to reseed", ErrStoreNotEmpty, n)
		}
	}

	words, err = l.LoadWords(opts.WordsFile)
	if err != nil {
		return words, examples, err
	}

	if opts.ExamplesFile == "" {
		return words, examples, nil
	}
	if _, err := os.Stat(opts.ExamplesFile); os.IsNotExist(err) {
		l.logger.Warn("No examples file found, skipping", "file", opts.ExamplesFile)
		return words, examples, nil
	}

	examples, err = l.LoadExamples(opts.ExamplesFile)
	return words, examples, err
}

// LoadWords inserts one word per valid line, in file order.
func (l *Loader) LoadWords(path string) (Report, error) {
	var report Report

	lines, skipped, err := ReadWordsFile(path)
	if err != nil {
		return report, err
	}
	report.Skipped = skipped
	if skipped > 0 {
		l.logger.Debug("Skipped malformed word lines", "file", path, "count", skipped)
	}

	for _, line := range lines {
		if _, err := l.store.InsertWord(line.Hebrew, line.English); err != nil {
			return report, err
		}
		report.Inserted++
	}

	l.logger.Info("Words loaded", "file", path, "inserted", report.Inserted, "skipped", report.Skipped)
	return report, nil
}

// LoadExamples inserts examples whose word exists. Examples for unknown
// words are skipped with a warning.
func (l *Loader) LoadExamples(path string) (Report, error) {
	var report Report

	lines, skipped, err := ReadExamplesFile(path)
	if err != nil {
		return report, err
	}
	report.Skipped = skipped

	for _, line := range lines {
		wordID, err := l.store.FindWordID(line.Word)
		if errors.Is(err, store.ErrNotFound) {
			l.logger.Warn("Word not found in database, skipping example", "word", line.Word, "example", line.Hebrew)
			report.Unmatched++
			continue
		}
		if err != nil {
			return report, err
		}

		if _, err := l.store.InsertExample(wordID, line.Hebrew, line.English); err != nil {
			return report, err
		}
		report.Inserted++
	}

	l.logger.Info("Examples loaded", "file", path,
		"inserted", report.Inserted, "skipped", report.Skipped, "unmatched", report.Unmatched)
	return report, nil
}
