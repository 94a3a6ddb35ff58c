package seed

import (
	"fmt"
	"os"
	"strings"
)

// WordLine is one parsed line of the words file
type WordLine struct {
	Hebrew  string
	English string
}

// ExampleLine is one parsed line of the examples file
type ExampleLine struct {
	Word    string // Hebrew text of the owning word
	Hebrew  string
	English string
}

// ReadWordsFile reads "hebrew<TAB>english" lines.
// Returns the parsed lines in file order and the number of skipped lines.
func ReadWordsFile(filename string) ([]WordLine, int, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read words file: %w", err)
	}

	var entries []WordLine
	skipped := 0
	for _, line := range splitLines(string(content)) {
		entry, ok := parseWordLine(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				skipped++
			}
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped, nil
}

// ReadExamplesFile reads "word<TAB>hebrewPhrase<TAB>englishPhrase" lines.
func ReadExamplesFile(filename string) ([]ExampleLine, int, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read examples file: %w", err)
	}

	var entries []ExampleLine
	skipped := 0
	for _, line := range splitLines(string(content)) {
		entry, ok := parseExampleLine(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				skipped++
			}
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped, nil
}

// parseWordLine splits on the first tab. Blank lines and lines
// without a tab are rejected.
func parseWordLine(line string) (WordLine, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.Contains(line, "\t") {
		return WordLine{}, false
	}
	parts := strings.SplitN(line, "\t", 2)
	return WordLine{Hebrew: parts[0], English: parts[1]}, true
}

// parseExampleLine requires exactly three tab-separated fields.
func parseExampleLine(line string) (ExampleLine, bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.Contains(line, "\t") {
		return ExampleLine{}, false
	}
	parts := strings.Split(line, "\t")
	if len(parts) != 3 {
		return ExampleLine{}, false
	}
	return ExampleLine{Word: parts[0], Hebrew: parts[1], English: parts[2]}, true
}

// splitLines splits on newlines, dropping carriage returns and a
// trailing empty line
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r", "")
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
