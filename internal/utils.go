package internal

import (
	"strings"
	"unicode"
)

// Version is the application version shown by --version and the window title
const Version = "1.0.0"

// SanitizeFilename creates a filename from item text. Whitespace and path
// separators become underscores, everything else (Hebrew included) is kept,
// so the same text always maps to the same file.
func SanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '/' || r == '\\' {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
