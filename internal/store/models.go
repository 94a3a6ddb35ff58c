package store

import "fmt"

// WordEntry is one vocabulary item.
type WordEntry struct {
	ID        int64
	Hebrew    string
	English   string
	AudioFile string // empty until audio has been generated
}

// ExamplePhrase is a usage example owned by exactly one WordEntry.
type ExamplePhrase struct {
	ID        int64
	WordID    int64
	Hebrew    string
	English   string
	AudioFile string
}

// Kind selects whether an item id refers to a word or an example.
type Kind int

const (
	KindWord Kind = iota
	KindExample
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindExample:
		return "example"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// table returns the table and the Hebrew text column for the kind.
func (k Kind) table() (table, textColumn string, err error) {
	switch k {
	case KindWord:
		return "words", "hebrew", nil
	case KindExample:
		return "examples", "hebrew_phrase", nil
	default:
		return "", "", fmt.Errorf("unknown item kind: %s", k)
	}
}
