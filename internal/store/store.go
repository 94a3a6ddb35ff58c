package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an item id or word text has no row.
var ErrNotFound = errors.New("not found")

// Store is a handle on the SQLite database file. It holds no open
// connection; concurrent writers may race on SetAudioRef.
type Store struct {
	path string
}

// New creates a store for the database at path. The file is not touched
// until the first operation.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// open opens a fresh connection with foreign keys enforced.
func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", s.path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", s.path, err)
	}
	return db, nil
}

// openExisting refuses to create an empty database file on a read.
func (s *Store) openExisting() (*sql.DB, error) {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("database %s does not exist (run seed first)", s.path)
		}
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}
	return s.open()
}

// Create creates the schema, making the parent directory if needed.
func (s *Store) Create() error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Reset deletes the database file and recreates an empty schema.
func (s *Store) Reset() error {
	for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete old database: %w", err)
		}
	}
	return s.Create()
}

// ListWords returns all words ordered by id.
func (s *Store) ListWords() ([]WordEntry, error) {
	db, err := s.openExisting()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, hebrew, english, mp3_file FROM words ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	var out []WordEntry
	for rows.Next() {
		var w WordEntry
		var audio sql.NullString
		if err := rows.Scan(&w.ID, &w.Hebrew, &w.English, &audio); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		w.AudioFile = audio.String
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListExamples returns the examples owned by wordID ordered by id.
func (s *Store) ListExamples(wordID int64) ([]ExamplePhrase, error) {
	db, err := s.openExisting()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, word_id, hebrew_phrase, english_phrase, mp3_file
		FROM examples WHERE word_id = ? ORDER BY id`, wordID)
	if err != nil {
		return nil, fmt.Errorf("list examples: %w", err)
	}
	defer rows.Close()

	var out []ExamplePhrase
	for rows.Next() {
		var e ExamplePhrase
		var audio sql.NullString
		if err := rows.Scan(&e.ID, &e.WordID, &e.Hebrew, &e.English, &audio); err != nil {
			return nil, fmt.Errorf("scan example: %w", err)
		}
		e.AudioFile = audio.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWord returns a single word by id.
func (s *Store) GetWord(id int64) (WordEntry, error) {
	db, err := s.openExisting()
	if err != nil {
		return WordEntry{}, err
	}
	defer db.Close()

	w := WordEntry{ID: id}
	var audio sql.NullString
	err = db.QueryRow(`SELECT hebrew, english, mp3_file FROM words WHERE id = ?`, id).
		Scan(&w.Hebrew, &w.English, &audio)
	if errors.Is(err, sql.ErrNoRows) {
		return WordEntry{}, fmt.Errorf("word %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return WordEntry{}, fmt.Errorf("get word %d: %w", id, err)
	}
	w.AudioFile = audio.String
	return w, nil
}

// GetExample returns a single example by id.
func (s *Store) GetExample(id int64) (ExamplePhrase, error) {
	db, err := s.openExisting()
	if err != nil {
		return ExamplePhrase{}, err
	}
	defer db.Close()

	e := ExamplePhrase{ID: id}
	var audio sql.NullString
	err = db.QueryRow(`SELECT word_id, hebrew_phrase, english_phrase, mp3_file FROM examples WHERE id = ?`, id).
		Scan(&e.WordID, &e.Hebrew, &e.English, &audio)
	if errors.Is(err, sql.ErrNoRows) {
		return ExamplePhrase{}, fmt.Errorf("example %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ExamplePhrase{}, fmt.Errorf("get example %d: %w", id, err)
	}
	e.AudioFile = audio.String
	return e, nil
}

// GetAudioRef returns the Hebrew text of an item and its cached audio path.
// The path is empty when no audio has been stored yet.
func (s *Store) GetAudioRef(id int64, kind Kind) (text string, path string, err error) {
	table, column, err := kind.table()
	if err != nil {
		return "", "", err
	}

	db, err := s.openExisting()
	if err != nil {
		return "", "", err
	}
	defer db.Close()

	var audio sql.NullString
	query := fmt.Sprintf(`SELECT %s, mp3_file FROM %s WHERE id = ?`, column, table)
	err = db.QueryRow(query, id).Scan(&text, &audio)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("get audio reference for %s %d: %w", kind, id, err)
	}
	return text, audio.String, nil
}

// SetAudioRef stores the audio path for an item.
func (s *Store) SetAudioRef(id int64, kind Kind, path string) error {
	table, _, err := kind.table()
	if err != nil {
		return err
	}

	db, err := s.openExisting()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.Exec(fmt.Sprintf(`UPDATE %s SET mp3_file = ? WHERE id = ?`, table), path, id)
	if err != nil {
		return fmt.Errorf("set audio reference for %s %d: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

// InsertWord adds a word and returns its new id.
func (s *Store) InsertWord(hebrew, english string) (int64, error) {
	db, err := s.openExisting()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	res, err := db.Exec(`INSERT INTO words (hebrew, english) VALUES (?, ?)`, hebrew, english)
	if err != nil {
		return 0, fmt.Errorf("insert word %q: %w", hebrew, err)
	}
	return res.LastInsertId()
}

// InsertExample adds an example owned by wordID and returns its new id.
func (s *Store) InsertExample(wordID int64, hebrew, english string) (int64, error) {
	db, err := s.openExisting()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	res, err := db.Exec(`INSERT INTO examples (word_id, hebrew_phrase, english_phrase) VALUES (?, ?, ?)`,
		wordID, hebrew, english)
	if err != nil {
		return 0, fmt.Errorf("insert example %q: %w", hebrew, err)
	}
	return res.LastInsertId()
}

// FindWordID looks up a word by exact Hebrew text. With duplicates the
// lowest id wins.
func (s *Store) FindWordID(hebrew string) (int64, error) {
	db, err := s.openExisting()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var id int64
	err = db.QueryRow(`SELECT id FROM words WHERE hebrew = ? ORDER BY id LIMIT 1`, hebrew).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("word %q: %w", hebrew, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("find word %q: %w", hebrew, err)
	}
	return id, nil
}

// CountWords returns the number of stored words.
func (s *Store) CountWords() (int, error) {
	db, err := s.openExisting()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}
