package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS words (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    hebrew TEXT NOT NULL,
    english TEXT NOT NULL,
    mp3_file TEXT
);

CREATE TABLE IF NOT EXISTS examples (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    word_id INTEGER NOT NULL,
    hebrew_phrase TEXT NOT NULL,
    english_phrase TEXT NOT NULL,
    mp3_file TEXT,
    FOREIGN KEY(word_id) REFERENCES words(id)
);

CREATE INDEX IF NOT EXISTS idx_words_hebrew ON words(hebrew);
CREATE INDEX IF NOT EXISTS idx_examples_word_id ON examples(word_id);
`
