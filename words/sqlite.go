package words

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS words (
	word       TEXT PRIMARY KEY,
	length     INTEGER NOT NULL,
	difficulty TEXT NOT NULL,
	category   TEXT,
	frequency  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_words_length_difficulty ON words(length, difficulty);
`

// DB is a SQLite-backed Source.
type DB struct {
	db *sql.DB
}

// Open opens (creating if missing) the word database at dsn and ensures the
// schema exists. The parent directory is created for relative paths like
// ./data/words.db.
func Open(dsn string) (*DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// Random picks a uniformly random word for the filter: count the matches,
// then fetch at a random offset.
func (d *DB) Random(ctx context.Context, length int, difficulty string) (string, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM words WHERE length = ? AND difficulty = ?`,
		length, difficulty).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("count words: %w", err)
	}
	if count == 0 {
		return "", ErrNoWord
	}

	var word string
	err = d.db.QueryRowContext(ctx,
		`SELECT word FROM words WHERE length = ? AND difficulty = ? LIMIT 1 OFFSET ?`,
		length, difficulty, rand.Intn(count)).Scan(&word)
	if err != nil {
		return "", fmt.Errorf("pick word: %w", err)
	}
	return word, nil
}

func (d *DB) IsValid(ctx context.Context, word string) (bool, error) {
	w := Normalize(word)
	if !WellFormed(w) {
		return false, nil
	}
	var one int
	err := d.db.QueryRowContext(ctx, `SELECT 1 FROM words WHERE word = ?`, w).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup word: %w", err)
	}
	return true, nil
}

func (d *DB) Hint(ctx context.Context, word string) (Hint, error) {
	w := Normalize(word)
	var category sql.NullString
	err := d.db.QueryRowContext(ctx, `SELECT category FROM words WHERE word = ?`, w).Scan(&category)
	if err == sql.ErrNoRows {
		return Hint{}, ErrNoWord
	}
	if err != nil {
		return Hint{}, fmt.Errorf("lookup hint: %w", err)
	}
	first, _ := utf8.DecodeRuneInString(w)
	return Hint{
		Category:    category.String,
		FirstLetter: strings.ToUpperSpecial(unicode.TurkishCase, string(first)),
		Length:      utf8.RuneCountInString(w),
	}, nil
}

// Stats returns word counts keyed by "<length>_<difficulty>".
func (d *DB) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT length, difficulty, COUNT(*) FROM words GROUP BY length, difficulty`)
	if err != nil {
		return nil, fmt.Errorf("word stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var length, count int
		var difficulty string
		if err := rows.Scan(&length, &difficulty, &count); err != nil {
			return nil, err
		}
		stats[fmt.Sprintf("%d_%s", length, difficulty)] = count
	}
	return stats, rows.Err()
}

// Seed loads a JSON word list (an array of entries) into the database in
// batches. Existing words are kept.
func (d *DB) Seed(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	const batchSize = 1000
	inserted := 0
	for start := 0; start < len(entries); start += batchSize {
		end := start + batchSize
		if end > len(entries) {
			end = len(entries)
		}

		tx, err := d.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		stmt, err := tx.Prepare(
			`INSERT OR IGNORE INTO words (word, length, difficulty, category, frequency) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			tx.Rollback()
			return err
		}
		for _, e := range entries[start:end] {
			w := Normalize(e.Word)
			if !WellFormed(w) {
				continue
			}
			if _, err := stmt.Exec(w, utf8.RuneCountInString(w), e.Difficulty, e.Category, e.Frequency); err != nil {
				stmt.Close()
				tx.Rollback()
				return fmt.Errorf("insert %q: %w", w, err)
			}
			inserted++
		}
		stmt.Close()
		if err := tx.Commit(); err != nil {
			return err
		}
		log.Info().Int("processed", end).Int("total", len(entries)).Msg("seeding words")
	}

	log.Info().Int("inserted", inserted).Str("file", path).Msg("word seed complete")
	return nil
}
