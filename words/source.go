// Package words provides the word dictionary the game draws targets from and
// validates guesses against. Two implementations exist: a SQLite-backed store
// and an in-memory store for tests and seedless development runs.
package words

import (
	"context"
	"errors"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

var ErrNoWord = errors.New("words: no word matches filter")

// Hint is the non-spoiling help revealed for a target word.
type Hint struct {
	Category    string
	FirstLetter string
	Length      int
}

// Source supplies target words and validates guesses. Implementations must be
// safe for concurrent use; rooms call them outside their own locks.
type Source interface {
	// Random returns a word of the given length and difficulty.
	Random(ctx context.Context, length int, difficulty string) (string, error)

	// IsValid reports whether the word is an acceptable guess.
	IsValid(ctx context.Context, word string) (bool, error)

	// Hint returns hint data for a word the source handed out.
	Hint(ctx context.Context, word string) (Hint, error)
}

// wordPattern accepts Turkish letters alongside ASCII ones.
var wordPattern = regexp.MustCompile(`^[a-zA-ZçÇğĞıİöÖşŞüÜ]+$`)

// Normalize lowercases a word with Turkish casing rules (I -> ı, İ -> i)
// and trims surrounding whitespace.
func Normalize(w string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, strings.TrimSpace(w))
}

// WellFormed reports whether a word is 3-8 letters, Turkish alphabet only.
func WellFormed(w string) bool {
	n := utf8.RuneCountInString(w)
	return n >= 3 && n <= 8 && wordPattern.MatchString(w)
}

// Entry is one dictionary row.
type Entry struct {
	Word       string `json:"word"`
	Length     int    `json:"length"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category,omitempty"`
	Frequency  int    `json:"frequency,omitempty"`
}

// Memory is a map-backed Source.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemory(entries ...Entry) *Memory {
	m := &Memory{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		w := Normalize(e.Word)
		if w == "" {
			continue
		}
		e.Word = w
		e.Length = utf8.RuneCountInString(w)
		m.entries[w] = e
	}
	return m
}

func (m *Memory) Random(ctx context.Context, length int, difficulty string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	candidates := make([]string, 0, len(m.entries))
	for w, e := range m.entries {
		if e.Length == length && e.Difficulty == difficulty {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoWord
	}
	return candidates[rand.Intn(len(candidates))], nil
}

func (m *Memory) IsValid(ctx context.Context, word string) (bool, error) {
	w := Normalize(word)
	if !WellFormed(w) {
		return false, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[w]
	return ok, nil
}

func (m *Memory) Hint(ctx context.Context, word string) (Hint, error) {
	w := Normalize(word)
	m.mu.RLock()
	e, ok := m.entries[w]
	m.mu.RUnlock()
	if !ok {
		return Hint{}, ErrNoWord
	}
	first, _ := utf8.DecodeRuneInString(w)
	return Hint{
		Category:    e.Category,
		FirstLetter: strings.ToUpperSpecial(unicode.TurkishCase, string(first)),
		Length:      e.Length,
	}, nil
}
