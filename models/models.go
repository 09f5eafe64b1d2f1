package models

import (
	"regexp"
	"time"
)

type GameMode string

const (
	ModeTurnBased GameMode = "turn-based"
	ModeDuel      GameMode = "duel"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPlaying  RoomStatus = "playing"
	StatusFinished RoomStatus = "finished"
)

// LetterStatus is the per-letter grade of a guess.
type LetterStatus string

const (
	LetterCorrect LetterStatus = "correct"
	LetterPresent LetterStatus = "present"
	LetterAbsent  LetterStatus = "absent"
)

type LetterResult struct {
	Letter   string       `json:"letter"`
	Status   LetterStatus `json:"status"`
	Position int          `json:"position"`
}

// Guess is an append-only record of one submitted attempt.
type Guess struct {
	PlayerID  string         `json:"playerId"`
	Word      string         `json:"word"`
	Result    []LetterResult `json:"result"`
	Position  int            `json:"position"` // 1-based index among the player's guesses
	Timestamp time.Time      `json:"timestamp"`
}

// Player is a connection-scoped participant. Send carries outbound frames
// for the write pump; it is nil for players created in tests.
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Ready     bool        `json:"isReady"`
	Connected bool        `json:"isOnline"`
	JoinedAt  time.Time   `json:"joinedAt"`
	LastSeen  time.Time   `json:"lastSeen"`
	Send      chan []byte `json:"-"`
}

type PlayerSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsHost    bool   `json:"isHost"`
	Ready     bool   `json:"isReady"`
	Connected bool   `json:"isOnline"`
	Guesses   int    `json:"guessCount"`
}

type RoomSnapshot struct {
	Code        string           `json:"code"`
	Mode        GameMode         `json:"mode"`
	WordLength  int              `json:"wordLength"`
	Difficulty  Difficulty       `json:"difficulty"`
	Status      RoomStatus       `json:"status"`
	Players     []PlayerSnapshot `json:"players"`
	CurrentTurn string           `json:"currentTurn,omitempty"`
	TimeLeft    int              `json:"timeLeft"`
}

// RoomConfig is the room-level configuration fixed at creation.
type RoomConfig struct {
	Mode       GameMode
	WordLength int
	Difficulty Difficulty
	TimeLimit  int // seconds; zero means the default
}

// namePattern allows letters (including Turkish letters) and spaces.
var namePattern = regexp.MustCompile(`^[a-zA-ZçÇğĞıİöÖşŞüÜ ]{1,20}$`)

// ValidName reports whether a display name is acceptable: 1-20 characters,
// letters and spaces only, not all whitespace.
func ValidName(name string) bool {
	if !namePattern.MatchString(name) {
		return false
	}
	for _, r := range name {
		if r != ' ' {
			return true
		}
	}
	return false
}
