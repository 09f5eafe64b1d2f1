package models

import (
	"encoding/json"
	"time"
)

// ClientMessage is the tagged envelope for every inbound frame. Payload is
// decoded per message type into one of the payload structs below.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage is the tagged envelope for every outbound frame.
type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Event is one outbound notification produced by a room operation. To lists
// recipient player ids; nil means every room member. Events from a single
// operation are delivered in production order.
type Event struct {
	Type    string
	To      []string
	Payload any
}

// --- inbound payloads ---

type CreateRoomPayload struct {
	PlayerName string     `json:"playerName"`
	GameMode   GameMode   `json:"gameMode"`
	WordLength int        `json:"wordLength"`
	Difficulty Difficulty `json:"difficulty"`
}

type JoinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type ReadyPayload struct {
	RoomCode string `json:"roomCode"`
	Ready    bool   `json:"ready"`
}

type GuessPayload struct {
	RoomCode string `json:"roomCode"`
	Word     string `json:"word"`
}

type ChatPayload struct {
	RoomCode string `json:"roomCode"`
	Message  string `json:"message"`
}

type HintRequestPayload struct {
	RoomCode string `json:"roomCode"`
}

type LeavePayload struct {
	RoomCode string `json:"roomCode"`
}

// --- outbound payloads ---

type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
}

type RoomCreatedPayload struct {
	RoomCode string       `json:"roomCode"`
	Room     RoomSnapshot `json:"room"`
}

type PlayerJoinedPayload struct {
	Player PlayerSnapshot `json:"player"`
	Room   RoomSnapshot   `json:"room"`
}

type RoomReadyPayload struct {
	Room RoomSnapshot `json:"room"`
}

type ReadyUpdatedPayload struct {
	PlayerID string       `json:"playerId"`
	Ready    bool         `json:"ready"`
	Room     RoomSnapshot `json:"room"`
}

type GameStartedPayload struct {
	Mode        GameMode `json:"mode"`
	TargetWord  string   `json:"targetWord"`
	CurrentTurn string   `json:"currentTurn,omitempty"`
	TimeLimit   int      `json:"timeLimit"`
}

type GuessResultPayload struct {
	PlayerID  string         `json:"playerId"`
	Word      string         `json:"word"`
	Result    []LetterResult `json:"result"`
	IsCorrect bool           `json:"isCorrect"`
	Position  int            `json:"position"`
}

type TurnChangedPayload struct {
	CurrentTurn string `json:"currentTurn"`
	PlayerName  string `json:"playerName"`
}

type GameEndedPayload struct {
	WinnerID    string             `json:"winnerId,omitempty"`
	Reason      string             `json:"reason"` // "win", "timeout", "forfeit"
	TargetWords map[string]string  `json:"targetWords"`
	Duration    int                `json:"duration"` // seconds
	Guesses     map[string][]Guess `json:"guesses"`
}

type ChatMessagePayload struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

type HintPayload struct {
	Category    string `json:"category,omitempty"`
	FirstLetter string `json:"firstLetter"`
	Length      int    `json:"length"`
}

type PlayerLeftPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
