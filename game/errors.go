package game

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrInvalidState      = errors.New("operation not allowed in this room state")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidWord       = errors.New("word is not in the dictionary")
	ErrGuessLimitReached = errors.New("no guesses remaining")
	ErrInvalidName       = errors.New("invalid player name")
	ErrNotInRoom         = errors.New("player is not in this room")
	ErrInvalidConfig     = errors.New("unsupported room configuration")
	ErrHintUsed          = errors.New("hint already used")
)

// ErrorKind maps a game error to the wire-level kind delivered in error
// events. Unknown errors collapse to "internal".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrNotInRoom):
		return "invalid_state"
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrInvalidWord):
		return "invalid_word"
	case errors.Is(err, ErrGuessLimitReached):
		return "guess_limit_reached"
	case errors.Is(err, ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, ErrHintUsed):
		return "hint_used"
	default:
		return "internal"
	}
}
