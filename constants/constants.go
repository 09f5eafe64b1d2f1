package constants

import "time"

const (
	// Game constants
	MAX_GUESSES        = 6
	DEFAULT_TIME_LIMIT = 300 // seconds per game
	DISCONNECT_GRACE   = 30 * time.Second
	ROOM_CODE_LENGTH   = 6
	ROOM_CODE_ALPHABET = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	MIN_WORD_LENGTH = 4
	MAX_WORD_LENGTH = 6

	// Inbound message types
	MSG_CREATE_ROOM  = "create_room"
	MSG_JOIN_ROOM    = "join_room"
	MSG_PLAYER_READY = "player_ready"
	MSG_MAKE_GUESS   = "make_guess"
	MSG_SEND_MESSAGE = "send_message"
	MSG_GET_HINT     = "get_hint"
	MSG_LEAVE_ROOM   = "leave_room"

	// Outbound message types
	MSG_CONNECTED            = "connected"
	MSG_ROOM_CREATED         = "room_created"
	MSG_PLAYER_JOINED        = "player_joined"
	MSG_ROOM_READY           = "room_ready"
	MSG_PLAYER_READY_UPDATED = "player_ready_updated"
	MSG_GAME_STARTED         = "game_started"
	MSG_GUESS_RESULT         = "guess_result"
	MSG_TURN_CHANGED         = "turn_changed"
	MSG_GAME_ENDED           = "game_ended"
	MSG_CHAT_MESSAGE         = "chat_message"
	MSG_HINT                 = "hint"
	MSG_PLAYER_LEFT          = "player_left"
	MSG_PLAYER_DISCONNECTED  = "player_disconnected"
	MSG_ERROR                = "error"
)
