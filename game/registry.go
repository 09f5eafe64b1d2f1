package game

import (
	"math/rand"
	"sync"

	"github.com/PrintfDebuggerr/cift-wordle/constants"
	"github.com/PrintfDebuggerr/cift-wordle/models"
	"github.com/PrintfDebuggerr/cift-wordle/words"
	"github.com/rs/zerolog/log"
)

// Registry is the process-wide room map. Its lock only covers insert, lookup
// and delete; gameplay serializes on each room's own mutex.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	source words.Source
}

func NewRegistry(source words.Source) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		source: source,
	}
}

// CreateRoom builds an empty waiting room under a fresh code and joins the
// creating player as host in the same operation.
func (reg *Registry) CreateRoom(cfg models.RoomConfig, host *models.Player) (*Room, []models.Event, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, nil, err
	}
	if !models.ValidName(host.Name) {
		return nil, nil, ErrInvalidName
	}

	reg.mu.Lock()
	var code string
	for {
		code = generateRoomCode()
		if _, taken := reg.rooms[code]; !taken {
			break
		}
	}
	room := newRoom(code, cfg, reg.source, reg.remove)
	reg.rooms[code] = room
	reg.mu.Unlock()

	joinEvents, err := room.Join(host)
	if err != nil {
		// Cannot happen for a freshly created room; fail closed anyway.
		reg.remove(code)
		return nil, nil, err
	}

	log.Info().Str("room", code).Str("host", host.Name).Str("mode", string(cfg.Mode)).Msg("room created")
	events := append([]models.Event{{
		Type: constants.MSG_ROOM_CREATED,
		To:   []string{host.ID},
		Payload: models.RoomCreatedPayload{
			RoomCode: code,
			Room:     room.Snapshot(),
		},
	}}, joinEvents...)
	return room, events, nil
}

// JoinRoom looks a room up by code and delegates to the room's Join.
func (reg *Registry) JoinRoom(code string, p *models.Player) (*Room, []models.Event, error) {
	if !models.ValidName(p.Name) {
		return nil, nil, ErrInvalidName
	}
	room, ok := reg.Get(code)
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	events, err := room.Join(p)
	if err != nil {
		return nil, nil, err
	}
	return room, events, nil
}

func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[code]
	return room, ok
}

// RemoveRoomIfEmpty deletes the room entry once its player count is zero.
func (reg *Registry) RemoveRoomIfEmpty(code string) {
	room, ok := reg.Get(code)
	if !ok {
		return
	}
	if len(room.Members()) == 0 {
		reg.remove(code)
	}
}

func (reg *Registry) remove(code string) {
	reg.mu.Lock()
	delete(reg.rooms, code)
	reg.mu.Unlock()
	log.Info().Str("room", code).Msg("room removed")
}

// Counts reports live rooms and players, for the health endpoint. The room
// list is snapshotted first so no room lock is taken under the registry lock.
func (reg *Registry) Counts() (rooms, players int) {
	reg.mu.RLock()
	list := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		list = append(list, room)
	}
	reg.mu.RUnlock()

	for _, room := range list {
		players += len(room.Members())
	}
	return len(list), players
}

func validateConfig(cfg models.RoomConfig) error {
	if cfg.Mode != models.ModeTurnBased && cfg.Mode != models.ModeDuel {
		return ErrInvalidConfig
	}
	if cfg.WordLength < constants.MIN_WORD_LENGTH || cfg.WordLength > constants.MAX_WORD_LENGTH {
		return ErrInvalidConfig
	}
	switch cfg.Difficulty {
	case models.DifficultyEasy, models.DifficultyNormal, models.DifficultyHard:
	default:
		return ErrInvalidConfig
	}
	return nil
}

func generateRoomCode() string {
	code := make([]byte, constants.ROOM_CODE_LENGTH)
	for i := range code {
		code[i] = constants.ROOM_CODE_ALPHABET[rand.Intn(len(constants.ROOM_CODE_ALPHABET))]
	}
	return string(code)
}
