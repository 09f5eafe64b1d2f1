// Package presence tracks connected players and the room each one is in, so
// the gateway can route disconnects and the health endpoint can report live
// connection counts.
package presence

import (
	"sync"

	"github.com/PrintfDebuggerr/cift-wordle/models"
)

type entry struct {
	player   *models.Player
	roomCode string
}

type Service struct {
	mu      sync.RWMutex
	players map[string]*entry
}

func NewService() *Service {
	return &Service{players: make(map[string]*entry)}
}

func (s *Service) Add(player *models.Player) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.players[player.ID]; exists {
		return false
	}
	s.players[player.ID] = &entry{player: player}
	return true
}

func (s *Service) Remove(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, playerID)
}

func (s *Service) Get(playerID string) (*models.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.players[playerID]
	if !exists {
		return nil, false
	}
	return e.player, true
}

// SetRoom binds the player to a room code; an empty code clears the binding.
func (s *Service) SetRoom(playerID, roomCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.players[playerID]; exists {
		e.roomCode = roomCode
	}
}

// Room returns the code of the room the player currently occupies.
func (s *Service) Room(playerID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.players[playerID]
	if !exists || e.roomCode == "" {
		return "", false
	}
	return e.roomCode, true
}

func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
