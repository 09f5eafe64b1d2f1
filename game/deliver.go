package game

import (
	"encoding/json"

	"github.com/PrintfDebuggerr/cift-wordle/models"
	"github.com/rs/zerolog/log"
)

// Deliver pushes events to the players' send channels in production order.
// Events with a recipient list go only to those players. Frames for slow or
// dead connections are dropped rather than blocking the room.
func Deliver(players []*models.Player, events []models.Event) {
	for _, ev := range events {
		data, err := json.Marshal(models.ServerMessage{Type: ev.Type, Payload: ev.Payload})
		if err != nil {
			log.Error().Err(err).Str("event", ev.Type).Msg("marshal outbound event")
			continue
		}
		for _, p := range players {
			if ev.To != nil && !contains(ev.To, p.ID) {
				continue
			}
			Send(p, data)
		}
	}
}

// Send queues one frame for a player without blocking.
func Send(p *models.Player, data []byte) {
	if p.Send == nil {
		return
	}
	select {
	case p.Send <- data:
	default:
		log.Warn().Str("player", p.ID).Msg("send buffer full, dropping frame")
	}
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
