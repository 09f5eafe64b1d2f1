package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/PrintfDebuggerr/cift-wordle/constants"
	"github.com/PrintfDebuggerr/cift-wordle/game"
	"github.com/PrintfDebuggerr/cift-wordle/models"
	"github.com/PrintfDebuggerr/cift-wordle/presence"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler is the connection gateway: it upgrades connections,
// decodes inbound frames, routes them to the registry or a room, and relays
// the resulting events back to the relevant connections.
type WebSocketHandler struct {
	registry *game.Registry
	presence *presence.Service
}

func NewWebSocketHandler(registry *game.Registry, pres *presence.Service) *WebSocketHandler {
	return &WebSocketHandler{
		registry: registry,
		presence: pres,
	}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	player := &models.Player{
		ID:       uuid.New().String(),
		Send:     make(chan []byte, sendBuffer),
		JoinedAt: time.Now(),
	}
	h.presence.Add(player)

	go writePump(player, conn)
	go h.readPump(player, conn)

	h.sendEvent(player, constants.MSG_CONNECTED, models.ConnectedPayload{PlayerID: player.ID})
	log.Debug().Str("player", player.ID).Msg("connection established")
}

func (h *WebSocketHandler) readPump(player *models.Player, conn *websocket.Conn) {
	defer func() {
		h.handleDisconnect(player)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("player", player.ID).Msg("websocket read error")
			}
			break
		}
		h.route(player, data)
	}
}

func writePump(player *models.Player, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-player.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(player.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-player.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleDisconnect runs when the read pump exits. The room keeps the player
// for the grace period; only the connection bookkeeping goes away now.
func (h *WebSocketHandler) handleDisconnect(player *models.Player) {
	if code, ok := h.presence.Room(player.ID); ok {
		if room, exists := h.registry.Get(code); exists {
			events, err := room.Disconnect(player.ID)
			if err == nil {
				game.Deliver(room.Members(), events)
			}
		}
	}
	h.presence.Remove(player.ID)
	log.Debug().Str("player", player.ID).Msg("connection closed")
}
