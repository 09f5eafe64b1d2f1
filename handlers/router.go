package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/PrintfDebuggerr/cift-wordle/constants"
	"github.com/PrintfDebuggerr/cift-wordle/game"
	"github.com/PrintfDebuggerr/cift-wordle/models"
)

// wordSourceTimeout bounds the dictionary calls a single frame can trigger.
const wordSourceTimeout = 5 * time.Second

// route decodes one inbound frame and dispatches it. Errors go back to the
// originating connection only; events go to the room.
func (h *WebSocketHandler) route(player *models.Player, data []byte) {
	var msg models.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Debug().Err(err).Str("player", player.ID).Msg("malformed frame")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), wordSourceTimeout)
	defer cancel()

	var err error
	switch msg.Type {
	case constants.MSG_CREATE_ROOM:
		err = h.handleCreateRoom(ctx, player, msg.Payload)
	case constants.MSG_JOIN_ROOM:
		err = h.handleJoinRoom(ctx, player, msg.Payload)
	case constants.MSG_PLAYER_READY:
		err = h.handleReady(ctx, player, msg.Payload)
	case constants.MSG_MAKE_GUESS:
		err = h.handleGuess(ctx, player, msg.Payload)
	case constants.MSG_SEND_MESSAGE:
		err = h.handleChat(player, msg.Payload)
	case constants.MSG_GET_HINT:
		err = h.handleHint(ctx, player, msg.Payload)
	case constants.MSG_LEAVE_ROOM:
		err = h.handleLeave(player, msg.Payload)
	default:
		log.Debug().Str("type", msg.Type).Str("player", player.ID).Msg("unknown message type")
		return
	}

	if err != nil {
		h.sendError(player, err)
	}
}

func (h *WebSocketHandler) handleCreateRoom(ctx context.Context, player *models.Player, raw json.RawMessage) error {
	var p models.CreateRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return game.ErrInvalidConfig
	}
	if _, inRoom := h.presence.Room(player.ID); inRoom {
		return game.ErrInvalidState
	}

	player.Name = p.PlayerName
	room, events, err := h.registry.CreateRoom(models.RoomConfig{
		Mode:       p.GameMode,
		WordLength: p.WordLength,
		Difficulty: p.Difficulty,
	}, player)
	if err != nil {
		return err
	}

	h.presence.SetRoom(player.ID, room.Code())
	game.Deliver(room.Members(), events)
	return nil
}

func (h *WebSocketHandler) handleJoinRoom(ctx context.Context, player *models.Player, raw json.RawMessage) error {
	var p models.JoinRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return game.ErrRoomNotFound
	}
	if _, inRoom := h.presence.Room(player.ID); inRoom {
		return game.ErrInvalidState
	}

	player.Name = p.PlayerName
	room, events, err := h.registry.JoinRoom(p.RoomCode, player)
	if err != nil {
		return err
	}

	h.presence.SetRoom(player.ID, room.Code())
	game.Deliver(room.Members(), events)
	return nil
}

func (h *WebSocketHandler) handleReady(ctx context.Context, player *models.Player, raw json.RawMessage) error {
	var p models.ReadyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return game.ErrRoomNotFound
	}
	room, ok := h.registry.Get(p.RoomCode)
	if !ok {
		return game.ErrRoomNotFound
	}

	events, err := room.SetReady(ctx, player.ID, p.Ready)
	game.Deliver(room.Members(), events)
	return err
}

func (h *WebSocketHandler) handleGuess(ctx context.Context, player *models.Player, raw json.RawMessage) error {
	var p models.GuessPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return game.ErrRoomNotFound
	}
	room, ok := h.registry.Get(p.RoomCode)
	if !ok {
		return game.ErrRoomNotFound
	}

	events, err := room.SubmitGuess(ctx, player.ID, p.Word)
	if err != nil {
		return err
	}
	game.Deliver(room.Members(), events)
	return nil
}

func (h *WebSocketHandler) handleChat(player *models.Player, raw json.RawMessage) error {
	var p models.ChatPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return game.ErrRoomNotFound
	}
	room, ok := h.registry.Get(p.RoomCode)
	if !ok {
		return game.ErrRoomNotFound
	}

	events, err := room.Chat(player.ID, p.Message)
	if err != nil {
		return err
	}
	game.Deliver(room.Members(), events)
	return nil
}

func (h *WebSocketHandler) handleHint(ctx context.Context, player *models.Player, raw json.RawMessage) error {
	var p models.HintRequestPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return game.ErrRoomNotFound
	}
	room, ok := h.registry.Get(p.RoomCode)
	if !ok {
		return game.ErrRoomNotFound
	}

	events, err := room.HintFor(ctx, player.ID)
	if err != nil {
		return err
	}
	game.Deliver(room.Members(), events)
	return nil
}

func (h *WebSocketHandler) handleLeave(player *models.Player, raw json.RawMessage) error {
	var p models.LeavePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return game.ErrRoomNotFound
	}
	room, ok := h.registry.Get(p.RoomCode)
	if !ok {
		return game.ErrRoomNotFound
	}

	events, err := room.Leave(player.ID)
	if err != nil {
		return err
	}
	h.presence.SetRoom(player.ID, "")
	game.Deliver(room.Members(), events)
	return nil
}

func (h *WebSocketHandler) sendError(player *models.Player, err error) {
	h.sendEvent(player, constants.MSG_ERROR, models.ErrorPayload{
		Kind:    game.ErrorKind(err),
		Message: err.Error(),
	})
}

func (h *WebSocketHandler) sendEvent(player *models.Player, msgType string, payload any) {
	data, err := json.Marshal(models.ServerMessage{Type: msgType, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", msgType).Msg("marshal outbound event")
		return
	}
	game.Send(player, data)
}
