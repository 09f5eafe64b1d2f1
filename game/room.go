package game

import (
	"context"
	"sync"
	"time"

	"github.com/PrintfDebuggerr/cift-wordle/constants"
	"github.com/PrintfDebuggerr/cift-wordle/models"
	"github.com/PrintfDebuggerr/cift-wordle/words"
	"github.com/rs/zerolog/log"
)

// Room is one game session. All operations serialize on the room mutex;
// different rooms proceed fully in parallel. WordSource calls happen outside
// the critical section and their results are applied back under the lock.
type Room struct {
	code       string
	mode       models.GameMode
	wordLength int
	difficulty models.Difficulty
	timeLimit  int
	source     words.Source
	onEmpty    func(code string)
	grace      time.Duration

	mu          sync.Mutex
	status      models.RoomStatus
	players     []*models.Player // ordered, players[0] is host
	targets     map[string]string
	guesses     map[string][]models.Guess
	hintsUsed   map[string]bool
	currentTurn string
	timeLeft    int
	startedAt   time.Time
	winnerID    string
	starting    bool
	ticker      *time.Ticker
	stopTick    chan struct{}
	graceTimers map[string]*time.Timer
}

func newRoom(code string, cfg models.RoomConfig, source words.Source, onEmpty func(string)) *Room {
	limit := cfg.TimeLimit
	if limit <= 0 {
		limit = constants.DEFAULT_TIME_LIMIT
	}
	return &Room{
		code:        code,
		mode:        cfg.Mode,
		wordLength:  cfg.WordLength,
		difficulty:  cfg.Difficulty,
		timeLimit:   limit,
		source:      source,
		onEmpty:     onEmpty,
		grace:       constants.DISCONNECT_GRACE,
		status:      models.StatusWaiting,
		targets:     make(map[string]string),
		guesses:     make(map[string][]models.Guess),
		hintsUsed:   make(map[string]bool),
		graceTimers: make(map[string]*time.Timer),
	}
}

func (r *Room) Code() string { return r.code }

func (r *Room) Status() models.RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Members returns the current player list. The slice is a copy; the players
// themselves are shared.
func (r *Room) Members() []*models.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.membersLocked()
}

func (r *Room) membersLocked() []*models.Player {
	out := make([]*models.Player, len(r.players))
	copy(out, r.players)
	return out
}

func (r *Room) Snapshot() models.RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() models.RoomSnapshot {
	snap := models.RoomSnapshot{
		Code:        r.code,
		Mode:        r.mode,
		WordLength:  r.wordLength,
		Difficulty:  r.difficulty,
		Status:      r.status,
		CurrentTurn: r.currentTurn,
		TimeLeft:    r.timeLeft,
		Players:     make([]models.PlayerSnapshot, len(r.players)),
	}
	for i, p := range r.players {
		snap.Players[i] = models.PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			IsHost:    i == 0,
			Ready:     p.Ready,
			Connected: p.Connected,
			Guesses:   len(r.guesses[p.ID]),
		}
	}
	return snap
}

func (r *Room) memberLocked(playerID string) *models.Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// Join admits a player into a waiting room with a free seat.
func (r *Room) Join(p *models.Player) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.StatusWaiting {
		return nil, ErrInvalidState
	}
	if len(r.players) >= 2 {
		return nil, ErrRoomFull
	}

	p.Connected = true
	p.JoinedAt = time.Now()
	p.LastSeen = p.JoinedAt
	r.players = append(r.players, p)

	snap := r.snapshotLocked()
	events := []models.Event{{
		Type: constants.MSG_PLAYER_JOINED,
		Payload: models.PlayerJoinedPayload{
			Player: snap.Players[len(snap.Players)-1],
			Room:   snap,
		},
	}}
	if len(r.players) == 2 {
		events = append(events, models.Event{
			Type:    constants.MSG_ROOM_READY,
			Payload: models.RoomReadyPayload{Room: snap},
		})
	}
	return events, nil
}

// SetReady flips a player's ready flag. When both players are present and
// ready it draws the target word(s) and transitions the room to playing.
func (r *Room) SetReady(ctx context.Context, playerID string, ready bool) ([]models.Event, error) {
	r.mu.Lock()
	if r.status != models.StatusWaiting {
		r.mu.Unlock()
		return nil, ErrInvalidState
	}
	p := r.memberLocked(playerID)
	if p == nil {
		r.mu.Unlock()
		return nil, ErrNotInRoom
	}
	p.Ready = ready

	events := []models.Event{{
		Type: constants.MSG_PLAYER_READY_UPDATED,
		Payload: models.ReadyUpdatedPayload{
			PlayerID: playerID,
			Ready:    ready,
			Room:     r.snapshotLocked(),
		},
	}}

	shouldStart := len(r.players) == 2 && !r.starting
	for _, m := range r.players {
		if !m.Ready {
			shouldStart = false
		}
	}
	if shouldStart {
		r.starting = true
	}
	r.mu.Unlock()

	if !shouldStart {
		return events, nil
	}

	// Word draws hit the WordSource, so they run outside the room lock.
	targets, err := r.drawTargets(ctx)
	if err != nil {
		r.mu.Lock()
		r.starting = false
		r.mu.Unlock()
		log.Error().Err(err).Str("room", r.code).Msg("target word draw failed")
		return events, err
	}

	r.mu.Lock()
	if r.status != models.StatusWaiting || len(r.players) != 2 {
		// A leave raced the draw; stay as we are.
		r.starting = false
		r.mu.Unlock()
		return events, nil
	}
	r.targets = targets
	r.status = models.StatusPlaying
	r.timeLeft = r.timeLimit
	r.startedAt = time.Now()
	if r.mode == models.ModeTurnBased {
		r.currentTurn = r.players[0].ID // host goes first
	}
	events = append(events, r.gameStartedEventsLocked()...)
	r.startClockLocked()
	r.mu.Unlock()

	log.Info().Str("room", r.code).Str("mode", string(r.mode)).Msg("game started")
	return events, nil
}

func (r *Room) drawTargets(ctx context.Context) (map[string]string, error) {
	members := r.Members()
	targets := make(map[string]string, len(members))

	if r.mode == models.ModeDuel {
		for _, p := range members {
			word, err := r.source.Random(ctx, r.wordLength, string(r.difficulty))
			if err != nil {
				return nil, err
			}
			targets[p.ID] = word
		}
		return targets, nil
	}

	word, err := r.source.Random(ctx, r.wordLength, string(r.difficulty))
	if err != nil {
		return nil, err
	}
	for _, p := range members {
		targets[p.ID] = word
	}
	return targets, nil
}

func (r *Room) gameStartedEventsLocked() []models.Event {
	if r.mode == models.ModeDuel {
		// Each player only learns their own target.
		events := make([]models.Event, 0, len(r.players))
		for _, p := range r.players {
			events = append(events, models.Event{
				Type: constants.MSG_GAME_STARTED,
				To:   []string{p.ID},
				Payload: models.GameStartedPayload{
					Mode:       r.mode,
					TargetWord: r.targets[p.ID],
					TimeLimit:  r.timeLimit,
				},
			})
		}
		return events
	}
	return []models.Event{{
		Type: constants.MSG_GAME_STARTED,
		Payload: models.GameStartedPayload{
			Mode:        r.mode,
			TargetWord:  r.targets[r.players[0].ID],
			CurrentTurn: r.currentTurn,
			TimeLimit:   r.timeLimit,
		},
	}}
}

// SubmitGuess validates and scores one guess. Dictionary validation runs
// outside the lock; turn, state and budget are re-checked before applying so
// the operation stays atomic.
func (r *Room) SubmitGuess(ctx context.Context, playerID, word string) ([]models.Event, error) {
	guess := words.Normalize(word)

	r.mu.Lock()
	if err := r.guessPreconditionsLocked(playerID, guess); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.mu.Unlock()

	ok, err := r.source.IsValid(ctx, guess)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Invalid words never consume the guess budget.
		return nil, ErrInvalidWord
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guessPreconditionsLocked(playerID, guess); err != nil {
		return nil, err
	}

	target := r.targets[playerID]
	result := Evaluate(guess, target)
	correct := allCorrect(result)

	record := models.Guess{
		PlayerID:  playerID,
		Word:      guess,
		Result:    result,
		Position:  len(r.guesses[playerID]) + 1,
		Timestamp: time.Now(),
	}
	r.guesses[playerID] = append(r.guesses[playerID], record)

	events := []models.Event{{
		Type: constants.MSG_GUESS_RESULT,
		Payload: models.GuessResultPayload{
			PlayerID:  playerID,
			Word:      guess,
			Result:    result,
			IsCorrect: correct,
			Position:  record.Position,
		},
	}}

	if correct {
		return append(events, r.finishLocked(playerID, "win")...), nil
	}
	if r.mode == models.ModeTurnBased {
		events = append(events, r.advanceTurnLocked())
	}
	return events, nil
}

func (r *Room) guessPreconditionsLocked(playerID, guess string) error {
	if r.status != models.StatusPlaying {
		return ErrInvalidState
	}
	if r.memberLocked(playerID) == nil {
		return ErrNotInRoom
	}
	if r.mode == models.ModeTurnBased && r.currentTurn != playerID {
		return ErrNotYourTurn
	}
	if len([]rune(guess)) != r.wordLength {
		return ErrInvalidWord
	}
	if len(r.guesses[playerID]) >= constants.MAX_GUESSES {
		return ErrGuessLimitReached
	}
	return nil
}

func (r *Room) advanceTurnLocked() models.Event {
	next := r.players[0]
	for i, p := range r.players {
		if p.ID == r.currentTurn {
			next = r.players[(i+1)%len(r.players)]
			break
		}
	}
	r.currentTurn = next.ID
	return models.Event{
		Type: constants.MSG_TURN_CHANGED,
		Payload: models.TurnChangedPayload{
			CurrentTurn: next.ID,
			PlayerName:  next.Name,
		},
	}
}

// Tick advances the countdown by one second. At zero the game ends with no
// winner. The second return value reports that the clock should stop.
func (r *Room) Tick() ([]models.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.StatusPlaying {
		return nil, true
	}
	r.timeLeft--
	if r.timeLeft > 0 {
		return nil, false
	}
	return r.finishLocked("", "timeout"), true
}

// Chat relays a message to the whole room. Chat is pass-through: it touches
// no game state and is allowed in any room state.
func (r *Room) Chat(playerID, message string) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.memberLocked(playerID)
	if p == nil {
		return nil, ErrNotInRoom
	}
	return []models.Event{{
		Type: constants.MSG_CHAT_MESSAGE,
		Payload: models.ChatMessagePayload{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Message:    message,
			Timestamp:  time.Now(),
		},
	}}, nil
}

// HintFor reveals hint data about the requesting player's own target word,
// at most once per player per game, delivered only to the requester.
func (r *Room) HintFor(ctx context.Context, playerID string) ([]models.Event, error) {
	r.mu.Lock()
	if r.status != models.StatusPlaying {
		r.mu.Unlock()
		return nil, ErrInvalidState
	}
	if r.memberLocked(playerID) == nil {
		r.mu.Unlock()
		return nil, ErrNotInRoom
	}
	if r.hintsUsed[playerID] {
		r.mu.Unlock()
		return nil, ErrHintUsed
	}
	target := r.targets[playerID]
	r.mu.Unlock()

	hint, err := r.source.Hint(ctx, target)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != models.StatusPlaying || r.hintsUsed[playerID] {
		return nil, ErrInvalidState
	}
	r.hintsUsed[playerID] = true
	return []models.Event{{
		Type: constants.MSG_HINT,
		To:   []string{playerID},
		Payload: models.HintPayload{
			Category:    hint.Category,
			FirstLetter: hint.FirstLetter,
			Length:      hint.Length,
		},
	}}, nil
}

// Disconnect marks the player offline and arms the grace timer. The player
// is not removed until the grace period expires without a reconnect.
func (r *Room) Disconnect(playerID string) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.memberLocked(playerID)
	if p == nil {
		return nil, ErrNotInRoom
	}
	p.Connected = false
	p.LastSeen = time.Now()

	events := []models.Event{{
		Type:    constants.MSG_PLAYER_DISCONNECTED,
		Payload: models.PlayerLeftPayload{PlayerID: p.ID, PlayerName: p.Name},
	}}

	// Turn ownership never rests with an absent player.
	if r.status == models.StatusPlaying && r.mode == models.ModeTurnBased && r.currentTurn == playerID {
		events = append(events, r.advanceTurnLocked())
	}

	r.scheduleGraceLocked(playerID)
	return events, nil
}

// Reconnect marks a still-present player online again and disarms their
// grace timer. When send is non-nil the player's outbound channel is rebound
// to the new connection.
func (r *Room) Reconnect(playerID string, send chan []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.memberLocked(playerID)
	if p == nil {
		return ErrNotInRoom
	}
	p.Connected = true
	p.LastSeen = time.Now()
	if send != nil {
		p.Send = send
	}
	r.cancelGraceLocked(playerID)
	return nil
}

// Leave removes the player immediately, with the same effects as an expired
// grace period: forfeit if a game is running, room deletion if emptied.
func (r *Room) Leave(playerID string) ([]models.Event, error) {
	r.mu.Lock()
	p := r.memberLocked(playerID)
	if p == nil {
		r.mu.Unlock()
		return nil, ErrNotInRoom
	}
	events, emptied := r.removeLocked(p, constants.MSG_PLAYER_LEFT)
	r.mu.Unlock()

	if emptied && r.onEmpty != nil {
		r.onEmpty(r.code)
	}
	return events, nil
}

// removeLocked takes a player out of the room and settles the consequences:
// forfeit win for the remaining player mid-game, emptiness for the caller.
func (r *Room) removeLocked(p *models.Player, eventType string) ([]models.Event, bool) {
	r.cancelGraceLocked(p.ID)
	for i, m := range r.players {
		if m.ID == p.ID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}

	events := []models.Event{{
		Type:    eventType,
		Payload: models.PlayerLeftPayload{PlayerID: p.ID, PlayerName: p.Name},
	}}
	if r.status == models.StatusPlaying && len(r.players) == 1 {
		events = append(events, r.finishLocked(r.players[0].ID, "forfeit")...)
	}
	emptied := len(r.players) == 0
	if emptied {
		r.shutdownLocked()
	}
	return events, emptied
}

func (r *Room) scheduleGraceLocked(playerID string) {
	r.cancelGraceLocked(playerID)
	r.graceTimers[playerID] = time.AfterFunc(r.grace, func() {
		r.expireGrace(playerID)
	})
}

func (r *Room) cancelGraceLocked(playerID string) {
	if t, ok := r.graceTimers[playerID]; ok {
		t.Stop()
		delete(r.graceTimers, playerID)
	}
}

// expireGrace fires when a disconnected player failed to come back. It
// delivers its own events since no connection handler drives it.
func (r *Room) expireGrace(playerID string) {
	r.mu.Lock()
	p := r.memberLocked(playerID)
	if p == nil || p.Connected {
		r.cancelGraceLocked(playerID)
		r.mu.Unlock()
		return
	}
	delete(r.graceTimers, playerID)
	events, emptied := r.removeLocked(p, constants.MSG_PLAYER_LEFT)
	remaining := r.membersLocked()
	r.mu.Unlock()

	log.Info().Str("room", r.code).Str("player", playerID).Msg("disconnect grace expired")
	Deliver(remaining, events)
	if emptied && r.onEmpty != nil {
		r.onEmpty(r.code)
	}
}

// finishLocked transitions the room to its terminal state, reveals the
// targets, and stops the countdown.
func (r *Room) finishLocked(winnerID, reason string) []models.Event {
	r.status = models.StatusFinished
	r.winnerID = winnerID
	r.stopClockLocked()

	duration := 0
	if !r.startedAt.IsZero() {
		duration = int(time.Since(r.startedAt).Seconds())
	}
	guesses := make(map[string][]models.Guess, len(r.guesses))
	for id, gs := range r.guesses {
		guesses[id] = append([]models.Guess(nil), gs...)
	}
	targets := make(map[string]string, len(r.targets))
	for id, w := range r.targets {
		targets[id] = w
	}

	log.Info().Str("room", r.code).Str("winner", winnerID).Str("reason", reason).Msg("game ended")
	return []models.Event{{
		Type: constants.MSG_GAME_ENDED,
		Payload: models.GameEndedPayload{
			WinnerID:    winnerID,
			Reason:      reason,
			TargetWords: targets,
			Duration:    duration,
			Guesses:     guesses,
		},
	}}
}

func (r *Room) startClockLocked() {
	r.ticker = time.NewTicker(time.Second)
	r.stopTick = make(chan struct{})
	go func(t *time.Ticker, stop chan struct{}) {
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				events, done := r.Tick()
				if len(events) > 0 {
					Deliver(r.Members(), events)
				}
				if done {
					return
				}
			}
		}
	}(r.ticker, r.stopTick)
}

func (r *Room) stopClockLocked() {
	if r.stopTick != nil {
		close(r.stopTick)
		r.stopTick = nil
	}
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

// shutdownLocked cancels every scheduled task; called when the room empties.
func (r *Room) shutdownLocked() {
	r.stopClockLocked()
	for id, t := range r.graceTimers {
		t.Stop()
		delete(r.graceTimers, id)
	}
}
