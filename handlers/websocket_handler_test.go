package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrintfDebuggerr/cift-wordle/constants"
	"github.com/PrintfDebuggerr/cift-wordle/game"
	"github.com/PrintfDebuggerr/cift-wordle/models"
	"github.com/PrintfDebuggerr/cift-wordle/presence"
	"github.com/PrintfDebuggerr/cift-wordle/words"
)

// frame is the outbound envelope with the payload left raw so each test can
// decode the part it cares about.
type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type testClient struct {
	t      *testing.T
	conn   *websocket.Conn
	queued []frame
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	entries := []words.Entry{{Word: "kalem", Difficulty: "normal", Category: "eşya"}}
	for _, w := range []string{"elmas", "masal", "silgi"} {
		entries = append(entries, words.Entry{Word: w, Difficulty: "guess-only"})
	}
	registry := game.NewRegistry(words.NewMemory(entries...))
	srv := httptest.NewServer(NewWebSocketHandler(registry, presence.NewService()))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) send(msgType string, payload any) {
	c.t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(c.t, err)
	data, err := json.Marshal(models.ClientMessage{Type: msgType, Payload: raw})
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, data))
}

// next returns the next server message, splitting websocket frames that carry
// several newline-separated messages.
func (c *testClient) next() frame {
	c.t.Helper()
	if len(c.queued) > 0 {
		f := c.queued[0]
		c.queued = c.queued[1:]
		return f
	}

	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := c.conn.ReadMessage()
	require.NoError(c.t, err)

	for _, part := range bytes.Split(data, []byte{'\n'}) {
		var f frame
		require.NoError(c.t, json.Unmarshal(part, &f))
		c.queued = append(c.queued, f)
	}
	f := c.queued[0]
	c.queued = c.queued[1:]
	return f
}

// waitFor discards messages until one of the wanted type arrives.
func (c *testClient) waitFor(msgType string) frame {
	c.t.Helper()
	for i := 0; i < 20; i++ {
		f := c.next()
		if f.Type == msgType {
			return f
		}
	}
	c.t.Fatalf("no %s message received", msgType)
	return frame{}
}

func decode[T any](t *testing.T, f frame) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(f.Payload, &out))
	return out
}

func TestFullGameOverWebsocket(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv)
	connected := decode[models.ConnectedPayload](t, alice.waitFor(constants.MSG_CONNECTED))
	aliceID := connected.PlayerID
	require.NotEmpty(t, aliceID)

	alice.send(constants.MSG_CREATE_ROOM, models.CreateRoomPayload{
		PlayerName: "Ayşe",
		GameMode:   models.ModeTurnBased,
		WordLength: 5,
		Difficulty: models.DifficultyNormal,
	})
	created := decode[models.RoomCreatedPayload](t, alice.waitFor(constants.MSG_ROOM_CREATED))
	code := created.RoomCode
	assert.Regexp(t, `^[A-Z0-9]{6}$`, code)

	bob := dial(t, srv)
	bob.waitFor(constants.MSG_CONNECTED)
	bob.send(constants.MSG_JOIN_ROOM, models.JoinRoomPayload{RoomCode: code, PlayerName: "Mehmet"})

	ready := decode[models.RoomReadyPayload](t, alice.waitFor(constants.MSG_ROOM_READY))
	assert.Len(t, ready.Room.Players, 2)
	bob.waitFor(constants.MSG_ROOM_READY)

	alice.send(constants.MSG_PLAYER_READY, models.ReadyPayload{RoomCode: code, Ready: true})
	bob.send(constants.MSG_PLAYER_READY, models.ReadyPayload{RoomCode: code, Ready: true})

	started := decode[models.GameStartedPayload](t, alice.waitFor(constants.MSG_GAME_STARTED))
	assert.Equal(t, "kalem", started.TargetWord)
	assert.Equal(t, aliceID, started.CurrentTurn, "host moves first")
	bob.waitFor(constants.MSG_GAME_STARTED)

	// Out-of-turn guesses bounce back to the sender only.
	bob.send(constants.MSG_MAKE_GUESS, models.GuessPayload{RoomCode: code, Word: "elmas"})
	errPayload := decode[models.ErrorPayload](t, bob.waitFor(constants.MSG_ERROR))
	assert.Equal(t, "not_your_turn", errPayload.Kind)

	alice.send(constants.MSG_MAKE_GUESS, models.GuessPayload{RoomCode: code, Word: "kalem"})
	result := decode[models.GuessResultPayload](t, bob.waitFor(constants.MSG_GUESS_RESULT))
	assert.True(t, result.IsCorrect)
	assert.Equal(t, aliceID, result.PlayerID)

	ended := decode[models.GameEndedPayload](t, alice.waitFor(constants.MSG_GAME_ENDED))
	assert.Equal(t, aliceID, ended.WinnerID)
	assert.Equal(t, "win", ended.Reason)
	assert.Equal(t, "kalem", ended.TargetWords[aliceID])
}

func TestChatRelaysToBothPlayers(t *testing.T) {
	srv := newTestServer(t)

	alice := dial(t, srv)
	alice.waitFor(constants.MSG_CONNECTED)
	alice.send(constants.MSG_CREATE_ROOM, models.CreateRoomPayload{
		PlayerName: "Ayşe",
		GameMode:   models.ModeDuel,
		WordLength: 5,
		Difficulty: models.DifficultyNormal,
	})
	created := decode[models.RoomCreatedPayload](t, alice.waitFor(constants.MSG_ROOM_CREATED))

	bob := dial(t, srv)
	bob.waitFor(constants.MSG_CONNECTED)
	bob.send(constants.MSG_JOIN_ROOM, models.JoinRoomPayload{RoomCode: created.RoomCode, PlayerName: "Mehmet"})
	bob.waitFor(constants.MSG_ROOM_READY)

	bob.send(constants.MSG_SEND_MESSAGE, models.ChatPayload{RoomCode: created.RoomCode, Message: "selam!"})

	for _, c := range []*testClient{alice, bob} {
		chat := decode[models.ChatMessagePayload](t, c.waitFor(constants.MSG_CHAT_MESSAGE))
		assert.Equal(t, "Mehmet", chat.PlayerName)
		assert.Equal(t, "selam!", chat.Message)
	}
}

func TestJoinUnknownRoomReturnsError(t *testing.T) {
	srv := newTestServer(t)

	client := dial(t, srv)
	client.waitFor(constants.MSG_CONNECTED)
	client.send(constants.MSG_JOIN_ROOM, models.JoinRoomPayload{RoomCode: "NOROOM", PlayerName: "Ayşe"})

	errPayload := decode[models.ErrorPayload](t, client.waitFor(constants.MSG_ERROR))
	assert.Equal(t, "room_not_found", errPayload.Kind)
}
