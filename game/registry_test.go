package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrintfDebuggerr/cift-wordle/models"
)

func TestCreateRoomCodeFormat(t *testing.T) {
	reg := NewRegistry(testSource())

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		room, _, err := reg.CreateRoom(testConfig(models.ModeTurnBased), &models.Player{ID: "p", Name: "Ayşe"})
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Z0-9]{6}$`, room.Code())
		assert.False(t, seen[room.Code()], "codes must be unique")
		seen[room.Code()] = true
	}
}

func TestCreateRoomRejectsInvalidConfig(t *testing.T) {
	reg := NewRegistry(testSource())
	host := &models.Player{ID: "p1", Name: "Ayşe"}

	cases := []models.RoomConfig{
		{Mode: "coop", WordLength: 5, Difficulty: models.DifficultyNormal},
		{Mode: models.ModeDuel, WordLength: 3, Difficulty: models.DifficultyNormal},
		{Mode: models.ModeDuel, WordLength: 7, Difficulty: models.DifficultyNormal},
		{Mode: models.ModeTurnBased, WordLength: 5, Difficulty: "impossible"},
	}
	for _, cfg := range cases {
		_, _, err := reg.CreateRoom(cfg, host)
		assert.ErrorIs(t, err, ErrInvalidConfig, "%+v", cfg)
	}
}

func TestCreateRoomRejectsInvalidName(t *testing.T) {
	reg := NewRegistry(testSource())

	for _, name := range []string{"", "   ", "ayşe123", "x<script>"} {
		_, _, err := reg.CreateRoom(testConfig(models.ModeTurnBased), &models.Player{ID: "p1", Name: name})
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestJoinRoomNotFound(t *testing.T) {
	reg := NewRegistry(testSource())

	_, _, err := reg.JoinRoom("ZZZZZZ", &models.Player{ID: "p2", Name: "Mehmet"})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRemoveRoomIfEmpty(t *testing.T) {
	reg := NewRegistry(testSource())
	room, _, err := reg.CreateRoom(testConfig(models.ModeTurnBased), &models.Player{ID: "p1", Name: "Ayşe"})
	require.NoError(t, err)

	// Occupied rooms stay.
	reg.RemoveRoomIfEmpty(room.Code())
	_, ok := reg.Get(room.Code())
	assert.True(t, ok)
}

func TestCounts(t *testing.T) {
	reg := NewRegistry(testSource())

	rooms, players := reg.Counts()
	assert.Zero(t, rooms)
	assert.Zero(t, players)

	roomA, _, err := reg.CreateRoom(testConfig(models.ModeTurnBased), &models.Player{ID: "a1", Name: "Ayşe"})
	require.NoError(t, err)
	_, _, err = reg.JoinRoom(roomA.Code(), &models.Player{ID: "a2", Name: "Mehmet"})
	require.NoError(t, err)
	_, _, err = reg.CreateRoom(testConfig(models.ModeDuel), &models.Player{ID: "b1", Name: "Zeynep"})
	require.NoError(t, err)

	rooms, players = reg.Counts()
	assert.Equal(t, 2, rooms)
	assert.Equal(t, 3, players)
}
