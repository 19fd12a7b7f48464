package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

func TestHubCreateRoom(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())

	room, err := hub.CreateRoom("r1", nil)
	require.NoError(t, err)
	assert.Equal(t, "r1", room.ID)
	assert.Equal(t, 1, hub.RoomCount())

	_, err = hub.CreateRoom("r1", nil)
	assert.Error(t, err)

	_, err = hub.CreateRoom("  ", nil)
	assert.Error(t, err)
}

func TestHubCreateRoomWithInitialState(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())

	initial := table.NewStore()
	initial.Objects["tok-1"] = testToken("tok-1", 1, 2)

	room, err := hub.CreateRoom("r1", initial)
	require.NoError(t, err)
	assert.NotNil(t, room.State().Object("tok-1"))
}

func TestHubGetOrCreateRoom(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())

	r1 := hub.GetOrCreateRoom("r1")
	require.NotNil(t, r1)
	assert.Same(t, r1, hub.GetOrCreateRoom("r1"))

	got, ok := hub.Room("r1")
	require.True(t, ok)
	assert.Same(t, r1, got)
}

func TestHubRemoveRoomDropsJournal(t *testing.T) {
	recorder := table.NewRecorder(zap.NewNop(), true, t.TempDir())
	hub := NewHub(recorder, zap.NewNop())

	room, err := hub.CreateRoom("r1", nil)
	require.NoError(t, err)
	room.Apply(table.NewAddObject(testToken("tok-1", 0, 0)))
	require.NotNil(t, recorder.Journal("r1"))

	hub.RemoveRoom("r1")
	_, ok := hub.Room("r1")
	assert.False(t, ok)
	assert.Nil(t, recorder.Journal("r1"))

	// Removing an unknown room is a no-op.
	hub.RemoveRoom("r1")
}

func TestHubRoomIDsSorted(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	for _, id := range []string{"zebra", "alpha", "mid"} {
		_, err := hub.CreateRoom(id, nil)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"alpha", "mid", "zebra"}, hub.RoomIDs())
}
