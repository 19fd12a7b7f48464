package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
)

func snapshotFixture(t *testing.T) *Store {
	t.Helper()
	at := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	s, _ := storeWithDeck(t, "d1", 3)
	return Reduce(s,
		NewAddObject(&Board{ObjectCore: ObjectCore{ID: "map", Width: 800, Height: 600, OnTable: true}, Grid: geometry.GridSpec{Type: geometry.GridSquare, Size: 50}, Snap: true}),
		NewAddObject(&Dice{ObjectCore: ObjectCore{ID: "die", OnTable: true}, Sides: 6}),
		NewAddObject(&Window{ObjectCore: ObjectCore{ID: "log"}, MinimizedPos: geometry.Point{X: 5, Y: 5}}),
		Action{Type: ActionAddPlayer, Player: &Player{ID: "alice", Name: "Alice", GM: true}},
		Action{Type: ActionAddPlayer, Player: &Player{ID: "bob", Name: "Bob"}},
		NewDraw("d1", "bob", 1),
		NewRollDice("die", "alice", 11, at),
		NewSetView(geometry.Camera{Offset: geometry.Point{X: 40, Y: -10}, Zoom: 1.5, ScrollLeft: 20}),
	)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := snapshotFixture(t)

	data, err := EncodeSnapshot(s)
	require.NoError(t, err)

	restored, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, Checksum(s), Checksum(restored))
	assert.Equal(t, len(s.Objects), len(restored.Objects))
	assert.Equal(t, s.ActivePlayerID, restored.ActivePlayerID)
	assert.Equal(t, s.View, restored.View)
	require.Len(t, restored.Players, 2)
	assert.True(t, restored.Player("alice").GM)

	// Concrete variants survive the envelope.
	require.IsType(t, &Deck{}, restored.Object("d1"))
	require.IsType(t, &Board{}, restored.Object("map"))
	assert.Equal(t, 6, restored.Object("die").(*Dice).Sides)
	assertSingleMembership(t, restored)
}

func TestSnapshotEmbedsMatchingChecksum(t *testing.T) {
	s := snapshotFixture(t)
	snap := TakeSnapshot(s)
	assert.Equal(t, Checksum(s), snap.Checksum)

	// Objects are listed in sorted id order for stable output.
	var prev string
	for _, env := range snap.Objects {
		id := env.Object.Core().ID
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestDecodeSnapshotRejectsStructurallyInvalid(t *testing.T) {
	cases := map[string]string{
		"not json":        `{"objects":`,
		"not an object":   `42`,
		"missing objects": `{"players":[]}`,
		"missing players": `{"objects":[]}`,
		"null entry":      `{"objects":[null],"players":[]}`,
		"unknown kind":    `{"objects":[{"kind":"gremlin","data":{}}],"players":[]}`,
		"object no id":    `{"objects":[{"kind":"token","data":{"id":""}}],"players":[]}`,
		"duplicate id":    `{"objects":[{"kind":"token","data":{"id":"t1"}},{"kind":"card","data":{"id":"t1"}}],"players":[]}`,
		"player no id":    `{"objects":[],"players":[{"name":"Nameless"}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(payload))
			require.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestDecodeSnapshotMinimalValid(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"objects":[],"players":[]}`))
	require.NoError(t, err)
	assert.Empty(t, s.Objects)
	assert.Empty(t, s.Players)
}

// The snapshot carries the saving client's camera, but a live session
// keeps its own: the loader decides, so decoding must surface the
// stored view without applying it anywhere else.
func TestDecodeSnapshotSurfacesStoredView(t *testing.T) {
	s := snapshotFixture(t)
	data, err := EncodeSnapshot(s)
	require.NoError(t, err)

	restored, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, s.View, restored.View)

	// A live session overriding the view is one SET_VIEW away.
	live := Apply(restored, NewSetView(geometry.DefaultCamera()))
	assert.Equal(t, geometry.DefaultCamera(), live.View)
	assert.Equal(t, Checksum(restored), Checksum(live))
}
