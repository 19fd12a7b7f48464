package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorCanMove(t *testing.T) {
	alice := Actor{PlayerID: "alice"}
	bob := Actor{PlayerID: "bob"}
	gm := Actor{PlayerID: "gm", GM: true}

	free := &Token{ObjectCore: ObjectCore{ID: "free"}}
	locked := &Token{ObjectCore: ObjectCore{ID: "locked", Locked: true}}
	owned := &Card{ObjectCore: ObjectCore{ID: "owned", OwnerID: "alice"}}
	ownedLocked := &Card{ObjectCore: ObjectCore{ID: "ol", OwnerID: "alice", Locked: true}}

	assert.True(t, alice.CanMove(free))
	assert.True(t, bob.CanMove(free))

	assert.False(t, alice.CanMove(locked))
	assert.True(t, gm.CanMove(locked), "the GM bypasses locks")

	assert.True(t, alice.CanMove(owned))
	assert.False(t, bob.CanMove(owned), "ownership excludes other players")
	assert.True(t, gm.CanMove(owned))

	assert.False(t, alice.CanMove(ownedLocked), "a lock binds the owner too")
	assert.True(t, gm.CanMove(ownedLocked))

	assert.Equal(t, alice.CanResize(locked), alice.CanMove(locked))
}

func TestActorCanPerform(t *testing.T) {
	alice := Actor{PlayerID: "alice"}
	bob := Actor{PlayerID: "bob"}
	gm := Actor{PlayerID: "gm", GM: true}

	t.Run("empty sets allow everything", func(t *testing.T) {
		open := &Token{ObjectCore: ObjectCore{ID: "open"}}
		assert.True(t, alice.CanPerform("flip", open))
		assert.True(t, gm.CanPerform("flip", open))
	})

	t.Run("non-empty set is a whitelist", func(t *testing.T) {
		obj := &Card{ObjectCore: ObjectCore{ID: "c", AllowedActions: []string{"flip", "play"}}}
		assert.True(t, alice.CanPerform("flip", obj))
		assert.False(t, alice.CanPerform("shuffle", obj))
	})

	t.Run("gm consults its own set", func(t *testing.T) {
		obj := &Card{ObjectCore: ObjectCore{
			ID:               "c",
			AllowedActions:   []string{"flip"},
			AllowedActionsGM: []string{"shuffle"},
		}}
		assert.True(t, gm.CanPerform("shuffle", obj))
		assert.False(t, gm.CanPerform("flip", obj), "the player whitelist does not apply to the GM")
		assert.False(t, alice.CanPerform("shuffle", obj))
	})

	t.Run("ownership gates players but not the gm", func(t *testing.T) {
		obj := &Card{ObjectCore: ObjectCore{ID: "c", OwnerID: "alice"}}
		assert.True(t, alice.CanPerform("flip", obj))
		assert.False(t, bob.CanPerform("flip", obj))
		assert.True(t, gm.CanPerform("flip", obj))
	})
}
