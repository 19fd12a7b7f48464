package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
)

func TestApplyUnknownActionReturnsSameState(t *testing.T) {
	s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1"}}))

	next := Apply(s, Action{Type: "SUMMON_DRAGON"})
	require.Same(t, s, next)

	require.Nil(t, Apply(nil, NewFlipCard("c1")))
}

func TestApplyMissingIDIsNoOp(t *testing.T) {
	s := NewStore()
	actions := []Action{
		NewMoveObject("ghost", geometry.Point{X: 1, Y: 2}),
		NewDeleteObject("ghost"),
		NewFlipCard("ghost"),
		{Type: ActionLockObject, ID: "ghost"},
		NewCloneObject("ghost", "ghost-2"),
		NewDraw("ghost", "alice", 1),
	}
	for _, a := range actions {
		require.Same(t, s, Apply(s, a), "action %s on missing id must be a no-op", a.Type)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s, _ := storeWithDeck(t, "d1", 3)
	before := Checksum(s)

	Apply(s, NewDraw("d1", "alice", 2))
	Apply(s, NewShuffleDeck("d1", 7))
	Apply(s, NewDeleteObject("d1"))

	assert.Equal(t, before, Checksum(s))
	assert.Len(t, s.Deck("d1").CardIDs, 3)
}

func TestAddObject(t *testing.T) {
	t.Run("defaults z", func(t *testing.T) {
		s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1"}}))
		require.NotNil(t, s.Object("t1"))
		assert.Equal(t, DefaultZ, s.Object("t1").Core().Z)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1"}}))
		next := Apply(s, NewAddObject(&Counter{ObjectCore: ObjectCore{ID: "t1"}}))
		require.Same(t, s, next)
	})

	t.Run("rejects blank id", func(t *testing.T) {
		s := NewStore()
		require.Same(t, s, Apply(s, NewAddObject(&Token{ObjectCore: ObjectCore{ID: "  "}})))
	})

	t.Run("clamps action buttons", func(t *testing.T) {
		buttons := []ActionButton{
			{Label: "a", Action: "a"}, {Label: "b", Action: "b"},
			{Label: "c", Action: "c"}, {Label: "d", Action: "d"},
			{Label: "e", Action: "e"},
		}
		s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1", ActionButtons: buttons}}))
		assert.Len(t, s.Object("t1").Core().ActionButtons, maxActionButtons)
	})

	t.Run("deck snapshots base order and stamps piles", func(t *testing.T) {
		d := testDeck("d1", "c0", "c1")
		d.Piles = []*Pile{{ID: "p1", Position: PileRight, Size: 1}}
		s := Apply(NewStore(), NewAddObject(d))

		stored := s.Deck("d1")
		assert.Equal(t, []string{"c0", "c1"}, stored.BaseCardIDs)
		assert.Equal(t, "d1", stored.Piles[0].DeckID)
	})

	t.Run("does not alias the input object", func(t *testing.T) {
		tok := &Token{ObjectCore: ObjectCore{ID: "t1", Name: "marker"}}
		s := Apply(NewStore(), NewAddObject(tok))
		tok.Name = "mutated"
		assert.Equal(t, "marker", s.Object("t1").Core().Name)
	})
}

func TestUpdateObjectShallowMerge(t *testing.T) {
	s := Apply(NewStore(), NewAddObject(&Token{
		ObjectCore: ObjectCore{ID: "t1", Name: "marker", Position: geometry.Point{X: 10, Y: 20}, Width: 50, Height: 50},
	}))

	name := "renamed"
	rot := 540.0
	s2 := Apply(s, NewUpdateObject("t1", ObjectPatch{Name: &name, Rotation: &rot}))

	core := s2.Object("t1").Core()
	assert.Equal(t, "renamed", core.Name)
	assert.Equal(t, 180.0, core.Rotation, "rotation normalizes into [0,360)")
	assert.Equal(t, geometry.Point{X: 10, Y: 20}, core.Position, "unpatched fields survive")
	assert.Equal(t, 50.0, core.Width)

	// A kind-specific field aimed at the wrong kind changes nothing.
	faceUp := true
	require.Same(t, s2, Apply(s2, NewUpdateObject("t1", ObjectPatch{FaceUp: &faceUp})))
}

func TestUpdateDeckCardSizeCascades(t *testing.T) {
	s, ids := storeWithDeck(t, "d1", 3)

	// One card carries an individual override.
	w, h := 80.0, 120.0
	s = Apply(s, NewUpdateObject(ids[0], ObjectPatch{Width: &w, Height: &h}))

	cw, ch := 90.0, 126.0
	s = Apply(s, NewUpdateObject("d1", ObjectPatch{CardWidth: &cw, CardHeight: &ch}))

	d := s.Deck("d1")
	assert.Equal(t, 90.0, d.CardWidth)
	assert.Equal(t, 126.0, d.CardHeight)
	assert.Equal(t, 80.0, s.Card(ids[0]).Width, "individually resized card keeps its override")
	assert.Equal(t, 90.0, s.Card(ids[1]).Width)
	assert.Equal(t, 126.0, s.Card(ids[2]).Height)
}

func TestMoveObject(t *testing.T) {
	t.Run("moves unlocked", func(t *testing.T) {
		s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1"}}))
		s2 := Apply(s, NewMoveObject("t1", geometry.Point{X: 300, Y: 250}))
		assert.Equal(t, geometry.Point{X: 300, Y: 250}, s2.Object("t1").Core().Position)
	})

	t.Run("rejects locked", func(t *testing.T) {
		s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1", Locked: true}}))
		require.Same(t, s, Apply(s, NewMoveObject("t1", geometry.Point{X: 300, Y: 250})))
	})

	t.Run("pinned object moves in screen space", func(t *testing.T) {
		s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1", Position: geometry.Point{X: 40, Y: 40}}}))
		s = Apply(s, NewPin("t1", geometry.DefaultCamera()))
		require.NotNil(t, s.Object("t1").Core().PinnedScreenPos)

		view := geometry.Camera{Offset: geometry.Point{X: 100, Y: 50}, Zoom: 2}
		s = Apply(s, NewSetView(view))

		s2 := Apply(s, NewMoveObject("t1", geometry.Point{X: 600, Y: 90}))
		core := s2.Object("t1").Core()
		require.NotNil(t, core.PinnedScreenPos)
		assert.Equal(t, geometry.Point{X: 600, Y: 90}, *core.PinnedScreenPos)
		assert.Equal(t, view.ViewportToWorld(geometry.Point{X: 600, Y: 90}), core.Position,
			"world position re-derived from the local camera")
	})
}

func TestDeleteObject(t *testing.T) {
	t.Run("card detaches from its deck", func(t *testing.T) {
		s, ids := storeWithDeck(t, "d1", 3)
		s2 := Apply(s, NewDeleteObject(ids[1]))
		assert.Nil(t, s2.Object(ids[1]))
		assert.Equal(t, []string{ids[0], ids[2]}, s2.Deck("d1").CardIDs)
		assertSingleMembership(t, s2)
	})

	t.Run("deck cascade", func(t *testing.T) {
		s, aIDs := storeWithDeck(t, "a", 3)
		var bIDs []string
		s, bIDs = addDeck(t, s, "b", 2)

		// One of a's cards rides in a pile, one of b's cards too.
		s = Apply(s, Action{Type: ActionAddPile, DeckID: "a", Pile: &Pile{ID: "a-discard", Position: PileRight, Size: 1, FaceUp: true}})
		s = Apply(s, NewAddCardToPile(aIDs[0], "a", "a-discard"))
		s = Apply(s, NewAddCardToPile(bIDs[0], "a", "a-discard"))

		// One of a's cards sits loose on the table.
		s = Apply(s, NewPlayCard(aIDs[1], geometry.Point{X: 10, Y: 10}))

		s2 := Apply(s, NewDeleteObject("a"))

		assert.Nil(t, s2.Object("a"))
		assert.Nil(t, s2.Object(aIDs[2]), "main-list card dies with the deck")
		assert.Nil(t, s2.Object(aIDs[0]), "own pile card dies with the deck")

		b := s2.Deck("b")
		assert.Contains(t, b.CardIDs, bIDs[0], "foreign pile card routes home")
		assert.Equal(t, LocationDeck, s2.Card(bIDs[0]).Location)

		loose := s2.Card(aIDs[1])
		require.NotNil(t, loose, "table card survives the deck")
		assert.Empty(t, loose.DeckID, "back-reference cleared")
		assertSingleMembership(t, s2)
	})
}

func TestCloneObject(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		s := Apply(NewStore(), NewAddObject(&Token{
			ObjectCore: ObjectCore{ID: "t1", Name: "marker", Position: geometry.Point{X: 100, Y: 100}},
		}))
		s = Apply(s, NewPin("t1", geometry.DefaultCamera()))

		s2 := Apply(s, NewCloneObject("t1", "t2"))
		clone := s2.Object("t2")
		require.NotNil(t, clone)
		assert.Equal(t, "marker (copy)", clone.Core().Name)
		assert.Equal(t, geometry.Point{X: 120, Y: 120}, clone.Core().Position)
		assert.Nil(t, clone.Core().PinnedScreenPos, "pin does not travel to the copy")
		assert.Equal(t, "marker", s2.Object("t1").Core().Name)
	})

	t.Run("rejects taken id", func(t *testing.T) {
		s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1"}}))
		require.Same(t, s, Apply(s, NewCloneObject("t1", "t1")))
	})

	t.Run("deck deep clone is independent", func(t *testing.T) {
		s, ids := storeWithDeck(t, "d1", 4)
		s = Apply(s, Action{Type: ActionAddPile, DeckID: "d1", Pile: &Pile{ID: "d1-discard", Position: PileRight, Size: 1}})
		s = Apply(s, NewAddCardToPile(ids[0], "d1", "d1-discard"))

		s2 := Apply(s, NewCloneObject("d1", "d2"))
		clone := s2.Deck("d2")
		require.NotNil(t, clone)

		require.Len(t, clone.CardIDs, 3, "clone copies the current main list")
		for _, id := range clone.CardIDs {
			assert.NotContains(t, ids, id, "clone card ids are fresh")
			c := s2.Card(id)
			require.NotNil(t, c)
			assert.Equal(t, "d2", c.DeckID)
		}
		assert.Equal(t, clone.CardIDs, clone.BaseCardIDs)

		require.Len(t, clone.Piles, 1)
		assert.NotEqual(t, "d1-discard", clone.Piles[0].ID)
		assert.Empty(t, clone.Piles[0].CardIDs, "pile contents do not travel")

		// Mutating the clone leaves the original deck untouched.
		s3 := Apply(s2, NewDraw("d2", "alice", 2))
		assert.Len(t, s3.Deck("d2").CardIDs, 1)
		assert.Len(t, s3.Deck("d1").CardIDs, 3)
		assertSingleMembership(t, s3)
	})

	t.Run("deck clone ids are deterministic", func(t *testing.T) {
		s, _ := storeWithDeck(t, "d1", 3)
		a := NewCloneObject("d1", "d2")
		first := Apply(s, a)
		second := Apply(s, a)
		assert.Equal(t, first.Deck("d2").CardIDs, second.Deck("d2").CardIDs)
	})
}

func TestLockUnlockIdempotence(t *testing.T) {
	s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1"}}))

	locked := Apply(s, Action{Type: ActionLockObject, ID: "t1"})
	require.True(t, locked.Object("t1").Core().Locked)
	require.Same(t, locked, Apply(locked, Action{Type: ActionLockObject, ID: "t1"}))

	unlocked := Apply(locked, Action{Type: ActionUnlockObject, ID: "t1"})
	require.False(t, unlocked.Object("t1").Core().Locked)
	require.Same(t, unlocked, Apply(unlocked, Action{Type: ActionUnlockObject, ID: "t1"}))
}

func TestPinUnpinRoundTrip(t *testing.T) {
	camA := geometry.Camera{Offset: geometry.Point{X: 100, Y: 50}, Zoom: 2, ScrollLeft: 30, ScrollTop: 10}
	camB := geometry.Camera{Offset: geometry.Point{X: 60, Y: -20}, Zoom: 0.5, ScrollLeft: 200, ScrollTop: 80}

	s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1", Position: geometry.Point{X: 200, Y: 150}}}))

	s = Apply(s, NewPin("t1", camA))
	pin := s.Object("t1").Core().PinnedScreenPos
	require.NotNil(t, pin)
	want := camA.WorldToViewport(geometry.Point{X: 200, Y: 150})
	assert.InDelta(t, want.X, pin.X, 1e-9)
	assert.InDelta(t, want.Y, pin.Y, 1e-9)

	// Changing the view re-derives the world position so the screen
	// position stays fixed.
	s = Apply(s, NewSetView(camB))
	core := s.Object("t1").Core()
	back := camB.WorldToViewport(core.Position)
	assert.InDelta(t, pin.X, back.X, 1e-9)
	assert.InDelta(t, pin.Y, back.Y, 1e-9)

	s = Apply(s, NewUnpin("t1", camB))
	core = s.Object("t1").Core()
	assert.Nil(t, core.PinnedScreenPos)
	wantWorld := camB.ViewportToWorld(*pin)
	assert.InDelta(t, wantWorld.X, core.Position.X, 1e-9)
	assert.InDelta(t, wantWorld.Y, core.Position.Y, 1e-9)

	// Unpinning an unpinned object is a no-op.
	require.Same(t, s, Apply(s, NewUnpin("t1", camB)))
}

func TestPinSurvivesPanAsScreenAnchor(t *testing.T) {
	cam1 := geometry.Camera{Zoom: 1}
	s := Apply(NewStore(), NewAddObject(&Token{ObjectCore: ObjectCore{ID: "t1", Position: geometry.Point{X: 40, Y: 70}}}))
	s = Apply(s, NewPin("t1", cam1))

	cam2 := cam1
	cam2.Offset = geometry.Point{X: -120, Y: 35}
	s = Apply(s, NewSetView(cam2))
	s = Apply(s, NewUnpin("t1", cam2))

	// Panned by (-120, 35) at zoom 1: the object lands 120 further
	// right and 35 higher in world space.
	pos := s.Object("t1").Core().Position
	assert.InDelta(t, 160.0, pos.X, 1e-9)
	assert.InDelta(t, 35.0, pos.Y, 1e-9)
}

func TestSetViewRecomputesOnlyPinned(t *testing.T) {
	cam := geometry.Camera{Offset: geometry.Point{X: 10, Y: 20}, Zoom: 2, ScrollLeft: 5, ScrollTop: 5}

	s := Reduce(NewStore(),
		NewAddObject(&Token{ObjectCore: ObjectCore{ID: "free", Position: geometry.Point{X: 300, Y: 300}}}),
		NewAddObject(&Token{ObjectCore: ObjectCore{ID: "stuck", Position: geometry.Point{X: 100, Y: 100}}}),
		NewAddObject(&Window{ObjectCore: ObjectCore{ID: "win", Position: geometry.Point{X: 500, Y: 400}}}),
	)
	s = Apply(s, NewPin("stuck", geometry.DefaultCamera()))
	s = Apply(s, NewPin("win", geometry.DefaultCamera()))
	winPin := *s.Object("win").Core().PinnedScreenPos

	s2 := Apply(s, NewSetView(cam))

	assert.Equal(t, cam, s2.View)
	assert.Equal(t, geometry.Point{X: 300, Y: 300}, s2.Object("free").Core().Position)

	stuck := s2.Object("stuck").Core()
	wantStuck := cam.ViewportToWorld(*stuck.PinnedScreenPos)
	assert.InDelta(t, wantStuck.X, stuck.Position.X, 1e-9)

	// UI-layer objects resolve through the scroll-free transform.
	win := s2.Object("win").Core()
	wantWin := cam.UIViewportToWorld(winPin)
	assert.InDelta(t, wantWin.X, win.Position.X, 1e-9)
	assert.InDelta(t, wantWin.Y, win.Position.Y, 1e-9)
}

func TestLayerUpDown(t *testing.T) {
	base := Reduce(NewStore(),
		NewAddObject(&Token{ObjectCore: ObjectCore{ID: "low", Z: 1, OnTable: true}}),
		NewAddObject(&Token{ObjectCore: ObjectCore{ID: "mid", Z: 2, OnTable: true}}),
		NewAddObject(&Token{ObjectCore: ObjectCore{ID: "high", Z: 3, OnTable: true}}),
	)

	t.Run("up swaps with the next object", func(t *testing.T) {
		s := Apply(base, Action{Type: ActionLayerUp, ID: "mid"})
		assert.Equal(t, 3, s.Object("mid").Core().Z)
		assert.Equal(t, 2, s.Object("high").Core().Z)
		assert.Equal(t, 1, s.Object("low").Core().Z)
	})

	t.Run("down swaps with the previous object", func(t *testing.T) {
		s := Apply(base, Action{Type: ActionLayerDown, ID: "mid"})
		assert.Equal(t, 1, s.Object("mid").Core().Z)
		assert.Equal(t, 2, s.Object("low").Core().Z)
	})

	t.Run("topmost up is a no-op", func(t *testing.T) {
		require.Same(t, base, Apply(base, Action{Type: ActionLayerUp, ID: "high"}))
	})

	t.Run("bottom down is a no-op", func(t *testing.T) {
		require.Same(t, base, Apply(base, Action{Type: ActionLayerDown, ID: "low"}))
	})

	t.Run("ui and table layers do not mix", func(t *testing.T) {
		s := Apply(base, NewAddObject(&Panel{ObjectCore: ObjectCore{ID: "panel", Z: 2}}))
		s2 := Apply(s, Action{Type: ActionLayerUp, ID: "panel"})
		// The panel is alone in the UI layer; nothing to swap with.
		require.Same(t, s, s2)
	})

	t.Run("equal z nudges apart", func(t *testing.T) {
		s := Reduce(NewStore(),
			NewAddObject(&Board{ObjectCore: ObjectCore{ID: "board", Z: 5, OnTable: true}}),
			NewAddObject(&Token{ObjectCore: ObjectCore{ID: "tok", Z: 5, OnTable: true}}),
		)
		// Boards sort beneath on ties, so the token's down-neighbor is
		// the board.
		s2 := Apply(s, Action{Type: ActionLayerDown, ID: "tok"})
		assert.Equal(t, 4, s2.Object("tok").Core().Z)
		assert.Equal(t, 5, s2.Object("board").Core().Z)
	})
}

func TestRollDice(t *testing.T) {
	at := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)
	s := Apply(NewStore(), NewAddObject(&Dice{ObjectCore: ObjectCore{ID: "die", OnTable: true}, Sides: 6}))

	t.Run("rolls within range and logs", func(t *testing.T) {
		s2 := Apply(s, NewRollDice("die", "alice", 42, at))
		d := s2.Object("die").(*Dice)
		assert.GreaterOrEqual(t, d.Value, 1)
		assert.LessOrEqual(t, d.Value, 6)

		require.Len(t, s2.DiceLog, 1)
		roll := s2.DiceLog[0]
		assert.Equal(t, "die", roll.DiceID)
		assert.Equal(t, "alice", roll.PlayerID)
		assert.Equal(t, d.Value, roll.Value)
		assert.Equal(t, at, roll.RolledAt)
	})

	t.Run("same seed derives the same value everywhere", func(t *testing.T) {
		a := NewRollDice("die", "alice", 42, at)
		first := Apply(s, a)
		second := Apply(s, a)
		assert.Equal(t, first.Object("die").(*Dice).Value, second.Object("die").(*Dice).Value)
		assert.Equal(t, first.DiceLog, second.DiceLog)
	})

	t.Run("rejects non-dice and zero sides", func(t *testing.T) {
		s2 := Apply(s, NewAddObject(&Dice{ObjectCore: ObjectCore{ID: "flat"}, Sides: 0}))
		require.Same(t, s2, Apply(s2, NewRollDice("flat", "alice", 1, at)))
		require.Same(t, s2, Apply(s2, NewRollDice("nope", "alice", 1, at)))
	})

	t.Run("log is bounded", func(t *testing.T) {
		s2 := s
		for i := 0; i < maxDiceLog+5; i++ {
			s2 = Apply(s2, NewRollDice("die", "alice", int64(i), at))
		}
		assert.Len(t, s2.DiceLog, maxDiceLog)
	})
}

func TestAdjustCounter(t *testing.T) {
	s := Apply(NewStore(), NewAddObject(&Counter{ObjectCore: ObjectCore{ID: "vp"}}))

	s2 := Apply(s, Action{Type: ActionAdjustCounter, ID: "vp", Delta: 3})
	assert.Equal(t, 3, s2.Object("vp").(*Counter).Value)

	s3 := Apply(s2, Action{Type: ActionAdjustCounter, ID: "vp", Delta: -5})
	assert.Equal(t, 0, s3.Object("vp").(*Counter).Value, "value clamps at zero")

	require.Same(t, s3, Apply(s3, Action{Type: ActionAdjustCounter, ID: "vp", Delta: 0}))
}

func TestWindowMinimizeRestore(t *testing.T) {
	expanded := geometry.Point{X: 400, Y: 300}
	corner := geometry.Point{X: 10, Y: 700}
	s := Apply(NewStore(), NewAddObject(&Window{
		ObjectCore:   ObjectCore{ID: "log", Position: expanded},
		MinimizedPos: corner,
	}))

	s2 := Apply(s, Action{Type: ActionSetWindowState, ID: "log", Minimized: true})
	w := s2.Object("log").(*Window)
	assert.True(t, w.Minimized)
	assert.Equal(t, corner, w.Position)
	assert.Equal(t, expanded, w.ExpandedPos)

	// Dragging the minimized window re-homes its corner slot.
	moved := geometry.Point{X: 600, Y: 650}
	s3 := Apply(s2, NewMoveObject("log", moved))

	s4 := Apply(s3, Action{Type: ActionSetWindowState, ID: "log", Minimized: false})
	w = s4.Object("log").(*Window)
	assert.False(t, w.Minimized)
	assert.Equal(t, expanded, w.Position, "restore returns to the expanded placement")
	assert.Equal(t, moved, w.MinimizedPos, "the dragged corner position is remembered")

	require.Same(t, s4, Apply(s4, Action{Type: ActionSetWindowState, ID: "log", Minimized: false}))
}

func TestPlayerLifecycle(t *testing.T) {
	alice := &Player{ID: "alice", Name: "Alice"}
	bob := &Player{ID: "bob", Name: "Bob"}

	t.Run("first player becomes active", func(t *testing.T) {
		s := Apply(NewStore(), Action{Type: ActionAddPlayer, Player: alice})
		assert.Equal(t, "alice", s.ActivePlayerID)

		s2 := Apply(s, Action{Type: ActionAddPlayer, Player: bob})
		assert.Equal(t, "alice", s2.ActivePlayerID)
		assert.Len(t, s2.Players, 2)
	})

	t.Run("duplicate seat is rejected", func(t *testing.T) {
		s := Apply(NewStore(), Action{Type: ActionAddPlayer, Player: alice})
		require.Same(t, s, Apply(s, Action{Type: ActionAddPlayer, Player: alice}))
	})

	t.Run("advance cycles seats in order", func(t *testing.T) {
		s := Reduce(NewStore(),
			Action{Type: ActionAddPlayer, Player: alice},
			Action{Type: ActionAddPlayer, Player: bob},
		)
		s = Apply(s, Action{Type: ActionAdvanceTurn})
		assert.Equal(t, "bob", s.ActivePlayerID)
		s = Apply(s, Action{Type: ActionAdvanceTurn})
		assert.Equal(t, "alice", s.ActivePlayerID)
	})

	t.Run("advance with one seat is a no-op", func(t *testing.T) {
		s := Apply(NewStore(), Action{Type: ActionAddPlayer, Player: alice})
		require.Same(t, s, Apply(s, Action{Type: ActionAdvanceTurn}))
	})

	t.Run("set active requires a seated player", func(t *testing.T) {
		s := Apply(NewStore(), Action{Type: ActionAddPlayer, Player: alice})
		require.Same(t, s, Apply(s, Action{Type: ActionSetActivePlayer, PlayerID: "mallory"}))
	})

	t.Run("removal returns held cards and passes the turn", func(t *testing.T) {
		s, _ := storeWithDeck(t, "d1", 3)
		s = Reduce(s,
			Action{Type: ActionAddPlayer, Player: alice},
			Action{Type: ActionAddPlayer, Player: bob},
			NewDraw("d1", "alice", 2),
		)
		require.Len(t, s.HandCards("alice"), 2)

		s2 := Apply(s, Action{Type: ActionRemovePlayer, PlayerID: "alice"})
		assert.Empty(t, s2.HandCards("alice"))
		assert.Len(t, s2.Deck("d1").CardIDs, 3, "hand cards return to the deck")
		assert.Equal(t, "bob", s2.ActivePlayerID)
		assert.Nil(t, s2.Player("alice"))
		assertSingleMembership(t, s2)
	})
}
