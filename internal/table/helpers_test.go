package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
)

func testCard(id, deckID string) *Card {
	return &Card{
		ObjectCore: ObjectCore{ID: id, Name: "Card " + id, Width: 100, Height: 140},
		DeckID:     deckID,
		Location:   LocationDeck,
	}
}

func testDeck(id string, cardIDs ...string) *Deck {
	return &Deck{
		ObjectCore: ObjectCore{
			ID:       id,
			Name:     "Deck " + id,
			Position: geometry.Point{X: 400, Y: 300},
			Width:    120,
			Height:   160,
			OnTable:  true,
		},
		CardIDs:    cardIDs,
		CardWidth:  100,
		CardHeight: 140,
	}
}

// storeWithDeck builds a store containing one deck of n cards through
// the reducer itself.
func storeWithDeck(t *testing.T, deckID string, n int) (*Store, []string) {
	t.Helper()
	return addDeck(t, NewStore(), deckID, n)
}

// addDeck adds a deck of n cards to an existing store.
func addDeck(t *testing.T, s *Store, deckID string, n int) (*Store, []string) {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, fmt.Sprintf("%s-c%d", deckID, i))
	}
	s = Apply(s, NewAddObject(testDeck(deckID, ids...)))
	for _, id := range ids {
		s = Apply(s, NewAddObject(testCard(id, deckID)))
	}
	require.Len(t, s.Deck(deckID).CardIDs, n)
	return s, ids
}

// assertSingleMembership verifies the cornerstone invariant: every
// card id appears in at most one membership structure, and the card's
// Location field agrees with where it was found.
func assertSingleMembership(t *testing.T, s *Store) {
	t.Helper()
	for id, obj := range s.Objects {
		c, ok := obj.(*Card)
		if !ok {
			continue
		}
		var where []string
		for _, d := range s.Decks() {
			for _, cid := range d.CardIDs {
				if cid == id {
					where = append(where, "deck:"+d.ID)
				}
			}
			for _, p := range d.Piles {
				for _, cid := range p.CardIDs {
					if cid == id {
						where = append(where, "pile:"+p.ID)
					}
				}
			}
		}
		switch c.Location {
		case LocationHand:
			where = append(where, "hand:"+c.OwnerID)
		case LocationTable:
			where = append(where, "table")
		case LocationCursor:
			where = append(where, "cursor:"+c.OwnerID)
		}
		require.LessOrEqual(t, len(where), 1,
			"card %s is in multiple containers: %v", id, where)
		if len(where) == 1 {
			switch c.Location {
			case LocationDeck:
				require.Contains(t, where[0], "deck:", "card %s location=DECK but found in %s", id, where[0])
			case LocationPile:
				require.Contains(t, where[0], "pile:", "card %s location=PILE but found in %s", id, where[0])
			}
		}
	}
}
