package table

import (
	"sort"
	"time"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
)

// Player is a seated participant. Seat order is the Players slice
// order; the GM flag grants bypass of ownership and lock restrictions.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	GM   bool   `json:"gm,omitempty"`
}

// DiceRoll is one entry of the bounded roll log, newest last.
type DiceRoll struct {
	DiceID   string    `json:"diceId"`
	PlayerID string    `json:"playerId,omitempty"`
	Sides    int       `json:"sides"`
	Value    int       `json:"value"`
	RolledAt time.Time `json:"rolledAt"`
}

// maxDiceLog bounds the roll history kept in the store.
const maxDiceLog = 100

// Store is the authoritative table state: every object indexed by id,
// the seated players, the active player, the dice-roll log, and the
// view transform. The reducer is the store's only writer; everything
// else reads it as an immutable snapshot between applications.
type Store struct {
	Objects        map[string]TableObject `json:"objects"`
	Players        []*Player              `json:"players"`
	ActivePlayerID string                 `json:"activePlayerId,omitempty"`
	DiceLog        []DiceRoll             `json:"diceLog,omitempty"`
	View           geometry.Camera        `json:"view"`
}

// NewStore returns an empty store with an identity view transform.
func NewStore() *Store {
	return &Store{
		Objects: make(map[string]TableObject),
		Players: make([]*Player, 0),
		View:    geometry.DefaultCamera(),
	}
}

// Clone returns a deep copy. The original remains valid for any
// retained references; the reducer mutates only clones.
func (s *Store) Clone() *Store {
	out := &Store{
		Objects:        make(map[string]TableObject, len(s.Objects)),
		Players:        make([]*Player, 0, len(s.Players)),
		ActivePlayerID: s.ActivePlayerID,
		DiceLog:        append([]DiceRoll(nil), s.DiceLog...),
		View:           s.View,
	}
	for id, obj := range s.Objects {
		out.Objects[id] = obj.Copy()
	}
	for _, p := range s.Players {
		cp := *p
		out.Players = append(out.Players, &cp)
	}
	return out
}

// Object returns the object with the given id, or nil.
func (s *Store) Object(id string) TableObject {
	return s.Objects[id]
}

// Card returns the card with the given id, or nil if the id is absent
// or names a different kind.
func (s *Store) Card(id string) *Card {
	c, _ := s.Objects[id].(*Card)
	return c
}

// Deck returns the deck with the given id, or nil.
func (s *Store) Deck(id string) *Deck {
	d, _ := s.Objects[id].(*Deck)
	return d
}

// Player returns the player with the given id, or nil.
func (s *Store) Player(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Decks returns every deck, sorted by id for deterministic iteration.
func (s *Store) Decks() []*Deck {
	var out []*Deck
	for _, obj := range s.Objects {
		if d, ok := obj.(*Deck); ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HandCards returns the cards in the given player's hand, sorted by id.
func (s *Store) HandCards(playerID string) []*Card {
	var out []*Card
	for _, obj := range s.Objects {
		if c, ok := obj.(*Card); ok && c.Location == LocationHand && c.OwnerID == playerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// VisibleCount returns the deck's card count as shown to players:
// main-list length excluding hidden cards.
func (s *Store) VisibleCount(deckID string) int {
	d := s.Deck(deckID)
	if d == nil {
		return 0
	}
	n := 0
	for _, id := range d.CardIDs {
		if c := s.Card(id); c != nil && !c.Hidden {
			n++
		}
	}
	return n
}

// zLess is the weak total order used for render and interaction
// precedence: z ascending, boards beneath everything on ties, locked
// objects sinking below unlocked, id as the final tiebreak.
func zLess(a, b TableObject) bool {
	ca, cb := a.Core(), b.Core()
	if ca.Z != cb.Z {
		return ca.Z < cb.Z
	}
	pa, pb := typePriority(a.Kind()), typePriority(b.Kind())
	if pa != pb {
		return pa < pb
	}
	if ca.Locked != cb.Locked {
		return ca.Locked
	}
	return ca.ID < cb.ID
}

// ZOrdered returns all objects sorted bottom-most first.
func (s *Store) ZOrdered() []TableObject {
	out := make([]TableObject, 0, len(s.Objects))
	for _, obj := range s.Objects {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool { return zLess(out[i], out[j]) })
	return out
}

// OnTableZOrdered returns the objects participating in table rendering,
// bottom-most first.
func (s *Store) OnTableZOrdered() []TableObject {
	out := make([]TableObject, 0, len(s.Objects))
	for _, obj := range s.Objects {
		if obj.Core().OnTable {
			out = append(out, obj)
		}
	}
	sort.Slice(out, func(i, j int) bool { return zLess(out[i], out[j]) })
	return out
}
