package table

import (
	"math/rand"
	"sort"
	"strings"
)

// removeID strips the first occurrence of id from list.
func removeID(list []string, id string) ([]string, bool) {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// detachCard strips the card id from every deck main list and every
// pile list in the store. Inserting a card anywhere always detaches
// first, so the single-location invariant holds by construction.
func detachCard(s *Store, cardID string) bool {
	changed := false
	for _, d := range s.Decks() {
		var ok bool
		if d.CardIDs, ok = removeID(d.CardIDs, cardID); ok {
			changed = true
		}
		for _, p := range d.Piles {
			if p.CardIDs, ok = removeID(p.CardIDs, cardID); ok {
				changed = true
			}
		}
	}
	return changed
}

// insertIntoDeck detaches the card from wherever it resides and
// appends it to the top of the target deck's main list. claim
// additionally transfers ownership by rewriting the card's deckId.
func insertIntoDeck(s *Store, c *Card, d *Deck, claim bool) {
	detachCard(s, c.ID)
	d.CardIDs = append(d.CardIDs, c.ID)
	c.Location = LocationDeck
	c.FaceUp = false
	c.OnTable = false
	c.OwnerID = ""
	if claim {
		c.DeckID = d.ID
	}
}

// routeCardHome sends a card back to the deck it belongs to, deleting
// the card when its home deck no longer exists.
func routeCardHome(s *Store, c *Card) {
	if c == nil {
		return
	}
	home := s.Deck(c.DeckID)
	if home == nil {
		detachCard(s, c.ID)
		delete(s.Objects, c.ID)
		return
	}
	insertIntoDeck(s, c, home, false)
}

// applyDraw moves up to Count cards from the top of the deck (the end
// of the main list) into the player's hand. Drawing from a short or
// empty deck silently draws fewer.
func applyDraw(s *Store, a Action) bool {
	d := s.Deck(a.ID)
	if d == nil || a.Count <= 0 || strings.TrimSpace(a.PlayerID) == "" {
		return false
	}
	n := a.Count
	if n > len(d.CardIDs) {
		n = len(d.CardIDs)
	}
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		id := d.CardIDs[len(d.CardIDs)-1]
		d.CardIDs = d.CardIDs[:len(d.CardIDs)-1]
		c := s.Card(id)
		if c == nil {
			continue
		}
		c.Location = LocationHand
		c.OwnerID = a.PlayerID
		c.FaceUp = false
		c.OnTable = false
	}
	return true
}

// applyShuffleDeck permutes the main list with a Fisher-Yates shuffle
// seeded from the action, so every peer derives the same order.
func applyShuffleDeck(s *Store, a Action) bool {
	d := s.Deck(a.ID)
	if d == nil || len(d.CardIDs) < 2 {
		return false
	}
	rng := rand.New(rand.NewSource(a.Seed))
	rng.Shuffle(len(d.CardIDs), func(i, j int) {
		d.CardIDs[i], d.CardIDs[j] = d.CardIDs[j], d.CardIDs[i]
	})
	return true
}

func applyFlipCard(s *Store, a Action) bool {
	c := s.Card(a.ID)
	if c == nil {
		return false
	}
	c.FaceUp = !c.FaceUp
	return true
}

// applyReturnToDeck appends the card to the target deck's main list
// and transfers ownership to that deck. An empty DeckID targets the
// card's own deck.
func applyReturnToDeck(s *Store, a Action) bool {
	c := s.Card(a.ID)
	if c == nil {
		return false
	}
	target := a.DeckID
	if target == "" {
		target = c.DeckID
	}
	d := s.Deck(target)
	if d == nil {
		return false
	}
	insertIntoDeck(s, c, d, true)
	return true
}

func applyAddCardToPile(s *Store, a Action) bool {
	c := s.Card(a.ID)
	d := s.Deck(a.DeckID)
	if c == nil || d == nil {
		return false
	}
	p := d.Pile(a.PileID)
	if p == nil {
		return false
	}
	detachCard(s, c.ID)
	p.CardIDs = append(p.CardIDs, c.ID)
	c.Location = LocationPile
	c.FaceUp = p.FaceUp
	c.OnTable = false
	c.OwnerID = ""
	return true
}

// applyAddCardToTop stacks the card on top of the deck without
// transferring ownership; a foreign card stays foreign and is later
// reconciled by RETURN_ALL.
func applyAddCardToTop(s *Store, a Action) bool {
	c := s.Card(a.ID)
	d := s.Deck(a.DeckID)
	if c == nil || d == nil {
		return false
	}
	insertIntoDeck(s, c, d, false)
	return true
}

// applyMillToBottom moves the deck's top card to the bottom of the
// main list.
func applyMillToBottom(s *Store, a Action) bool {
	d := s.Deck(a.ID)
	if d == nil || len(d.CardIDs) < 2 {
		return false
	}
	top := d.CardIDs[len(d.CardIDs)-1]
	d.CardIDs = append([]string{top}, d.CardIDs[:len(d.CardIDs)-1]...)
	return true
}

// applyMillToPile moves the deck's top card into its designated mill
// pile. Decks without a mill pile ignore the action.
func applyMillToPile(s *Store, a Action) bool {
	d := s.Deck(a.ID)
	if d == nil || len(d.CardIDs) == 0 {
		return false
	}
	p := d.MillPile()
	if p == nil {
		return false
	}
	id := d.CardIDs[len(d.CardIDs)-1]
	d.CardIDs = d.CardIDs[:len(d.CardIDs)-1]
	p.CardIDs = append(p.CardIDs, id)
	if c := s.Card(id); c != nil {
		c.Location = LocationPile
		c.FaceUp = p.FaceUp
		c.OnTable = false
		c.OwnerID = ""
	}
	return true
}

// returnAllHome reconciles a deck in four phases, in this order:
// foreign cards inside the deck (main list, then piles) are evicted to
// their own decks or deleted when the home deck is gone; the deck's
// own cards are pulled out of its own piles; then out of every other
// deck's main list and piles; then out of every hand, cursor slot, and
// off the table. Eviction runs first so an evicted foreign card cannot
// be re-imported by the later phases.
func returnAllHome(s *Store, d *Deck) bool {
	changed := false

	for _, id := range append([]string(nil), d.CardIDs...) {
		c := s.Card(id)
		if c == nil {
			d.CardIDs, _ = removeID(d.CardIDs, id)
			changed = true
			continue
		}
		if c.DeckID != d.ID {
			routeCardHome(s, c)
			changed = true
		}
	}
	for _, p := range d.Piles {
		for _, id := range append([]string(nil), p.CardIDs...) {
			c := s.Card(id)
			if c == nil {
				p.CardIDs, _ = removeID(p.CardIDs, id)
				changed = true
				continue
			}
			if c.DeckID != d.ID {
				routeCardHome(s, c)
				changed = true
			}
		}
	}

	for _, p := range d.Piles {
		for _, id := range append([]string(nil), p.CardIDs...) {
			c := s.Card(id)
			if c != nil && c.DeckID == d.ID {
				insertIntoDeck(s, c, d, false)
				changed = true
			}
		}
	}

	for _, od := range s.Decks() {
		if od.ID == d.ID {
			continue
		}
		for _, id := range append([]string(nil), od.CardIDs...) {
			c := s.Card(id)
			if c != nil && c.DeckID == d.ID {
				insertIntoDeck(s, c, d, false)
				changed = true
			}
		}
		for _, p := range od.Piles {
			for _, id := range append([]string(nil), p.CardIDs...) {
				c := s.Card(id)
				if c != nil && c.DeckID == d.ID {
					insertIntoDeck(s, c, d, false)
					changed = true
				}
			}
		}
	}

	var loose []string
	for id, obj := range s.Objects {
		c, ok := obj.(*Card)
		if !ok || c.DeckID != d.ID {
			continue
		}
		switch c.Location {
		case LocationHand, LocationTable, LocationCursor:
			loose = append(loose, id)
		}
	}
	sort.Strings(loose)
	for _, id := range loose {
		insertIntoDeck(s, s.Card(id), d, false)
		changed = true
	}

	return changed
}

func applyReturnAll(s *Store, a Action) bool {
	d := s.Deck(a.ID)
	if d == nil {
		return false
	}
	return returnAllHome(s, d)
}

// applyResetDeck gathers every card the deck owns back into the main
// list, restores the creation order recorded in BaseCardIDs, and turns
// everything face down. Cards acquired after creation stack on top in
// their current order.
func applyResetDeck(s *Store, a Action) bool {
	d := s.Deck(a.ID)
	if d == nil {
		return false
	}
	before := append([]string(nil), d.CardIDs...)
	changed := returnAllHome(s, d)

	present := make(map[string]bool, len(d.CardIDs))
	for _, id := range d.CardIDs {
		present[id] = true
	}
	ordered := make([]string, 0, len(d.CardIDs))
	for _, id := range d.BaseCardIDs {
		if present[id] {
			ordered = append(ordered, id)
			present[id] = false
		}
	}
	for _, id := range d.CardIDs {
		if present[id] {
			ordered = append(ordered, id)
			present[id] = false
		}
	}
	d.CardIDs = ordered

	for _, id := range d.CardIDs {
		if c := s.Card(id); c != nil && c.FaceUp {
			c.FaceUp = false
			changed = true
		}
	}
	return changed || !equalStrings(before, d.CardIDs)
}

// applyPlayCard places the card on the table at a world point, leaving
// ownership and face state as they are.
func applyPlayCard(s *Store, a Action) bool {
	c := s.Card(a.ID)
	if c == nil || a.To == nil {
		return false
	}
	detachCard(s, c.ID)
	c.Position = *a.To
	c.Location = LocationTable
	c.OnTable = true
	return true
}

// applyTakeToCursor detaches the card into the dragging player's
// cursor slot, the transient location of a hand-originated drag.
func applyTakeToCursor(s *Store, a Action) bool {
	c := s.Card(a.ID)
	if c == nil {
		return false
	}
	detachCard(s, c.ID)
	c.Location = LocationCursor
	c.OnTable = false
	c.OwnerID = a.PlayerID
	return true
}

func validPilePosition(p PilePosition) bool {
	switch p {
	case PileLeft, PileRight, PileTop, PileBottom, PileFree:
		return true
	}
	return false
}

func applyAddPile(s *Store, a Action) bool {
	d := s.Deck(a.DeckID)
	if d == nil || a.Pile == nil {
		return false
	}
	p := a.Pile.Copy()
	if strings.TrimSpace(p.ID) == "" || !validPilePosition(p.Position) {
		return false
	}
	if p.Size != 0.5 && p.Size != 1 {
		if p.Size != 0 {
			return false
		}
		p.Size = 1
	}
	for _, od := range s.Decks() {
		if od.Pile(p.ID) != nil {
			return false
		}
	}
	p.DeckID = d.ID
	p.CardIDs = nil
	d.Piles = append(d.Piles, p)
	return true
}

func applyUpdatePile(s *Store, a Action) bool {
	d := s.Deck(a.DeckID)
	if d == nil || a.PilePatch == nil {
		return false
	}
	p := d.Pile(a.PileID)
	if p == nil {
		return false
	}
	patch := a.PilePatch
	touched := false
	if patch.Name != nil {
		p.Name = *patch.Name
		touched = true
	}
	if patch.Position != nil && validPilePosition(*patch.Position) {
		p.Position = *patch.Position
		touched = true
	}
	if patch.Size != nil && (*patch.Size == 0.5 || *patch.Size == 1) {
		p.Size = *patch.Size
		touched = true
	}
	if patch.FaceUp != nil {
		p.FaceUp = *patch.FaceUp
		touched = true
	}
	if patch.Visible != nil {
		p.Visible = *patch.Visible
		touched = true
	}
	if patch.Free != nil {
		p.X, p.Y = patch.Free.X, patch.Free.Y
		touched = true
	}
	if patch.IsMill != nil {
		p.IsMill = *patch.IsMill
		touched = true
	}
	if patch.Locked != nil {
		p.Locked = *patch.Locked
		touched = true
	}
	return touched
}

// applyDeletePile removes the pile, returning its own cards to the
// deck's main list and evicting foreign ones to their home decks.
func applyDeletePile(s *Store, a Action) bool {
	d := s.Deck(a.DeckID)
	if d == nil {
		return false
	}
	idx := -1
	for i, p := range d.Piles {
		if p.ID == a.PileID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	p := d.Piles[idx]
	for _, id := range append([]string(nil), p.CardIDs...) {
		c := s.Card(id)
		if c == nil {
			continue
		}
		if c.DeckID == d.ID {
			insertIntoDeck(s, c, d, false)
		} else {
			routeCardHome(s, c)
		}
	}
	d.Piles = append(d.Piles[:idx], d.Piles[idx+1:]...)
	return true
}
