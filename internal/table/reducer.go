package table

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
)

// clonePositionOffset shifts a cloned object off its original.
var clonePositionOffset = geometry.Point{X: 20, Y: 20}

// Apply is the action reducer: a pure, total function from a state and
// an action to the next state. Unknown action types return s itself so
// callers can batch-dispatch without special-casing; operations that
// address missing ids or fail validation also return s unchanged.
// Apply never panics and performs no permission checks — the policy
// layer runs before dispatch, and replicated peers apply the identical
// action stream through this same function.
func Apply(s *Store, a Action) *Store {
	if s == nil {
		return s
	}

	var op func(*Store, Action) bool
	switch a.Type {
	case ActionAddObject:
		op = applyAddObject
	case ActionUpdateObject:
		op = applyUpdateObject
	case ActionMoveObject:
		op = applyMoveObject
	case ActionDeleteObject:
		op = applyDeleteObject
	case ActionCloneObject:
		op = applyCloneObject
	case ActionLockObject:
		op = applyLockObject
	case ActionUnlockObject:
		op = applyUnlockObject
	case ActionDraw:
		op = applyDraw
	case ActionShuffleDeck:
		op = applyShuffleDeck
	case ActionFlipCard:
		op = applyFlipCard
	case ActionReturnToDeck:
		op = applyReturnToDeck
	case ActionAddCardToPile:
		op = applyAddCardToPile
	case ActionAddCardToTop:
		op = applyAddCardToTop
	case ActionMillToBottom:
		op = applyMillToBottom
	case ActionMillToPile:
		op = applyMillToPile
	case ActionReturnAll:
		op = applyReturnAll
	case ActionResetDeck:
		op = applyResetDeck
	case ActionPlayCard:
		op = applyPlayCard
	case ActionTakeToCursor:
		op = applyTakeToCursor
	case ActionAddPile:
		op = applyAddPile
	case ActionUpdatePile:
		op = applyUpdatePile
	case ActionDeletePile:
		op = applyDeletePile
	case ActionPinToViewport:
		op = applyPin
	case ActionUnpinFromViewport:
		op = applyUnpin
	case ActionSetView:
		op = applySetView
	case ActionLayerUp:
		op = applyLayerUp
	case ActionLayerDown:
		op = applyLayerDown
	case ActionRollDice:
		op = applyRollDice
	case ActionAdjustCounter:
		op = applyAdjustCounter
	case ActionSetWindowState:
		op = applySetWindowState
	case ActionAddPlayer:
		op = applyAddPlayer
	case ActionRemovePlayer:
		op = applyRemovePlayer
	case ActionSetActivePlayer:
		op = applySetActivePlayer
	case ActionAdvanceTurn:
		op = applyAdvanceTurn
	default:
		return s
	}

	next := s.Clone()
	if !op(next, a) {
		return s
	}
	return next
}

// Reduce applies a sequence of actions in order.
func Reduce(s *Store, actions ...Action) *Store {
	for _, a := range actions {
		s = Apply(s, a)
	}
	return s
}

func applyAddObject(s *Store, a Action) bool {
	if a.Object == nil || a.Object.Object == nil {
		return false
	}
	obj := a.Object.Object.Copy()
	core := obj.Core()
	if strings.TrimSpace(core.ID) == "" {
		return false
	}
	if _, exists := s.Objects[core.ID]; exists {
		return false
	}
	if core.Z == 0 {
		core.Z = DefaultZ
	}
	if len(core.ActionButtons) > maxActionButtons {
		core.ActionButtons = core.ActionButtons[:maxActionButtons]
	}
	if d, ok := obj.(*Deck); ok {
		d.BaseCardIDs = append([]string(nil), d.CardIDs...)
		for _, p := range d.Piles {
			p.DeckID = d.ID
		}
	}
	s.Objects[core.ID] = obj
	return true
}

func applyUpdateObject(s *Store, a Action) bool {
	if a.Patch == nil {
		return false
	}
	obj := s.Objects[a.ID]
	if obj == nil {
		return false
	}
	p := a.Patch
	core := obj.Core()
	touched := false

	if p.Name != nil {
		core.Name = *p.Name
		touched = true
	}
	if p.Position != nil {
		core.Position = *p.Position
		touched = true
	}
	if p.Width != nil {
		core.Width = *p.Width
		touched = true
	}
	if p.Height != nil {
		core.Height = *p.Height
		touched = true
	}
	if p.Rotation != nil {
		core.Rotation = geometry.NormalizeDeg(*p.Rotation)
		touched = true
	}
	if p.Z != nil {
		core.Z = *p.Z
		touched = true
	}
	if p.Locked != nil {
		core.Locked = *p.Locked
		touched = true
	}
	if p.OnTable != nil {
		core.OnTable = *p.OnTable
		touched = true
	}
	if p.OwnerID != nil {
		core.OwnerID = *p.OwnerID
		touched = true
	}
	if p.ClickAction != nil {
		core.ClickAction = *p.ClickAction
		touched = true
	}
	if p.DoubleClickAction != nil {
		core.DoubleClickAction = *p.DoubleClickAction
		touched = true
	}

	switch v := obj.(type) {
	case *Card:
		if p.FaceUp != nil {
			v.FaceUp = *p.FaceUp
			touched = true
		}
		if p.Hidden != nil {
			v.Hidden = *p.Hidden
			touched = true
		}
		if p.Shape != nil {
			v.Shape = *p.Shape
			touched = true
		}
	case *Deck:
		if p.CardWidth != nil || p.CardHeight != nil {
			cascadeCardSize(s, v, p.CardWidth, p.CardHeight)
			touched = true
		}
	case *Token:
		if p.Shape != nil {
			v.Shape = *p.Shape
			touched = true
		}
	case *Board:
		if p.Shape != nil {
			v.Shape = *p.Shape
			touched = true
		}
		if p.Grid != nil {
			v.Grid = *p.Grid
			touched = true
		}
		if p.Snap != nil {
			v.Snap = *p.Snap
			touched = true
		}
	case *Dice:
		if p.Sides != nil {
			v.Sides = *p.Sides
			touched = true
		}
		if p.Value != nil {
			v.Value = *p.Value
			touched = true
		}
	case *Counter:
		if p.Value != nil {
			v.Value = *p.Value
			touched = true
		}
	case *Panel:
		if p.Minimized != nil {
			v.Minimized = *p.Minimized
			touched = true
		}
	case *Window:
		if p.Minimized != nil {
			v.Minimized = *p.Minimized
			touched = true
		}
	}
	return touched
}

// cascadeCardSize applies new card dimensions to the deck and to every
// card still matching the deck's previous dimensions. Cards resized
// individually keep their override.
func cascadeCardSize(s *Store, d *Deck, w, h *float64) {
	prevW, prevH := d.CardWidth, d.CardHeight
	newW, newH := prevW, prevH
	if w != nil {
		newW = *w
	}
	if h != nil {
		newH = *h
	}
	for _, obj := range s.Objects {
		c, ok := obj.(*Card)
		if !ok || c.DeckID != d.ID {
			continue
		}
		if c.Width == prevW && c.Height == prevH {
			c.Width = newW
			c.Height = newH
		}
	}
	d.CardWidth = newW
	d.CardHeight = newH
}

func applyMoveObject(s *Store, a Action) bool {
	if a.To == nil {
		return false
	}
	obj := s.Objects[a.ID]
	if obj == nil {
		return false
	}
	core := obj.Core()
	if core.Locked {
		return false
	}
	core.Position = *a.To
	if core.PinnedScreenPos != nil {
		// Pinned objects move in screen space: To is the new pin, and
		// the world position is re-derived from the local camera, the
		// same way applySetView maintains it. Peers with different
		// cameras derive different world positions on purpose; the
		// checksum hashes the pin.
		p := *a.To
		core.PinnedScreenPos = &p
		if IsUIKind(obj.Kind()) {
			core.Position = s.View.UIViewportToWorld(p)
		} else {
			core.Position = s.View.ViewportToWorld(p)
		}
	}
	return true
}

func applyDeleteObject(s *Store, a Action) bool {
	obj := s.Objects[a.ID]
	if obj == nil {
		return false
	}
	switch v := obj.(type) {
	case *Card:
		detachCard(s, v.ID)
		delete(s.Objects, v.ID)
	case *Deck:
		deleteDeck(s, v)
	default:
		delete(s.Objects, a.ID)
	}
	return true
}

// deleteDeck cascades: cards in the main list die with the deck, own
// cards inside the deck's piles die too, foreign pile cards are routed
// back to their home decks, and surviving cards that still point at the
// deck get their back-reference cleared.
func deleteDeck(s *Store, d *Deck) {
	for _, id := range d.CardIDs {
		delete(s.Objects, id)
	}
	for _, p := range d.Piles {
		for _, id := range p.CardIDs {
			c := s.Card(id)
			if c == nil {
				continue
			}
			if c.DeckID == d.ID {
				delete(s.Objects, id)
				continue
			}
			routeCardHome(s, c)
		}
	}
	delete(s.Objects, d.ID)

	var orphans []string
	for id, obj := range s.Objects {
		if c, ok := obj.(*Card); ok && c.DeckID == d.ID {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		s.Card(id).DeckID = ""
	}
}

// deriveCloneID deterministically derives a fresh id for a nested
// object of a clone, so every replicating peer computes the identical
// id set from the action alone.
func deriveCloneID(newOwnerID, oldID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("clone:"+newOwnerID+":"+oldID)).String()
}

func applyCloneObject(s *Store, a Action) bool {
	obj := s.Objects[a.ID]
	if obj == nil {
		return false
	}
	newID := strings.TrimSpace(a.NewID)
	if newID == "" {
		return false
	}
	if _, exists := s.Objects[newID]; exists {
		return false
	}

	clone := obj.Copy()
	core := clone.Core()
	core.ID = newID
	core.Position = core.Position.Add(clonePositionOffset)
	core.PinnedScreenPos = nil
	if core.Name == "" {
		core.Name = "(copy)"
	} else {
		core.Name += " (copy)"
	}

	if d, ok := clone.(*Deck); ok {
		src := obj.(*Deck)
		newIDs := make([]string, 0, len(src.CardIDs))
		for _, oldID := range src.CardIDs {
			oc := s.Card(oldID)
			if oc == nil {
				continue
			}
			cc := oc.Copy().(*Card)
			cc.ID = deriveCloneID(newID, oldID)
			cc.DeckID = newID
			cc.Position = cc.Position.Add(clonePositionOffset)
			cc.PinnedScreenPos = nil
			s.Objects[cc.ID] = cc
			newIDs = append(newIDs, cc.ID)
		}
		d.CardIDs = newIDs
		d.BaseCardIDs = append([]string(nil), newIDs...)
		for _, p := range d.Piles {
			p.ID = deriveCloneID(newID, p.ID)
			p.DeckID = newID
			p.CardIDs = nil
		}
	}

	s.Objects[newID] = clone
	return true
}

func applyLockObject(s *Store, a Action) bool {
	obj := s.Objects[a.ID]
	if obj == nil || obj.Core().Locked {
		return false
	}
	obj.Core().Locked = true
	return true
}

func applyUnlockObject(s *Store, a Action) bool {
	obj := s.Objects[a.ID]
	if obj == nil || !obj.Core().Locked {
		return false
	}
	obj.Core().Locked = false
	return true
}

// pinCamera picks the camera a pin operation works in: the acting
// client's camera when the action carries one, the store view
// otherwise.
func pinCamera(s *Store, a Action) geometry.Camera {
	if a.Camera != nil {
		return *a.Camera
	}
	return s.View
}

func applyPin(s *Store, a Action) bool {
	obj := s.Objects[a.ID]
	if obj == nil {
		return false
	}
	cam := pinCamera(s, a)
	core := obj.Core()
	var screen geometry.Point
	if IsUIKind(obj.Kind()) {
		screen = cam.UIWorldToViewport(core.Position)
	} else {
		screen = cam.WorldToViewport(core.Position)
	}
	core.PinnedScreenPos = &screen
	return true
}

func applyUnpin(s *Store, a Action) bool {
	obj := s.Objects[a.ID]
	if obj == nil {
		return false
	}
	core := obj.Core()
	if core.PinnedScreenPos == nil {
		return false
	}
	cam := pinCamera(s, a)
	if IsUIKind(obj.Kind()) {
		core.Position = cam.UIViewportToWorld(*core.PinnedScreenPos)
	} else {
		core.Position = cam.ViewportToWorld(*core.PinnedScreenPos)
	}
	core.PinnedScreenPos = nil
	return true
}

// applySetView installs the new camera and recomputes the world
// position of every pinned object so its derived screen position keeps
// matching the stored pin.
func applySetView(s *Store, a Action) bool {
	if a.View == nil {
		return false
	}
	s.View = *a.View
	for _, obj := range s.Objects {
		core := obj.Core()
		if core.PinnedScreenPos == nil {
			continue
		}
		if IsUIKind(obj.Kind()) {
			core.Position = s.View.UIViewportToWorld(*core.PinnedScreenPos)
		} else {
			core.Position = s.View.ViewportToWorld(*core.PinnedScreenPos)
		}
	}
	return true
}

// layerNeighbors returns the z-sorted objects sharing the subject's
// layer class (table space vs. UI space).
func layerNeighbors(s *Store, subject TableObject) []TableObject {
	ui := IsUIKind(subject.Kind())
	out := make([]TableObject, 0, len(s.Objects))
	for _, obj := range s.Objects {
		if IsUIKind(obj.Kind()) == ui {
			out = append(out, obj)
		}
	}
	sort.Slice(out, func(i, j int) bool { return zLess(out[i], out[j]) })
	return out
}

func applyLayerUp(s *Store, a Action) bool {
	return swapLayer(s, a.ID, +1)
}

func applyLayerDown(s *Store, a Action) bool {
	return swapLayer(s, a.ID, -1)
}

// swapLayer exchanges z-indices with the adjacent object in z-order, a
// local swap rather than a global renumbering. Equal z values get
// nudged apart so the swap is visible.
func swapLayer(s *Store, id string, dir int) bool {
	subject := s.Objects[id]
	if subject == nil {
		return false
	}
	ordered := layerNeighbors(s, subject)
	idx := -1
	for i, obj := range ordered {
		if obj.Core().ID == id {
			idx = i
			break
		}
	}
	j := idx + dir
	if idx < 0 || j < 0 || j >= len(ordered) {
		return false
	}
	neighbor := ordered[j]
	sc, nc := subject.Core(), neighbor.Core()
	if sc.Z == nc.Z {
		sc.Z += dir
		return true
	}
	sc.Z, nc.Z = nc.Z, sc.Z
	return true
}

func applyRollDice(s *Store, a Action) bool {
	obj := s.Objects[a.ID]
	d, ok := obj.(*Dice)
	if !ok || d.Sides <= 0 {
		return false
	}
	rng := rand.New(rand.NewSource(a.Seed))
	d.Value = rng.Intn(d.Sides) + 1
	s.DiceLog = append(s.DiceLog, DiceRoll{
		DiceID:   d.ID,
		PlayerID: a.PlayerID,
		Sides:    d.Sides,
		Value:    d.Value,
		RolledAt: a.At,
	})
	if len(s.DiceLog) > maxDiceLog {
		s.DiceLog = s.DiceLog[len(s.DiceLog)-maxDiceLog:]
	}
	return true
}

func applyAdjustCounter(s *Store, a Action) bool {
	obj := s.Objects[a.ID]
	c, ok := obj.(*Counter)
	if !ok || a.Delta == 0 {
		return false
	}
	c.Value += a.Delta
	if c.Value < 0 {
		c.Value = 0
	}
	return true
}

// applySetWindowState toggles a window between its two remembered
// placements, or flips a panel's minimized flag.
func applySetWindowState(s *Store, a Action) bool {
	switch v := s.Objects[a.ID].(type) {
	case *Window:
		if v.Minimized == a.Minimized {
			return false
		}
		if a.Minimized {
			v.ExpandedPos = v.Position
			v.Position = v.MinimizedPos
		} else {
			v.MinimizedPos = v.Position
			v.Position = v.ExpandedPos
		}
		v.Minimized = a.Minimized
		return true
	case *Panel:
		if v.Minimized == a.Minimized {
			return false
		}
		v.Minimized = a.Minimized
		return true
	default:
		return false
	}
}

func applyAddPlayer(s *Store, a Action) bool {
	if a.Player == nil || strings.TrimSpace(a.Player.ID) == "" {
		return false
	}
	if s.Player(a.Player.ID) != nil {
		return false
	}
	p := *a.Player
	s.Players = append(s.Players, &p)
	if s.ActivePlayerID == "" {
		s.ActivePlayerID = p.ID
	}
	return true
}

// applyRemovePlayer unseats the player and routes their hand and
// cursor cards back to the owning decks.
func applyRemovePlayer(s *Store, a Action) bool {
	idx := -1
	for i, p := range s.Players {
		if p.ID == a.PlayerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)

	var held []string
	for id, obj := range s.Objects {
		c, ok := obj.(*Card)
		if !ok || c.OwnerID != a.PlayerID {
			continue
		}
		if c.Location == LocationHand || c.Location == LocationCursor {
			held = append(held, id)
		}
	}
	sort.Strings(held)
	for _, id := range held {
		routeCardHome(s, s.Card(id))
	}

	if s.ActivePlayerID == a.PlayerID {
		s.ActivePlayerID = ""
		if len(s.Players) > 0 {
			s.ActivePlayerID = s.Players[idx%len(s.Players)].ID
		}
	}
	return true
}

func applySetActivePlayer(s *Store, a Action) bool {
	if s.Player(a.PlayerID) == nil || s.ActivePlayerID == a.PlayerID {
		return false
	}
	s.ActivePlayerID = a.PlayerID
	return true
}

func applyAdvanceTurn(s *Store, a Action) bool {
	if len(s.Players) == 0 {
		return false
	}
	idx := -1
	for i, p := range s.Players {
		if p.ID == s.ActivePlayerID {
			idx = i
			break
		}
	}
	next := s.Players[(idx+1)%len(s.Players)].ID
	if next == s.ActivePlayerID {
		return false
	}
	s.ActivePlayerID = next
	return true
}
