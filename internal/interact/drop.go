package interact

import (
	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

// DropKind classifies where a drag resolved.
type DropKind string

const (
	DropNone  DropKind = "none"
	DropPile  DropKind = "pile"
	DropDeck  DropKind = "deck"
	DropBoard DropKind = "board"
	DropTable DropKind = "table"
)

// DropTarget is the resolved destination of a drag. Pile and deck
// targets name the destination by id; board and table targets carry the
// final world placement, already grid-snapped for snapping boards.
type DropTarget struct {
	Kind    DropKind       `json:"kind"`
	DeckID  string         `json:"deckId,omitempty"`
	PileID  string         `json:"pileId,omitempty"`
	BoardID string         `json:"boardId,omitempty"`
	World   geometry.Point `json:"world"`
}

// key collapses the target to its identity for hover-change detection.
// The world point is excluded so sliding across open table stays one
// hover.
func (t DropTarget) key() string {
	return string(t.Kind) + "|" + t.DeckID + "|" + t.PileID + "|" + t.BoardID
}

// resolveDrop resolves where a drag would land right now. Cards test
// the piles of every deck first, then deck bodies, both in screen space
// against the cursor; everything falls through to the topmost snapping
// board under the proposed center and finally to the open table. Pile
// rectangles derive from the owning deck's live position on every call.
func resolveDrop(s *table.Store, obj table.TableObject, screen geometry.Point, proposed geometry.Rect) DropTarget {
	if table.IsUIKind(obj.Kind()) {
		return DropTarget{Kind: DropTable, World: proposed.Pos()}
	}
	if obj.Kind() == table.KindCard {
		if t, ok := pileOrDeckAt(s, screen, obj.Core().ID); ok {
			return t
		}
	}
	if obj.Kind() != table.KindBoard {
		center := proposed.Center()
		if b := snapBoardAt(s, center, obj.Core().ID); b != nil {
			snapped := geometry.PlaceOnGrid(center, b.Grid, occupiedCenters(s, obj.Core().ID))
			return DropTarget{
				Kind:    DropBoard,
				BoardID: b.ID,
				World:   geometry.Point{X: snapped.X - proposed.Width/2, Y: snapped.Y - proposed.Height/2},
			}
		}
	}
	return DropTarget{Kind: DropTable, World: proposed.Pos()}
}

// pileOrDeckAt finds the pile or deck under the cursor, topmost deck
// first, piles before their own and every lower deck. Locked piles
// refuse drops.
func pileOrDeckAt(s *table.Store, screen geometry.Point, dragID string) (DropTarget, bool) {
	cam := s.View
	objs := s.OnTableZOrdered()
	for i := len(objs) - 1; i >= 0; i-- {
		d, ok := objs[i].(*table.Deck)
		if !ok || d.ID == dragID {
			continue
		}
		for _, pl := range table.DeckPilePlacements(d) {
			if !pl.Pile.Visible || pl.Pile.Locked {
				continue
			}
			if cam.WorldRectToViewport(pl.Rect).Contains(screen) {
				return DropTarget{Kind: DropPile, DeckID: d.ID, PileID: pl.Pile.ID}, true
			}
		}
	}
	for i := len(objs) - 1; i >= 0; i-- {
		d, ok := objs[i].(*table.Deck)
		if !ok || d.ID == dragID {
			continue
		}
		if cam.WorldRectToViewport(d.Bounds()).Contains(screen) {
			return DropTarget{Kind: DropDeck, DeckID: d.ID}, true
		}
	}
	return DropTarget{}, false
}

// snapBoardAt returns the topmost snapping board whose surface contains
// the world point.
func snapBoardAt(s *table.Store, world geometry.Point, dragID string) *table.Board {
	objs := s.OnTableZOrdered()
	for i := len(objs) - 1; i >= 0; i-- {
		b, ok := objs[i].(*table.Board)
		if !ok || b.ID == dragID {
			continue
		}
		if !b.Snap || b.Grid.Type == geometry.GridNone || b.Grid.Size <= 0 {
			continue
		}
		if geometry.RotatedRectContains(b.Bounds(), b.Rotation, world) {
			return b
		}
	}
	return nil
}

// occupiedCenters lists the centers that block a grid cell: every
// unlocked on-table object except boards and the dragged object itself.
func occupiedCenters(s *table.Store, dragID string) []geometry.Point {
	var out []geometry.Point
	for _, obj := range s.OnTableZOrdered() {
		core := obj.Core()
		if core.ID == dragID || core.Locked || obj.Kind() == table.KindBoard {
			continue
		}
		out = append(out, core.Bounds().Center())
	}
	return out
}

// hit names what a pointer-down landed on: an object, a pile region of
// a deck, or nothing.
type hit struct {
	obj  table.TableObject
	deck *table.Deck
	pile *table.Pile
}

// hitAt finds the topmost interactive thing under a screen point.
// UI-layer objects float above everything in table space and are tested
// first in their own z-order; then table objects topmost first, with a
// deck's visible piles tested just before the deck body so a pile wins
// over whatever sits beneath it. Hidden cards are invisible to non-GM
// actors and fall through.
func hitAt(s *table.Store, actor table.Actor, screen geometry.Point) hit {
	cam := s.View
	uiWorld := cam.UIViewportToWorld(screen)
	world := cam.ViewportToWorld(screen)

	objs := s.ZOrdered()
	for i := len(objs) - 1; i >= 0; i-- {
		obj := objs[i]
		if !table.IsUIKind(obj.Kind()) {
			continue
		}
		core := obj.Core()
		if geometry.RotatedRectContains(core.Bounds(), core.Rotation, uiWorld) {
			return hit{obj: obj}
		}
	}

	for i := len(objs) - 1; i >= 0; i-- {
		obj := objs[i]
		if table.IsUIKind(obj.Kind()) || !obj.Core().OnTable {
			continue
		}
		if d, ok := obj.(*table.Deck); ok {
			for _, pl := range table.DeckPilePlacements(d) {
				if !pl.Pile.Visible || pl.Pile.Locked || len(pl.Pile.CardIDs) == 0 {
					continue
				}
				if pl.Rect.Contains(world) {
					return hit{deck: d, pile: pl.Pile}
				}
			}
		}
		if c, ok := obj.(*table.Card); ok && c.Hidden && !actor.GM {
			continue
		}
		core := obj.Core()
		if geometry.RotatedRectContains(core.Bounds(), core.Rotation, world) {
			return hit{obj: obj}
		}
	}
	return hit{}
}
