package table

import (
	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
)

// pileGutter separates stacked half-size piles, in world units.
const pileGutter = 8.0

// PileRect computes a pile's world rectangle from its owning deck's
// current geometry. Side piles sit flush against the deck edge;
// half-size piles sharing a side stack along the perpendicular axis in
// pile-array order. The result depends on the deck's live position and
// must be recomputed per call, never cached.
func PileRect(d *Deck, p *Pile) geometry.Rect {
	w := d.Width * p.Size
	h := d.Height * p.Size

	if p.Position == PileFree {
		return geometry.Rect{X: p.X, Y: p.Y, Width: w, Height: h}
	}

	idx := 0
	if p.Size == 0.5 {
		for _, other := range d.Piles {
			if other.ID == p.ID {
				break
			}
			if other.Position == p.Position && other.Size == 0.5 {
				idx++
			}
		}
	}

	var r geometry.Rect
	switch p.Position {
	case PileLeft:
		r = geometry.Rect{X: d.Position.X - w, Y: d.Position.Y, Width: w, Height: h}
		if p.Size == 0.5 {
			r.Y += float64(idx) * (h + pileGutter)
		}
	case PileRight:
		r = geometry.Rect{X: d.Position.X + d.Width, Y: d.Position.Y, Width: w, Height: h}
		if p.Size == 0.5 {
			r.Y += float64(idx) * (h + pileGutter)
		}
	case PileTop:
		r = geometry.Rect{X: d.Position.X, Y: d.Position.Y - h, Width: w, Height: h}
		if p.Size == 0.5 {
			r.X += float64(idx) * (w + pileGutter)
		}
	case PileBottom:
		r = geometry.Rect{X: d.Position.X, Y: d.Position.Y + d.Height, Width: w, Height: h}
		if p.Size == 0.5 {
			r.X += float64(idx) * (w + pileGutter)
		}
	default:
		r = geometry.Rect{X: p.X, Y: p.Y, Width: w, Height: h}
	}
	return r
}

// PilePlacement pairs a pile with its derived world rectangle.
type PilePlacement struct {
	Pile *Pile
	Rect geometry.Rect
}

// DeckPilePlacements lays out every pile of the deck, in pile-array
// order.
func DeckPilePlacements(d *Deck) []PilePlacement {
	out := make([]PilePlacement, 0, len(d.Piles))
	for _, p := range d.Piles {
		out = append(out, PilePlacement{Pile: p, Rect: PileRect(d, p)})
	}
	return out
}
