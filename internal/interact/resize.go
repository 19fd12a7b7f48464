package interact

import (
	"math"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/geometry"
	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

// Handle names one of the eight resize handles by compass direction.
type Handle int

const (
	HandleNone Handle = iota
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleNW
)

// resizableKind reports whether objects of this kind grow edge handles.
// Cards and decks resize through the deck's card-size fields instead.
func resizableKind(k table.Kind) bool {
	switch k {
	case table.KindBoard, table.KindPanel, table.KindWindow:
		return true
	}
	return false
}

// handleAt classifies a world-space point against the rect's handles.
// The grab reach is resizeHandlePx divided by zoom so it stays constant
// on screen. Rotated objects expose no handles; they move as a whole.
func handleAt(r geometry.Rect, rotation float64, world geometry.Point, zoom float64) Handle {
	if rotation != 0 || zoom <= 0 {
		return HandleNone
	}
	th := resizeHandlePx / zoom
	if world.X < r.X-th || world.X > r.X+r.Width+th ||
		world.Y < r.Y-th || world.Y > r.Y+r.Height+th {
		return HandleNone
	}
	nearL := math.Abs(world.X-r.X) <= th
	nearR := math.Abs(world.X-(r.X+r.Width)) <= th
	nearT := math.Abs(world.Y-r.Y) <= th
	nearB := math.Abs(world.Y-(r.Y+r.Height)) <= th
	switch {
	case nearT && nearL:
		return HandleNW
	case nearT && nearR:
		return HandleNE
	case nearB && nearL:
		return HandleSW
	case nearB && nearR:
		return HandleSE
	case nearT:
		return HandleN
	case nearB:
		return HandleS
	case nearL:
		return HandleW
	case nearR:
		return HandleE
	}
	return HandleNone
}

// resizeRect moves the grabbed edges of the starting rect by the cursor
// delta, clamping each side to min with the opposite edge anchored.
func resizeRect(start geometry.Rect, h Handle, delta geometry.Point, min float64) geometry.Rect {
	r := start
	switch h {
	case HandleW, HandleNW, HandleSW:
		right := start.X + start.Width
		x := start.X + delta.X
		if right-x < min {
			x = right - min
		}
		r.X = x
		r.Width = right - x
	case HandleE, HandleNE, HandleSE:
		w := start.Width + delta.X
		if w < min {
			w = min
		}
		r.Width = w
	}
	switch h {
	case HandleN, HandleNW, HandleNE:
		bottom := start.Y + start.Height
		y := start.Y + delta.Y
		if bottom-y < min {
			y = bottom - min
		}
		r.Y = y
		r.Height = bottom - y
	case HandleS, HandleSW, HandleSE:
		hh := start.Height + delta.Y
		if hh < min {
			hh = min
		}
		r.Height = hh
	}
	return r
}
