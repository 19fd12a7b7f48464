package geometry

import "math"

// GridType selects the snapping geometry of a board.
type GridType string

const (
	GridNone   GridType = "none"
	GridSquare GridType = "square"
	GridHex    GridType = "hex"
)

// GridSpec describes a board's grid: cell size in world units and the
// grid origin offset. For hex grids Size is the circumradius of a
// pointy-top hexagon (center to corner).
type GridSpec struct {
	Type   GridType `json:"type"`
	Size   float64  `json:"size"`
	Offset Point    `json:"offset"`
}

// SnapToGrid snaps p to the nearest grid position. Square grids snap
// each axis independently to the nearest multiple of Size after
// removing the grid offset. Hex grids snap to the nearest pointy-top
// hex center via cube-coordinate rounding. A zero or missing grid
// returns p unchanged.
func SnapToGrid(p Point, g GridSpec) Point {
	if g.Size <= 0 {
		return p
	}
	switch g.Type {
	case GridSquare:
		rel := p.Sub(g.Offset)
		snapped := Point{
			X: math.Round(rel.X/g.Size) * g.Size,
			Y: math.Round(rel.Y/g.Size) * g.Size,
		}
		return snapped.Add(g.Offset)
	case GridHex:
		rel := p.Sub(g.Offset)
		return hexSnap(rel, g.Size).Add(g.Offset)
	default:
		return p
	}
}

// hexSnap rounds p to the nearest pointy-top hex center with
// circumradius size. The fractional axial coordinates are rounded in
// cube space and the component with the largest rounding error is
// recomputed so q+r+s stays exactly zero.
func hexSnap(p Point, size float64) Point {
	q := (math.Sqrt(3)/3*p.X - 1.0/3*p.Y) / size
	r := (2.0 / 3 * p.Y) / size
	s := -q - r

	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	dq := math.Abs(rq - q)
	dr := math.Abs(rr - r)
	ds := math.Abs(rs - s)

	if dq > dr && dq > ds {
		rq = -rr - rs
	} else if dr > ds {
		rr = -rq - rs
	}

	return Point{
		X: size * math.Sqrt(3) * (rq + rr/2),
		Y: size * 3 / 2 * rr,
	}
}

// occupantTolerance is the fraction of the cell size within which an
// existing object counts as occupying the target cell.
const occupantTolerance = 0.25

// collisionStep is the fraction of the cell size each additional
// occupant shifts the placement by.
const collisionStep = 0.15

// PlaceOnGrid snaps p to the grid and, when the target cell is already
// occupied, offsets the result by a small increasing amount per
// occupant so stacked objects never overlap perfectly. occupied holds
// the positions of the objects the caller considers blocking.
func PlaceOnGrid(p Point, g GridSpec, occupied []Point) Point {
	target := SnapToGrid(p, g)
	if g.Size <= 0 {
		return target
	}
	tol := g.Size * occupantTolerance
	n := 0
	for _, o := range occupied {
		if target.Distance(o) <= tol {
			n++
		}
	}
	if n == 0 {
		return target
	}
	shift := float64(n) * g.Size * collisionStep
	return target.Add(Point{X: shift, Y: shift})
}
