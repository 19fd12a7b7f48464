package geometry

import "math"

// RotatedRectContains reports whether p lies inside r after r has been
// rotated by rotationDeg degrees clockwise about its center. The query
// point is carried into the rectangle's local unrotated frame by the
// inverse rotation, then checked against the axis-aligned bounds.
func RotatedRectContains(r Rect, rotationDeg float64, p Point) bool {
	if rotationDeg == 0 {
		return r.Contains(p)
	}
	c := r.Center()
	rad := -rotationDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)

	dx := p.X - c.X
	dy := p.Y - c.Y
	lx := dx*cos - dy*sin
	ly := dx*sin + dy*cos

	return math.Abs(lx) <= r.Width/2 && math.Abs(ly) <= r.Height/2
}

// RotatePoint rotates p by rotationDeg degrees clockwise about center.
func RotatePoint(p Point, center Point, rotationDeg float64) Point {
	rad := rotationDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// AngleDeg returns the angle in degrees of the vector from center to p,
// normalized to [0,360). Zero points along positive x; angles grow
// clockwise in the y-down coordinate system.
func AngleDeg(center, p Point) float64 {
	return NormalizeDeg(math.Atan2(p.Y-center.Y, p.X-center.X) * 180 / math.Pi)
}

// NormalizeDeg wraps an angle into [0,360).
func NormalizeDeg(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	return m
}
