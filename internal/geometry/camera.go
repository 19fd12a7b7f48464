package geometry

// Camera describes one client's view of the table: a pan offset, a zoom
// factor, and the scroll position of the surrounding page. Zoom must be
// positive for the transforms to be invertible.
type Camera struct {
	Offset     Point   `json:"offset"`
	Zoom       float64 `json:"zoom"`
	ScrollLeft float64 `json:"scrollLeft"`
	ScrollTop  float64 `json:"scrollTop"`
}

// DefaultCamera returns the identity view: no pan, no scroll, zoom 1.
func DefaultCamera() Camera {
	return Camera{Zoom: 1}
}

// WorldToViewport converts a world-space point to viewport pixels.
func (c Camera) WorldToViewport(p Point) Point {
	return Point{
		X: p.X*c.Zoom + c.Offset.X - c.ScrollLeft,
		Y: p.Y*c.Zoom + c.Offset.Y - c.ScrollTop,
	}
}

// ViewportToWorld is the exact inverse of WorldToViewport.
func (c Camera) ViewportToWorld(p Point) Point {
	return Point{
		X: (p.X + c.ScrollLeft - c.Offset.X) / c.Zoom,
		Y: (p.Y + c.ScrollTop - c.Offset.Y) / c.Zoom,
	}
}

// UIWorldToViewport converts a point for UI-layer objects, which render
// in a screen-space layer untouched by page scroll.
func (c Camera) UIWorldToViewport(p Point) Point {
	return Point{
		X: p.X*c.Zoom + c.Offset.X,
		Y: p.Y*c.Zoom + c.Offset.Y,
	}
}

// UIViewportToWorld is the exact inverse of UIWorldToViewport.
func (c Camera) UIViewportToWorld(p Point) Point {
	return Point{
		X: (p.X - c.Offset.X) / c.Zoom,
		Y: (p.Y - c.Offset.Y) / c.Zoom,
	}
}

// WorldRectToViewport converts a world-space rectangle to viewport
// pixels, scaling its size by the zoom factor.
func (c Camera) WorldRectToViewport(r Rect) Rect {
	tl := c.WorldToViewport(Point{X: r.X, Y: r.Y})
	return Rect{X: tl.X, Y: tl.Y, Width: r.Width * c.Zoom, Height: r.Height * c.Zoom}
}
