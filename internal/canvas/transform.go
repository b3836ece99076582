package canvas

// Scale bounds for the camera.
const (
	MinScale = 0.1
	MaxScale = 4.0
)

// Transform is the camera: a pan offset in screen pixels plus a uniform
// scale. It is applied to the rendered scene as a single GeoM, so moving
// the camera never re-lays-out board content.
type Transform struct {
	X     float64
	Y     float64
	Scale float64
}

// NewTransform returns the identity camera.
func NewTransform() *Transform {
	return &Transform{Scale: 1}
}

// ScreenToCanvas converts a pointer position to canvas space.
func (t *Transform) ScreenToCanvas(px, py float64) (float64, float64) {
	return (px - t.X) / t.Scale, (py - t.Y) / t.Scale
}

// CanvasToScreen converts a canvas-space point to screen pixels.
func (t *Transform) CanvasToScreen(cx, cy float64) (float64, float64) {
	return cx*t.Scale + t.X, cy*t.Scale + t.Y
}

// Pan shifts the camera by a screen-space delta. Panning is unbounded;
// the board is finite but the space around it is not.
func (t *Transform) Pan(dx, dy float64) {
	t.X += dx
	t.Y += dy
}

// ZoomAt changes the scale by delta while keeping the canvas point under
// the pointer (px, py) fixed on screen.
func (t *Transform) ZoomAt(px, py, delta float64) {
	old := t.Scale
	next := clampScale(old + delta)
	if next == old {
		return
	}
	ratio := next / old
	t.X = px - (px-t.X)*ratio
	t.Y = py - (py-t.Y)*ratio
	t.Scale = next
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
