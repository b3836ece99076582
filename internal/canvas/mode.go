package canvas

// Mode decides how a pointer-down on empty canvas is interpreted.
type Mode int

const (
	// ModePan drags the camera.
	ModePan Mode = iota
	// ModeSelect starts a marquee date-range selection over the grid.
	ModeSelect
	// ModeRect draws a new annotation rectangle.
	ModeRect
)

func (m Mode) String() string {
	switch m {
	case ModePan:
		return "pan"
	case ModeSelect:
		return "select"
	case ModeRect:
		return "rectangle"
	default:
		return "unknown"
	}
}
