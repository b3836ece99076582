package canvas

import (
	"github.com/google/uuid"

	"github.com/yearboard/core/internal/domain/entities"
)

// MinRectSize is the smallest committed rectangle, in canvas units.
// Draw gestures that normalize below this on both axes are discarded.
const MinRectSize = 10.0

// DefaultRectColor is the border color for newly drawn rectangles.
const DefaultRectColor = "#d08770"

// HandleSize is the corner-handle hit size in canvas units.
const HandleSize = 8.0

// Edge identifies which sides of a rectangle a resize drag affects.
type Edge int

const (
	EdgeNorth Edge = 1 << iota
	EdgeSouth
	EdgeEast
	EdgeWest
)

type rectPhase int

const (
	rectIdle rectPhase = iota
	rectDrawing
	rectMoving
	rectResizing
)

// RectEditor owns the create/move/resize/text-edit lifecycle for
// annotation rectangles. It never touches AppData itself; every change is
// returned to the surface, which reports it upward through callbacks.
type RectEditor struct {
	phase    rectPhase
	selected string

	draft  entities.CanvasRectangle
	orig   entities.CanvasRectangle
	startX float64
	startY float64
	edges  Edge

	editingID string
	editBuf   []rune
	editPrev  string
}

// Selected returns the id of the selected rectangle, or "".
func (e *RectEditor) Selected() string { return e.selected }

// Select marks a rectangle selected, replacing any previous selection.
func (e *RectEditor) Select(id string) { e.selected = id }

// ClearSelection drops the selection.
func (e *RectEditor) ClearSelection() { e.selected = "" }

// Dragging reports whether a draw, move or resize is in progress.
func (e *RectEditor) Dragging() bool { return e.phase != rectIdle }

// Drawing reports whether a new-rectangle draw is in progress.
func (e *RectEditor) Drawing() bool { return e.phase == rectDrawing }

// BeginDraw starts drawing a new rectangle at a canvas-space point.
func (e *RectEditor) BeginDraw(cx, cy float64) {
	e.phase = rectDrawing
	e.startX, e.startY = cx, cy
	e.draft = entities.CanvasRectangle{X: cx, Y: cy, Color: DefaultRectColor}
}

// UpdateDraw extends the live preview to the current pointer position.
// Width and height stay signed until commit.
func (e *RectEditor) UpdateDraw(cx, cy float64) entities.CanvasRectangle {
	e.draft.Width = cx - e.startX
	e.draft.Height = cy - e.startY
	return e.draft
}

// EndDraw normalizes the preview and commits it if it clears the minimum
// size threshold. Sub-threshold draws are a no-op, not an error.
func (e *RectEditor) EndDraw() (entities.CanvasRectangle, bool) {
	e.phase = rectIdle
	rect := e.draft.Normalized()
	e.draft = entities.CanvasRectangle{}
	if rect.Width < MinRectSize || rect.Height < MinRectSize {
		return entities.CanvasRectangle{}, false
	}
	rect.ID = uuid.NewString()
	e.selected = rect.ID
	return rect, true
}

// Preview returns the in-progress draw rectangle.
func (e *RectEditor) Preview() entities.CanvasRectangle { return e.draft }

// BeginMove starts moving rect from a canvas-space point. The original
// geometry is captured once so each move tick applies the full delta to
// it instead of accumulating increments.
func (e *RectEditor) BeginMove(rect entities.CanvasRectangle, cx, cy float64) {
	e.phase = rectMoving
	e.orig = rect
	e.selected = rect.ID
	e.startX, e.startY = cx, cy
}

// UpdateMove returns the rectangle translated by the gesture delta.
func (e *RectEditor) UpdateMove(cx, cy float64) entities.CanvasRectangle {
	rect := e.orig
	rect.X += cx - e.startX
	rect.Y += cy - e.startY
	return rect
}

// BeginResize starts resizing rect by the handle covering edges.
func (e *RectEditor) BeginResize(rect entities.CanvasRectangle, edges Edge, cx, cy float64) {
	e.phase = rectResizing
	e.orig = rect
	e.selected = rect.ID
	e.edges = edges
	e.startX, e.startY = cx, cy
}

// UpdateResize applies the gesture delta to the affected edges only.
// Dimensions may go negative mid-drag; EndDrag normalizes.
func (e *RectEditor) UpdateResize(cx, cy float64) entities.CanvasRectangle {
	rect := e.orig
	dx := cx - e.startX
	dy := cy - e.startY
	if e.edges&EdgeWest != 0 {
		rect.X += dx
		rect.Width -= dx
	}
	if e.edges&EdgeEast != 0 {
		rect.Width += dx
	}
	if e.edges&EdgeNorth != 0 {
		rect.Y += dy
		rect.Height -= dy
	}
	if e.edges&EdgeSouth != 0 {
		rect.Height += dy
	}
	return rect
}

// EndDrag finishes a move or resize, returning the normalized result.
func (e *RectEditor) EndDrag(current entities.CanvasRectangle) entities.CanvasRectangle {
	e.phase = rectIdle
	return current.Normalized()
}

// HandleAt returns the resize edges for the corner handle of rect under
// the canvas point, if any.
func HandleAt(rect entities.CanvasRectangle, cx, cy float64) (Edge, bool) {
	n := rect.Normalized()
	corners := []struct {
		x, y  float64
		edges Edge
	}{
		{n.X, n.Y, EdgeNorth | EdgeWest},
		{n.X + n.Width, n.Y, EdgeNorth | EdgeEast},
		{n.X, n.Y + n.Height, EdgeSouth | EdgeWest},
		{n.X + n.Width, n.Y + n.Height, EdgeSouth | EdgeEast},
	}
	for _, c := range corners {
		if cx >= c.x-HandleSize && cx <= c.x+HandleSize &&
			cy >= c.y-HandleSize && cy <= c.y+HandleSize {
			return c.edges, true
		}
	}
	return 0, false
}

// Editing reports whether the label editor is open. Keyboard shortcuts
// are suppressed while it is.
func (e *RectEditor) Editing() bool { return e.editingID != "" }

// EditingID returns the id of the rectangle whose label is being edited.
func (e *RectEditor) EditingID() string { return e.editingID }

// BeginEdit opens the label editor for a rectangle.
func (e *RectEditor) BeginEdit(id, current string) {
	e.editingID = id
	e.editPrev = current
	e.editBuf = []rune(current)
}

// EditText returns the current editor buffer.
func (e *RectEditor) EditText() string { return string(e.editBuf) }

// AppendRunes adds typed characters to the editor buffer.
func (e *RectEditor) AppendRunes(rs []rune) {
	e.editBuf = append(e.editBuf, rs...)
}

// BackspaceEdit removes the last rune from the editor buffer.
func (e *RectEditor) BackspaceEdit() {
	if len(e.editBuf) > 0 {
		e.editBuf = e.editBuf[:len(e.editBuf)-1]
	}
}

// CommitEdit closes the editor and returns the edited id and text.
func (e *RectEditor) CommitEdit() (id, text string) {
	id, text = e.editingID, string(e.editBuf)
	e.editingID = ""
	e.editBuf = nil
	e.editPrev = ""
	return id, text
}

// CancelEdit closes the editor and returns the id with the original text.
func (e *RectEditor) CancelEdit() (id, text string) {
	id, text = e.editingID, e.editPrev
	e.editingID = ""
	e.editBuf = nil
	e.editPrev = ""
	return id, text
}
