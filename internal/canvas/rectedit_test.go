package canvas

import (
	"testing"

	"github.com/yearboard/core/internal/domain/entities"
)

func TestDrawCommit(t *testing.T) {
	var e RectEditor
	e.BeginDraw(100, 100)
	e.UpdateDraw(180, 160)

	rect, ok := e.EndDraw()
	if !ok {
		t.Fatal("draw above threshold was discarded")
	}
	if rect.ID == "" {
		t.Error("committed rectangle has no id")
	}
	if rect.X != 100 || rect.Y != 100 || rect.Width != 80 || rect.Height != 60 {
		t.Errorf("geometry = %+v", rect)
	}
	if rect.Color != DefaultRectColor {
		t.Errorf("color = %q", rect.Color)
	}
	if e.Selected() != rect.ID {
		t.Error("new rectangle should be selected")
	}
	if e.Dragging() {
		t.Error("editor still dragging after commit")
	}
}

func TestDrawBackwardsNormalizes(t *testing.T) {
	var e RectEditor
	e.BeginDraw(200, 200)
	e.UpdateDraw(120, 150)

	rect, ok := e.EndDraw()
	if !ok {
		t.Fatal("backwards draw discarded")
	}
	if rect.X != 120 || rect.Y != 150 || rect.Width != 80 || rect.Height != 50 {
		t.Errorf("geometry = %+v", rect)
	}
}

func TestDrawBelowThresholdDiscarded(t *testing.T) {
	var e RectEditor
	e.BeginDraw(100, 100)
	e.UpdateDraw(104, 104)
	if _, ok := e.EndDraw(); ok {
		t.Error("tiny draw should be discarded")
	}

	// One small axis is enough to discard.
	e.BeginDraw(100, 100)
	e.UpdateDraw(200, 105)
	if _, ok := e.EndDraw(); ok {
		t.Error("draw thin on one axis should be discarded")
	}
}

func TestMoveAppliesFullDelta(t *testing.T) {
	var e RectEditor
	rect := entities.CanvasRectangle{ID: "r", X: 50, Y: 50, Width: 40, Height: 30}
	e.BeginMove(rect, 60, 60)

	moved := e.UpdateMove(70, 55)
	if moved.X != 60 || moved.Y != 45 {
		t.Errorf("move tick 1 = %+v", moved)
	}
	// Deltas are from the drag origin, not the previous tick.
	moved = e.UpdateMove(65, 65)
	if moved.X != 55 || moved.Y != 55 {
		t.Errorf("move tick 2 = %+v", moved)
	}
	if moved.Width != 40 || moved.Height != 30 {
		t.Error("move changed the size")
	}
}

func TestResizeEdges(t *testing.T) {
	rect := entities.CanvasRectangle{ID: "r", X: 100, Y: 100, Width: 60, Height: 40}

	var e RectEditor
	e.BeginResize(rect, EdgeSouth|EdgeEast, 160, 140)
	got := e.UpdateResize(170, 150)
	if got.X != 100 || got.Y != 100 || got.Width != 70 || got.Height != 50 {
		t.Errorf("south-east resize = %+v", got)
	}

	e.BeginResize(rect, EdgeNorth|EdgeWest, 100, 100)
	got = e.UpdateResize(110, 90)
	if got.X != 110 || got.Y != 90 || got.Width != 50 || got.Height != 50 {
		t.Errorf("north-west resize = %+v", got)
	}
}

func TestResizePastOppositeEdge(t *testing.T) {
	rect := entities.CanvasRectangle{ID: "r", X: 100, Y: 100, Width: 60, Height: 40}
	var e RectEditor
	e.BeginResize(rect, EdgeSouth|EdgeEast, 160, 140)

	// Drag far past the opposite corner: dimensions go negative mid-drag.
	got := e.UpdateResize(60, 80)
	if got.Width != -40 || got.Height != -20 {
		t.Errorf("mid-drag = %+v", got)
	}
	final := e.EndDrag(got)
	if final.Width < 0 || final.Height < 0 {
		t.Errorf("EndDrag left negative size: %+v", final)
	}
	if final.X != 60 || final.Y != 80 {
		t.Errorf("flipped origin = (%f, %f)", final.X, final.Y)
	}
}

func TestHandleAt(t *testing.T) {
	rect := entities.CanvasRectangle{X: 100, Y: 100, Width: 60, Height: 40}

	edges, ok := HandleAt(rect, 100, 100)
	if !ok || edges != EdgeNorth|EdgeWest {
		t.Errorf("top-left handle = %v, %v", edges, ok)
	}
	edges, ok = HandleAt(rect, 160, 140)
	if !ok || edges != EdgeSouth|EdgeEast {
		t.Errorf("bottom-right handle = %v, %v", edges, ok)
	}
	if _, ok := HandleAt(rect, 130, 120); ok {
		t.Error("rectangle center is not a handle")
	}
	// Slightly outside the corner still hits, within HandleSize.
	if _, ok := HandleAt(rect, 100-HandleSize+1, 100-HandleSize+1); !ok {
		t.Error("point just outside corner should hit the handle")
	}
}

func TestLabelEditor(t *testing.T) {
	var e RectEditor
	e.BeginEdit("r1", "old")
	if !e.Editing() || e.EditingID() != "r1" {
		t.Fatal("editor did not open")
	}

	e.AppendRunes([]rune(" text"))
	e.BackspaceEdit()
	if e.EditText() != "old tex" {
		t.Errorf("buffer = %q", e.EditText())
	}

	id, text := e.CommitEdit()
	if id != "r1" || text != "old tex" {
		t.Errorf("CommitEdit() = (%q, %q)", id, text)
	}
	if e.Editing() {
		t.Error("editor still open after commit")
	}
}

func TestLabelEditorCancelRestores(t *testing.T) {
	var e RectEditor
	e.BeginEdit("r1", "keep me")
	e.AppendRunes([]rune("garbage"))

	id, text := e.CancelEdit()
	if id != "r1" || text != "keep me" {
		t.Errorf("CancelEdit() = (%q, %q)", id, text)
	}
}

func TestBackspaceOnEmptyBuffer(t *testing.T) {
	var e RectEditor
	e.BeginEdit("r1", "")
	e.BackspaceEdit()
	if e.EditText() != "" {
		t.Errorf("buffer = %q", e.EditText())
	}
}
