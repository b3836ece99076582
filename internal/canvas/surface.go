package canvas

import (
	"fmt"
	"sync"
	"time"

	"github.com/yearboard/core/internal/domain/entities"
)

// clickSlop is the cumulative pointer movement, in screen pixels, under
// which a press/release pair still counts as a click.
const clickSlop = 4.0

// zoomStep scales wheel ticks into scale deltas.
const zoomStep = 0.1

// scrollSpeed scales wheel ticks into pan pixels.
const scrollSpeed = 20.0

// Callbacks are how the surface reports committed interactions to the
// surrounding application. The surface never mutates AppData itself.
// RectUpdated fires on every move/resize tick; owners must stay cheap
// per call.
type Callbacks struct {
	DayClicked    func(date string)
	RangeSelected func(start, end string)
	QuickAdd      func(date string)
	EventClicked  func(event entities.CalendarEvent)
	RectAdded     func(rect entities.CanvasRectangle)
	RectUpdated   func(rect entities.CanvasRectangle)
	RectDeleted   func(id string)
}

// frame is one tick's worth of raw input, gathered by the platform layer
// so the gesture logic below stays pure and testable.
type frame struct {
	px, py       float64
	pressed      bool
	justPressed  bool
	justReleased bool
	doubleClick  bool

	wheelX, wheelY float64
	ctrl           bool
	shift          bool

	runes        []rune
	keyPan       bool
	keySelect    bool
	keyRect      bool
	keyDelete    bool
	keyEnter     bool
	keyEscape    bool
	keyBackspace bool
}

type gestureKind int

const (
	gestureNone gestureKind = iota
	gesturePan
	gestureSelect
	gestureDraw
	gestureMove
	gestureResize
	gestureRectPress
)

// Surface composes the transform, mode machine, selection controller,
// rectangle editor and grid into one interactive canvas. Gesture state
// lives in plain fields and is promoted to visible output only on commit
// or when a live preview needs drawing.
type Surface struct {
	grid      *Grid
	renderer  *SceneRenderer
	data      *entities.AppData
	transform *Transform
	mode      Mode
	selection Selection
	rects     RectEditor
	cb        Callbacks

	// gesture bookkeeping, never rendered
	gesture    gestureKind
	lastX      float64
	lastY      float64
	moved      float64
	activeRect entities.CanvasRectangle

	clickTime time.Time
	clickX    float64
	clickY    float64

	noticeMu sync.Mutex
	notice   string

	scene      sceneCache
	sceneDirty bool
}

// NewSurface builds a surface for the grid's year.
func NewSurface(grid *Grid, cb Callbacks) (*Surface, error) {
	renderer, err := NewSceneRenderer(grid)
	if err != nil {
		return nil, fmt.Errorf("init scene renderer: %w", err)
	}
	return &Surface{
		grid:       grid,
		renderer:   renderer,
		data:       entities.NewAppData(),
		transform:  NewTransform(),
		mode:       ModePan,
		cb:         cb,
		sceneDirty: true,
	}, nil
}

// SetData hands the surface the board to render. The surface treats it
// as read-only input.
func (s *Surface) SetData(data *entities.AppData) {
	s.data = data
	s.sceneDirty = true
}

// Invalidate forces a scene rebuild on the next draw. Owners call it
// after committing day or event changes; rectangle edits draw from the
// overlay and do not need it.
func (s *Surface) Invalidate() {
	s.sceneDirty = true
}

// Mode returns the active interaction mode.
func (s *Surface) Mode() Mode { return s.mode }

// SetMode switches the interaction mode explicitly.
func (s *Surface) SetMode(m Mode) { s.mode = m }

// Transform exposes the camera for the platform layer and tests.
func (s *Surface) Transform() *Transform { return s.transform }

// SelectedRect returns the id of the selected rectangle, or "".
func (s *Surface) SelectedRect() string { return s.rects.Selected() }

// EditingLabel reports whether the rectangle label editor has focus.
func (s *Surface) EditingLabel() bool { return s.rects.Editing() }

// SetNotice shows a transient status line, e.g. a persistence failure.
// Safe to call from the persistence worker goroutine.
func (s *Surface) SetNotice(msg string) {
	s.noticeMu.Lock()
	s.notice = msg
	s.noticeMu.Unlock()
}

func (s *Surface) currentNotice() string {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	return s.notice
}

// step advances the surface by one input frame.
func (s *Surface) step(f frame) {
	if s.rects.Editing() {
		s.stepLabelEditor(f)
		if s.rects.Editing() {
			return
		}
		// A press that closed the editor falls through and is handled
		// as a fresh pointer-down below.
		if !f.justPressed {
			return
		}
	}

	s.stepKeys(f)
	s.stepWheel(f)

	switch {
	case f.justPressed:
		s.pointerDown(f)
	case f.pressed:
		// Runs even when no gesture is active so moved keeps
		// accumulating; a press on dead space dragged across the board
		// must not count as a click on release.
		s.pointerDrag(f)
	case f.justReleased:
		s.pointerUp(f)
	}
	s.lastX, s.lastY = f.px, f.py
}

func (s *Surface) stepLabelEditor(f frame) {
	switch {
	case f.keyEnter:
		s.commitLabel(s.rects.CommitEdit())
	case f.keyEscape:
		s.commitLabel(s.rects.CancelEdit())
	case f.justPressed:
		// Clicking elsewhere commits and exits.
		s.commitLabel(s.rects.CommitEdit())
	case f.keyBackspace:
		s.rects.BackspaceEdit()
	default:
		if len(f.runes) > 0 {
			s.rects.AppendRunes(f.runes)
		}
	}
}

func (s *Surface) commitLabel(id, text string) {
	idx := s.data.FindRectangle(id)
	if idx < 0 || s.cb.RectUpdated == nil {
		return
	}
	rect := s.data.Rectangles[idx]
	rect.Text = text
	s.cb.RectUpdated(rect)
}

func (s *Surface) stepKeys(f frame) {
	switch {
	case f.keyPan:
		s.mode = ModePan
	case f.keySelect:
		s.mode = ModeSelect
	case f.keyRect:
		s.mode = ModeRect
	}
	if f.keyDelete && s.rects.Selected() != "" && !s.rects.Dragging() {
		id := s.rects.Selected()
		s.rects.ClearSelection()
		if s.cb.RectDeleted != nil {
			s.cb.RectDeleted(id)
		}
	}
}

func (s *Surface) stepWheel(f frame) {
	if f.wheelX == 0 && f.wheelY == 0 {
		return
	}
	if f.ctrl {
		s.transform.ZoomAt(f.px, f.py, f.wheelY*zoomStep)
		return
	}
	s.transform.Pan(f.wheelX*scrollSpeed, f.wheelY*scrollSpeed)
}

func (s *Surface) pointerDown(f frame) {
	s.moved = 0
	s.lastX, s.lastY = f.px, f.py
	cx, cy := s.transform.ScreenToCanvas(f.px, f.py)

	// Rectangles sit above the grid, so they get first claim.
	if rect, ok := s.rectAt(cx, cy); ok {
		if f.doubleClick {
			s.rects.Select(rect.ID)
			s.rects.BeginEdit(rect.ID, rect.Text)
			s.gesture = gestureRectPress
			return
		}
		if s.rects.Selected() == rect.ID {
			if edges, onHandle := HandleAt(rect, cx, cy); onHandle {
				s.rects.BeginResize(rect, edges, cx, cy)
				s.activeRect = rect
				s.gesture = gestureResize
				return
			}
			s.rects.BeginMove(rect, cx, cy)
			s.activeRect = rect
			s.gesture = gestureMove
			return
		}
		s.rects.Select(rect.ID)
		s.gesture = gestureRectPress
		return
	}

	date, overCell := s.grid.DateAt(cx, cy)

	// Shift forces marquee selection over a cell in any mode.
	if overCell && (f.shift || s.mode == ModeSelect) {
		s.selection.Start(date)
		s.gesture = gestureSelect
		return
	}

	switch s.mode {
	case ModeRect:
		s.rects.ClearSelection()
		s.rects.BeginDraw(cx, cy)
		s.gesture = gestureDraw
	case ModePan:
		s.gesture = gesturePan
	default:
		s.gesture = gestureNone
	}
}

func (s *Surface) pointerDrag(f frame) {
	dx, dy := f.px-s.lastX, f.py-s.lastY
	s.moved += abs(dx) + abs(dy)
	cx, cy := s.transform.ScreenToCanvas(f.px, f.py)

	switch s.gesture {
	case gesturePan:
		s.transform.Pan(dx, dy)
	case gestureSelect:
		if date, ok := s.grid.DateAt(cx, cy); ok {
			s.selection.Extend(date)
		}
	case gestureDraw:
		s.rects.UpdateDraw(cx, cy)
	case gestureMove:
		s.activeRect = s.rects.UpdateMove(cx, cy)
		if s.cb.RectUpdated != nil {
			s.cb.RectUpdated(s.activeRect)
		}
	case gestureResize:
		s.activeRect = s.rects.UpdateResize(cx, cy)
		if s.cb.RectUpdated != nil {
			s.cb.RectUpdated(s.activeRect)
		}
	}
}

func (s *Surface) pointerUp(f frame) {
	gesture := s.gesture
	s.gesture = gestureNone

	switch gesture {
	case gestureSelect:
		start, end, single := s.selection.Commit()
		if single {
			if s.cb.DayClicked != nil {
				s.cb.DayClicked(start)
			}
		} else if s.cb.RangeSelected != nil {
			s.cb.RangeSelected(start, end)
		}
	case gestureDraw:
		if rect, ok := s.rects.EndDraw(); ok {
			if s.cb.RectAdded != nil {
				s.cb.RectAdded(rect)
			}
			// Finishing a draw drops back to pan with the new
			// rectangle selected.
			s.mode = ModePan
		}
	case gestureMove, gestureResize:
		final := s.rects.EndDrag(s.activeRect)
		if s.cb.RectUpdated != nil {
			s.cb.RectUpdated(final)
		}
	case gesturePan, gestureNone:
		if s.moved < clickSlop {
			s.click(f)
		}
	}
}

// click resolves a stationary press/release into one of the cell
// affordances, each with its own callback.
func (s *Surface) click(f frame) {
	cx, cy := s.transform.ScreenToCanvas(f.px, f.py)
	hit := s.grid.HitTest(s.data, cx, cy)
	switch hit.Zone {
	case HitQuickAdd:
		if s.cb.QuickAdd != nil {
			s.cb.QuickAdd(hit.Date)
		}
	case HitEvent:
		if s.cb.EventClicked != nil {
			s.cb.EventClicked(hit.Event)
		}
	case HitBody:
		if s.cb.DayClicked != nil {
			s.cb.DayClicked(hit.Date)
		}
	case HitNone:
		s.rects.ClearSelection()
	}
}

// rectAt returns the topmost rectangle under a canvas point. The
// selected rectangle wins ties so its handles stay reachable.
func (s *Surface) rectAt(cx, cy float64) (entities.CanvasRectangle, bool) {
	if id := s.rects.Selected(); id != "" {
		if idx := s.data.FindRectangle(id); idx >= 0 {
			rect := s.data.Rectangles[idx]
			if _, ok := HandleAt(rect, cx, cy); ok || rect.Contains(cx, cy) {
				return rect, true
			}
		}
	}
	for i := len(s.data.Rectangles) - 1; i >= 0; i-- {
		if s.data.Rectangles[i].Contains(cx, cy) {
			return s.data.Rectangles[i], true
		}
	}
	return entities.CanvasRectangle{}, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
