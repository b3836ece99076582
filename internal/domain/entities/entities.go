package entities

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yearboard/core/internal/domain/dates"
)

// Common errors
var (
	ErrDayNotFound       = errors.New("day entry not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrRectangleNotFound = errors.New("rectangle not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileExists     = errors.New("profile name already taken")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidMood       = errors.New("invalid mood")
	ErrInvalidDate       = errors.New("date is not a valid ISO date")
	ErrDateOutsideYear   = errors.New("date is outside the board year")
	ErrEndBeforeStart    = errors.New("end date is before start date")
	ErrTitleRequired     = errors.New("title is required")
	ErrMalformedSnapshot = errors.New("malformed snapshot payload")
)

// Mood is the fixed set of moods a day entry can carry.
type Mood string

const (
	MoodTerrible  Mood = "terrible"
	MoodBad       Mood = "bad"
	MoodNeutral   Mood = "neutral"
	MoodGood      Mood = "good"
	MoodExcellent Mood = "excellent"
)

func (m Mood) IsValid() bool {
	switch m {
	case MoodTerrible, MoodBad, MoodNeutral, MoodGood, MoodExcellent:
		return true
	default:
		return false
	}
}

// DayEntry is the note attached to a single date. There is at most one
// entry per date; saving overwrites the whole entry.
type DayEntry struct {
	Date  string   `json:"date" db:"date"`
	Title string   `json:"title" db:"title"`
	Notes string   `json:"notes" db:"notes"`
	Mood  Mood     `json:"mood,omitempty" db:"mood"`
	Tags  []string `json:"tags" db:"tags"`
}

// Validate checks the entry against the board year.
func (d *DayEntry) Validate(year int) error {
	if !dates.IsValidKey(d.Date) {
		return ErrInvalidDate
	}
	if !dates.InYear(d.Date, year) {
		return ErrDateOutsideYear
	}
	if d.Mood != "" && !d.Mood.IsValid() {
		return ErrInvalidMood
	}
	return nil
}

// IsEmpty reports whether the entry carries no content. Saving an empty
// entry removes the day instead of storing a blank record.
func (d *DayEntry) IsEmpty() bool {
	return d.Title == "" && d.Notes == "" && d.Mood == "" && len(d.Tags) == 0
}

// CalendarEvent spans every date in [StartDate, EndDate], inclusive.
type CalendarEvent struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	StartDate   string `json:"startDate" db:"start_date"`
	EndDate     string `json:"endDate" db:"end_date"`
	Category    string `json:"category" db:"category"`
	Color       string `json:"color" db:"color"`
	Description string `json:"description,omitempty" db:"description"`
}

// ContainsDate reports whether date falls inside the event's span.
func (e *CalendarEvent) ContainsDate(date string) bool {
	return dates.InRange(date, e.StartDate, e.EndDate)
}

// Validate checks the event against the board year.
func (e *CalendarEvent) Validate(year int) error {
	if e.Title == "" {
		return ErrTitleRequired
	}
	if !dates.IsValidKey(e.StartDate) || !dates.IsValidKey(e.EndDate) {
		return ErrInvalidDate
	}
	if !dates.InYear(e.StartDate, year) || !dates.InYear(e.EndDate, year) {
		return ErrDateOutsideYear
	}
	if e.EndDate < e.StartDate {
		return ErrEndBeforeStart
	}
	return nil
}

// categoryPalette is the fixed set of colors events are assigned from.
var categoryPalette = []string{
	"#4f7cac", "#c0804d", "#5d9d63", "#a85c5c",
	"#7a6aa8", "#48889a", "#b08a3e", "#9a5d8a",
}

// DefaultEventColor is used when an event has no category.
const DefaultEventColor = "#8a8f98"

// ColorForCategory maps an arbitrary category string onto the palette.
// The mapping is deterministic; distinct categories may collide.
func ColorForCategory(category string) string {
	if category == "" {
		return DefaultEventColor
	}
	var h uint32
	for _, r := range category {
		h = h*31 + uint32(r)
	}
	return categoryPalette[h%uint32(len(categoryPalette))]
}

// CanvasRectangle is a free-form annotation drawn on the board in canvas
// coordinates, so it stays put under pan and zoom.
type CanvasRectangle struct {
	ID     string  `json:"id" db:"id"`
	X      float64 `json:"x" db:"x"`
	Y      float64 `json:"y" db:"y"`
	Width  float64 `json:"width" db:"width"`
	Height float64 `json:"height" db:"height"`
	Color  string  `json:"color" db:"color"`
	Text   string  `json:"text,omitempty" db:"text"`
}

// Normalized returns the rectangle with non-negative size and (X, Y) at
// the true top-left corner. Interactive draws and resizes may produce
// negative spans; commit paths must go through here.
func (r CanvasRectangle) Normalized() CanvasRectangle {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Contains reports whether the canvas-space point (x, y) lies inside the
// normalized rectangle.
func (r CanvasRectangle) Contains(x, y float64) bool {
	n := r.Normalized()
	return x >= n.X && x <= n.X+n.Width && y >= n.Y && y <= n.Y+n.Height
}

// AppData is the whole board: day entries keyed by date, plus events and
// rectangles. It is owned by the application layer; the canvas core only
// reads it and reports mutations through callbacks.
type AppData struct {
	Days       map[string]DayEntry `json:"days"`
	Events     []CalendarEvent     `json:"events"`
	Rectangles []CanvasRectangle   `json:"rectangles"`
}

// NewAppData returns an empty board.
func NewAppData() *AppData {
	return &AppData{
		Days:       make(map[string]DayEntry),
		Events:     make([]CalendarEvent, 0),
		Rectangles: make([]CanvasRectangle, 0),
	}
}

// EventsOn returns the events covering date, ascending by start date with
// id as tiebreaker so per-cell order is stable across renders.
func (a *AppData) EventsOn(date string) []CalendarEvent {
	var out []CalendarEvent
	for i := range a.Events {
		if a.Events[i].ContainsDate(date) {
			out = append(out, a.Events[i])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FindEvent returns the index of the event with id, or -1.
func (a *AppData) FindEvent(id string) int {
	for i := range a.Events {
		if a.Events[i].ID == id {
			return i
		}
	}
	return -1
}

// FindRectangle returns the index of the rectangle with id, or -1.
func (a *AppData) FindRectangle(id string) int {
	for i := range a.Rectangles {
		if a.Rectangles[i].ID == id {
			return i
		}
	}
	return -1
}

// UserProfile identifies a local profile, referenced by the UI for
// display only.
type UserProfile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// User is a sync-server account. The password hash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
