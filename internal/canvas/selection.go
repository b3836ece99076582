package canvas

import "github.com/yearboard/core/internal/domain/dates"

// Selection tracks an in-progress marquee date-range selection. Anchor is
// the date under the initial pointer-down, focus follows the pointer; the
// effective range is order-independent.
type Selection struct {
	active bool
	anchor string
	focus  string
}

// Start begins a new selection at date. Any previous uncommitted state is
// simply replaced.
func (s *Selection) Start(date string) {
	s.active = true
	s.anchor = date
	s.focus = date
}

// Extend moves the focus end of the selection to date.
func (s *Selection) Extend(date string) {
	if !s.active {
		return
	}
	s.focus = date
}

// Active reports whether a selection is in progress.
func (s *Selection) Active() bool {
	return s.active
}

// Range returns the normalized (min, max) pair of the selection.
func (s *Selection) Range() (string, string) {
	return dates.Ordered(s.anchor, s.focus)
}

// Contains reports whether date falls inside the current selection.
func (s *Selection) Contains(date string) bool {
	if !s.active {
		return false
	}
	lo, hi := s.Range()
	return dates.InRange(date, lo, hi)
}

// Commit ends the selection. It returns the normalized range and whether
// the gesture was a single-day click (anchor == focus).
func (s *Selection) Commit() (start, end string, single bool) {
	start, end = s.Range()
	single = s.anchor == s.focus
	s.active = false
	s.anchor = ""
	s.focus = ""
	return start, end, single
}
