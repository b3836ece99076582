package services

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"

	"github.com/yearboard/core/internal/canvas"
	"github.com/yearboard/core/internal/domain/entities"
)

// snapshotEnvelope is the on-disk snapshot shape. Days and events are
// required; rectangles were added later and default to empty so older
// snapshots still import.
type snapshotEnvelope struct {
	Days       *map[string]entities.DayEntry `json:"days"`
	Events     *[]entities.CalendarEvent     `json:"events"`
	Rectangles []entities.CanvasRectangle    `json:"rectangles"`
}

// ExportSnapshot writes the board as JSON.
func ExportSnapshot(w io.Writer, data *entities.AppData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ImportSnapshot parses and validates a JSON snapshot against the board
// year. Any malformed shape or invalid record rejects the whole payload;
// a partial import would leave the board in a state no one asked for.
func ImportSnapshot(r io.Reader, year int) (*entities.AppData, error) {
	var env snapshotEnvelope
	dec := json.NewDecoder(r)
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedSnapshot, err)
	}
	if env.Days == nil || env.Events == nil {
		return nil, fmt.Errorf("%w: days and events are required", entities.ErrMalformedSnapshot)
	}

	data := entities.NewAppData()
	for key, entry := range *env.Days {
		if entry.Date == "" {
			entry.Date = key
		}
		if entry.Date != key {
			return nil, fmt.Errorf("%w: day key %q does not match entry date %q",
				entities.ErrMalformedSnapshot, key, entry.Date)
		}
		if err := entry.Validate(year); err != nil {
			return nil, fmt.Errorf("%w: day %s: %v", entities.ErrMalformedSnapshot, key, err)
		}
		data.Days[key] = entry
	}
	for _, ev := range *env.Events {
		if ev.ID == "" {
			return nil, fmt.Errorf("%w: event without id", entities.ErrMalformedSnapshot)
		}
		if err := ev.Validate(year); err != nil {
			return nil, fmt.Errorf("%w: event %s: %v", entities.ErrMalformedSnapshot, ev.ID, err)
		}
		data.Events = append(data.Events, ev)
	}
	for _, rect := range env.Rectangles {
		if rect.ID == "" {
			return nil, fmt.Errorf("%w: rectangle without id", entities.ErrMalformedSnapshot)
		}
		data.Rectangles = append(data.Rectangles, rect.Normalized())
	}
	return data, nil
}

// ExportPNG renders the full board, annotations included, as a PNG.
func ExportPNG(w io.Writer, data *entities.AppData, year int) error {
	renderer, err := canvas.NewSceneRenderer(canvas.NewGrid(year))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	img := renderer.Render(data, true)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
