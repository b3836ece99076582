package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/ports"
)

// localSchema is the per-profile board schema. The whole board is scoped
// by owner_id so multiple profiles share one database file.
const localSchema = `
CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	color      TEXT NOT NULL DEFAULT '#4f7cac',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS days (
	owner_id TEXT NOT NULL,
	date     TEXT NOT NULL,
	title    TEXT NOT NULL DEFAULT '',
	notes    TEXT NOT NULL DEFAULT '',
	mood     TEXT NOT NULL DEFAULT '',
	tags     TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY (owner_id, date)
);

CREATE TABLE IF NOT EXISTS events (
	owner_id    TEXT NOT NULL,
	id          TEXT NOT NULL,
	title       TEXT NOT NULL,
	start_date  TEXT NOT NULL,
	end_date    TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	color       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (owner_id, id)
);

CREATE TABLE IF NOT EXISTS rectangles (
	owner_id TEXT NOT NULL,
	id       TEXT NOT NULL,
	x        REAL NOT NULL,
	y        REAL NOT NULL,
	width    REAL NOT NULL,
	height   REAL NOT NULL,
	color    TEXT NOT NULL DEFAULT '',
	text     TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (owner_id, id)
);
`

// MigrateLocal creates the local schema if it does not exist yet.
func MigrateLocal(db *sql.DB) error {
	if _, err := db.Exec(localSchema); err != nil {
		return fmt.Errorf("apply local schema: %w", err)
	}
	return nil
}

// SQLiteBoardRepository implements BoardRepository on the local store.
type SQLiteBoardRepository struct {
	db *sql.DB
}

// NewSQLiteBoardRepository creates a local board repository.
func NewSQLiteBoardRepository(db *sql.DB) ports.BoardRepository {
	return &SQLiteBoardRepository{db: db}
}

func (r *SQLiteBoardRepository) Fetch(ctx context.Context, ownerID uuid.UUID) (*entities.AppData, error) {
	data := entities.NewAppData()

	rows, err := r.db.QueryContext(ctx,
		`SELECT date, title, notes, mood, tags FROM days WHERE owner_id = ?`, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("fetch days: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var entry entities.DayEntry
		var tags string
		if err := rows.Scan(&entry.Date, &entry.Title, &entry.Notes, &entry.Mood, &tags); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &entry.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for %s: %w", entry.Date, err)
		}
		data.Days[entry.Date] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}

	eventRows, err := r.db.QueryContext(ctx,
		`SELECT id, title, start_date, end_date, category, color, description
		 FROM events WHERE owner_id = ? ORDER BY start_date, id`, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer eventRows.Close()
	for eventRows.Next() {
		var ev entities.CalendarEvent
		if err := eventRows.Scan(&ev.ID, &ev.Title, &ev.StartDate, &ev.EndDate,
			&ev.Category, &ev.Color, &ev.Description); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		data.Events = append(data.Events, ev)
	}
	if err := eventRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	rectRows, err := r.db.QueryContext(ctx,
		`SELECT id, x, y, width, height, color, text
		 FROM rectangles WHERE owner_id = ?`, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("fetch rectangles: %w", err)
	}
	defer rectRows.Close()
	for rectRows.Next() {
		var rect entities.CanvasRectangle
		if err := rectRows.Scan(&rect.ID, &rect.X, &rect.Y, &rect.Width,
			&rect.Height, &rect.Color, &rect.Text); err != nil {
			return nil, fmt.Errorf("scan rectangle: %w", err)
		}
		data.Rectangles = append(data.Rectangles, rect)
	}
	if err := rectRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rectangles: %w", err)
	}

	return data, nil
}

func (r *SQLiteBoardRepository) UpsertDay(ctx context.Context, ownerID uuid.UUID, entry entities.DayEntry) error {
	tags, err := json.Marshal(normalizedTags(entry.Tags))
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO days (owner_id, date, title, notes, mood, tags)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, date)
		DO UPDATE SET title = excluded.title, notes = excluded.notes,
			mood = excluded.mood, tags = excluded.tags`,
		ownerID.String(), entry.Date, entry.Title, entry.Notes, string(entry.Mood), string(tags))
	if err != nil {
		return fmt.Errorf("upsert day: %w", err)
	}
	return nil
}

func (r *SQLiteBoardRepository) DeleteDay(ctx context.Context, ownerID uuid.UUID, date string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM days WHERE owner_id = ? AND date = ?`, ownerID.String(), date)
	if err != nil {
		return fmt.Errorf("delete day: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entities.ErrDayNotFound
	}
	return nil
}

func (r *SQLiteBoardRepository) UpsertEvent(ctx context.Context, ownerID uuid.UUID, event entities.CalendarEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (owner_id, id, title, start_date, end_date, category, color, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, id)
		DO UPDATE SET title = excluded.title, start_date = excluded.start_date,
			end_date = excluded.end_date, category = excluded.category,
			color = excluded.color, description = excluded.description`,
		ownerID.String(), event.ID, event.Title, event.StartDate, event.EndDate,
		event.Category, event.Color, event.Description)
	if err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

func (r *SQLiteBoardRepository) DeleteEvent(ctx context.Context, ownerID uuid.UUID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM events WHERE owner_id = ? AND id = ?`, ownerID.String(), id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entities.ErrEventNotFound
	}
	return nil
}

func (r *SQLiteBoardRepository) UpsertRectangle(ctx context.Context, ownerID uuid.UUID, rect entities.CanvasRectangle) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rectangles (owner_id, id, x, y, width, height, color, text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, id)
		DO UPDATE SET x = excluded.x, y = excluded.y, width = excluded.width,
			height = excluded.height, color = excluded.color, text = excluded.text`,
		ownerID.String(), rect.ID, rect.X, rect.Y, rect.Width, rect.Height, rect.Color, rect.Text)
	if err != nil {
		return fmt.Errorf("upsert rectangle: %w", err)
	}
	return nil
}

func (r *SQLiteBoardRepository) DeleteRectangle(ctx context.Context, ownerID uuid.UUID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM rectangles WHERE owner_id = ? AND id = ?`, ownerID.String(), id)
	if err != nil {
		return fmt.Errorf("delete rectangle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entities.ErrRectangleNotFound
	}
	return nil
}

func (r *SQLiteBoardRepository) ResetAll(ctx context.Context, ownerID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	for _, table := range []string{"days", "events", "rectangles"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE owner_id = ?", table), ownerID.String()); err != nil {
			tx.Rollback()
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

// normalizedTags drops empty and duplicate tags; order is not meaningful.
func normalizedTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
