package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/ports"
)

// PostgresBoardRepository implements BoardRepository against the sync
// server's Postgres database.
type PostgresBoardRepository struct {
	db *sqlx.DB
}

func NewPostgresBoardRepository(db *sqlx.DB) ports.BoardRepository {
	return &PostgresBoardRepository{db: db}
}

type dayRow struct {
	Date  string         `db:"date"`
	Title string         `db:"title"`
	Notes string         `db:"notes"`
	Mood  string         `db:"mood"`
	Tags  pq.StringArray `db:"tags"`
}

func (r *PostgresBoardRepository) Fetch(ctx context.Context, ownerID uuid.UUID) (*entities.AppData, error) {
	data := entities.NewAppData()

	var days []dayRow
	err := r.db.SelectContext(ctx, &days,
		`SELECT date, title, notes, mood, tags FROM day_entries WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch days: %w", err)
	}
	for _, d := range days {
		data.Days[d.Date] = entities.DayEntry{
			Date:  d.Date,
			Title: d.Title,
			Notes: d.Notes,
			Mood:  entities.Mood(d.Mood),
			Tags:  []string(d.Tags),
		}
	}

	err = r.db.SelectContext(ctx, &data.Events,
		`SELECT id, title, start_date, end_date, category, color, description
		 FROM events WHERE owner_id = $1 ORDER BY start_date, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	err = r.db.SelectContext(ctx, &data.Rectangles,
		`SELECT id, x, y, width, height, color, text
		 FROM rectangles WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("fetch rectangles: %w", err)
	}

	return data, nil
}

func (r *PostgresBoardRepository) UpsertDay(ctx context.Context, ownerID uuid.UUID, entry entities.DayEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO day_entries (owner_id, date, title, notes, mood, tags, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (owner_id, date)
		DO UPDATE SET title = EXCLUDED.title, notes = EXCLUDED.notes,
			mood = EXCLUDED.mood, tags = EXCLUDED.tags, updated_at = NOW()`,
		ownerID, entry.Date, entry.Title, entry.Notes, string(entry.Mood),
		pq.StringArray(normalizedTags(entry.Tags)))
	if err != nil {
		return fmt.Errorf("upsert day: %w", err)
	}
	return nil
}

func (r *PostgresBoardRepository) DeleteDay(ctx context.Context, ownerID uuid.UUID, date string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM day_entries WHERE owner_id = $1 AND date = $2`, ownerID, date)
	if err != nil {
		return fmt.Errorf("delete day: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entities.ErrDayNotFound
	}
	return nil
}

func (r *PostgresBoardRepository) UpsertEvent(ctx context.Context, ownerID uuid.UUID, event entities.CalendarEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (owner_id, id, title, start_date, end_date, category, color, description, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (owner_id, id)
		DO UPDATE SET title = EXCLUDED.title, start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date, category = EXCLUDED.category,
			color = EXCLUDED.color, description = EXCLUDED.description, updated_at = NOW()`,
		ownerID, event.ID, event.Title, event.StartDate, event.EndDate,
		event.Category, event.Color, event.Description)
	if err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

func (r *PostgresBoardRepository) DeleteEvent(ctx context.Context, ownerID uuid.UUID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM events WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entities.ErrEventNotFound
	}
	return nil
}

func (r *PostgresBoardRepository) UpsertRectangle(ctx context.Context, ownerID uuid.UUID, rect entities.CanvasRectangle) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rectangles (owner_id, id, x, y, width, height, color, text, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (owner_id, id)
		DO UPDATE SET x = EXCLUDED.x, y = EXCLUDED.y, width = EXCLUDED.width,
			height = EXCLUDED.height, color = EXCLUDED.color, text = EXCLUDED.text,
			updated_at = NOW()`,
		ownerID, rect.ID, rect.X, rect.Y, rect.Width, rect.Height, rect.Color, rect.Text)
	if err != nil {
		return fmt.Errorf("upsert rectangle: %w", err)
	}
	return nil
}

func (r *PostgresBoardRepository) DeleteRectangle(ctx context.Context, ownerID uuid.UUID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM rectangles WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete rectangle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entities.ErrRectangleNotFound
	}
	return nil
}

func (r *PostgresBoardRepository) ResetAll(ctx context.Context, ownerID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	for _, table := range []string{"day_entries", "events", "rectangles"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE owner_id = $1", table), ownerID); err != nil {
			tx.Rollback()
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
