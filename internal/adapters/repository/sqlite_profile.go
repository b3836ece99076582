package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/ports"
)

// SQLiteProfileRepository manages local board profiles.
type SQLiteProfileRepository struct {
	db *sql.DB
}

func NewSQLiteProfileRepository(db *sql.DB) ports.ProfileRepository {
	return &SQLiteProfileRepository{db: db}
}

func (r *SQLiteProfileRepository) Create(ctx context.Context, profile *entities.UserProfile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, color, created_at) VALUES (?, ?, ?, ?)`,
		profile.ID.String(), profile.Name, profile.Color, profile.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return entities.ErrProfileExists
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *SQLiteProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.UserProfile, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, color, created_at FROM profiles WHERE id = ?`, id.String()))
}

func (r *SQLiteProfileRepository) GetByName(ctx context.Context, name string) (*entities.UserProfile, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, name, color, created_at FROM profiles WHERE name = ?`, name))
}

func (r *SQLiteProfileRepository) List(ctx context.Context) ([]*entities.UserProfile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, created_at FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*entities.UserProfile
	for rows.Next() {
		var p entities.UserProfile
		var id string
		if err := rows.Scan(&id, &p.Name, &p.Color, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse profile id %q: %w", id, err)
		}
		profiles = append(profiles, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

// Delete removes a profile together with its board rows.
func (r *SQLiteProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete profile: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id.String())
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		tx.Rollback()
		return entities.ErrProfileNotFound
	}
	for _, table := range []string{"days", "events", "rectangles"} {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE owner_id = ?", table), id.String()); err != nil {
			tx.Rollback()
			return fmt.Errorf("delete profile %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete profile: %w", err)
	}
	return nil
}

func (r *SQLiteProfileRepository) scanOne(row *sql.Row) (*entities.UserProfile, error) {
	var p entities.UserProfile
	var id string
	if err := row.Scan(&id, &p.Name, &p.Color, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse profile id %q: %w", id, err)
	}
	p.ID = parsed
	return &p, nil
}
