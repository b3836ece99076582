package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/infrastructure/database"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenLocal(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// One connection, or each pool connection gets its own :memory: db.
	db.SetMaxOpenConns(1)
	if err := MigrateLocal(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBoardRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteBoardRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	day := entities.DayEntry{
		Date: "2026-03-14", Title: "pi day", Notes: "3.14159",
		Mood: entities.MoodExcellent, Tags: []string{"math", "fun"},
	}
	if err := repo.UpsertDay(ctx, owner, day); err != nil {
		t.Fatalf("UpsertDay: %v", err)
	}
	event := entities.CalendarEvent{
		ID: "e1", Title: "trip", StartDate: "2026-07-01", EndDate: "2026-07-09",
		Category: "travel", Color: "#4f7cac", Description: "coast",
	}
	if err := repo.UpsertEvent(ctx, owner, event); err != nil {
		t.Fatalf("UpsertEvent: %v", err)
	}
	rect := entities.CanvasRectangle{ID: "r1", X: 10, Y: 20, Width: 100, Height: 50, Color: "#d08770", Text: "Q3"}
	if err := repo.UpsertRectangle(ctx, owner, rect); err != nil {
		t.Fatalf("UpsertRectangle: %v", err)
	}

	data, err := repo.Fetch(ctx, owner)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	got := data.Days["2026-03-14"]
	if got.Title != "pi day" || got.Mood != entities.MoodExcellent {
		t.Errorf("day = %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "math" {
		t.Errorf("tags = %v", got.Tags)
	}
	if len(data.Events) != 1 || data.Events[0] != event {
		t.Errorf("events = %+v", data.Events)
	}
	if len(data.Rectangles) != 1 || data.Rectangles[0] != rect {
		t.Errorf("rectangles = %+v", data.Rectangles)
	}
}

func TestUpsertDayOverwrites(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteBoardRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	first := entities.DayEntry{Date: "2026-01-01", Title: "v1", Tags: []string{"a"}}
	second := entities.DayEntry{Date: "2026-01-01", Title: "v2", Tags: nil}
	if err := repo.UpsertDay(ctx, owner, first); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpsertDay(ctx, owner, second); err != nil {
		t.Fatal(err)
	}

	data, err := repo.Fetch(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	got := data.Days["2026-01-01"]
	if got.Title != "v2" || len(got.Tags) != 0 {
		t.Errorf("day = %+v", got)
	}
	if len(data.Days) != 1 {
		t.Errorf("%d days after overwrite", len(data.Days))
	}
}

func TestTagNormalization(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteBoardRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	day := entities.DayEntry{Date: "2026-01-01", Title: "x", Tags: []string{"a", "", "a", "b"}}
	if err := repo.UpsertDay(ctx, owner, day); err != nil {
		t.Fatal(err)
	}
	data, err := repo.Fetch(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	got := data.Days["2026-01-01"].Tags
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("tags = %v", got)
	}
}

func TestDeleteMissingRows(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteBoardRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	if err := repo.DeleteDay(ctx, owner, "2026-01-01"); !errors.Is(err, entities.ErrDayNotFound) {
		t.Errorf("DeleteDay: %v", err)
	}
	if err := repo.DeleteEvent(ctx, owner, "nope"); !errors.Is(err, entities.ErrEventNotFound) {
		t.Errorf("DeleteEvent: %v", err)
	}
	if err := repo.DeleteRectangle(ctx, owner, "nope"); !errors.Is(err, entities.ErrRectangleNotFound) {
		t.Errorf("DeleteRectangle: %v", err)
	}
}

func TestOwnerIsolation(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteBoardRepository(db)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	if err := repo.UpsertDay(ctx, alice, entities.DayEntry{Date: "2026-01-01", Title: "alice"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpsertDay(ctx, bob, entities.DayEntry{Date: "2026-01-01", Title: "bob"}); err != nil {
		t.Fatal(err)
	}

	data, err := repo.Fetch(ctx, alice)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Days) != 1 || data.Days["2026-01-01"].Title != "alice" {
		t.Errorf("alice sees %+v", data.Days)
	}

	// Reset for one owner leaves the other untouched.
	if err := repo.ResetAll(ctx, alice); err != nil {
		t.Fatal(err)
	}
	data, err = repo.Fetch(ctx, bob)
	if err != nil {
		t.Fatal(err)
	}
	if data.Days["2026-01-01"].Title != "bob" {
		t.Error("reset leaked across owners")
	}
}

func TestResetAll(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLiteBoardRepository(db)
	ctx := context.Background()
	owner := uuid.New()

	repo.UpsertDay(ctx, owner, entities.DayEntry{Date: "2026-01-01", Title: "x"})
	repo.UpsertEvent(ctx, owner, entities.CalendarEvent{ID: "e1", Title: "x", StartDate: "2026-01-01", EndDate: "2026-01-01"})
	repo.UpsertRectangle(ctx, owner, entities.CanvasRectangle{ID: "r1", Width: 10, Height: 10})

	if err := repo.ResetAll(ctx, owner); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	data, err := repo.Fetch(ctx, owner)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Days) != 0 || len(data.Events) != 0 || len(data.Rectangles) != 0 {
		t.Errorf("board not empty: %+v", data)
	}
}

func TestProfileLifecycle(t *testing.T) {
	db := openTestDB(t)
	profiles := NewSQLiteProfileRepository(db)
	board := NewSQLiteBoardRepository(db)
	ctx := context.Background()

	p := &entities.UserProfile{ID: uuid.New(), Name: "work", Color: "#4f7cac", CreatedAt: time.Now()}
	if err := profiles.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := &entities.UserProfile{ID: uuid.New(), Name: "work", Color: "#000000", CreatedAt: time.Now()}
	if err := profiles.Create(ctx, dup); !errors.Is(err, entities.ErrProfileExists) {
		t.Errorf("duplicate create: %v", err)
	}

	got, err := profiles.GetByName(ctx, "work")
	if err != nil || got.ID != p.ID {
		t.Fatalf("GetByName: %+v, %v", got, err)
	}
	if _, err := profiles.GetByName(ctx, "missing"); !errors.Is(err, entities.ErrProfileNotFound) {
		t.Errorf("GetByName missing: %v", err)
	}

	list, err := profiles.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: %d, %v", len(list), err)
	}

	// Deleting a profile takes its board rows with it.
	if err := board.UpsertDay(ctx, p.ID, entities.DayEntry{Date: "2026-01-01", Title: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := profiles.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	data, err := board.Fetch(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Days) != 0 {
		t.Error("board rows survived profile deletion")
	}
	if err := profiles.Delete(ctx, p.ID); !errors.Is(err, entities.ErrProfileNotFound) {
		t.Errorf("double delete: %v", err)
	}
}
