// Package commands wires the yearboard CLI: the desktop board, the sync
// server and its migrations, local profile management, and snapshots.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yearboard/core/internal/adapters/repository"
	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/infrastructure/config"
	"github.com/yearboard/core/internal/infrastructure/database"
	"github.com/yearboard/core/internal/infrastructure/logger"
)

var rootCmd = &cobra.Command{
	Use:   "yearboard",
	Short: "A year-at-a-glance personal planner",
	Long: `Yearboard lays a whole year out as a 12x31 grid on a pannable,
zoomable canvas: day entries, multi-day events, and free-form
annotation rectangles, stored locally or on a sync server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func loadConfigAndLogger() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// openLocalStore opens the local database with the schema applied.
func openLocalStore(cfg *config.Config) (*sql.DB, error) {
	db, err := database.OpenLocal(cfg.Local.Path)
	if err != nil {
		return nil, err
	}
	if err := repository.MigrateLocal(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// resolveProfile looks a profile up by name, creating it on first use.
func resolveProfile(ctx context.Context, db *sql.DB, name string) (*entities.UserProfile, error) {
	profiles := repository.NewSQLiteProfileRepository(db)
	profile, err := profiles.GetByName(ctx, name)
	if err == nil {
		return profile, nil
	}
	if err != entities.ErrProfileNotFound {
		return nil, err
	}
	profile = &entities.UserProfile{
		ID:        uuid.New(),
		Name:      name,
		Color:     "#4f7cac",
		CreatedAt: time.Now(),
	}
	if err := profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
