package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yearboard/core/internal/adapters/repository"
	"github.com/yearboard/core/internal/application/services"
	"github.com/yearboard/core/internal/infrastructure/database"
	"github.com/yearboard/core/internal/infrastructure/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sync server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer log.Close()

		if cfg.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET must be set to run the sync server")
		}

		db, err := database.New(cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		users := repository.NewPostgresUserRepository(db.DB)
		tokens := repository.NewPostgresAuthRepository(db.DB)
		board := repository.NewPostgresBoardRepository(db.DB)
		auth := services.NewAuthService(users, tokens, cfg.JWT, log)

		srv := server.New(cfg, log, db, auth, board)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return srv.Start(ctx)
	},
}
