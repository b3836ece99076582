package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/yearboard/core/internal/adapters/client"
	"github.com/yearboard/core/internal/adapters/repository"
	"github.com/yearboard/core/internal/application/services"
	"github.com/yearboard/core/internal/canvas"
	"github.com/yearboard/core/internal/domain/entities"
	"github.com/yearboard/core/internal/infrastructure/config"
	"github.com/yearboard/core/internal/ports"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the year board window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer log.Close()

		repo, ownerID, cleanup, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		grid := canvas.NewGrid(cfg.Board.Year)

		var surface *canvas.Surface
		var svc *services.BoardService

		surface, err = canvas.NewSurface(grid, canvas.Callbacks{
			DayClicked: func(date string) {
				if entry, ok := svc.Data().Days[date]; ok {
					surface.SetNotice(fmt.Sprintf("%s  %s  %s", date, entry.Title, entry.Mood))
				} else {
					surface.SetNotice(date)
				}
				log.Infow("day opened", "date", date)
			},
			RangeSelected: func(start, end string) {
				event, err := svc.SaveEvent(entities.CalendarEvent{
					Title:     "New event",
					StartDate: start,
					EndDate:   end,
				})
				if err != nil {
					surface.SetNotice(err.Error())
					return
				}
				surface.Invalidate()
				surface.SetNotice(fmt.Sprintf("event %s → %s", event.StartDate, event.EndDate))
			},
			QuickAdd: func(date string) {
				if _, err := svc.SaveEvent(entities.CalendarEvent{
					Title:     "New event",
					StartDate: date,
					EndDate:   date,
				}); err != nil {
					surface.SetNotice(err.Error())
					return
				}
				surface.Invalidate()
			},
			EventClicked: func(event entities.CalendarEvent) {
				surface.SetNotice(fmt.Sprintf("%s  %s → %s", event.Title, event.StartDate, event.EndDate))
				log.Infow("event opened", "id", event.ID)
			},
			RectAdded: func(rect entities.CanvasRectangle) {
				if _, err := svc.SaveRectangle(rect); err != nil {
					surface.SetNotice(err.Error())
				}
			},
			RectUpdated: func(rect entities.CanvasRectangle) {
				if _, err := svc.SaveRectangle(rect); err != nil {
					surface.SetNotice(err.Error())
				}
			},
			RectDeleted: func(id string) {
				if err := svc.DeleteRectangle(id); err != nil {
					surface.SetNotice(err.Error())
				}
			},
		})
		if err != nil {
			return err
		}

		svc = services.NewBoardService(repo, ownerID, cfg.Board.Year, log,
			surface.SetNotice,
			func() { surface.SetData(svc.Data()) },
		)
		defer svc.Close()

		if err := svc.Load(cmd.Context()); err != nil {
			return fmt.Errorf("load board: %w", err)
		}

		ebiten.SetWindowSize(cfg.Board.WindowWidth, cfg.Board.WindowHeight)
		ebiten.SetWindowTitle(fmt.Sprintf("Yearboard %d", cfg.Board.Year))
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

		if err := ebiten.RunGame(surface); err != nil {
			return fmt.Errorf("run board: %w", err)
		}
		return nil
	},
}

// openStore returns the configured board repository and owner id. The
// cleanup func closes whatever the store opened.
func openStore(ctx context.Context, cfg *config.Config) (ports.BoardRepository, uuid.UUID, func(), error) {
	if cfg.Board.Store == "remote" {
		// The server scopes everything by token; the local owner id is unused.
		return client.New(cfg.Remote), uuid.Nil, func() {}, nil
	}

	db, err := openLocalStore(cfg)
	if err != nil {
		return nil, uuid.Nil, nil, err
	}
	profile, err := resolveProfile(ctx, db, cfg.Board.Profile)
	if err != nil {
		db.Close()
		return nil, uuid.Nil, nil, err
	}
	return repository.NewSQLiteBoardRepository(db), profile.ID, func() { db.Close() }, nil
}
