package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yearboard/core/internal/application/services"
	"github.com/yearboard/core/internal/infrastructure/logger"
)

var snapshotPNG bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export or import the board as JSON, or render it as PNG",
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the board to a file",
	Args:  cobra.ExactArgs(1),
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

		data, err := repo.Fetch(cmd.Context(), ownerID)
		if err != nil {
			return fmt.Errorf("fetch board: %w", err)
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		defer f.Close()

		if snapshotPNG {
			if err := services.ExportPNG(f, data, cfg.Board.Year); err != nil {
				return err
			}
		} else {
			if err := services.ExportSnapshot(f, data); err != nil {
				return err
			}
		}
		fmt.Printf("exported board to %s\n", args[0])
		return nil
	},
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the board with a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer log.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		data, err := services.ImportSnapshot(f, cfg.Board.Year)
		if err != nil {
			return err
		}

		repo, ownerID, cleanup, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		svc := services.NewBoardService(repo, ownerID, cfg.Board.Year, log, importNotice(log), nil)
		svc.ReplaceAll(data)
		svc.Close()

		fmt.Printf("imported %d days, %d events, %d rectangles\n",
			len(data.Days), len(data.Events), len(data.Rectangles))
		return nil
	},
}

func importNotice(log *logger.Logger) func(string) {
	return func(msg string) { log.Warn(msg) }
}

func init() {
	snapshotExportCmd.Flags().BoolVar(&snapshotPNG, "png", false, "render the board as a PNG image instead of JSON")
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotImportCmd)
}
