package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yearboard/core/internal/adapters/repository"
	"github.com/yearboard/core/internal/domain/entities"
)

var profileColor string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage local board profiles",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer log.Close()

		db, err := openLocalStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		profile := &entities.UserProfile{
			ID:        uuid.New(),
			Name:      args[0],
			Color:     profileColor,
			CreatedAt: time.Now(),
		}
		if err := repository.NewSQLiteProfileRepository(db).Create(cmd.Context(), profile); err != nil {
			return err
		}
		fmt.Printf("created profile %q (%s)\n", profile.Name, profile.ID)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer log.Close()

		db, err := openLocalStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		profiles, err := repository.NewSQLiteProfileRepository(db).List(cmd.Context())
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Println("no profiles")
			return nil
		}
		for _, p := range profiles {
			fmt.Printf("%-20s %s  created %s\n", p.Name, p.ID, p.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile and all its board data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer log.Close()

		db, err := openLocalStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		profiles := repository.NewSQLiteProfileRepository(db)
		profile, err := profiles.GetByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := profiles.Delete(cmd.Context(), profile.ID); err != nil {
			return err
		}
		fmt.Printf("deleted profile %q\n", profile.Name)
		return nil
	},
}

func init() {
	profileCreateCmd.Flags().StringVar(&profileColor, "color", "#4f7cac", "profile accent color")
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileDeleteCmd)
}
