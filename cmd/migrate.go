package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/giradamata/services/admin/config"
	"example.com/giradamata/services/admin/internal/database"
	"example.com/giradamata/services/admin/internal/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.DB)
		if err != nil {
			return err
		}

		log.Info().Msg("Running database migrations")
		if err := models.SetupModels(db); err != nil {
			return err
		}

		log.Info().Msg("Database migrations completed successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
