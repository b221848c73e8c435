package cmd

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm/schema"

	"example.com/giradamata/services/admin/config"
	"example.com/giradamata/services/admin/internal/database"
	"example.com/giradamata/services/admin/internal/models"
)

// schemaCmd is a degraded-mode diagnostic, not a migration runner: it reports
// tables and columns missing from the live database against the expected
// schema and prints corrective statements for manual operator execution.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the live database schema against the expected one",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.DB)
		if err != nil {
			return err
		}

		migrator := db.Migrator()
		healthy := true

		for _, model := range models.AllModels() {
			parsed, err := schema.Parse(model, &sync.Map{}, db.NamingStrategy)
			if err != nil {
				return err
			}

			if !migrator.HasTable(model) {
				healthy = false
				fmt.Printf("missing table %q\n", parsed.Table)
				fmt.Printf("  fix: run `giradamata-admin migrate` or create the table manually\n")
				continue
			}

			for _, field := range parsed.Fields {
				if field.DBName == "" {
					continue
				}
				if migrator.HasColumn(model, field.DBName) {
					continue
				}
				healthy = false
				fmt.Printf("missing column %q on table %q\n", field.DBName, parsed.Table)
				fmt.Printf("  fix: ALTER TABLE %s ADD COLUMN %s %s;\n",
					parsed.Table, field.DBName, field.DataType)
			}
		}

		if healthy {
			log.Info().Msg("Schema matches the expected models")
		} else {
			log.Warn().Msg("Schema drift detected, corrective statements printed above")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
