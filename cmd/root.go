package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "giradamata-admin",
	Short: "Administrative service for Gira da Mata registrations",
	Long: `A service that manages attendee registrations, payments and the
action-history audit trail for the Gira da Mata event, including undo of past
actions and payment-drift recovery.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			log.Error().Err(err).Msg("Failed to display help")
		}
	},
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize()
}
