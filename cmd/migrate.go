package cmd

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := boot()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := bootDB(cmd, config, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		logger.Info("Migrations applied")
		return nil
	},
}
