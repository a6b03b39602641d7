package cmd

import (
	"fmt"
	"os"

	"order-upload/internal/data/migrations"
	"order-upload/pkg/database"
	"order-upload/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:          "order-upload",
	Short:        "Order upload service",
	Long:         "Sellers create orders; customers upload a video, an image and a song request for them.",
	SilenceUsage: true,
	// Running the binary without a subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createSellerCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// boot loads config and builds the logger every subcommand starts from.
func boot() (*utils.Config, *zap.Logger, error) {
	config, err := utils.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v, falling back to production logger\n", err)
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, nil, err
		}
	}

	return config, logger, nil
}

// bootDB connects to postgres and applies pending migrations.
func bootDB(cmd *cobra.Command, config *utils.Config, logger *zap.Logger) (*database.DB, error) {
	db, err := database.InitDB(config.Database)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(cmd.Context(), migrations.FS); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database connected successfully",
		zap.String("host", config.Database.Host),
		zap.String("name", config.Database.Name))
	return db, nil
}
