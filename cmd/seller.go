package cmd

import (
	"fmt"

	"order-upload/internal/data/repository"
	"order-upload/internal/dto/request"
	"order-upload/internal/usecase"

	"github.com/spf13/cobra"
)

var sellerFlags request.RegisterRequest

// Registration over HTTP never grants the seller flag; this is the only way
// to create a seller account.
var createSellerCmd = &cobra.Command{
	Use:   "create-seller",
	Short: "Create a seller account",
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

		users := repository.NewUserRepository(db, logger)
		sessions := repository.NewSessionRepository(db, logger)
		auth := usecase.NewAuthService(users, sessions, config.Session, logger)

		seller, err := auth.CreateSeller(cmd.Context(), &sellerFlags)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seller %q created with id %d\n", seller.Username, seller.ID)
		return nil
	},
}

func init() {
	createSellerCmd.Flags().StringVar(&sellerFlags.Username, "username", "", "seller username")
	createSellerCmd.Flags().StringVar(&sellerFlags.Password, "password", "", "seller password")
	_ = createSellerCmd.MarkFlagRequired("username")
	_ = createSellerCmd.MarkFlagRequired("password")
}
