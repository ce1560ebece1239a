package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cartCmd "github.com/shopindream/storefront/cart/cmd"
	"github.com/shopindream/storefront/internal/constants"
	"github.com/shopindream/storefront/internal/log"
	paymentCmd "github.com/shopindream/storefront/payment/cmd"
	productCmd "github.com/shopindream/storefront/product/cmd"
	userCmd "github.com/shopindream/storefront/user/cmd"
)

func Start() {
	logger := log.InitLogger("/var/log/storefront.log", os.Getenv("APP_ENV")).
		With().
		Str(log.KeyAppName, constants.AppStorefront).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "storefront"}
	commands := []*cobra.Command{
		{
			Use:   "cart",
			Short: "Run cart service",
			Run: func(cmd *cobra.Command, args []string) {
				cartCmd.RunCartService(cmd.Context())
			},
		},
		{
			Use:   "product",
			Short: "Run product service",
			Run: func(cmd *cobra.Command, args []string) {
				productCmd.RunProductService(cmd.Context())
			},
		},
		{
			Use:   "payment",
			Short: "Run payment service",
			Run: func(cmd *cobra.Command, args []string) {
				paymentCmd.RunPaymentService(cmd.Context())
			},
		},
		{
			Use:   "user",
			Short: "Run user service",
			Run: func(cmd *cobra.Command, args []string) {
				userCmd.RunUserService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
