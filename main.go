package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-shop/cmd"
	"github.com/mattsolo1/grove-shop/cmd/config"
	"github.com/mattsolo1/grove-shop/pkg/service"
)

var svc *service.Service

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	rootCmd := &cobra.Command{
		Use:           "shop",
		Short:         "A personal shopping list organised by aisle",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.AddGlobalFlags(rootCmd)
	cobra.OnInitialize(config.InitConfig)

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// This runs once before any subcommand
		settings, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}

		level, err := logrus.ParseLevel(settings.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
		}
		logger.SetLevel(level)

		if c.Annotations[cmd.NoServiceAnnotation] != "" {
			return nil
		}

		svc, err = config.InitService(c.Context(), settings, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize service: %w", err)
		}
		return nil
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewAddCmd(&svc))
	rootCmd.AddCommand(cmd.NewEditCmd(&svc))
	rootCmd.AddCommand(cmd.NewRemoveCmd(&svc))
	rootCmd.AddCommand(cmd.NewNeedCmd(&svc))
	rootCmd.AddCommand(cmd.NewCartCmd(&svc))
	rootCmd.AddCommand(cmd.NewQuantityCmd(&svc))
	rootCmd.AddCommand(cmd.NewResetCmd(&svc))
	rootCmd.AddCommand(cmd.NewAisleCmd(&svc))
	rootCmd.AddCommand(cmd.NewListCmd(&svc))
	rootCmd.AddCommand(cmd.NewProgressCmd(&svc))
	rootCmd.AddCommand(cmd.NewSearchCmd(&svc))
	rootCmd.AddCommand(cmd.NewExportCmd(&svc))
	rootCmd.AddCommand(cmd.NewImportCmd(&svc))
	rootCmd.AddCommand(cmd.NewDoctorCmd(&svc))
	rootCmd.AddCommand(cmd.NewMigrateCmd())
	rootCmd.AddCommand(cmd.NewPlanCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	err := rootCmd.ExecuteContext(context.Background())

	// Flush the last save even when the command failed.
	if svc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if shutdownErr := svc.Shutdown(ctx); shutdownErr != nil {
			logger.WithError(shutdownErr).Warn("Failed to shut down cleanly")
		}
		cancel()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
