// Package cmd wires the command line entry points of the quoting back-office
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/config"
	"github.com/valvedesk/quoting-backoffice/logging"
)

var (
	envFile string
	cfg     *config.ProductionConfig
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quoting-backoffice",
	Short: "Valve parts quoting back-office",
	Long:  `Back-office service for valve part procurement: suppliers, bills, quotes and the price record lifecycle.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	// serving is the default action
	RunE: runServe,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is ./.env)")
}

func initConfig() error {
	if envFile != "" {
		if err := os.Setenv("ENV_FILE", envFile); err != nil {
			return err
		}
	}

	var err error
	cfg, err = config.LoadProductionConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err = logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logger.With(
		zap.String("env", cfg.Deployment.Environment),
		zap.String("version", cfg.Deployment.Version),
	)
	return nil
}
