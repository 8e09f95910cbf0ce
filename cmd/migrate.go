package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := initializeDatabase(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer closeDatabase(db, logger)

		entities := models.AllModels()
		if err := db.WithContext(cmd.Context()).AutoMigrate(entities...); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("Database migrated", zap.Int("tables", len(entities)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
