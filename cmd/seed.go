package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	businessflow "github.com/valvedesk/quoting-backoffice/business_flow"
	"github.com/valvedesk/quoting-backoffice/repository"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin role, default menus and the admin operator",
	Long: `Idempotently creates the admin role, the default menu tree, the price validity setting
and the admin operator configured by ADMIN_USERNAME and ADMIN_PASSWORD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := initializeDatabase(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer closeDatabase(db, logger)

		seed := businessflow.NewSeedFlow(
			repository.NewOperatorRepository(db),
			repository.NewRoleRepository(db),
			repository.NewMenuRepository(db),
			repository.NewSystemSettingRepository(db),
			repository.NewTxManager(db),
			cfg.Price.DefaultValidityDays,
			logger.Named("seed"),
		)
		if err := seed.SeedAdmin(cmd.Context(), cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.DisplayName); err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		logger.Info("Admin seed complete", zap.String("username", cfg.Admin.Username))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
}
