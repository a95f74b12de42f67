package main

import (
	"fmt"

	"budgetbot/internal/store/sqlite"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQLite migrations",
		Long:  `Apply every pending schema migration to SQLITE_DB_PATH. Only valid with the sqlite backend.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.DataBackend != "sqlite" {
				return fmt.Errorf("migrate requires the sqlite backend, got %q", cfg.DataBackend)
			}
			if err := sqlite.RunMigrations(cfg.SQLiteDBPath); err != nil {
				return err
			}
			logger.Info("Migrations applied", "db_path", cfg.SQLiteDBPath)
			return nil
		},
	}
}
