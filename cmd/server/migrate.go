package main

import (
	"github.com/spf13/cobra"

	postgresRepo "Folio/internal/db/postgres"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := loadConfig()
				if err != nil {
					return err
				}

				db, err := openDB(cmd.Context(), cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				if err := postgresRepo.Migrate(cmd.Context(), db, cfg.MigrationsDir); err != nil {
					return err
				}
				logger.Info("migrations completed successfully")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied state of every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _, err := loadConfig()
				if err != nil {
					return err
				}

				db, err := openDB(cmd.Context(), cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()

				return postgresRepo.MigrationStatus(cmd.Context(), db, cfg.MigrationsDir)
			},
		},
	)

	return migrateCmd
}
