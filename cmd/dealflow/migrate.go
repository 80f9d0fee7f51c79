package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mferrell/dealflow/internal/cli"
	"github.com/mferrell/dealflow/internal/config"
	"github.com/mferrell/dealflow/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storage.NewSQLiteStorage(config.DatabasePath())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			slog.Info(cli.FormatSuccess("Database is up to date"))
			return nil
		},
	}
}
