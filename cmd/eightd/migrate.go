package main

import (
	"errors"
	"fmt"

	"github.com/lalith-99/eightd/internal/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(a *app, m *db.Migrator) error {
			applied, err := m.Up(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Info("migrations applied", zap.Strings("applied", applied))
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			}
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(a *app, m *db.Migrator) error {
			name, err := m.Down(cmd.Context())
			if errors.Is(err, db.ErrNoMigrations) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to revert")
				return nil
			}
			if err != nil {
				return err
			}
			a.logger.Info("migration reverted", zap.String("name", name))
			fmt.Fprintf(cmd.OutOrStdout(), "reverted %s\n", name)
			return nil
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List applied migrations, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(_ *app, m *db.Migrator) error {
			applied, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}

func withMigrator(cmd *cobra.Command, run func(*app, *db.Migrator) error) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	m, release, err := a.migrator()
	if err != nil {
		return err
	}
	defer release()
	return run(a, m)
}
