// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/derelict-game/derelict/internal/config"
	"github.com/derelict-game/derelict/internal/store"
)

// newMigrateCmd creates the migrate subcommand and its verbs.
func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, or inspect the schema migrations for the PostgreSQL database.`,
	}

	cmd.AddCommand(newMigrateUpCmd())
	cmd.AddCommand(newMigrateDownCmd())
	cmd.AddCommand(newMigrateStatusCmd())
	cmd.AddCommand(newMigrateForceCmd())

	return cmd
}

// withMigrator loads configuration, opens a migrator, and guarantees it is
// closed after fn returns.
func withMigrator(cmd *cobra.Command, fn func(*store.Migrator) error) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return oops.With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrln("warning: failed to close migrator:", closeErr)
		}
	}()

	return fn(migrator)
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *store.Migrator) error {
				pending, err := m.PendingMigrations()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					cmd.Println("No pending migrations")
					return nil
				}
				if err := m.Up(); err != nil {
					return oops.With("operation", "apply migrations").Wrap(err)
				}
				cmd.Printf("Applied %d migration(s)\n", len(pending))
				return nil
			})
		},
	}
}

func newMigrateDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Long:  `Roll back the most recent migration, or --steps of them. --all rolls back everything.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return withMigrator(cmd, func(m *store.Migrator) error {
				if all {
					if err := m.Down(); err != nil {
						return oops.With("operation", "roll back all migrations").Wrap(err)
					}
					cmd.Println("Rolled back all migrations")
					return nil
				}
				if err := m.Steps(-steps); err != nil {
					return oops.With("operation", "roll back migrations").With("steps", steps).Wrap(err)
				}
				cmd.Printf("Rolled back %d migration(s)\n", steps)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.Flags().Bool("all", false, "roll back all migrations")
	return cmd
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current migration version and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *store.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					cmd.Println("Version: none (no migrations applied)")
				} else {
					cmd.Printf("Version: %d (%s)\n", version, migrationLabel(version))
				}
				if dirty {
					cmd.Println("State:   DIRTY - resolve manually, then use `migrate force`")
				}

				pending, err := m.PendingMigrations()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					cmd.Println("Pending: none")
					return nil
				}
				cmd.Println("Pending:")
				for _, v := range pending {
					cmd.Printf("  %d (%s)\n", v, migrationLabel(v))
				}
				return nil
			})
		},
	}
}

func migrationLabel(version uint) string {
	name, err := store.MigrationName(version)
	if err != nil {
		return "unknown"
	}
	return name
}

func newMigrateForceCmd() *cobra.Command {
	var version int
	cmd := &cobra.Command{
		Use:   "force",
		Short: "Force the migration version without running migrations",
		Long: `Set the recorded migration version. Use this to recover from a dirty
state after resolving the failed migration by hand.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *store.Migrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				cmd.Printf("Forced version to %d\n", version)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&version, "version", 0, "version to record")
	//nolint:errcheck // flag is declared above
	cmd.MarkFlagRequired("version")
	return cmd
}
