// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/derelict-game/derelict/internal/config"
	"github.com/derelict-game/derelict/internal/store"
	"github.com/derelict-game/derelict/internal/worldfile"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	file    string
	timeout time.Duration
}

// newSeedCmd creates the seed subcommand.
func newSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a world file into the database",
		Long: `Validates a world file and inserts its rooms, objects, items, flags,
and interactions. Without --file the built-in world is loaded. The
command is idempotent - rows that already exist are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.file, "file", "", "world file to load (default: built-in world)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, seedCfg *seedConfig) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	data := worldfile.DefaultWorldYAML()
	if seedCfg.file != "" {
		data, err = os.ReadFile(seedCfg.file)
		if err != nil {
			return oops.Code("SEED_FAILED").With("path", seedCfg.file).Wrap(err)
		}
	}

	if err := worldfile.ValidateSchema(data); err != nil {
		return err
	}
	doc, err := worldfile.Parse(data)
	if err != nil {
		return err
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals.
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	cmd.Println("Applying migrations...")
	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return oops.With("operation", "create migrator").Wrap(err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return oops.With("operation", "apply migrations").Wrap(err)
	}
	if err := migrator.Close(); err != nil {
		cmd.PrintErrln("warning: failed to close migrator:", err)
	}

	cmd.Println("Seeding world...")
	inserted, err := worldfile.NewSeeder(pool).Seed(ctx, doc)
	if err != nil {
		// A foreign key violation means the database holds a different
		// world whose rows shadow this file's IDs.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return oops.Code("SEED_FAILED").
				Hint("the database contains conflicting world data; roll back with `derelict migrate down --all` first").
				Wrap(err)
		}
		return err
	}

	if inserted == 0 {
		cmd.Println("World already seeded, nothing to do")
		return nil
	}
	cmd.Printf("Seeded %d row(s)\n", inserted)
	return nil
}
