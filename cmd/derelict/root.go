// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Derelict CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derelict",
		Short: "Derelict - a server-resident interaction engine",
		Long: `Derelict runs a text-adventure world on the server: players send
commands over HTTP, the engine resolves them against the world in
PostgreSQL, and every player keeps a persistent narrative log.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newValidateWorldCmd())

	return cmd
}
