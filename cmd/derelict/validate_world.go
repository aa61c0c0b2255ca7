// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/derelict-game/derelict/internal/worldfile"
)

// newValidateWorldCmd creates the validate-world subcommand.
func newValidateWorldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-world <file>",
		Short: "Validate a world file without loading it",
		Long: `Checks a world file against the schema and the referential rules:
unique IDs, known verbs, resolvable item/flag/link references, and
room-scoped phrase uniqueness.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return oops.Code("WORLD_FILE_INVALID").With("path", path).Wrap(err)
			}

			if err := worldfile.ValidateSchema(data); err != nil {
				return err
			}
			doc, err := worldfile.Parse(data)
			if err != nil {
				return err
			}

			cmd.Printf("%s: OK (%d rooms, %d objects, %d items, %d flags)\n",
				path, len(doc.Rooms), countObjects(doc), len(doc.Items), len(doc.Flags))
			return nil
		},
	}
}

func countObjects(doc *worldfile.Document) int {
	n := 0
	for _, room := range doc.Rooms {
		n += len(room.Objects)
	}
	return n
}
