// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

// Package world contains the immutable authored game content: rooms,
// objects, interactions, links, items, and story flags. World data is
// loaded once and never mutated by play.
package world

// Room represents a location a player can occupy.
type Room struct {
	ID          string
	Name        string
	Description string
}

// Validate validates the room's fields.
func (r *Room) Validate() error {
	if err := ValidateID(r.ID, "room"); err != nil {
		return err
	}
	return ValidateName(r.Name)
}
