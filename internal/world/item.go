// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package world

// Item represents a grantable inventory item.
type Item struct {
	ID          string
	Name        string
	Description string
}

// Validate validates the item's fields.
func (i *Item) Validate() error {
	if err := ValidateID(i.ID, "item"); err != nil {
		return err
	}
	return ValidateName(i.Name)
}

// StoryFlag represents a named story milestone. Once triggered for a
// player it is permanently set; triggering is idempotent and irreversible
// within a playthrough.
type StoryFlag struct {
	ID   string
	Name string
}

// Validate validates the flag's fields.
func (f *StoryFlag) Validate() error {
	if err := ValidateID(f.ID, "flag"); err != nil {
		return err
	}
	return ValidateName(f.Name)
}
