// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package world

// Object represents an interactable thing placed in a room.
//
// Synonyms share one namespace with primary names: each phrase resolves to
// exactly one object within a room. Resolution is always scoped to the
// player's current room.
type Object struct {
	ID          string
	RoomID      string
	Name        string
	Description string
	Synonyms    []string
}

// Phrases returns every phrase that resolves to this object: the primary
// display name first, then all synonyms, in authored order.
func (o *Object) Phrases() []string {
	phrases := make([]string, 0, len(o.Synonyms)+1)
	phrases = append(phrases, o.Name)
	phrases = append(phrases, o.Synonyms...)
	return phrases
}

// Validate validates the object's fields.
func (o *Object) Validate() error {
	if err := ValidateID(o.ID, "object"); err != nil {
		return err
	}
	if err := ValidateID(o.RoomID, "room"); err != nil {
		return err
	}
	if err := ValidateName(o.Name); err != nil {
		return err
	}
	for _, syn := range o.Synonyms {
		if err := ValidateName(syn); err != nil {
			return err
		}
	}
	return nil
}
