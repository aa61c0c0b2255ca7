// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package world

import (
	"github.com/samber/oops"
)

// Interaction is an authored (object, verb) behavior. At most one
// interaction exists per (object, verb) pair; the world data must satisfy
// this invariant.
//
// Every optional field models "no effect of this kind" when nil, not a
// nullable column. Preconditions are RequiredItemID then RequiredFlagID,
// evaluated in that order. Effects are LinkID (room transition),
// GrantsItemID (inventory grant), and TriggersFlagID (flag activation).
type Interaction struct {
	ObjectID string
	Verb     string

	// Effects.
	LinkID         *string // room transition via a location link
	GrantsItemID   *string // inventory grant
	TriggersFlagID *string // story flag activation

	// Preconditions.
	RequiredItemID *string // must be in inventory
	RequiredFlagID *string // must be in triggered set

	// Narration.
	ResultText      *string // literal result text
	ItemUsageText   *string // flavor shown when the required item is used
	AlreadyDoneText *string // shown when a grant/flag effect re-fires
	UnmetText       *string // shown when a precondition is not met
}

// HasEffects reports whether the interaction causes any state change.
func (i *Interaction) HasEffects() bool {
	return i.LinkID != nil || i.GrantsItemID != nil || i.TriggersFlagID != nil
}

// Validate validates the interaction's key fields.
func (i *Interaction) Validate() error {
	if err := ValidateID(i.ObjectID, "object"); err != nil {
		return err
	}
	if i.Verb == "" {
		return oops.Code("INVALID_INTERACTION").
			With("object_id", i.ObjectID).
			Errorf("interaction verb must not be empty")
	}
	return nil
}

// Link represents a one-way connection between rooms, fired as a side
// effect of a successful interaction. There is no freestanding "go
// direction" verb.
type Link struct {
	ID         string
	ToRoomID   string
	TravelText string
}

// Validate validates the link's fields.
func (l *Link) Validate() error {
	if err := ValidateID(l.ID, "link"); err != nil {
		return err
	}
	return ValidateID(l.ToRoomID, "room")
}
