// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

// Package player contains per-player mutable state: location, inventory,
// triggered story flags, and the narrative log.
package player

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Category labels a narrative fragment for presentation. The empty
// category is raw narrative.
type Category string

// Fragment categories.
const (
	CategoryNone        Category = ""
	CategoryInfo        Category = "info"
	CategoryHint        Category = "hint"
	CategoryWarning     Category = "warning"
	CategoryInstruction Category = "instruction"
	CategoryDescription Category = "description"
	CategoryContinue    Category = "continue"
)

// Fragment is one narrative unit produced while handling a command.
type Fragment struct {
	Body     string
	Category Category
}

// LogEntry is a fragment persisted to a player's log. Entries are strictly
// ordered by Seq and never reordered or deduplicated.
type LogEntry struct {
	Seq      int64
	Body     string
	Category Category
}

// Player represents one player's session-scoped game state.
type Player struct {
	ID        ulid.ULID
	Nickname  string
	RoomID    string
	CreatedAt time.Time
}
