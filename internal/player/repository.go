// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package player

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when a player or session does not exist.
var ErrNotFound = errors.New("not found")

// Repository manages player state persistence.
//
// Inventory and triggered flags are append-only sets: grant and trigger
// are no-ops when the member is already present. The log is append-only
// and strictly ordered, cleared only wholesale via ClearLog.
type Repository interface {
	// Get retrieves a player by ID.
	Get(ctx context.Context, id ulid.ULID) (*Player, error)

	// Create persists a new player.
	Create(ctx context.Context, p *Player) error

	// SetRoom overwrites the player's current room reference.
	SetRoom(ctx context.Context, id ulid.ULID, roomID string) error

	// Inventory returns the player's item IDs in grant order.
	Inventory(ctx context.Context, id ulid.ULID) ([]string, error)

	// HasItem reports whether the item is in the player's inventory.
	HasItem(ctx context.Context, id ulid.ULID, itemID string) (bool, error)

	// GrantItem inserts the item into the inventory iff absent.
	GrantItem(ctx context.Context, id ulid.ULID, itemID string) error

	// HasFlag reports whether the story flag is in the triggered set.
	HasFlag(ctx context.Context, id ulid.ULID, flagID string) (bool, error)

	// TriggerFlag inserts the flag into the triggered set iff absent.
	TriggerFlag(ctx context.Context, id ulid.ULID, flagID string) error

	// AppendLog appends fragments to the player's log in order.
	AppendLog(ctx context.Context, id ulid.ULID, fragments []Fragment) error

	// Log returns the player's log entries ordered by insertion.
	Log(ctx context.Context, id ulid.ULID) ([]LogEntry, error)

	// ClearLog removes all log entries for the player.
	ClearLog(ctx context.Context, id ulid.ULID) error
}

// SessionRepository maps opaque session tokens to player identities.
type SessionRepository interface {
	// Lookup resolves a session token to a player ID.
	Lookup(ctx context.Context, token string) (ulid.ULID, error)

	// Bind associates a session token with a player.
	Bind(ctx context.Context, token string, playerID ulid.ULID) error
}

// Transactor scopes a set of repository writes to one transaction.
// All writes for one command commit as a unit.
type Transactor interface {
	// InTransaction begins a transaction, calls fn with a transaction-aware
	// context, and commits iff fn returns nil.
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
