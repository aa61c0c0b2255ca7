// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package engine

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/derelict-game/derelict/internal/player"
)

// Effects applies state changes to one player. Each operation is discrete
// and idempotent; only this type and the response composer mutate player
// state. Callers scope a command's effects to one transaction via
// player.Transactor.
type Effects struct {
	players player.Repository
}

// NewEffects creates an Effects applier over the given player repository.
func NewEffects(players player.Repository) *Effects {
	return &Effects{players: players}
}

// MoveTo overwrites the player's current room reference.
func (e *Effects) MoveTo(ctx context.Context, playerID ulid.ULID, roomID string) error {
	return e.players.SetRoom(ctx, playerID, roomID)
}

// GrantItem inserts the item into the player's inventory iff absent.
func (e *Effects) GrantItem(ctx context.Context, playerID ulid.ULID, itemID string) error {
	return e.players.GrantItem(ctx, playerID, itemID)
}

// TriggerFlag inserts the flag into the player's triggered set iff absent.
func (e *Effects) TriggerFlag(ctx context.Context, playerID ulid.ULID, flagID string) error {
	return e.players.TriggerFlag(ctx, playerID, flagID)
}
