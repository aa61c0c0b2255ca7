// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package engine

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derelict-game/derelict/internal/engine/enginetest"
	"github.com/derelict-game/derelict/internal/player"
)

func newRunFixture(t *testing.T) (*InteractionResolver, *enginetest.Players, ulid.ULID) {
	t.Helper()
	w := enginetest.ControlRoom()
	players := enginetest.NewPlayers()
	id := ulid.Make()
	require.NoError(t, players.Create(context.Background(), &player.Player{
		ID:     id,
		RoomID: "secondary-control-room",
	}))
	return NewInteractionResolver(w, players, NewEffects(players)), players, id
}

func bodies(frags []player.Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Body
	}
	return out
}

func TestRun_GrantsItem(t *testing.T) {
	r, players, id := newRunFixture(t)
	ctx := context.Background()

	frags, outcome, err := r.Run(ctx, id, "crates", "inspect")
	require.NoError(t, err)
	assert.Equal(t, outcomeOK, outcome)
	assert.Equal(t, []string{
		"You pry open the top crate. Under a layer of packing foam sits a keycard.",
		"+1: maintenance keycard",
		"Check your inventory.",
	}, bodies(frags))

	has, err := players.HasItem(ctx, id, "keycard")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRun_RegrantCollapsesToAlreadyDone(t *testing.T) {
	r, _, id := newRunFixture(t)
	ctx := context.Background()

	_, _, err := r.Run(ctx, id, "crates", "inspect")
	require.NoError(t, err)

	frags, outcome, err := r.Run(ctx, id, "crates", "inspect")
	require.NoError(t, err)
	assert.Equal(t, outcomeAlreadyDone, outcome)
	// The whole response collapses: no result text, no grant fragments.
	assert.Equal(t, []string{"The crates hold nothing else of use."}, bodies(frags))
}

func TestRun_FlagActivationAndCollapse(t *testing.T) {
	r, players, id := newRunFixture(t)
	ctx := context.Background()

	frags, outcome, err := r.Run(ctx, id, "switches", "inspect")
	require.NoError(t, err)
	assert.Equal(t, outcomeOK, outcome)
	assert.Equal(t, []string{
		"You trace the circuit and flip the breakers in sequence. Consoles hum back to life.",
		"STORY FLAG ACTIVATED: Power Rerouted",
	}, bodies(frags))

	has, err := players.HasFlag(ctx, id, "power-rerouted")
	require.NoError(t, err)
	assert.True(t, has)

	frags, outcome, err = r.Run(ctx, id, "switches", "inspect")
	require.NoError(t, err)
	assert.Equal(t, outcomeAlreadyDone, outcome)
	assert.Equal(t, []string{"The switches are already set the way you left them."}, bodies(frags))
}

func TestRun_PreconditionUnmetAppliesNoEffects(t *testing.T) {
	r, players, id := newRunFixture(t)
	ctx := context.Background()

	frags, outcome, err := r.Run(ctx, id, "door", "open")
	require.Error(t, err)
	assert.Nil(t, frags)
	assert.Equal(t, outcomeUnmet, outcome)
	assert.Equal(t, CodePreconditionUnmet, ErrorCode(err))

	p, getErr := players.Get(ctx, id)
	require.NoError(t, getErr)
	assert.Equal(t, "secondary-control-room", p.RoomID)
}

func TestRun_MoveWithRequiredItem(t *testing.T) {
	r, players, id := newRunFixture(t)
	ctx := context.Background()

	require.NoError(t, players.GrantItem(ctx, id, "keycard"))

	frags, outcome, err := r.Run(ctx, id, "door", "open")
	require.NoError(t, err)
	assert.Equal(t, outcomeOK, outcome)
	assert.Equal(t, []string{
		"You swipe the maintenance keycard.",
		"The lock cycles green.",
		"The door grinds open and you step through.",
		"A narrow maintenance hallway stretches into darkness. Cables hang from an open panel.",
		"You see: pipes.",
	}, bodies(frags))

	p, err := players.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "maintenance-hallway", p.RoomID)
}

func TestRun_UnauthoredInspectFallsBackToDescription(t *testing.T) {
	r, _, id := newRunFixture(t)

	frags, outcome, err := r.Run(context.Background(), id, "door", "inspect")
	require.NoError(t, err)
	assert.Equal(t, outcomeOK, outcome)
	require.Len(t, frags, 1)
	assert.Equal(t, "A heavy bulkhead door, sealed tight.", frags[0].Body)
	assert.Equal(t, player.CategoryDescription, frags[0].Category)
}

func TestRun_UnauthoredNonInspectIsNoSuchAction(t *testing.T) {
	r, _, id := newRunFixture(t)

	frags, outcome, err := r.Run(context.Background(), id, "crates", "press")
	require.Error(t, err)
	assert.Nil(t, frags)
	assert.Equal(t, outcomeNoSuchAction, outcome)
	assert.Equal(t, CodeNoSuchAction, ErrorCode(err))
}
