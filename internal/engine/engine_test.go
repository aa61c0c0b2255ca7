// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derelict-game/derelict/internal/engine/enginetest"
	"github.com/derelict-game/derelict/internal/player"
)

func newEngineFixture(t *testing.T) (*Engine, *enginetest.Players, ulid.ULID) {
	t.Helper()
	players := enginetest.NewPlayers()
	id := ulid.Make()
	require.NoError(t, players.Create(context.Background(), &player.Player{
		ID:       id,
		Nickname: "guest",
		RoomID:   "secondary-control-room",
	}))
	return New(enginetest.ControlRoom(), players, enginetest.Tx{}), players, id
}

func logBodies(t *testing.T, players *enginetest.Players, id ulid.ULID) []string {
	t.Helper()
	entries, err := players.Log(context.Background(), id)
	require.NoError(t, err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Body
	}
	return out
}

func TestExecute_ActionAppendsToLog(t *testing.T) {
	e, players, id := newEngineFixture(t)
	ctx := context.Background()

	frags, err := e.Execute(ctx, id, "inspect crates")
	require.NoError(t, err)
	require.NotEmpty(t, frags)

	assert.Equal(t, bodies(frags), logBodies(t, players, id))
}

func TestExecute_NarratableErrorsLandInLog(t *testing.T) {
	e, players, id := newEngineFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		first string
	}{
		{"empty", "", "Enter a command."},
		{"unknown command", "dance", "That is not something you know how to do."},
		{"unknown verb", "lick door", "That is not something you know how to do."},
		{"unknown object", "open reactor", "You don't see that here."},
		{"no such action", "press crates", "You cannot press the crates."},
		{"precondition unmet", "open door", "You are unable to open the door yet."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, players.ClearLog(ctx, id))

			frags, err := e.Execute(ctx, id, tt.input)
			require.NoError(t, err)
			require.NotEmpty(t, frags)
			assert.Equal(t, tt.first, frags[0].Body)
			assert.Equal(t, bodies(frags), logBodies(t, players, id))
		})
	}
}

func TestExecute_PreconditionLeavesStateUntouched(t *testing.T) {
	e, players, id := newEngineFixture(t)
	ctx := context.Background()

	_, err := e.Execute(ctx, id, "open door")
	require.NoError(t, err)

	p, err := players.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "secondary-control-room", p.RoomID)

	inv, err := players.Inventory(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, inv)
}

func TestExecute_ClearEmptiesLog(t *testing.T) {
	e, players, id := newEngineFixture(t)
	ctx := context.Background()

	_, err := e.Execute(ctx, id, "inspect crates")
	require.NoError(t, err)
	require.NotEmpty(t, logBodies(t, players, id))

	frags, err := e.Execute(ctx, id, "clear")
	require.NoError(t, err)
	assert.Empty(t, frags)
	assert.Empty(t, logBodies(t, players, id))
}

func TestExecute_Help(t *testing.T) {
	e, players, id := newEngineFixture(t)

	frags, err := e.Execute(context.Background(), id, "help")
	require.NoError(t, err)
	require.NotEmpty(t, frags)
	assert.Equal(t, "You can: inspect, open, take, use, press, read.", frags[0].Body)
	assert.Equal(t, bodies(frags), logBodies(t, players, id))
}

func TestExecute_Inventory(t *testing.T) {
	e, _, id := newEngineFixture(t)
	ctx := context.Background()

	frags, err := e.Execute(ctx, id, "inventory")
	require.NoError(t, err)
	require.Len(t, frags, 1)
	assert.Equal(t, "Your inventory is empty.", frags[0].Body)

	_, err = e.Execute(ctx, id, "inspect crates")
	require.NoError(t, err)

	frags, err = e.Execute(ctx, id, "inventory")
	require.NoError(t, err)
	require.Len(t, frags, 1)
	assert.Equal(t, "You are carrying: maintenance keycard.", frags[0].Body)
}

func TestExecute_UnknownPlayer(t *testing.T) {
	e, _, _ := newEngineFixture(t)

	_, err := e.Execute(context.Background(), ulid.Make(), "help")
	require.Error(t, err)
	assert.True(t, errors.Is(err, player.ErrNotFound))
}

func TestExecute_StoreFaultSurfaces(t *testing.T) {
	e, players, id := newEngineFixture(t)
	players.FailWith = errors.New("connection reset")

	_, err := e.Execute(context.Background(), id, "inspect crates")
	require.Error(t, err)
	assert.False(t, IsNarratable(err))
}

func TestSurvey(t *testing.T) {
	e, _, _ := newEngineFixture(t)

	frags, err := e.Survey(context.Background(), "secondary-control-room")
	require.NoError(t, err)
	require.Len(t, frags, 2)
	assert.Equal(t, player.CategoryDescription, frags[0].Category)
	assert.Equal(t, "You see: crates, door, switches.", frags[1].Body)
}
