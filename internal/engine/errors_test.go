// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derelict-game/derelict/internal/player"
)

func TestNarrate_EmptyCommand(t *testing.T) {
	frags := Narrate(ErrEmptyCommand())
	require.Len(t, frags, 1)
	assert.Equal(t, "Enter a command.", frags[0].Body)
	assert.Equal(t, player.CategoryInstruction, frags[0].Category)
}

func TestNarrate_UnknownVerbListsVerbs(t *testing.T) {
	frags := Narrate(ErrUnknownVerb("lick"))
	require.Len(t, frags, 2)
	assert.Equal(t, "That is not something you know how to do.", frags[0].Body)
	assert.Equal(t, player.CategoryWarning, frags[0].Category)
	assert.Equal(t, "You can: inspect, open, take, use, press, read.", frags[1].Body)
	assert.Equal(t, player.CategoryInstruction, frags[1].Category)
}

func TestNarrate_UnknownObjectWithoutNames(t *testing.T) {
	frags := Narrate(ErrUnknownObject("reactor", nil))
	require.Len(t, frags, 1)
	assert.Equal(t, "You don't see that here.", frags[0].Body)
}

func TestNarrate_NoSuchAction(t *testing.T) {
	frags := Narrate(ErrNoSuchAction("press", "crates"))
	require.Len(t, frags, 1)
	assert.Equal(t, "You cannot press the crates.", frags[0].Body)
	assert.Equal(t, player.CategoryWarning, frags[0].Category)
}

func TestNarrate_PreconditionUnmet(t *testing.T) {
	t.Run("authored refusal wins", func(t *testing.T) {
		frags := Narrate(ErrPreconditionUnmet("open", "door", "The lock flashes red."))
		require.Len(t, frags, 1)
		assert.Equal(t, "The lock flashes red.", frags[0].Body)
	})

	t.Run("generic fallback", func(t *testing.T) {
		frags := Narrate(ErrPreconditionUnmet("open", "door", ""))
		require.Len(t, frags, 1)
		assert.Equal(t, "You are unable to open the door yet.", frags[0].Body)
	})
}

func TestNarrate_PlainError(t *testing.T) {
	frags := Narrate(errors.New("disk on fire"))
	require.Len(t, frags, 1)
	assert.Equal(t, "Something went wrong. Try again.", frags[0].Body)
	assert.NotContains(t, frags[0].Body, "disk")
}

func TestIsNarratable(t *testing.T) {
	assert.True(t, IsNarratable(ErrEmptyCommand()))
	assert.True(t, IsNarratable(ErrUnknownCommand("x")))
	assert.True(t, IsNarratable(ErrNoSuchAction("use", "door")))
	assert.False(t, IsNarratable(errors.New("boom")))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeUnknownVerb, ErrorCode(ErrUnknownVerb("lick")))
	assert.Equal(t, "INTERNAL", ErrorCode(errors.New("boom")))
}
