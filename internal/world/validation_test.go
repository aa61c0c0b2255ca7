// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package world_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/derelict-game/derelict/internal/world"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		expectErr bool
	}{
		{"simple slug", "door", false},
		{"hyphenated", "secondary-control-room", false},
		{"underscore", "story_flag_1", false},
		{"digits", "room2", false},
		{"empty", "", true},
		{"uppercase", "Door", true},
		{"spaces", "the door", true},
		{"too long", strings.Repeat("a", world.MaxIDLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := world.ValidateID(tt.id, "test")
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, world.ValidateName("Secondary Control Room"))
	assert.Error(t, world.ValidateName(""))
	assert.Error(t, world.ValidateName("   "))
	assert.Error(t, world.ValidateName(strings.Repeat("x", world.MaxNameLength+1)))
}

func TestRoom_Validate(t *testing.T) {
	valid := world.Room{ID: "hallway", Name: "Hallway", Description: "A dim hallway."}
	assert.NoError(t, valid.Validate())

	invalid := world.Room{ID: "hallway"}
	assert.Error(t, invalid.Validate())
}
