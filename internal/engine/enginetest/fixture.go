// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package enginetest

import "github.com/derelict-game/derelict/internal/world"

func strp(s string) *string { return &s }

// ControlRoom builds the two-room fixture used across the engine and
// server tests: a control room whose crates hide a keycard, a locked door
// leading to a maintenance hallway, and a bank of switches that activates
// a story flag.
func ControlRoom() *World {
	w := NewWorld()

	w.Rooms["secondary-control-room"] = &world.Room{
		ID:          "secondary-control-room",
		Name:        "Secondary Control Room",
		Description: "Dim consoles line the walls of the secondary control room. Dust drifts in the emergency lighting.",
	}
	w.Rooms["maintenance-hallway"] = &world.Room{
		ID:          "maintenance-hallway",
		Name:        "Maintenance Hallway",
		Description: "A narrow maintenance hallway stretches into darkness. Cables hang from an open panel.",
	}

	w.Objects = []*world.Object{
		{
			ID:          "crates",
			RoomID:      "secondary-control-room",
			Name:        "crates",
			Description: "A stack of supply crates, lids askew.",
			Synonyms:    []string{"supply crates", "boxes"},
		},
		{
			ID:          "door",
			RoomID:      "secondary-control-room",
			Name:        "door",
			Description: "A heavy bulkhead door, sealed tight.",
			Synonyms:    []string{"bulkhead door", "bulkhead"},
		},
		{
			ID:          "switches",
			RoomID:      "secondary-control-room",
			Name:        "switches",
			Description: "A bank of power switches, most of them dark.",
			Synonyms:    []string{"switch panel"},
		},
		{
			ID:          "pipes",
			RoomID:      "maintenance-hallway",
			Name:        "pipes",
			Description: "Corroded coolant pipes run along the ceiling.",
		},
	}

	w.Items["keycard"] = &world.Item{
		ID:          "keycard",
		Name:        "maintenance keycard",
		Description: "A scuffed keycard stamped MAINTENANCE.",
	}
	w.Flags["power-rerouted"] = &world.StoryFlag{
		ID:   "power-rerouted",
		Name: "Power Rerouted",
	}
	w.Links["door-to-hallway"] = &world.Link{
		ID:         "door-to-hallway",
		ToRoomID:   "maintenance-hallway",
		TravelText: "The door grinds open and you step through.",
	}

	w.AddInteraction(&world.Interaction{
		ObjectID:     "crates",
		Verb:         "inspect",
		GrantsItemID: strp("keycard"),
		ResultText:   strp("You pry open the top crate. Under a layer of packing foam sits a keycard."),
		AlreadyDoneText: strp(
			"The crates hold nothing else of use."),
	})
	w.AddInteraction(&world.Interaction{
		ObjectID:       "door",
		Verb:           "open",
		LinkID:         strp("door-to-hallway"),
		RequiredItemID: strp("keycard"),
		ItemUsageText:  strp("You swipe the maintenance keycard."),
		ResultText:     strp("The lock cycles green."),
	})
	w.AddInteraction(&world.Interaction{
		ObjectID:        "switches",
		Verb:            "inspect",
		TriggersFlagID:  strp("power-rerouted"),
		ResultText:      strp("You trace the circuit and flip the breakers in sequence. Consoles hum back to life."),
		AlreadyDoneText: strp("The switches are already set the way you left them."),
	})

	return w
}
