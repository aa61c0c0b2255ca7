// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package engine

import (
	"context"
	"strings"

	"github.com/derelict-game/derelict/internal/player"
	"github.com/derelict-game/derelict/internal/world"
)

// describeRoom composes the fragments shown when a player arrives in or
// surveys a room: the description, then the list of objects present.
func describeRoom(room *world.Room, objects []*world.Object) []player.Fragment {
	frags := []player.Fragment{
		{Body: room.Description, Category: player.CategoryDescription},
	}
	if names := displayNames(objects); len(names) > 0 {
		frags = append(frags, player.Fragment{
			Body:     "You see: " + strings.Join(names, ", ") + ".",
			Category: player.CategoryHint,
		})
	}
	return frags
}

// verbsLine renders the recognized verb set for help and error text.
func verbsLine() string {
	return "You can: " + strings.Join(verbs, ", ") + "."
}

// helpFragments lists available verbs plus the meta-commands.
func helpFragments() []player.Fragment {
	return []player.Fragment{
		{Body: verbsLine(), Category: player.CategoryInstruction},
		{Body: "Use: <verb> <object>, or <verb> <object> with <item>.", Category: player.CategoryInstruction},
		{Body: "Meta-commands: inventory, clear.", Category: player.CategoryInstruction},
	}
}

// inventoryFragments lists held item names, or states the inventory is
// empty. Never an empty-list artifact.
func (e *Engine) inventoryFragments(ctx context.Context, p *player.Player) ([]player.Fragment, error) {
	itemIDs, err := e.players.Inventory(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		return []player.Fragment{
			{Body: "Your inventory is empty.", Category: player.CategoryInfo},
		}, nil
	}

	names := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, err := e.world.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}
		names = append(names, item.Name)
	}
	return []player.Fragment{
		{Body: "You are carrying: " + strings.Join(names, ", ") + ".", Category: player.CategoryInfo},
	}, nil
}
