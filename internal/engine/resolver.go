// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package engine

import (
	"context"
	"strings"

	"github.com/derelict-game/derelict/internal/world"
)

// ObjectResolver maps a direct-object phrase to a concrete object
// identifier, scoped to the objects present in one room.
//
// The phrase table is rebuilt for every command: the same phrase may
// resolve to different objects in different rooms, so nothing is cached
// across room changes.
type ObjectResolver struct {
	world world.Repository
}

// NewObjectResolver creates an ObjectResolver over the given world index.
func NewObjectResolver(w world.Repository) *ObjectResolver {
	return &ObjectResolver{world: w}
}

// Resolve looks up the phrase among the room's objects. The table is
// seeded from each object's primary name, then overlaid with synonyms;
// both share one namespace and world data guarantees a phrase maps to
// exactly one object.
//
// A miss returns an UNKNOWN_OBJECT error carrying the room's resolvable
// display names (one per object, deduplicated, in room order).
func (r *ObjectResolver) Resolve(ctx context.Context, roomID, phrase string) (string, error) {
	objects, err := r.world.ListRoomObjects(ctx, roomID)
	if err != nil {
		return "", err
	}

	table := make(map[string]string, len(objects)*2)
	for _, obj := range objects {
		table[strings.ToLower(obj.Name)] = obj.ID
	}
	for _, obj := range objects {
		for _, syn := range obj.Synonyms {
			table[strings.ToLower(syn)] = obj.ID
		}
	}

	if id, ok := table[strings.ToLower(strings.TrimSpace(phrase))]; ok {
		return id, nil
	}

	return "", ErrUnknownObject(phrase, displayNames(objects))
}

// displayNames returns one display name per object, deduplicated,
// preserving object iteration order.
func displayNames(objects []*world.Object) []string {
	seen := make(map[string]struct{}, len(objects))
	names := make([]string, 0, len(objects))
	for _, obj := range objects {
		if _, dup := seen[obj.Name]; dup {
			continue
		}
		seen[obj.Name] = struct{}{}
		names = append(names, obj.Name)
	}
	return names
}
