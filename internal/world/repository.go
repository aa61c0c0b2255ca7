// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package world

import "context"

// Repository is the read-only world index consumed by the engine.
//
// Implementations must treat world data as immutable after load: every
// method is a pure read. Lookups that miss return an error wrapping
// ErrNotFound.
type Repository interface {
	// GetRoom retrieves a room by ID.
	GetRoom(ctx context.Context, id string) (*Room, error)

	// ListRoomObjects returns all objects in a room, synonyms included,
	// in stable authored order.
	ListRoomObjects(ctx context.Context, roomID string) ([]*Object, error)

	// GetObject retrieves an object by ID, synonyms included.
	GetObject(ctx context.Context, id string) (*Object, error)

	// GetInteraction retrieves the authored interaction for an
	// (object, verb) pair. At most one exists per pair.
	GetInteraction(ctx context.Context, objectID, verb string) (*Interaction, error)

	// GetLink retrieves a location link by ID.
	GetLink(ctx context.Context, id string) (*Link, error)

	// GetItem retrieves an item by ID.
	GetItem(ctx context.Context, id string) (*Item, error)

	// GetFlag retrieves a story flag by ID.
	GetFlag(ctx context.Context, id string) (*StoryFlag, error)
}
