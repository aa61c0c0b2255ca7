// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

// Package postgres implements the world repository using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/derelict-game/derelict/internal/world"
)

// DB abstracts query execution so both *pgxpool.Pool and pgxmock pools
// satisfy the repository's needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository implements world.Repository using PostgreSQL.
type Repository struct {
	db DB
}

// NewRepository creates a new world Repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// GetRoom retrieves a room by ID.
func (r *Repository) GetRoom(ctx context.Context, id string) (*world.Room, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, description FROM rooms WHERE id = $1
	`, id)

	var room world.Room
	err := row.Scan(&room.ID, &room.Name, &room.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ROOM_NOT_FOUND").With("id", id).Wrap(world.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get room").With("id", id).Wrap(err)
	}
	return &room, nil
}

// ListRoomObjects returns all objects in a room in authored order,
// synonyms included.
func (r *Repository) ListRoomObjects(ctx context.Context, roomID string) ([]*world.Object, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, name, description
		FROM objects WHERE room_id = $1 ORDER BY position, id
	`, roomID)
	if err != nil {
		return nil, oops.With("operation", "list room objects").With("room_id", roomID).Wrap(err)
	}
	defer rows.Close()

	objects, err := scanObjects(rows)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return objects, nil
	}

	ids := make([]string, len(objects))
	byID := make(map[string]*world.Object, len(objects))
	for i, obj := range objects {
		ids[i] = obj.ID
		byID[obj.ID] = obj
	}

	synRows, err := r.db.Query(ctx, `
		SELECT object_id, synonym
		FROM object_synonyms WHERE object_id = ANY($1) ORDER BY object_id, position
	`, ids)
	if err != nil {
		return nil, oops.With("operation", "list object synonyms").With("room_id", roomID).Wrap(err)
	}
	defer synRows.Close()

	for synRows.Next() {
		var objectID, synonym string
		if err := synRows.Scan(&objectID, &synonym); err != nil {
			return nil, oops.With("operation", "scan synonym").Wrap(err)
		}
		if obj, ok := byID[objectID]; ok {
			obj.Synonyms = append(obj.Synonyms, synonym)
		}
	}
	if err := synRows.Err(); err != nil {
		return nil, oops.With("operation", "iterate synonyms").Wrap(err)
	}

	return objects, nil
}

// GetObject retrieves an object by ID, synonyms included.
func (r *Repository) GetObject(ctx context.Context, id string) (*world.Object, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, room_id, name, description FROM objects WHERE id = $1
	`, id)

	var obj world.Object
	err := row.Scan(&obj.ID, &obj.RoomID, &obj.Name, &obj.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("OBJECT_NOT_FOUND").With("id", id).Wrap(world.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get object").With("id", id).Wrap(err)
	}

	synRows, err := r.db.Query(ctx, `
		SELECT synonym FROM object_synonyms WHERE object_id = $1 ORDER BY position
	`, id)
	if err != nil {
		return nil, oops.With("operation", "get object synonyms").With("id", id).Wrap(err)
	}
	defer synRows.Close()

	for synRows.Next() {
		var synonym string
		if err := synRows.Scan(&synonym); err != nil {
			return nil, oops.With("operation", "scan synonym").With("id", id).Wrap(err)
		}
		obj.Synonyms = append(obj.Synonyms, synonym)
	}
	if err := synRows.Err(); err != nil {
		return nil, oops.With("operation", "iterate synonyms").With("id", id).Wrap(err)
	}

	return &obj, nil
}

// GetInteraction retrieves the authored interaction for an (object, verb)
// pair. At most one row exists per pair; the schema enforces it.
func (r *Repository) GetInteraction(ctx context.Context, objectID, verb string) (*world.Interaction, error) {
	row := r.db.QueryRow(ctx, `
		SELECT object_id, verb, link_id, grants_item_id, triggers_flag_id,
		       required_item_id, required_flag_id,
		       result_text, item_usage_text, already_done_text, unmet_text
		FROM interactions WHERE object_id = $1 AND verb = $2
	`, objectID, verb)

	var in world.Interaction
	err := row.Scan(
		&in.ObjectID, &in.Verb, &in.LinkID, &in.GrantsItemID, &in.TriggersFlagID,
		&in.RequiredItemID, &in.RequiredFlagID,
		&in.ResultText, &in.ItemUsageText, &in.AlreadyDoneText, &in.UnmetText,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("INTERACTION_NOT_FOUND").
			With("object_id", objectID).With("verb", verb).Wrap(world.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get interaction").
			With("object_id", objectID).With("verb", verb).Wrap(err)
	}
	return &in, nil
}

// GetLink retrieves a location link by ID.
func (r *Repository) GetLink(ctx context.Context, id string) (*world.Link, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, to_room_id, travel_text FROM location_links WHERE id = $1
	`, id)

	var link world.Link
	err := row.Scan(&link.ID, &link.ToRoomID, &link.TravelText)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("LINK_NOT_FOUND").With("id", id).Wrap(world.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get link").With("id", id).Wrap(err)
	}
	return &link, nil
}

// GetItem retrieves an item by ID.
func (r *Repository) GetItem(ctx context.Context, id string) (*world.Item, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, description FROM items WHERE id = $1
	`, id)

	var item world.Item
	err := row.Scan(&item.ID, &item.Name, &item.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ITEM_NOT_FOUND").With("id", id).Wrap(world.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get item").With("id", id).Wrap(err)
	}
	return &item, nil
}

// GetFlag retrieves a story flag by ID.
func (r *Repository) GetFlag(ctx context.Context, id string) (*world.StoryFlag, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name FROM story_flags WHERE id = $1
	`, id)

	var flag world.StoryFlag
	err := row.Scan(&flag.ID, &flag.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("FLAG_NOT_FOUND").With("id", id).Wrap(world.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get flag").With("id", id).Wrap(err)
	}
	return &flag, nil
}

func scanObjects(rows pgx.Rows) ([]*world.Object, error) {
	objects := make([]*world.Object, 0)
	for rows.Next() {
		var obj world.Object
		if err := rows.Scan(&obj.ID, &obj.RoomID, &obj.Name, &obj.Description); err != nil {
			return nil, oops.With("operation", "scan object").Wrap(err)
		}
		objects = append(objects, &obj)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate objects").Wrap(err)
	}
	return objects, nil
}

// Compile-time interface check.
var _ world.Repository = (*Repository)(nil)
