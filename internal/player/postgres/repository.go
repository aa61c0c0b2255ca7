// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

// Package postgres implements player state persistence using PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/derelict-game/derelict/internal/player"
)

// querier abstracts query execution for both pools and transactions.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// DB is the pool-level interface the repository is constructed with.
// Both *pgxpool.Pool and pgxmock pools satisfy it.
type DB interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// txKey is the context key under which an active transaction is stored.
type txKey struct{}

// Repository implements player.Repository using PostgreSQL.
// Methods participate in the transaction stored in context by Transactor,
// falling back to the pool otherwise.
type Repository struct {
	db DB
}

// NewRepository creates a new player Repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// q returns the active transaction from context, or the pool.
func (r *Repository) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.db
}

// Get retrieves a player by ID.
func (r *Repository) Get(ctx context.Context, id ulid.ULID) (*player.Player, error) {
	row := r.q(ctx).QueryRow(ctx, `
		SELECT id, nickname, room_id, created_at FROM players WHERE id = $1
	`, id.String())

	var p player.Player
	var idStr string
	err := row.Scan(&idStr, &p.Nickname, &p.RoomID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PLAYER_NOT_FOUND").With("id", id.String()).Wrap(player.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get player").With("id", id.String()).Wrap(err)
	}
	p.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.With("operation", "parse player id").With("id", idStr).Wrap(err)
	}
	return &p, nil
}

// Create persists a new player.
func (r *Repository) Create(ctx context.Context, p *player.Player) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO players (id, nickname, room_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID.String(), p.Nickname, p.RoomID, p.CreatedAt)
	if err != nil {
		return oops.With("operation", "create player").With("id", p.ID.String()).Wrap(err)
	}
	return nil
}

// SetRoom overwrites the player's current room reference.
func (r *Repository) SetRoom(ctx context.Context, id ulid.ULID, roomID string) error {
	result, err := r.q(ctx).Exec(ctx, `
		UPDATE players SET room_id = $2 WHERE id = $1
	`, id.String(), roomID)
	if err != nil {
		return oops.With("operation", "set room").With("id", id.String()).With("room_id", roomID).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PLAYER_NOT_FOUND").With("id", id.String()).Wrap(player.ErrNotFound)
	}
	return nil
}

// Inventory returns the player's item IDs in grant order.
func (r *Repository) Inventory(ctx context.Context, id ulid.ULID) ([]string, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT item_id FROM inventory WHERE player_id = $1 ORDER BY seq
	`, id.String())
	if err != nil {
		return nil, oops.With("operation", "list inventory").With("id", id.String()).Wrap(err)
	}
	defer rows.Close()

	items := make([]string, 0)
	for rows.Next() {
		var itemID string
		if err := rows.Scan(&itemID); err != nil {
			return nil, oops.With("operation", "scan inventory row").With("id", id.String()).Wrap(err)
		}
		items = append(items, itemID)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate inventory").With("id", id.String()).Wrap(err)
	}
	return items, nil
}

// HasItem reports whether the item is in the player's inventory.
func (r *Repository) HasItem(ctx context.Context, id ulid.ULID, itemID string) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM inventory WHERE player_id = $1 AND item_id = $2)
	`, id.String(), itemID).Scan(&exists)
	if err != nil {
		return false, oops.With("operation", "check item").With("id", id.String()).With("item_id", itemID).Wrap(err)
	}
	return exists, nil
}

// GrantItem inserts the item into the inventory iff absent.
func (r *Repository) GrantItem(ctx context.Context, id ulid.ULID, itemID string) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO inventory (player_id, item_id)
		VALUES ($1, $2)
		ON CONFLICT (player_id, item_id) DO NOTHING
	`, id.String(), itemID)
	if err != nil {
		return oops.With("operation", "grant item").With("id", id.String()).With("item_id", itemID).Wrap(err)
	}
	return nil
}

// HasFlag reports whether the story flag is in the triggered set.
func (r *Repository) HasFlag(ctx context.Context, id ulid.ULID, flagID string) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM triggered_flags WHERE player_id = $1 AND flag_id = $2)
	`, id.String(), flagID).Scan(&exists)
	if err != nil {
		return false, oops.With("operation", "check flag").With("id", id.String()).With("flag_id", flagID).Wrap(err)
	}
	return exists, nil
}

// TriggerFlag inserts the flag into the triggered set iff absent.
func (r *Repository) TriggerFlag(ctx context.Context, id ulid.ULID, flagID string) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO triggered_flags (player_id, flag_id)
		VALUES ($1, $2)
		ON CONFLICT (player_id, flag_id) DO NOTHING
	`, id.String(), flagID)
	if err != nil {
		return oops.With("operation", "trigger flag").With("id", id.String()).With("flag_id", flagID).Wrap(err)
	}
	return nil
}

// AppendLog appends fragments to the player's log in order.
func (r *Repository) AppendLog(ctx context.Context, id ulid.ULID, fragments []player.Fragment) error {
	q := r.q(ctx)
	for _, f := range fragments {
		_, err := q.Exec(ctx, `
			INSERT INTO story_log (player_id, body, category)
			VALUES ($1, $2, $3)
		`, id.String(), f.Body, string(f.Category))
		if err != nil {
			return oops.With("operation", "append log").With("id", id.String()).Wrap(err)
		}
	}
	return nil
}

// Log returns the player's log entries ordered by insertion.
func (r *Repository) Log(ctx context.Context, id ulid.ULID) ([]player.LogEntry, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT seq, body, category FROM story_log WHERE player_id = $1 ORDER BY seq
	`, id.String())
	if err != nil {
		return nil, oops.With("operation", "read log").With("id", id.String()).Wrap(err)
	}
	defer rows.Close()

	entries := make([]player.LogEntry, 0)
	for rows.Next() {
		var e player.LogEntry
		var category string
		if err := rows.Scan(&e.Seq, &e.Body, &category); err != nil {
			return nil, oops.With("operation", "scan log row").With("id", id.String()).Wrap(err)
		}
		e.Category = player.Category(category)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate log").With("id", id.String()).Wrap(err)
	}
	return entries, nil
}

// ClearLog removes all log entries for the player.
func (r *Repository) ClearLog(ctx context.Context, id ulid.ULID) error {
	_, err := r.q(ctx).Exec(ctx, `
		DELETE FROM story_log WHERE player_id = $1
	`, id.String())
	if err != nil {
		return oops.With("operation", "clear log").With("id", id.String()).Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ player.Repository = (*Repository)(nil)
