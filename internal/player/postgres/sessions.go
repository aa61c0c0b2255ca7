// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/derelict-game/derelict/internal/player"
)

// SessionRepository implements player.SessionRepository using PostgreSQL.
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Lookup resolves a session token to a player ID.
func (r *SessionRepository) Lookup(ctx context.Context, token string) (ulid.ULID, error) {
	var idStr string
	err := r.db.QueryRow(ctx, `
		SELECT player_id FROM sessions WHERE token = $1
	`, token).Scan(&idStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return ulid.ULID{}, oops.Code("SESSION_NOT_FOUND").Wrap(player.ErrNotFound)
	}
	if err != nil {
		return ulid.ULID{}, oops.With("operation", "lookup session").Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return ulid.ULID{}, oops.With("operation", "parse session player id").With("player_id", idStr).Wrap(err)
	}
	return id, nil
}

// Bind associates a session token with a player.
func (r *SessionRepository) Bind(ctx context.Context, token string, playerID ulid.ULID) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (token, player_id)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET player_id = $2
	`, token, playerID.String())
	if err != nil {
		return oops.With("operation", "bind session").Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ player.SessionRepository = (*SessionRepository)(nil)
