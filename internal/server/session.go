// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/derelict-game/derelict/internal/player"
)

// sessionCookie carries the opaque session token. Players are
// auto-provisioned guests; there is no login.
const sessionCookie = "derelict_session"

// playerHandler receives the player resolved from the request's session.
type playerHandler func(w http.ResponseWriter, r *http.Request, p *player.Player)

// withSession resolves the session cookie to a player, provisioning a
// fresh guest when the cookie is missing or stale.
func (s *Server) withSession(next playerHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if cookie, err := r.Cookie(sessionCookie); err == nil {
			id, lookupErr := s.sessions.Lookup(ctx, cookie.Value)
			if lookupErr == nil {
				p, getErr := s.players.Get(ctx, id)
				if getErr == nil {
					next(w, r, p)
					return
				}
				if !errors.Is(getErr, player.ErrNotFound) {
					s.internalError(w, r, getErr)
					return
				}
			} else if !errors.Is(lookupErr, player.ErrNotFound) {
				s.internalError(w, r, lookupErr)
				return
			}
			// Stale cookie: fall through and provision a new guest.
		}

		p, token, err := s.provisionGuest(ctx)
		if err != nil {
			s.internalError(w, r, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		next(w, r, p)
	})
}

// provisionGuest creates a player at the start room, writes the opening
// narration to their log, and binds a fresh session token.
func (s *Server) provisionGuest(ctx context.Context) (*player.Player, string, error) {
	id := ulid.Make()
	p := &player.Player{
		ID:        id,
		Nickname:  "drifter-" + id.String()[22:],
		RoomID:    s.startRoom,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.players.Create(ctx, p); err != nil {
		return nil, "", err
	}

	orient, err := s.engine.Survey(ctx, s.startRoom)
	if err != nil {
		return nil, "", err
	}
	welcome := append([]player.Fragment{
		{Body: "You wake on the deck of a derelict station.", Category: player.CategoryInfo},
		{Body: `Type "help" for the commands you know.`, Category: player.CategoryInstruction},
	}, orient...)
	if err := s.players.AppendLog(ctx, id, welcome); err != nil {
		return nil, "", err
	}

	token := ulid.Make().String()
	if err := s.sessions.Bind(ctx, token, id); err != nil {
		return nil, "", err
	}

	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}
	slog.InfoContext(ctx, "guest provisioned",
		"player_id", id.String(),
		"nickname", p.Nickname,
		"room_id", s.startRoom,
	)
	return p, token, nil
}
