// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/derelict-game/derelict/internal/player"
	"github.com/derelict-game/derelict/internal/world"
)

var tracer = otel.Tracer("derelict/engine")

// Engine resolves one free-text command against a player's current room
// and inventory, applies the resulting effects, and appends the narrative
// response to the player's log.
//
// Each command is one atomic request/response cycle: all writes commit
// before the next command for that player is processed. Player state is
// passed explicitly through the resolution chain; there is no ambient
// session state.
type Engine struct {
	world        world.Repository
	players      player.Repository
	tx           player.Transactor
	resolver     *ObjectResolver
	interactions *InteractionResolver
}

// New creates an Engine over the world index and player state accessor.
func New(w world.Repository, players player.Repository, tx player.Transactor) *Engine {
	return &Engine{
		world:        w,
		players:      players,
		tx:           tx,
		resolver:     NewObjectResolver(w),
		interactions: NewInteractionResolver(w, players, NewEffects(players)),
	}
}

// Execute handles one command for one player and returns the fragments
// appended to the log this turn. Command-level failures (unknown verb,
// unmet precondition, and the rest of the taxonomy) are narrated into the
// log and return a nil error; only store faults surface as errors.
func (e *Engine) Execute(ctx context.Context, playerID ulid.ULID, input string) (frags []player.Fragment, err error) {
	start := time.Now()

	ctx, span := tracer.Start(ctx, "engine.execute",
		trace.WithAttributes(
			attribute.String("player.id", playerID.String()),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	p, err := e.players.Get(ctx, playerID)
	if err != nil {
		recordCommand("", outcomeError, time.Since(start))
		return nil, err
	}

	cmd, tokErr := Tokenize(input)
	if tokErr != nil {
		frags, err = e.narrate(ctx, p.ID, tokErr)
		recordCommand("", outcomeForError(tokErr), time.Since(start))
		return frags, err
	}

	if cmd.Kind == KindMeta {
		frags, err = e.runMeta(ctx, p, cmd.Meta)
		if err != nil {
			recordCommand(string(cmd.Meta), outcomeError, time.Since(start))
			return nil, err
		}
		recordCommand(string(cmd.Meta), outcomeMeta, time.Since(start))
		return frags, nil
	}

	span.SetAttributes(
		attribute.String("command.verb", cmd.Verb),
		attribute.String("command.object", cmd.ObjectPhrase),
	)

	outcome := outcomeOK
	runErr := e.tx.InTransaction(ctx, func(txCtx context.Context) error {
		objectID, err := e.resolver.Resolve(txCtx, p.RoomID, cmd.ObjectPhrase)
		if err != nil {
			return err
		}
		f, oc, err := e.interactions.Run(txCtx, p.ID, objectID, cmd.Verb)
		if err != nil {
			return err
		}
		frags, outcome = f, oc
		return e.players.AppendLog(txCtx, p.ID, frags)
	})
	if runErr != nil {
		if IsNarratable(runErr) {
			// The transaction rolled back: no effects applied. The
			// refusal still lands in the log like any other narration.
			frags, err = e.narrate(ctx, p.ID, runErr)
			recordCommand(cmd.Verb, outcomeForError(runErr), time.Since(start))
			return frags, err
		}
		slog.ErrorContext(ctx, "command failed",
			"player_id", p.ID.String(),
			"verb", cmd.Verb,
			"error", runErr,
		)
		recordCommand(cmd.Verb, outcomeError, time.Since(start))
		return nil, runErr
	}

	recordCommand(cmd.Verb, outcome, time.Since(start))
	return frags, nil
}

// Survey returns the fragments describing a room: its description and the
// objects present. Used to orient a newly provisioned player.
func (e *Engine) Survey(ctx context.Context, roomID string) ([]player.Fragment, error) {
	room, err := e.world.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	objects, err := e.world.ListRoomObjects(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return describeRoom(room, objects), nil
}

// runMeta handles the zero-argument meta-commands, which bypass the
// resolver chain entirely.
func (e *Engine) runMeta(ctx context.Context, p *player.Player, meta MetaCommand) ([]player.Fragment, error) {
	switch meta {
	case MetaClear:
		// Empties the log wholesale; nothing is appended afterwards.
		return nil, e.players.ClearLog(ctx, p.ID)
	case MetaHelp:
		frags := helpFragments()
		return frags, e.players.AppendLog(ctx, p.ID, frags)
	case MetaInventory:
		frags, err := e.inventoryFragments(ctx, p)
		if err != nil {
			return nil, err
		}
		return frags, e.players.AppendLog(ctx, p.ID, frags)
	default:
		return nil, ErrUnknownCommand(string(meta))
	}
}

// narrate appends an error's narration to the player's log.
func (e *Engine) narrate(ctx context.Context, playerID ulid.ULID, cause error) ([]player.Fragment, error) {
	frags := Narrate(cause)
	if err := e.players.AppendLog(ctx, playerID, frags); err != nil {
		return nil, err
	}
	return frags, nil
}
