// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package engine

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"

	"github.com/derelict-game/derelict/internal/player"
	"github.com/derelict-game/derelict/internal/world"
)

// fallbackAlreadyDone is used when a grant/flag effect re-fires and the
// interaction carries no authored already_done text.
const fallbackAlreadyDone = "Nothing else happens."

// InteractionResolver finds the authored interaction for an (object, verb)
// pair, evaluates its preconditions against player state, and runs the
// effect sequence in its fixed order.
type InteractionResolver struct {
	world   world.Repository
	players player.Repository
	effects *Effects
}

// NewInteractionResolver creates an InteractionResolver.
func NewInteractionResolver(w world.Repository, players player.Repository, effects *Effects) *InteractionResolver {
	return &InteractionResolver{world: w, players: players, effects: effects}
}

// Run resolves and executes the interaction for one command, returning the
// ordered narrative fragments. Caller is expected to run it inside a
// transaction so all effects commit as a unit.
//
// The effect order is fixed: item usage flavor, literal result, travel +
// move + new-room orientation, item grant, flag activation. A grant or
// flag that already fired replaces the entire response with its
// already_done text and stops the sequence; that collapse is authored,
// observable behavior and must not be turned into concatenation.
func (r *InteractionResolver) Run(ctx context.Context, playerID ulid.ULID, objectID, verb string) ([]player.Fragment, string, error) {
	in, err := r.world.GetInteraction(ctx, objectID, verb)
	if errors.Is(err, world.ErrNotFound) {
		return r.unauthored(ctx, objectID, verb)
	}
	if err != nil {
		return nil, outcomeError, err
	}

	obj, err := r.world.GetObject(ctx, objectID)
	if err != nil {
		return nil, outcomeError, err
	}

	// Preconditions, in order: required item, then required flag. The
	// first unmet one short-circuits with no effects applied.
	if in.RequiredItemID != nil {
		has, err := r.players.HasItem(ctx, playerID, *in.RequiredItemID)
		if err != nil {
			return nil, outcomeError, err
		}
		if !has {
			return nil, outcomeUnmet, ErrPreconditionUnmet(verb, obj.Name, deref(in.UnmetText))
		}
	}
	if in.RequiredFlagID != nil {
		has, err := r.players.HasFlag(ctx, playerID, *in.RequiredFlagID)
		if err != nil {
			return nil, outcomeError, err
		}
		if !has {
			return nil, outcomeUnmet, ErrPreconditionUnmet(verb, obj.Name, deref(in.UnmetText))
		}
	}

	var frags []player.Fragment

	// 1. Required-item usage flavor.
	if in.RequiredItemID != nil && in.ItemUsageText != nil {
		frags = append(frags, player.Fragment{Body: *in.ItemUsageText})
	}

	// 2. Literal result.
	if in.ResultText != nil {
		frags = append(frags, player.Fragment{Body: *in.ResultText})
	}

	// 3. Room transition.
	if in.LinkID != nil {
		moved, err := r.applyMove(ctx, playerID, *in.LinkID)
		if err != nil {
			return nil, outcomeError, err
		}
		frags = append(frags, moved...)
	}

	// 4. Item grant. Re-granting collapses the whole response.
	if in.GrantsItemID != nil {
		has, err := r.players.HasItem(ctx, playerID, *in.GrantsItemID)
		if err != nil {
			return nil, outcomeError, err
		}
		if has {
			return alreadyDone(in), outcomeAlreadyDone, nil
		}
		if err := r.effects.GrantItem(ctx, playerID, *in.GrantsItemID); err != nil {
			return nil, outcomeError, err
		}
		item, err := r.world.GetItem(ctx, *in.GrantsItemID)
		if err != nil {
			return nil, outcomeError, err
		}
		frags = append(frags,
			player.Fragment{Body: "+1: " + item.Name, Category: player.CategoryInfo},
			player.Fragment{Body: "Check your inventory.", Category: player.CategoryHint},
		)
	}

	// 5. Flag activation. Re-triggering collapses the whole response.
	if in.TriggersFlagID != nil {
		has, err := r.players.HasFlag(ctx, playerID, *in.TriggersFlagID)
		if err != nil {
			return nil, outcomeError, err
		}
		if has {
			return alreadyDone(in), outcomeAlreadyDone, nil
		}
		if err := r.effects.TriggerFlag(ctx, playerID, *in.TriggersFlagID); err != nil {
			return nil, outcomeError, err
		}
		flag, err := r.world.GetFlag(ctx, *in.TriggersFlagID)
		if err != nil {
			return nil, outcomeError, err
		}
		frags = append(frags, player.Fragment{
			Body:     "STORY FLAG ACTIVATED: " + flag.Name,
			Category: player.CategoryInfo,
		})
	}

	return frags, outcomeOK, nil
}

// unauthored handles an (object, verb) pair with no authored interaction.
// Inspection always succeeds if the object exists: it falls back to the
// object's own description with no effects.
func (r *InteractionResolver) unauthored(ctx context.Context, objectID, verb string) ([]player.Fragment, string, error) {
	obj, err := r.world.GetObject(ctx, objectID)
	if err != nil {
		return nil, outcomeError, err
	}
	if verb == "inspect" {
		return []player.Fragment{
			{Body: obj.Description, Category: player.CategoryDescription},
		}, outcomeOK, nil
	}
	return nil, outcomeNoSuchAction, ErrNoSuchAction(verb, obj.Name)
}

// applyMove fires a location link: travel text, room transition, then the
// new room's description and a freshly computed object list to re-orient
// the player.
func (r *InteractionResolver) applyMove(ctx context.Context, playerID ulid.ULID, linkID string) ([]player.Fragment, error) {
	link, err := r.world.GetLink(ctx, linkID)
	if err != nil {
		return nil, err
	}

	frags := []player.Fragment{{Body: link.TravelText}}

	if err := r.effects.MoveTo(ctx, playerID, link.ToRoomID); err != nil {
		return nil, err
	}

	room, err := r.world.GetRoom(ctx, link.ToRoomID)
	if err != nil {
		return nil, err
	}
	objects, err := r.world.ListRoomObjects(ctx, link.ToRoomID)
	if err != nil {
		return nil, err
	}
	return append(frags, describeRoom(room, objects)...), nil
}

func alreadyDone(in *world.Interaction) []player.Fragment {
	body := fallbackAlreadyDone
	if in.AlreadyDoneText != nil {
		body = *in.AlreadyDoneText
	}
	return []player.Fragment{{Body: body, Category: player.CategoryInfo}}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
