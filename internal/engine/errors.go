// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package engine

import (
	"fmt"
	"strings"

	"github.com/samber/oops"

	"github.com/derelict-game/derelict/internal/player"
)

// Error codes for command handling failures. All of these are locally
// recovered: they become narrative fragments in the player's log, never a
// process fault.
const (
	CodeEmptyCommand      = "EMPTY_COMMAND"
	CodeUnknownCommand    = "UNKNOWN_COMMAND"
	CodeUnknownVerb       = "UNKNOWN_VERB"
	CodeUnknownObject     = "UNKNOWN_OBJECT"
	CodeNoSuchAction      = "NO_SUCH_ACTION"
	CodePreconditionUnmet = "PRECONDITION_UNMET"
)

// ErrEmptyCommand creates an error for input with no tokens.
func ErrEmptyCommand() error {
	return oops.Code(CodeEmptyCommand).Errorf("no command provided")
}

// ErrUnknownCommand creates an error for an unrecognized single-token command.
func ErrUnknownCommand(token string) error {
	return oops.Code(CodeUnknownCommand).
		With("token", token).
		Errorf("unknown command: %s", token)
}

// ErrUnknownVerb creates an error for a verb outside the recognized set.
func ErrUnknownVerb(verb string) error {
	return oops.Code(CodeUnknownVerb).
		With("verb", verb).
		Errorf("unknown verb: %s", verb)
}

// ErrUnknownObject creates an error for a phrase that resolves to no object
// in the player's current room. names carries the room-scoped display names
// for error presentation.
func ErrUnknownObject(phrase string, names []string) error {
	return oops.Code(CodeUnknownObject).
		With("phrase", phrase).
		With("names", names).
		Errorf("no object matching %q", phrase)
}

// ErrNoSuchAction creates an error for a recognized object and verb with no
// authored interaction.
func ErrNoSuchAction(verb, objectName string) error {
	return oops.Code(CodeNoSuchAction).
		With("verb", verb).
		With("object", objectName).
		Errorf("no interaction for %s %s", verb, objectName)
}

// ErrPreconditionUnmet creates an error for an interaction whose required
// item or flag is missing. refusal is the authored unmet text, or empty for
// the generic fallback.
func ErrPreconditionUnmet(verb, objectName, refusal string) error {
	return oops.Code(CodePreconditionUnmet).
		With("verb", verb).
		With("object", objectName).
		With("refusal", refusal).
		Errorf("precondition unmet for %s %s", verb, objectName)
}

// Narrate converts a command handling error into the narrative fragments
// appended to the player's log. Errors and story share one channel; there
// is no distinct user-visible error state.
func Narrate(err error) []player.Fragment {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []player.Fragment{{Body: "Something went wrong. Try again.", Category: player.CategoryWarning}}
	}
	c := oopsErr.Context()

	switch oopsErr.Code() {
	case CodeEmptyCommand:
		return []player.Fragment{{Body: "Enter a command.", Category: player.CategoryInstruction}}
	case CodeUnknownCommand, CodeUnknownVerb:
		return []player.Fragment{
			{Body: "That is not something you know how to do.", Category: player.CategoryWarning},
			{Body: verbsLine(), Category: player.CategoryInstruction},
		}
	case CodeUnknownObject:
		frags := []player.Fragment{
			{Body: "You don't see that here.", Category: player.CategoryWarning},
		}
		if names, ok := c["names"].([]string); ok && len(names) > 0 {
			frags = append(frags, player.Fragment{
				Body:     "You can see: " + strings.Join(names, ", ") + ".",
				Category: player.CategoryHint,
			})
		}
		return frags
	case CodeNoSuchAction:
		verb, _ := c["verb"].(string)
		object, _ := c["object"].(string)
		return []player.Fragment{{
			Body:     fmt.Sprintf("You cannot %s the %s.", verb, object),
			Category: player.CategoryWarning,
		}}
	case CodePreconditionUnmet:
		if refusal, ok := c["refusal"].(string); ok && refusal != "" {
			return []player.Fragment{{Body: refusal, Category: player.CategoryWarning}}
		}
		verb, _ := c["verb"].(string)
		object, _ := c["object"].(string)
		return []player.Fragment{{
			Body:     fmt.Sprintf("You are unable to %s the %s yet.", verb, object),
			Category: player.CategoryWarning,
		}}
	default:
		return []player.Fragment{{Body: "Something went wrong. Try again.", Category: player.CategoryWarning}}
	}
}

// IsNarratable reports whether the error carries one of the command codes
// that collapse into narration rather than surfacing as a request failure.
func IsNarratable(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	switch oopsErr.Code() {
	case CodeEmptyCommand, CodeUnknownCommand, CodeUnknownVerb,
		CodeUnknownObject, CodeNoSuchAction, CodePreconditionUnmet:
		return true
	}
	return false
}

// ErrorCode returns the oops code carried by err, or "INTERNAL".
func ErrorCode(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := oopsErr.Code().(string); ok && code != "" {
			return code
		}
	}
	return "INTERNAL"
}
