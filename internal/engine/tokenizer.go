// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

// Package engine implements the interaction engine: command tokenization,
// room-scoped object resolution, interaction lookup with precondition
// evaluation, effect application, and response composition.
package engine

import (
	"strings"
)

// CommandKind distinguishes the two shapes of the command grammar.
type CommandKind int

// Command kinds.
const (
	// KindMeta is a zero-argument meta-command (clear, help, inventory).
	KindMeta CommandKind = iota
	// KindAction is a verb + object-phrase (+ optional instrument) command.
	KindAction
)

// MetaCommand identifies a zero-argument meta-command.
type MetaCommand string

// Meta-commands handled outside the resolver chain.
const (
	MetaClear     MetaCommand = "clear"
	MetaHelp      MetaCommand = "help"
	MetaInventory MetaCommand = "inventory"
)

// instrumentSeparator splits the direct-object phrase from the instrument
// phrase, as in "open door with key".
const instrumentSeparator = "with"

// verbs is the closed set of recognized action verbs. World data authors
// interactions against these.
var verbs = []string{"inspect", "open", "take", "use", "press", "read"}

// Verbs returns the recognized action verbs.
func Verbs() []string {
	out := make([]string, len(verbs))
	copy(out, verbs)
	return out
}

// Command is the result of tokenizing one line of player input.
type Command struct {
	Kind             CommandKind
	Meta             MetaCommand // set when Kind is KindMeta
	Verb             string      // set when Kind is KindAction
	ObjectPhrase     string
	InstrumentPhrase string
}

// Tokenize normalizes case and whitespace and splits raw input into a
// Command. Pure function of its input.
//
// Zero tokens yield EMPTY_COMMAND. A single token must be a meta-command,
// otherwise UNKNOWN_COMMAND. Two or more tokens are verb + object phrase,
// with an optional instrument phrase after a literal "with".
func Tokenize(input string) (*Command, error) {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(tokens) == 0 {
		return nil, ErrEmptyCommand()
	}

	if len(tokens) == 1 {
		switch MetaCommand(tokens[0]) {
		case MetaClear, MetaHelp, MetaInventory:
			return &Command{Kind: KindMeta, Meta: MetaCommand(tokens[0])}, nil
		}
		return nil, ErrUnknownCommand(tokens[0])
	}

	verb := tokens[0]
	if !isVerb(verb) {
		return nil, ErrUnknownVerb(verb)
	}

	rest := tokens[1:]
	for i, tok := range rest {
		if tok == instrumentSeparator {
			return &Command{
				Kind:             KindAction,
				Verb:             verb,
				ObjectPhrase:     strings.Join(rest[:i], " "),
				InstrumentPhrase: strings.Join(rest[i+1:], " "),
			}, nil
		}
	}

	return &Command{
		Kind:         KindAction,
		Verb:         verb,
		ObjectPhrase: strings.Join(rest, " "),
	}, nil
}

func isVerb(v string) bool {
	for _, known := range verbs {
		if v == known {
			return true
		}
	}
	return false
}
