// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Command outcome labels.
const (
	outcomeOK             = "ok"
	outcomeMeta           = "meta"
	outcomeEmpty          = "empty_command"
	outcomeUnknownCommand = "unknown_command"
	outcomeUnknownVerb    = "unknown_verb"
	outcomeUnknownObject  = "unknown_object"
	outcomeNoSuchAction   = "no_such_action"
	outcomeUnmet          = "precondition_unmet"
	outcomeAlreadyDone    = "already_done"
	outcomeError          = "error"
)

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "derelict_commands_total",
			Help: "Total number of processed commands by verb and outcome",
		},
		[]string{"verb", "outcome"},
	)

	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "derelict_command_duration_seconds",
			Help:    "Command processing duration by outcome",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)

// RegisterMetrics registers the engine's metrics with the given registerer.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(commandsTotal)
	reg.MustRegister(commandDuration)
}

// recordCommand records one processed command. verb is empty for input
// that never produced a verb (empty or unknown commands).
func recordCommand(verb, outcome string, elapsed time.Duration) {
	if verb == "" {
		verb = "none"
	}
	commandsTotal.WithLabelValues(verb, outcome).Inc()
	commandDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// outcomeForError maps a narratable error code to its metric outcome.
func outcomeForError(err error) string {
	switch ErrorCode(err) {
	case CodeEmptyCommand:
		return outcomeEmpty
	case CodeUnknownCommand:
		return outcomeUnknownCommand
	case CodeUnknownVerb:
		return outcomeUnknownVerb
	case CodeUnknownObject:
		return outcomeUnknownObject
	case CodeNoSuchAction:
		return outcomeNoSuchAction
	case CodePreconditionUnmet:
		return outcomeUnmet
	default:
		return outcomeError
	}
}
