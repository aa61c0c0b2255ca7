// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONIncludesServiceIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("derelict", "1.2.3", "info", "json", &buf)

	logger.Info("server started", "addr", ":8080")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "derelict", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "server started", entry["msg"])
	assert.Equal(t, ":8080", entry["addr"])
	// No active span: trace fields are absent.
	assert.NotContains(t, entry, "trace_id")
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("derelict", "dev", "info", "text", &buf)

	logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "service=derelict")
}

func TestSetup_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("derelict", "dev", "warn", "json", &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.Bytes())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestSetup_WithAttrsPreservesIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("derelict", "dev", "info", "json", &buf)

	logger.With("player_id", "abc").Info("moved", "room", "bridge")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "derelict", entry["service"])
	assert.Equal(t, "abc", entry["player_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}
