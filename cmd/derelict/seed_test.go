// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derelict-game/derelict/pkg/errutil"
)

func TestSeedCommand_Flags(t *testing.T) {
	cmd := newSeedCmd()

	timeout, err := cmd.Flags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout, "default timeout should be 30s")

	file, err := cmd.Flags().GetString("file")
	require.NoError(t, err)
	assert.Empty(t, file, "default is the built-in world")
}

func TestSeedCommand_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DERELICT_DATABASE_URL", "")

	_, err := execute(t, "seed")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestSeedCommand_InvalidDatabaseURL(t *testing.T) {
	t.Setenv("DERELICT_DATABASE_URL", "invalid://not-a-valid-url")

	_, err := execute(t, "seed")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "DB_CONFIG_INVALID")
}

func TestSeedCommand_MissingFile(t *testing.T) {
	t.Setenv("DERELICT_DATABASE_URL", "postgres://localhost:5432/derelict")

	_, err := execute(t, "seed", "--file", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SEED_FAILED")
}

func TestSeedCommand_InvalidWorldFile(t *testing.T) {
	t.Setenv("DERELICT_DATABASE_URL", "postgres://localhost:5432/derelict")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rooms: 42\n"), 0o600))

	// The file is rejected before any database connection is attempted.
	_, err := execute(t, "seed", "--file", path)
	require.Error(t, err)
}
