// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package worldfile

import (
	_ "embed"
)

//go:embed default/world.yaml
var defaultWorldYAML []byte

// DefaultWorld returns the parsed built-in world shipped with the binary.
// The embedded document is validated at load; a failure here means the
// binary itself is bad.
func DefaultWorld() (*Document, error) {
	return Parse(defaultWorldYAML)
}

// DefaultWorldYAML returns the raw embedded world file.
func DefaultWorldYAML() []byte {
	out := make([]byte, len(defaultWorldYAML))
	copy(out, defaultWorldYAML)
	return out
}
