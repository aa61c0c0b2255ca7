// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package world

import "errors"

// ErrNotFound is returned when a world entity does not exist.
// Repositories wrap it with an entity-specific oops code.
var ErrNotFound = errors.New("not found")
