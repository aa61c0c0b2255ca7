// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Derelict Contributors

package world

import (
	"strings"

	"github.com/samber/oops"
)

// Field length limits for authored world data.
const (
	MaxIDLength   = 64
	MaxNameLength = 128
)

// ValidateID checks that a world-entity identifier is a non-empty slug.
// Identifiers are human-authored: lowercase letters, digits, and hyphens.
func ValidateID(id, kind string) error {
	if id == "" {
		return oops.Code("INVALID_ID").With("kind", kind).Errorf("%s id must not be empty", kind)
	}
	if len(id) > MaxIDLength {
		return oops.Code("INVALID_ID").With("kind", kind).With("id", id).
			Errorf("%s id exceeds %d characters", kind, MaxIDLength)
	}
	for _, r := range id {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return oops.Code("INVALID_ID").With("kind", kind).With("id", id).
			Errorf("%s id contains invalid character %q", kind, r)
	}
	return nil
}

// ValidateName checks that a display name is non-blank and within limits.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return oops.Code("INVALID_NAME").Errorf("name must not be blank")
	}
	if len(name) > MaxNameLength {
		return oops.Code("INVALID_NAME").With("name", name).
			Errorf("name exceeds %d characters", MaxNameLength)
	}
	return nil
}
