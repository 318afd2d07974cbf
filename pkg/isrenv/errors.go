// pkg/isrenv/errors.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package isrenv

import "errors"

// Sentinel errors returned by this package and wrapped by pkg/planner into
// the tagged-result error kinds of the planning API.
var (
	// ErrInvalidInput marks a malformed environment: duplicate ids,
	// non-positive SAM range, unknown target type, or an unresolved
	// airport reference.
	ErrInvalidInput = errors.New("isrenv: invalid input")
)
