// pkg/planner/errors.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package planner

import (
	"context"
	"errors"
	"fmt"
)

// The five error kinds every planning operation reports. They are never
// returned bare: a caller receives a *PlannerError wrapping one of these,
// so both errors.Is and a human-readable detail are available.
var (
	ErrInvalidInput               = errors.New("invalid input")
	ErrInfeasible                 = errors.New("infeasible")
	ErrExcluded                   = errors.New("target excluded")
	ErrCancelled                  = errors.New("cancelled")
	ErrInternalInvariantViolation = errors.New("internal invariant violation")
)

var errorStringToError = map[string]error{
	ErrInvalidInput.Error():               ErrInvalidInput,
	ErrInfeasible.Error():                 ErrInfeasible,
	ErrExcluded.Error():                   ErrExcluded,
	ErrCancelled.Error():                  ErrCancelled,
	ErrInternalInvariantViolation.Error(): ErrInternalInvariantViolation,
}

// TryDecodeError recovers a sentinel kind from an error that crossed a
// serialization boundary (e.g. RPC) and lost its identity along the way.
func TryDecodeError(e error) error {
	if e == nil {
		return nil
	}
	if err, ok := errorStringToError[e.Error()]; ok {
		return err
	}
	return e
}

// PlannerError wraps one of the sentinel kinds above with operation detail.
type PlannerError struct {
	Kind   error
	Detail string
}

func (e *PlannerError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Detail)
}

func (e *PlannerError) Unwrap() error { return e.Kind }

func invalidInput(format string, args ...any) error {
	return &PlannerError{Kind: ErrInvalidInput, Detail: fmt.Sprintf(format, args...)}
}

func internalInvariantViolation(format string, args ...any) error {
	return &PlannerError{Kind: ErrInternalInvariantViolation, Detail: fmt.Sprintf(format, args...)}
}

// cancelled reports whether ctx has been cancelled, wrapping it as a
// PlannerError if so; used at every suspension point.
func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &PlannerError{Kind: ErrCancelled, Detail: err.Error()}
	}
	return nil
}
