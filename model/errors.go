// SPDX-License-Identifier: MIT
//
// File: errors.go
// Role: Error taxonomy for the pairing engine.
// Policy:
//   - Sentinels are plain errors.New values; callers branch with errors.Is.
//   - Typed errors carry the offending field or participant ids and unwrap
//     to their sentinel, so errors.As gives operators something to act on.
//   - None of these are transient: identical input yields identical errors.

package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	// ErrValidation classifies malformed input: ids, history, config or weights.
	ErrValidation = errors.New("matchcycle: validation failed")

	// ErrInfeasible indicates the candidate graph has no edges for a pool of
	// two or more participants and the parity policy cannot absorb that.
	ErrInfeasible = errors.New("matchcycle: infeasible matching")

	// ErrPartialCoverage indicates the parity policy left participants uncovered.
	ErrPartialCoverage = errors.New("matchcycle: partial coverage")
)

// ValidationError describes a single rejected input value.
type ValidationError struct {
	Field  string // dotted path of the offending value, e.g. "participants[3].id"
	Reason string // human readable cause
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("matchcycle: invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a *ValidationError with a formatted reason.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InfeasibleMatchingError is returned when no candidate pairing exists.
type InfeasibleMatchingError struct {
	Participants []string // eligible ids, sorted
}

func (e *InfeasibleMatchingError) Error() string {
	return fmt.Sprintf("matchcycle: infeasible matching: no candidate pairs among %d participants [%s]",
		len(e.Participants), strings.Join(e.Participants, ", "))
}

// Unwrap lets errors.Is(err, ErrInfeasible) succeed.
func (e *InfeasibleMatchingError) Unwrap() error { return ErrInfeasible }

// PartialCoverageError names the participants the parity policy could not place.
type PartialCoverageError struct {
	Uncovered []string // sorted
	Policy    string   // parity policy in effect
}

func (e *PartialCoverageError) Error() string {
	return fmt.Sprintf("matchcycle: partial coverage under %q policy: uncovered [%s]",
		e.Policy, strings.Join(e.Uncovered, ", "))
}

// Unwrap lets errors.Is(err, ErrPartialCoverage) succeed.
func (e *PartialCoverageError) Unwrap() error { return ErrPartialCoverage }
