// Package engine defines the contract with the external automation engine:
// an LLM-driven task executor that takes a natural-language instruction and
// returns an opaque run handle.
package engine

import (
	"context"
	"strings"
)

// AccessDeniedMessage is the user-facing replacement for engine failures
// caused by missing or rejected GitHub credentials.
const AccessDeniedMessage = "GitHub access denied. Please authenticate with GitHub to enable automation."

// RunHandle is the engine's reference to a completed or started run.
type RunHandle struct {
	// ID is the engine's identifier for the run. May be empty.
	ID string
	// Outputs is the engine's free-form result, if it reported one.
	Outputs string
}

// Engine executes a natural-language task. Implementations must be safe for
// concurrent use; every dispatched job calls Run from its own worker.
type Engine interface {
	Run(ctx context.Context, task string) (*RunHandle, error)
}

// FailureKind categorizes an engine failure so callers do not have to sniff
// error strings.
type FailureKind int

const (
	// FailureOther covers everything the engine could not classify.
	FailureOther FailureKind = iota
	// FailureAccessDenied means the engine was refused access to GitHub,
	// typically a 401/403 from the API.
	FailureAccessDenied
)

// RunError is a typed engine failure.
type RunError struct {
	Kind FailureKind
	Err  error
}

func (e *RunError) Error() string { return e.Err.Error() }
func (e *RunError) Unwrap() error { return e.Err }

// ClassifyMessage maps a raw engine error message to the user-facing message
// stored in the automation record. It is the fallback for engines that return
// untyped errors: messages mentioning 401, 403 or access are treated as
// access failures, everything else passes through unchanged.
func ClassifyMessage(msg string) string {
	if strings.Contains(msg, "403") || strings.Contains(msg, "401") ||
		strings.Contains(strings.ToLower(msg), "access") {
		return AccessDeniedMessage
	}
	return msg
}
