// Package translate dispatches text blocks to a remote translation backend.
// All network interaction of the pipeline is confined to this package.
package translate

import (
	"context"
	"fmt"
)

// Backend is the contract for the external translation service: one
// operation, invoked once per eligible block. Language identifiers are
// free-form strings matched by the backend's own vocabulary; they are passed
// through without validation or normalization. Implementations must be safe
// for sequential reuse across calls.
type Backend interface {
	Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error)
}

// FailureKind distinguishes why a backend call failed.
type FailureKind int

const (
	// FailureRemote covers remote-side errors: non-2xx responses, explicit
	// error events, and non-timeout transport failures.
	FailureRemote FailureKind = iota
	// FailureTimeout covers deadline and network timeout failures.
	FailureTimeout
	// FailureMalformed covers responses the client could not interpret.
	FailureMalformed
)

// String names the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "timeout"
	case FailureMalformed:
		return "malformed response"
	default:
		return "remote error"
	}
}

// BackendError is a typed backend-call failure carrying a distinguishable
// cause instead of one generic error.
type BackendError struct {
	Kind FailureKind
	Err  error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("backend %s", e.Kind)
}

func (e *BackendError) Unwrap() error { return e.Err }

// TranslationError aborts a run: the backend call for one block failed or
// returned an unusable result. Block is the zero-based index within the
// dispatched sequence.
type TranslationError struct {
	Block int
	Err   error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translating block %d: %v", e.Block, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }
