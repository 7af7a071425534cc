package review

import (
	"errors"
	"fmt"
)

// Fatal pipeline errors. Only transient backend failures are retried; all
// of these propagate to the orchestrator, which still runs cleanup.
var (
	// ErrRaggedDocument: a paged format could not be split on structural
	// boundaries without corrupting the fragments.
	ErrRaggedDocument = errors.New("document cannot be split without corruption")

	// ErrPayloadTooLarge: the document exceeds backend limits even after
	// chunking. No further splitting is attempted.
	ErrPayloadTooLarge = errors.New("payload exceeds backend size limits")

	// ErrNoStructuredBlock: the model response contains no tab-delimited
	// table block.
	ErrNoStructuredBlock = errors.New("no structured block found in model response")

	// ErrAmbiguousStructuredBlock: two or more candidate blocks of equal
	// maximal row count; refusing to guess.
	ErrAmbiguousStructuredBlock = errors.New("multiple equally sized structured blocks in model response")

	// ErrMalformedRow: a row's column count differs from the first data
	// row and strict parsing is in effect.
	ErrMalformedRow = errors.New("row width differs from first data row")

	// ErrOutOfBounds: the write rectangle does not fit inside the target
	// sheet's dimensions.
	ErrOutOfBounds = errors.New("write rectangle exceeds sheet dimensions")
)

// Phase names a pipeline stage for error reporting.
type Phase string

const (
	PhasePrepareKnowledge Phase = "prepare knowledge base"
	PhaseBuildSession     Phase = "build session"
	PhaseAnalyze          Phase = "analyze"
	PhaseReport           Phase = "report"
	PhaseCleanup          Phase = "cleanup"
)

// PhaseError attaches the failing phase to the underlying cause so the
// operator can tell where a run died.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("phase %q: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

func failPhase(phase Phase, err error) error {
	return &PhaseError{Phase: phase, Err: err}
}
