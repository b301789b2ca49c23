package pipeline

import "fmt"

// Stage identifies where in the run a pipeline currently is, or where it
// failed. Transitions are strictly sequential and non-resumable.
type Stage string

const (
	StageExtracting     Stage = "extracting"
	StageClassifying    Stage = "classifying"
	StageTranslating    Stage = "translating"
	StageReconstructing Stage = "reconstructing"
	StageDone           Stage = "done"
)

// Error tags the first failure of a run with the stage at which it occurred.
// All pipeline failures are unrecoverable at this level; the caller marks the
// enclosing job as failed.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline failed while %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// failed wraps err with its stage.
func failed(stage Stage, err error) *Error {
	return &Error{Stage: stage, Err: err}
}
