package hemis

import (
	"errors"
	"time"

	"lgdhemis/internal/pathmap"
)

var (
	// ErrPanic wraps a recovered panic from a subject's processing.
	ErrPanic = errors.New("panic during subject processing")
	// ErrMissingOutput means the extraction tool exited zero without writing a mask.
	ErrMissingOutput = errors.New("hemisphere mask not written")
)

// State tracks how far a subject progressed through the pipeline.
type State int

const (
	StatePending State = iota
	StateReferenceResolved
	StateWorkspaceReady
	StateMaskAndClassified
	StateExtractionInvoked
	StateSucceeded
	StateFailed
)

var stateNames = [...]string{
	StatePending:           "pending",
	StateReferenceResolved: "reference_resolved",
	StateWorkspaceReady:    "workspace_ready",
	StateMaskAndClassified: "mask_and_classified",
	StateExtractionInvoked: "extraction_invoked",
	StateSucceeded:         "succeeded",
	StateFailed:            "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Result is the outcome of processing one subject.
type Result struct {
	Pair      pathmap.Pair
	Reference string
	Left      string
	Right     string
	State     State
	// FailedAt is the last state reached before the failure.
	FailedAt State
	Err      error
	Duration time.Duration
}

// OK reports whether both hemisphere masks were produced.
func (r Result) OK() bool {
	return r.State == StateSucceeded && r.Err == nil
}

func (r *Result) advance(s State) {
	r.State = s
}

func (r *Result) fail(err error) {
	if r.State != StateFailed {
		r.FailedAt = r.State
	}
	r.State = StateFailed
	r.Err = err
}
