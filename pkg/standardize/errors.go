// pkg/standardize/errors.go
package standardize

import (
	"errors"
	"fmt"
)

// ErrNoYearSource indicates the primary table carries neither a
// recognized year column nor an edition label to extract one from. The
// dataset cannot be year-filtered and the run must abort.
var ErrNoYearSource = errors.New("no usable year source for temporal subsetting")

// FailureClass categorizes pipeline failures by how they propagate
type FailureClass int

const (
	// FailureNone indicates no failure
	FailureNone FailureClass = iota
	// FailureDataQuality covers validator findings: reported, never fatal
	FailureDataQuality
	// FailureConfiguration covers structural problems with the rules or
	// dataset shape; the run aborts
	FailureConfiguration
	// FailureIO covers unreadable or undecodable input; the run aborts
	// before the pipeline starts
	FailureIO
)

// String returns a string representation of the failure class
func (fc FailureClass) String() string {
	switch fc {
	case FailureNone:
		return "None"
	case FailureDataQuality:
		return "DataQuality"
	case FailureConfiguration:
		return "Configuration"
	case FailureIO:
		return "IO"
	default:
		return fmt.Sprintf("Unknown(%d)", fc)
	}
}

// PipelineError wraps a stage failure with its class and origin
type PipelineError struct {
	Stage string
	Class FailureClass
	Err   error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// newStageError wraps an error as a pipeline stage failure
func newStageError(stage string, class FailureClass, err error) *PipelineError {
	return &PipelineError{Stage: stage, Class: class, Err: err}
}
