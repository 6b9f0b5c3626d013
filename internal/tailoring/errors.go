package tailoring

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable marks an AI call that failed at the call boundary.
// It routes the section to the next stage and is never returned by Tailor.
var ErrBackendUnavailable = errors.New("AI backend unavailable")

// PipelineError is the terminal failure of a tailoring run. It is only
// returned when reconstructing or rescoring the tailored text fails.
type PipelineError struct {
	Stage  string
	Reason string
	Cause  error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tailoring failed during %s: %s: %v", e.Stage, e.Reason, e.Cause)
	}
	return fmt.Sprintf("tailoring failed during %s: %s", e.Stage, e.Reason)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}
