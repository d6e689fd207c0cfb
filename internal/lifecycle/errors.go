package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the acting identity does not own the target.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the target does not exist or is hidden by an
	// ownership check. Ownership failures on content entities surface as
	// not-found so callers cannot probe for entities they do not own.
	ErrNotFound = errors.New("not found")
)

// UpstreamError reports that the persistence collaborator failed during a
// named step. Callers get the step name only; the cause is logged server-side.
type UpstreamError struct {
	Step string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure during %s: %v", e.Step, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
