package lifecycle

import (
	"context"
	"fmt"
	"log"
)

type stepMode int

const (
	// stepFatal aborts the operation on failure; later steps never run.
	stepFatal stepMode = iota

	// stepBestEffort records a warning on failure and keeps going.
	stepBestEffort
)

type step struct {
	name string
	mode stepMode
	run  func(ctx context.Context) error
}

// runSteps executes steps in order. A fatal step failure stops the sequence
// and is returned as an UpstreamError; best-effort failures are logged with
// detail and collected as caller-safe warnings.
func runSteps(ctx context.Context, steps []step) ([]string, error) {
	var warnings []string

	for _, st := range steps {
		err := st.run(ctx)
		if err == nil {
			continue
		}

		if st.mode == stepFatal {
			log.Printf("lifecycle: step %q failed: %v", st.name, err)
			return warnings, &UpstreamError{Step: st.name, Err: err}
		}

		log.Printf("lifecycle: best-effort step %q failed: %v", st.name, err)
		warnings = append(warnings, fmt.Sprintf("%s did not complete; retry the operation to finish it", st.name))
	}

	return warnings, nil
}
