package sink

import (
	"context"
	"fmt"

	"github.com/goliatone/go-evalform/pkg/wizard"
)

// Multi delivers to each sink in order and stops at the first failure, so a
// retry never skips a sink that has not seen the submission yet. Sinks placed
// earlier may therefore see a submission more than once.
func Multi(sinks ...wizard.Sink) wizard.Sink {
	filtered := make([]wizard.Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return multi(filtered)
}

type multi []wizard.Sink

func (m multi) Submit(ctx context.Context, submission wizard.Submission) error {
	for i, s := range m {
		if err := s.Submit(ctx, submission); err != nil {
			return fmt.Errorf("sink %d: %w", i, err)
		}
	}
	return nil
}

// Discard accepts every submission and drops it.
var Discard wizard.Sink = wizard.SinkFunc(func(context.Context, wizard.Submission) error { return nil })
