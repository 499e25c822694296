package saga

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is one named stage of a multi-entity sequence.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Sequence executes steps strictly in order, stopping at the first failure and
// naming the step that failed. When the surrounding unit of work is
// transactional the whole sequence commits or rolls back together; otherwise
// the caller learns exactly how far the sequence got.
type Sequence struct {
	Name   string
	Logger *slog.Logger
}

func (s Sequence) Execute(ctx context.Context, steps []Step) error {
	for i, step := range steps {
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("saga %s: step %d (%s): %w", s.Name, i+1, step.Name, err)
		}
		if s.Logger != nil {
			s.Logger.Debug("saga step completed", "saga", s.Name, "step", step.Name)
		}
	}
	return nil
}
