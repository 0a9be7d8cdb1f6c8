package saga

import (
	"context"
	"fmt"
)

// Step is one unit of a two-phase external write. Compensate undoes Do and
// runs only for steps that already completed when a later step fails.
type Step struct {
	Name       string
	Do         func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

type Saga struct {
	steps []Step
}

func New(steps ...Step) *Saga {
	return &Saga{steps: steps}
}

// Run executes the steps in order. On failure the compensations of all
// completed steps run in reverse order; compensation failures are dropped,
// the original step error is returned.
func (s *Saga) Run(ctx context.Context) error {
	done := make([]Step, 0, len(s.steps))

	for _, step := range s.steps {
		if step.Do == nil {
			continue
		}
		if err := step.Do(ctx); err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				if done[i].Compensate != nil {
					_ = done[i].Compensate(ctx)
				}
			}
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		done = append(done, step)
	}

	return nil
}
