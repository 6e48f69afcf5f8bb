package solver

import (
	"context"

	"trajectoryc/internal/engine"
	"trajectoryc/internal/model"
)

// AnytimeSolver iterates a bounded-cost planner: each solution's length
// becomes the next call's strict bound, so the stream has increasing
// quality. Planners without a {bound} placeholder yield a single result.
type AnytimeSolver struct {
	inner *PDDLSolver
}

var _ engine.AnytimePlanner = (*AnytimeSolver)(nil)

func NewAnytimeSolver(name string, config PlannerConfig) *AnytimeSolver {
	return &AnytimeSolver{inner: NewPDDLSolver(name, config)}
}

func (s *AnytimeSolver) Name() string { return s.inner.Name() }

func (s *AnytimeSolver) Ensures(guarantee engine.AnytimeGuarantee) bool {
	return guarantee == engine.INCREASING_QUALITY && s.inner.config.SupportsBound()
}

// Solutions streams plans until the planner stops improving, the problem
// is proven unsolvable under the bound, or the context ends. The channel
// is closed when the stream is exhausted.
func (s *AnytimeSolver) Solutions(ctx context.Context, problem *model.Problem) (<-chan engine.PlanGenerationResult, error) {
	out := make(chan engine.PlanGenerationResult)
	go func() {
		defer close(out)
		bound := -1
		for {
			result, err := s.inner.solveBounded(ctx, problem, bound)
			if err != nil {
				log.Errorf("anytime iteration failed: %v", err)
				result = &engine.PlanGenerationResult{Status: engine.INTERNAL_ERROR, EngineName: s.Name()}
			}
			select {
			case out <- *result:
			case <-ctx.Done():
				return
			}
			if result.Plan == nil || !s.inner.config.SupportsBound() {
				return
			}
			if len(result.Plan.Actions) == 0 {
				return
			}
			bound = len(result.Plan.Actions) - 1
		}
	}()
	return out, nil
}
