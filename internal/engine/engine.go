package engine

import (
	"trajectoryc/internal/model"
)

// CompilationKind identifies a problem-to-problem transformation.
type CompilationKind int

const (
	GROUNDING CompilationKind = iota
	TRAJECTORY_CONSTRAINTS_REMOVING
)

func (k CompilationKind) String() string {
	switch k {
	case GROUNDING:
		return "GROUNDING"
	case TRAJECTORY_CONSTRAINTS_REMOVING:
		return "TRAJECTORY_CONSTRAINTS_REMOVING"
	default:
		return "UNKNOWN"
	}
}

// Engine is anything with a stable name: compilers, planners, validators.
type Engine interface {
	Name() string
}

// Compiler transforms a problem into an equivalent problem, together with
// a function lifting plans of the compiled problem back to the original.
type Compiler interface {
	Engine
	SupportedKind() model.ProblemKind
	Supports(kind model.ProblemKind) bool
	SupportsCompilation(kind CompilationKind) bool
	Compile(problem *model.Problem, kind CompilationKind) (*CompilerResult, error)
}

// LiftActionInstance maps a grounded action instance of a compiled problem
// back to the original action with its actual parameters. Instances the
// compiler never produced yield an error.
type LiftActionInstance func(model.ActionInstance) (model.ActionInstance, error)

// CompilerResult carries a compilation's output problem, its plan lifter
// and the name of the engine that produced it.
type CompilerResult struct {
	Problem            *model.Problem
	LiftActionInstance LiftActionInstance
	EngineName         string
}

// LiftPlan maps a whole plan of the compiled problem back to the original
// problem through the result's lifter.
func (r *CompilerResult) LiftPlan(plan *model.SequentialPlan) (*model.SequentialPlan, error) {
	lifted := &model.SequentialPlan{Actions: make([]model.ActionInstance, len(plan.Actions))}
	for i, ai := range plan.Actions {
		up, err := r.LiftActionInstance(ai)
		if err != nil {
			return nil, err
		}
		lifted.Actions[i] = up
	}
	return lifted, nil
}
