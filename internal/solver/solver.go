package solver

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tliron/commonlog"

	"trajectoryc/internal/engine"
	"trajectoryc/internal/model"
	"trajectoryc/internal/pddl"
)

var log = commonlog.GetLogger("solver")

// PDDLSolver drives an external file-based PDDL planner: it writes the
// domain and problem files to a scratch directory, invokes the configured
// command and parses the produced plan file.
type PDDLSolver struct {
	name   string
	config PlannerConfig
}

var _ engine.OneshotPlanner = (*PDDLSolver)(nil)

func NewPDDLSolver(name string, config PlannerConfig) *PDDLSolver {
	return &PDDLSolver{name: name, config: config}
}

func (s *PDDLSolver) Name() string { return s.name }

// Solve runs the planner once.
func (s *PDDLSolver) Solve(ctx context.Context, problem *model.Problem) (*engine.PlanGenerationResult, error) {
	return s.solveBounded(ctx, problem, -1)
}

func (s *PDDLSolver) solveBounded(ctx context.Context, problem *model.Problem, bound int) (*engine.PlanGenerationResult, error) {
	dir, err := os.MkdirTemp("", "trajectoryc-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	domainFile := filepath.Join(dir, "domain.pddl")
	problemFile := filepath.Join(dir, "problem.pddl")
	planFile := filepath.Join(dir, "plan.txt")

	w := pddl.NewWriter(problem)
	if err := w.WriteDomainFile(domainFile); err != nil {
		return nil, err
	}
	if err := w.WriteProblemFile(problemFile); err != nil {
		return nil, err
	}

	argv := s.config.argv(domainFile, problemFile, planFile, bound)
	log.Infof("running %s: %v", s.name, argv)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, runErr := cmd.CombinedOutput()

	if ctx.Err() != nil {
		return &engine.PlanGenerationResult{Status: engine.TIMEOUT, EngineName: s.name}, nil
	}

	planSource, readErr := os.ReadFile(planFile)
	if readErr != nil {
		if !errors.Is(readErr, os.ErrNotExist) {
			return nil, readErr
		}
		// No plan file: a clean exit means the planner proved the problem
		// unsolvable, anything else is a planner failure.
		if runErr != nil {
			log.Errorf("%s failed: %v\n%s", s.name, runErr, output)
			return &engine.PlanGenerationResult{Status: engine.INTERNAL_ERROR, EngineName: s.name}, nil
		}
		return &engine.PlanGenerationResult{Status: engine.UNSOLVABLE_PROVEN, EngineName: s.name}, nil
	}

	plan, err := pddl.ParsePlan(problem, planFile, string(planSource))
	if err != nil {
		return nil, err
	}
	log.Infof("%s found a plan with %d steps", s.name, len(plan.Actions))
	return &engine.PlanGenerationResult{
		Status:     engine.SOLVED_SATISFICING,
		Plan:       plan,
		EngineName: s.name,
	}, nil
}
