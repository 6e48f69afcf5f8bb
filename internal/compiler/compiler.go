package compiler

import (
	"fmt"

	"github.com/tliron/commonlog"

	"trajectoryc/internal/engine"
	"trajectoryc/internal/errors"
	"trajectoryc/internal/expr"
	"trajectoryc/internal/grounder"
	"trajectoryc/internal/model"
)

var log = commonlog.GetLogger("compiler")

// Monitoring-atom name tags, by constraint kind.
const (
	HOLD      = "hold"
	SEEN_PHI  = "seen-phi"
	SEEN_PSI  = "seen-psi"
	SEPARATOR = "-"
)

// TrajectoryConstraintsRemover takes a problem that contains trajectory
// constraints and returns an equivalent grounded problem without them.
// Each constraint's semantics is encoded into a fresh boolean monitoring
// atom, extra conditional effects and preconditions on the grounded
// actions, and an augmented goal.
//
// The only supported compilation kind is TRAJECTORY_CONSTRAINTS_REMOVING.
type TrajectoryConstraintsRemover struct {
	monitoringAtoms map[*expr.Node]*expr.Node
	counter         int
}

var _ engine.Compiler = (*TrajectoryConstraintsRemover)(nil)

func NewTrajectoryConstraintsRemover() *TrajectoryConstraintsRemover {
	return &TrajectoryConstraintsRemover{}
}

func (c *TrajectoryConstraintsRemover) Name() string {
	return "TrajectoryConstraintsRemover"
}

func (c *TrajectoryConstraintsRemover) SupportsCompilation(kind engine.CompilationKind) bool {
	return kind == engine.TRAJECTORY_CONSTRAINTS_REMOVING
}

func (c *TrajectoryConstraintsRemover) Supports(kind model.ProblemKind) bool {
	return kind.LE(c.SupportedKind())
}

func (c *TrajectoryConstraintsRemover) SupportedKind() model.ProblemKind {
	return model.NewProblemKind(
		model.ACTION_BASED,
		model.FLAT_TYPING,
		model.HIERARCHICAL_TYPING,
		model.CONTINUOUS_NUMBERS,
		model.DISCRETE_NUMBERS,
		model.NUMERIC_FLUENTS,
		model.OBJECT_FLUENTS,
		model.NEGATIVE_CONDITIONS,
		model.DISJUNCTIVE_CONDITIONS,
		model.EQUALITY,
		model.EXISTENTIAL_CONDITIONS,
		model.UNIVERSAL_CONDITIONS,
		model.CONDITIONAL_EFFECTS,
		model.INCREASE_EFFECTS,
		model.DECREASE_EFFECTS,
		model.CONTINUOUS_TIME,
		model.DISCRETE_TIME,
		model.INTERMEDIATE_CONDITIONS_AND_EFFECTS,
		model.TIMED_EFFECT,
		model.TIMED_GOALS,
		model.DURATION_INEQUALITIES,
		model.SIMULATED_EFFECTS,
		model.TRAJECTORY_CONSTRAINTS,
	)
}

// Compile grounds the problem, rewrites every action against its relevant
// constraints and assembles the constraint-free problem. The input problem
// is never modified.
func (c *TrajectoryConstraintsRemover) Compile(problem *model.Problem, kind engine.CompilationKind) (*engine.CompilerResult, error) {
	if !c.SupportsCompilation(kind) {
		return nil, errors.UnsupportedCompilationKind(kind.String())
	}
	if !c.Supports(problem.Kind()) {
		return nil, errors.UnsupportedProblemFeature(c.Name(), missingFeatures(problem.Kind(), c.SupportedKind()))
	}

	grounding, err := grounder.NewGrounder().Ground(problem)
	if err != nil {
		return nil, errors.GroundingFailed(err)
	}

	c.monitoringAtoms = make(map[*expr.Node]*expr.Node)
	c.counter = 0

	prob := grounding.Problem.Clone()
	prob.Name = fmt.Sprintf("%s_%s", c.Name(), problem.Name)
	env := prob.Env()

	initial := prob.InitialAssignment()
	constraints, err := c.buildConstraintList(prob)
	if err != nil {
		return nil, err
	}
	log.Debugf("normalised %d trajectory constraints", len(constraints))

	relevancy := buildRelevancyDict(constraints)
	initialTrue, monitorFluents, err := c.allocateMonitors(env, constraints, initial)
	if err != nil {
		return nil, err
	}

	var landmarks []*expr.Node
	for _, lc := range landmarkConstraints(constraints) {
		landmarks = append(landmarks, c.monitoringAtoms[lc])
	}

	traceBack := make(map[string]grounder.Lifted)
	var kept []*model.InstantaneousAction
	pruned := 0
	for _, a := range prob.Actions() {
		origin := grounding.MapBack[a.Name]
		if err := c.rewriteAction(env, a, relevantConstraints(a, relevancy)); err != nil {
			return nil, err
		}
		if a.HasFalsePrecondition() {
			pruned++
			continue
		}
		kept = append(kept, a)
		traceBack[a.Name] = origin
	}

	newGoal := env.And(append(append([]*expr.Node(nil), prob.Goals()...), env.And(landmarks...))...).Simplify()
	prob.ClearGoals()
	prob.AddGoal(newGoal)
	prob.ClearTrajectoryConstraints()
	for _, f := range monitorFluents {
		prob.AddFluent(f)
	}
	prob.ClearActions()
	for _, a := range kept {
		prob.AddAction(a)
	}
	for _, atom := range initialTrue {
		prob.SetInitialValue(atom, env.TRUE())
	}

	log.Infof("compiled %s: %d monitors, %d actions kept, %d pruned",
		problem.Name, len(monitorFluents), len(kept), pruned)

	lift := func(ai model.ActionInstance) (model.ActionInstance, error) {
		origin, ok := traceBack[ai.Action.Name]
		if !ok {
			return model.ActionInstance{}, fmt.Errorf("action instance %s is unknown to the compiler", ai)
		}
		return model.ActionInstance{Action: origin.Action, Params: origin.Params}, nil
	}
	return &engine.CompilerResult{Problem: prob, LiftActionInstance: lift, EngineName: c.Name()}, nil
}

// rewriteAction applies the per-constraint rule table to one grounded
// action, appending the synthesised conditional effects and preconditions.
func (c *TrajectoryConstraintsRemover) rewriteAction(env *expr.Manager, a *model.InstantaneousAction, relevant []*expr.Node) error {
	var extra []model.Effect
	for _, constraint := range relevant {
		var precondition *expr.Node
		var toAdd bool
		var err error
		switch constraint.Kind() {
		case expr.ALWAYS:
			precondition, toAdd, err = manageAlways(env, constraint.Arg(0), a)
		case expr.AT_MOST_ONCE:
			precondition, toAdd, err = manageAtMostOnce(env, constraint.Arg(0), c.monitoringAtoms[constraint], a, &extra)
		case expr.SOMETIME_BEFORE:
			precondition, toAdd, err = manageSometimeBefore(env, constraint.Arg(0), constraint.Arg(1), c.monitoringAtoms[constraint], a, &extra)
		case expr.SOMETIME:
			err = manageSometime(env, constraint.Arg(0), c.monitoringAtoms[constraint], a, &extra)
		case expr.SOMETIME_AFTER:
			err = manageSometimeAfter(env, constraint.Arg(0), constraint.Arg(1), c.monitoringAtoms[constraint], a, &extra)
		default:
			err = errors.UnsupportedConstraint(constraint.String())
		}
		if err != nil {
			return err
		}
		if toAdd && !precondition.IsTrue() {
			a.AddPrecondition(precondition)
		}
	}
	for _, eff := range extra {
		a.AddEffect(eff)
	}
	if len(extra) > 0 {
		log.Debugf("action %s: %d monitor effects added", a.Name, len(extra))
	}
	return nil
}

func missingFeatures(kind, supported model.ProblemKind) []string {
	var out []string
	for _, f := range kind.Features() {
		if !supported.Has(f) {
			out = append(out, string(f))
		}
	}
	return out
}
