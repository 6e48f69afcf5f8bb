package grounder

import (
	"fmt"

	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// Grounder instantiates every lifted action of a problem over the
// Cartesian product of its parameters' type-compatible objects, producing
// an equivalent grounded problem. Lifted fluents become distinct 0-arity
// atoms; instances whose preconditions are statically false are dropped.
type Grounder struct{}

func NewGrounder() *Grounder { return &Grounder{} }

func (g *Grounder) Name() string { return "Grounder" }

// Lifted names the original of a ground action: the lifted action and the
// actual parameters it was instantiated with.
type Lifted struct {
	Action *model.InstantaneousAction
	Params []*expr.Node
}

// Result carries the grounded problem and the reverse mapping from ground
// action name to its lifted origin.
type Result struct {
	Problem *model.Problem
	MapBack map[string]Lifted
}

// Ground compiles the problem to its grounded form.
func (g *Grounder) Ground(problem *model.Problem) (*Result, error) {
	env := problem.Env()
	out := model.NewProblem(problem.Name, env)
	for _, t := range problem.Types() {
		out.AddType(t)
	}
	for _, o := range problem.Objects() {
		out.AddObject(o)
	}

	for _, f := range problem.Fluents() {
		if f.Arity() == 0 {
			out.AddFluent(f)
			continue
		}
		for _, binding := range bindings(env, problem, f.Parameters) {
			names := argNames(f.Parameters, binding)
			out.AddFluent(&model.Fluent{Name: expr.GroundName(f.Name, names), Type: f.Type})
		}
	}

	for key, value := range problem.InitialValues() {
		out.SetInitialValue(key.GroundAtoms(), value.GroundAtoms())
	}

	mapBack := make(map[string]Lifted)
	for _, a := range problem.Actions() {
		for _, binding := range bindings(env, problem, a.Parameters) {
			ground, err := instantiate(a, binding)
			if err != nil {
				return nil, err
			}
			if ground == nil {
				continue
			}
			if out.Action(ground.Name) != nil {
				return nil, fmt.Errorf("duplicate ground action %q", ground.Name)
			}
			out.AddAction(ground)
			params := make([]*expr.Node, 0, len(a.Parameters))
			for _, p := range a.Parameters {
				params = append(params, binding[p.Name])
			}
			mapBack[ground.Name] = Lifted{Action: a, Params: params}
		}
	}

	for _, goal := range problem.Goals() {
		out.AddGoal(goal.GroundAtoms())
	}
	for _, c := range problem.TrajectoryConstraints() {
		out.AddTrajectoryConstraint(c.GroundAtoms())
	}
	return &Result{Problem: out, MapBack: mapBack}, nil
}

// instantiate builds one ground instance of the action under the binding,
// or nil when a precondition is statically false.
func instantiate(a *model.InstantaneousAction, binding map[string]*expr.Node) (*model.InstantaneousAction, error) {
	names := argNames(a.Parameters, binding)
	ground := model.NewInstantaneousAction(expr.GroundName(a.Name, names))
	for _, pre := range a.Preconditions() {
		p := pre.SubstituteParams(binding).GroundAtoms().Simplify()
		if p.IsFalse() {
			return nil, nil
		}
		if p.IsTrue() {
			continue
		}
		ground.AddPrecondition(p)
	}
	for _, eff := range a.Effects() {
		cond := eff.Condition.SubstituteParams(binding).GroundAtoms().Simplify()
		if cond.IsFalse() {
			continue
		}
		fluent := eff.Fluent.SubstituteParams(binding).GroundAtoms()
		if !fluent.IsFluentExp() {
			return nil, fmt.Errorf("action %s: effect target %s is not a fluent", a.Name, fluent)
		}
		value := eff.Value.SubstituteParams(binding).GroundAtoms().Simplify()
		ground.AddEffect(model.Effect{Condition: cond, Fluent: fluent, Value: value})
	}
	return ground, nil
}

// bindings enumerates all assignments of the parameters to objects of
// their types, in declaration order.
func bindings(env *expr.Manager, problem *model.Problem, params []expr.Param) []map[string]*expr.Node {
	out := []map[string]*expr.Node{{}}
	for _, p := range params {
		var next []map[string]*expr.Node
		for _, b := range out {
			for _, obj := range problem.Universe(p.Type) {
				extended := make(map[string]*expr.Node, len(b)+1)
				for k, v := range b {
					extended[k] = v
				}
				extended[p.Name] = env.ObjectExp(obj, p.Type)
				next = append(next, extended)
			}
		}
		out = next
	}
	return out
}

func argNames(params []expr.Param, binding map[string]*expr.Node) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = binding[p.Name].Name()
	}
	return names
}
