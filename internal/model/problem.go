package model

import (
	"fmt"

	"trajectoryc/internal/expr"
)

// Problem is an action-based planning problem: fluents, objects, actions,
// explicit initial values, goals and trajectory constraints. A boolean
// fluent with no explicit initial value is false.
type Problem struct {
	Name string

	env *expr.Manager

	types   []*Type
	objects []*Object
	fluents []*Fluent
	actions []*InstantaneousAction

	fluentIndex map[string]*Fluent
	actionIndex map[string]*InstantaneousAction
	typeIndex   map[string]*Type

	initialValues map[*expr.Node]*expr.Node
	goals         []*expr.Node
	constraints   []*expr.Node
}

func NewProblem(name string, env *expr.Manager) *Problem {
	return &Problem{
		Name:          name,
		env:           env,
		fluentIndex:   make(map[string]*Fluent),
		actionIndex:   make(map[string]*InstantaneousAction),
		typeIndex:     make(map[string]*Type),
		initialValues: make(map[*expr.Node]*expr.Node),
	}
}

func (p *Problem) Env() *expr.Manager { return p.env }

func (p *Problem) AddType(t *Type) {
	p.types = append(p.types, t)
	p.typeIndex[t.Name] = t
}

func (p *Problem) Type(name string) *Type { return p.typeIndex[name] }
func (p *Problem) Types() []*Type         { return p.types }

func (p *Problem) AddObject(o *Object) {
	p.objects = append(p.objects, o)
}

func (p *Problem) Objects() []*Object { return p.objects }

// Object looks an object up by name.
func (p *Problem) Object(name string) (*Object, error) {
	for _, o := range p.objects {
		if o.Name == name {
			return o, nil
		}
	}
	return nil, fmt.Errorf("unknown object %q", name)
}

// Universe enumerates the objects of a type, including subtypes, in
// declaration order. The PDDL root type "object" covers every object.
// Satisfies expr.Universe.
func (p *Problem) Universe(typeName string) []string {
	if typeName == "" || typeName == "object" {
		out := make([]string, len(p.objects))
		for i, o := range p.objects {
			out[i] = o.Name
		}
		return out
	}
	t := p.typeIndex[typeName]
	var out []string
	for _, o := range p.objects {
		if t == nil {
			if o.Type == nil || o.Type.Name == typeName {
				out = append(out, o.Name)
			}
			continue
		}
		if o.Type != nil && o.Type.IsSubtypeOf(t) {
			out = append(out, o.Name)
		}
	}
	return out
}

func (p *Problem) AddFluent(f *Fluent) {
	p.fluents = append(p.fluents, f)
	p.fluentIndex[f.Name] = f
}

func (p *Problem) Fluent(name string) *Fluent { return p.fluentIndex[name] }
func (p *Problem) Fluents() []*Fluent         { return p.fluents }

func (p *Problem) AddAction(a *InstantaneousAction) {
	p.actions = append(p.actions, a)
	p.actionIndex[a.Name] = a
}

func (p *Problem) ClearActions() {
	p.actions = nil
	p.actionIndex = make(map[string]*InstantaneousAction)
}

func (p *Problem) Action(name string) *InstantaneousAction { return p.actionIndex[name] }
func (p *Problem) Actions() []*InstantaneousAction         { return p.actions }

// SetInitialValue records the initial value of a fluent application.
func (p *Problem) SetInitialValue(fluent, value *expr.Node) {
	p.initialValues[fluent] = value
}

// InitialValue returns the explicit initial value of a fluent application,
// or nil when none was set.
func (p *Problem) InitialValue(fluent *expr.Node) *expr.Node {
	return p.initialValues[fluent]
}

func (p *Problem) InitialValues() map[*expr.Node]*expr.Node { return p.initialValues }

// InitialAssignment builds the total truth assignment of the grounded
// initial state: every 0-arity boolean fluent maps to TRUE or FALSE, with
// absence meaning false.
func (p *Problem) InitialAssignment() map[*expr.Node]*expr.Node {
	assignment := make(map[*expr.Node]*expr.Node, len(p.fluents))
	for _, f := range p.fluents {
		if f.Arity() != 0 || f.Type != BOOL_TYPE {
			continue
		}
		atom := p.env.FluentExp(f.Name)
		if v := p.initialValues[atom]; v != nil && v.IsTrue() {
			assignment[atom] = p.env.TRUE()
		} else {
			assignment[atom] = p.env.FALSE()
		}
	}
	return assignment
}

// AddGoal appends a goal. The TRUE constant is trivially satisfied and is
// not recorded.
func (p *Problem) AddGoal(g *expr.Node) {
	if g.IsTrue() {
		return
	}
	p.goals = append(p.goals, g)
}

func (p *Problem) ClearGoals() { p.goals = nil }

func (p *Problem) Goals() []*expr.Node { return p.goals }

func (p *Problem) AddTrajectoryConstraint(c *expr.Node) {
	p.constraints = append(p.constraints, c)
}

func (p *Problem) ClearTrajectoryConstraints() { p.constraints = nil }

func (p *Problem) TrajectoryConstraints() []*expr.Node { return p.constraints }

// Clone deep-copies the problem. Actions and containers are copied;
// formulas are immutable and shared with the original.
func (p *Problem) Clone() *Problem {
	clone := NewProblem(p.Name, p.env)
	clone.types = append([]*Type(nil), p.types...)
	for name, t := range p.typeIndex {
		clone.typeIndex[name] = t
	}
	clone.objects = append([]*Object(nil), p.objects...)
	for _, f := range p.fluents {
		clone.AddFluent(f)
	}
	for _, a := range p.actions {
		clone.AddAction(a.Clone())
	}
	for k, v := range p.initialValues {
		clone.initialValues[k] = v
	}
	clone.goals = append([]*expr.Node(nil), p.goals...)
	clone.constraints = append([]*expr.Node(nil), p.constraints...)
	return clone
}

// Kind computes the feature set this problem requires.
func (p *Problem) Kind() ProblemKind {
	kind := NewProblemKind(ACTION_BASED)
	if len(p.types) > 0 {
		kind.Set(FLAT_TYPING)
		for _, t := range p.types {
			if t.Parent != nil {
				kind.Set(HIERARCHICAL_TYPING)
				break
			}
		}
	}
	for _, f := range p.fluents {
		if f.Type != BOOL_TYPE {
			kind.Set(NUMERIC_FLUENTS)
			kind.Set(DISCRETE_NUMBERS)
		}
	}
	var conditions []*expr.Node
	for _, a := range p.actions {
		for _, pre := range a.Preconditions() {
			conditions = append(conditions, pre)
		}
		for _, eff := range a.Effects() {
			if eff.IsConditional() {
				kind.Set(CONDITIONAL_EFFECTS)
				conditions = append(conditions, eff.Condition)
			}
		}
	}
	conditions = append(conditions, p.goals...)
	conditions = append(conditions, p.constraints...)
	for _, c := range conditions {
		scanConditionKind(c, &kind)
	}
	if len(p.constraints) > 0 {
		kind.Set(TRAJECTORY_CONSTRAINTS)
	}
	return kind
}

func scanConditionKind(n *expr.Node, kind *ProblemKind) {
	switch n.Kind() {
	case expr.NOT:
		kind.Set(NEGATIVE_CONDITIONS)
	case expr.OR, expr.IMPLIES:
		kind.Set(DISJUNCTIVE_CONDITIONS)
	case expr.EXISTS:
		kind.Set(EXISTENTIAL_CONDITIONS)
	case expr.FORALL:
		kind.Set(UNIVERSAL_CONDITIONS)
	}
	for _, a := range n.Args() {
		scanConditionKind(a, kind)
	}
}
