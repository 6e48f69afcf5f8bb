package model

import (
	"fmt"

	"trajectoryc/internal/expr"
)

// State is a total truth assignment over a grounded problem's boolean
// atoms: each 0-arity fluent application maps to TRUE or FALSE.
type State map[*expr.Node]*expr.Node

// InitialState builds the problem's initial state.
func (p *Problem) InitialState() State {
	return State(p.InitialAssignment())
}

// Eval evaluates a ground formula in the state: atoms are substituted with
// their truth values and the result simplified to a constant.
func (s State) Eval(f *expr.Node) (bool, error) {
	v := f.Substitute(s).Simplify()
	if !v.IsBoolConstant() {
		return false, fmt.Errorf("formula %s does not evaluate to a constant", f)
	}
	return v.IsTrue(), nil
}

// Apply executes one grounded action in the state: preconditions are
// checked, then all effect conditions are evaluated against the current
// state and the fired assignments produce the successor.
func (s State) Apply(a *InstantaneousAction) (State, error) {
	for _, pre := range a.Preconditions() {
		holds, err := s.Eval(pre)
		if err != nil {
			return nil, err
		}
		if !holds {
			return nil, fmt.Errorf("action %s is not applicable: precondition %s does not hold", a.Name, pre)
		}
	}
	next := make(State, len(s))
	for atom, v := range s {
		next[atom] = v
	}
	for _, eff := range a.Effects() {
		fires, err := s.Eval(eff.Condition)
		if err != nil {
			return nil, err
		}
		if !fires {
			continue
		}
		value, err := s.Eval(eff.Value)
		if err != nil {
			return nil, err
		}
		next[eff.Fluent] = eff.Fluent.Manager().Bool(value)
	}
	return next, nil
}

// Trace executes a plan from the initial state and returns the full state
// sequence, initial state included.
func (p *Problem) Trace(plan *SequentialPlan) ([]State, error) {
	states := []State{p.InitialState()}
	for i, ai := range plan.Actions {
		action := p.Action(ai.Action.Name)
		if action == nil {
			return nil, fmt.Errorf("plan step %d: problem has no action %q", i, ai.Action.Name)
		}
		next, err := states[len(states)-1].Apply(action)
		if err != nil {
			return nil, fmt.Errorf("plan step %d: %w", i, err)
		}
		states = append(states, next)
	}
	return states, nil
}
