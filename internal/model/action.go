package model

import "trajectoryc/internal/expr"

// Effect assigns Value to Fluent when Condition holds in the state the
// action is applied in. Unconditional effects carry the TRUE condition.
type Effect struct {
	Condition *expr.Node
	Fluent    *expr.Node
	Value     *expr.Node
}

// IsConditional reports whether the effect only fires under a non-trivial
// condition.
func (e Effect) IsConditional() bool { return !e.Condition.IsTrue() }

// InstantaneousAction is a classical action: it fires atomically, guarded
// by its preconditions, applying its effects simultaneously.
type InstantaneousAction struct {
	Name          string
	Parameters    []expr.Param
	preconditions []*expr.Node
	effects       []Effect
}

func NewInstantaneousAction(name string, params ...expr.Param) *InstantaneousAction {
	return &InstantaneousAction{Name: name, Parameters: params}
}

func (a *InstantaneousAction) Preconditions() []*expr.Node { return a.preconditions }
func (a *InstantaneousAction) Effects() []Effect           { return a.effects }

func (a *InstantaneousAction) AddPrecondition(p *expr.Node) {
	a.preconditions = append(a.preconditions, p)
}

func (a *InstantaneousAction) AddEffect(eff Effect) {
	a.effects = append(a.effects, eff)
}

// HasFalsePrecondition reports whether the literal FALSE is among the
// action's preconditions, which marks the action for pruning.
func (a *InstantaneousAction) HasFalsePrecondition() bool {
	for _, p := range a.preconditions {
		if p.IsFalse() {
			return true
		}
	}
	return false
}

// Clone copies the action. Formulas are immutable and shared.
func (a *InstantaneousAction) Clone() *InstantaneousAction {
	clone := &InstantaneousAction{
		Name:       a.Name,
		Parameters: append([]expr.Param(nil), a.Parameters...),
	}
	clone.preconditions = append([]*expr.Node(nil), a.preconditions...)
	clone.effects = append([]Effect(nil), a.effects...)
	return clone
}
