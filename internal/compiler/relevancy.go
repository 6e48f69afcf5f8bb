package compiler

import (
	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// buildRelevancyDict maps each fluent atom to the constraints mentioning
// it, in constraint order. An action is relevant to a constraint iff one
// of its effects writes a fluent the constraint mentions.
func buildRelevancyDict(constraints []*expr.Node) map[*expr.Node][]*expr.Node {
	dict := make(map[*expr.Node][]*expr.Node)
	for _, c := range constraints {
		for _, atom := range c.FreeFluents() {
			dict[atom] = append(dict[atom], c)
		}
	}
	return dict
}

// relevantConstraints returns the ordered set of constraints relevant to
// the action's effects, without duplicates.
func relevantConstraints(a *model.InstantaneousAction, dict map[*expr.Node][]*expr.Node) []*expr.Node {
	var out []*expr.Node
	seen := make(map[int]bool)
	for _, eff := range a.Effects() {
		for _, c := range dict[eff.Fluent] {
			if seen[c.ID()] {
				continue
			}
			seen[c.ID()] = true
			out = append(out, c)
		}
	}
	return out
}
