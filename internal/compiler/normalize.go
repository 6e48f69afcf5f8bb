package compiler

import (
	"trajectoryc/internal/errors"
	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// buildConstraintList flattens the problem's trajectory constraints into a
// list of normalised constraint atoms: the top-level conjunction is split,
// universal quantifiers are expanded over the problem's finite object
// domains, and the result split again. Every element must be one of the
// five constraint kinds; existentials are rejected.
func (c *TrajectoryConstraintsRemover) buildConstraintList(prob *model.Problem) ([]*expr.Node, error) {
	env := prob.Env()
	conjoined := env.And(prob.TrajectoryConstraints()...).Simplify()

	var expanded []*expr.Node
	for _, element := range splitConjunction(conjoined) {
		if element.IsExists() {
			return nil, errors.UnsupportedConstraint(element.String())
		}
		flat, err := element.ExpandUniversals(prob.Universe)
		if err != nil {
			return nil, errors.UnsupportedConstraint(element.String())
		}
		expanded = append(expanded, flat)
	}

	var out []*expr.Node
	for _, element := range splitConjunction(env.And(expanded...).Simplify()) {
		if element.IsTrue() {
			continue
		}
		if !element.IsTrajectoryConstraint() {
			return nil, errors.UnsupportedConstraint(element.String())
		}
		out = append(out, element)
	}
	return out, nil
}

// splitConjunction returns the operands of a top-level conjunction, or the
// formula itself as a singleton.
func splitConjunction(n *expr.Node) []*expr.Node {
	if n.IsAnd() {
		return n.Args()
	}
	return []*expr.Node{n}
}
