package compiler

import (
	"fmt"

	"trajectoryc/internal/errors"
	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// allocateMonitors walks the normalised constraints in order, allocating
// one fresh boolean monitoring atom per non-always constraint, evaluating
// its initial truth, and rejecting the two initial-state violations the
// compiler can detect: an always with a false argument and a
// sometime-before whose phi already holds.
func (c *TrajectoryConstraintsRemover) allocateMonitors(env *expr.Manager, constraints []*expr.Node, initial map[*expr.Node]*expr.Node) ([]*expr.Node, []*model.Fluent, error) {
	var initialTrue []*expr.Node
	var fluents []*model.Fluent
	for _, constraint := range constraints {
		if constraint.IsAlways() {
			holds, err := evalAtInit(constraint.Arg(0), initial)
			if err != nil {
				return nil, nil, err
			}
			if !holds {
				return nil, nil, errors.InitialStateViolation("always")
			}
			continue
		}

		tag, initValue, err := evaluateConstraint(constraint, initial)
		if err != nil {
			return nil, nil, err
		}
		fluent := &model.Fluent{
			Name: fmt.Sprintf("%s%s%d", tag, SEPARATOR, c.counter),
			Type: model.BOOL_TYPE,
		}
		fluents = append(fluents, fluent)
		atom := env.FluentExp(fluent.Name)
		c.monitoringAtoms[constraint] = atom
		if initValue {
			initialTrue = append(initialTrue, atom)
		}
		if constraint.IsSometimeBefore() {
			phiHolds, err := evalAtInit(constraint.Arg(0), initial)
			if err != nil {
				return nil, nil, err
			}
			if phiHolds {
				return nil, nil, errors.InitialStateViolation("sometime-before")
			}
		}
		c.counter++
	}
	return initialTrue, fluents, nil
}

// evaluateConstraint returns the monitor tag of a non-always constraint
// and the monitor's truth in the initial state.
func evaluateConstraint(constraint *expr.Node, initial map[*expr.Node]*expr.Node) (string, bool, error) {
	switch constraint.Kind() {
	case expr.SOMETIME:
		v, err := evalAtInit(constraint.Arg(0), initial)
		return HOLD, v, err
	case expr.SOMETIME_AFTER:
		psi, err := evalAtInit(constraint.Arg(1), initial)
		if err != nil {
			return "", false, err
		}
		phi, err := evalAtInit(constraint.Arg(0), initial)
		if err != nil {
			return "", false, err
		}
		return HOLD, psi || !phi, nil
	case expr.SOMETIME_BEFORE:
		v, err := evalAtInit(constraint.Arg(1), initial)
		return SEEN_PSI, v, err
	case expr.AT_MOST_ONCE:
		v, err := evalAtInit(constraint.Arg(0), initial)
		return SEEN_PHI, v, err
	default:
		return "", false, errors.UnsupportedConstraint(constraint.String())
	}
}

// evalAtInit evaluates a ground formula under the total initial
// assignment; absence of an atom means false.
func evalAtInit(phi *expr.Node, initial map[*expr.Node]*expr.Node) (bool, error) {
	v := phi.Substitute(initial).Simplify()
	if v.IsBoolConstant() {
		return v.IsTrue(), nil
	}
	// Atoms outside the assignment are undeclared fluents; close the world.
	subs := make(map[*expr.Node]*expr.Node)
	for _, atom := range v.FreeFluents() {
		subs[atom] = phi.Manager().FALSE()
	}
	v = v.Substitute(subs).Simplify()
	if !v.IsBoolConstant() {
		return false, errors.UnsupportedFormula(phi.String())
	}
	return v.IsTrue(), nil
}

// landmarkConstraints filters the constraints whose monitors must hold in
// the final state: sometime and sometime-after.
func landmarkConstraints(constraints []*expr.Node) []*expr.Node {
	var out []*expr.Node
	for _, c := range constraints {
		if c.IsSometime() || c.IsSometimeAfter() {
			out = append(out, c)
		}
	}
	return out
}
