package compiler

import (
	"trajectoryc/internal/errors"
	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// regression computes the weakest precondition of phi through the action:
// the formula that must hold before applying a so that phi holds after.
// Supported shapes are constants, fluent literals, negation, conjunction
// and disjunction.
func regression(env *expr.Manager, phi *expr.Node, a *model.InstantaneousAction) (*expr.Node, error) {
	switch {
	case phi.IsBoolConstant():
		return phi, nil
	case phi.IsFluentExp():
		return gammaSubstitution(env, phi, a), nil
	case phi.IsOr():
		args, err := regressAll(env, phi.Args(), a)
		if err != nil {
			return nil, err
		}
		return env.Or(args...), nil
	case phi.IsAnd():
		args, err := regressAll(env, phi.Args(), a)
		if err != nil {
			return nil, err
		}
		return env.And(args...), nil
	case phi.IsNot():
		inner, err := regression(env, phi.Arg(0), a)
		if err != nil {
			return nil, err
		}
		return env.Not(inner), nil
	default:
		return nil, errors.UnsupportedFormula(phi.String())
	}
}

func regressAll(env *expr.Manager, components []*expr.Node, a *model.InstantaneousAction) ([]*expr.Node, error) {
	out := make([]*expr.Node, len(components))
	for i, component := range components {
		r, err := regression(env, component, a)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// gammaSubstitution is the regression of a single literal l through a:
//
//	gamma(l, a) or (l and not gamma(not l, a))
//
// i.e. a makes l true, or l already held and a does not make it false.
func gammaSubstitution(env *expr.Manager, literal *expr.Node, a *model.InstantaneousAction) *expr.Node {
	made := gamma(env, literal, a)
	kept := env.And(literal, env.Not(gamma(env, env.Not(literal), a)))
	return env.Or(made, kept)
}

// gamma yields the condition under which the action asserts the literal:
// the disjunction of the conditions of the effects assigning it, TRUE when
// any such effect is unconditional, FALSE when none exists.
func gamma(env *expr.Manager, literal *expr.Node, a *model.InstantaneousAction) *expr.Node {
	var disjunction []*expr.Node
	for _, eff := range a.Effects() {
		asserted := eff.Fluent
		if eff.Value.IsFalse() {
			asserted = env.Not(eff.Fluent)
		}
		if asserted != literal {
			continue
		}
		if eff.Condition.IsTrue() {
			return env.TRUE()
		}
		disjunction = append(disjunction, eff.Condition)
	}
	if len(disjunction) == 0 {
		return env.FALSE()
	}
	return env.Or(disjunction...)
}
