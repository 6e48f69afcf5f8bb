package compiler

import (
	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// The per-constraint rule table. Each manage function regresses the
// constraint's arguments through the action and, when the action can
// change their truth, synthesises the precondition and conditional
// effects that preserve the constraint's semantics.

// manageAlways: the action must not be able to falsify phi, so the
// regressed phi becomes a precondition. No monitor is involved.
func manageAlways(env *expr.Manager, phi *expr.Node, a *model.InstantaneousAction) (*expr.Node, bool, error) {
	r, err := regression(env, phi, a)
	if err != nil {
		return nil, false, err
	}
	r = r.Simplify()
	if r == phi {
		return nil, false, nil
	}
	return r, true, nil
}

// manageAtMostOnce: once phi's interval has closed (monitor set and phi
// false), the action may not reopen it. The right-hand phi is the value
// BEFORE the action fires and must stay unregressed.
func manageAtMostOnce(env *expr.Manager, phi, monitor *expr.Node, a *model.InstantaneousAction, extra *[]model.Effect) (*expr.Node, bool, error) {
	r, err := regression(env, phi, a)
	if err != nil {
		return nil, false, err
	}
	r = r.Simplify()
	if r == phi {
		return nil, false, nil
	}
	rho := env.Or(env.Not(r), env.Not(monitor), phi).Simplify()
	addCondEff(env, extra, r, monitor)
	return rho, true, nil
}

// manageSometimeBefore: making phi true is allowed only if psi has already
// been seen; making psi true records it in the monitor.
func manageSometimeBefore(env *expr.Manager, phi, psi, monitor *expr.Node, a *model.InstantaneousAction, extra *[]model.Effect) (*expr.Node, bool, error) {
	rPhi, err := regression(env, phi, a)
	if err != nil {
		return nil, false, err
	}
	rPhi = rPhi.Simplify()
	var precondition *expr.Node
	toAdd := false
	if rPhi != phi {
		precondition = env.Or(env.Not(rPhi), monitor).Simplify()
		toAdd = true
	}
	rPsi, err := regression(env, psi, a)
	if err != nil {
		return nil, false, err
	}
	rPsi = rPsi.Simplify()
	if rPsi != psi {
		addCondEff(env, extra, rPsi, monitor)
	}
	return precondition, toAdd, nil
}

// manageSometime: whenever the action can make phi true, the monitor is
// set. No precondition change.
func manageSometime(env *expr.Manager, phi, monitor *expr.Node, a *model.InstantaneousAction, extra *[]model.Effect) error {
	r, err := regression(env, phi, a)
	if err != nil {
		return err
	}
	r = r.Simplify()
	if r != phi {
		addCondEff(env, extra, r, monitor)
	}
	return nil
}

// manageSometimeAfter: the monitor reads "either we owe nothing, or psi
// has since held". Making phi true without psi clears it; making psi true
// sets it.
func manageSometimeAfter(env *expr.Manager, phi, psi, monitor *expr.Node, a *model.InstantaneousAction, extra *[]model.Effect) error {
	rPhi, err := regression(env, phi, a)
	if err != nil {
		return err
	}
	rPhi = rPhi.Simplify()
	rPsi, err := regression(env, psi, a)
	if err != nil {
		return err
	}
	rPsi = rPsi.Simplify()
	if rPhi != phi || rPsi != psi {
		cond := env.And(rPhi, env.Not(rPsi)).Simplify()
		addCondEff(env, extra, cond, env.Not(monitor))
	}
	if rPsi != psi {
		addCondEff(env, extra, rPsi, monitor)
	}
	return nil
}

// addCondEff appends a conditional assignment of the asserted literal,
// dropping effects whose condition simplifies to false. Negative literals
// store value false on the underlying fluent.
func addCondEff(env *expr.Manager, extra *[]model.Effect, cond, literal *expr.Node) {
	cond = cond.Simplify()
	if cond.IsFalse() {
		return
	}
	if literal.IsNot() {
		*extra = append(*extra, model.Effect{Condition: cond, Fluent: literal.Arg(0), Value: env.FALSE()})
		return
	}
	*extra = append(*extra, model.Effect{Condition: cond, Fluent: literal, Value: env.TRUE()})
}
