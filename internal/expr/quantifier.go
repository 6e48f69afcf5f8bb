package expr

import "fmt"

// Universe enumerates the object names of a type, including objects of its
// subtypes. Implemented by the problem model.
type Universe func(typeName string) []string

// ExpandUniversals eliminates every universal quantifier in the formula by
// conjoining the body over all assignments of the bound variables to
// objects of their types. Fluent applications whose arguments become fully
// ground are folded into their 0-arity ground atoms.
//
// Existential quantifiers are not expanded; encountering one is an error
// because the callers (the trajectory-constraints compiler in particular)
// must have rejected them beforehand.
func (n *Node) ExpandUniversals(universe Universe) (*Node, error) {
	m := n.m
	switch n.kind {
	case EXISTS:
		return nil, fmt.Errorf("existential quantifier cannot be expanded: %s", n)

	case FORALL:
		body := n.args[0]
		assignments := enumerate(m, n.vars, universe)
		conjuncts := make([]*Node, 0, len(assignments))
		for _, binding := range assignments {
			instance, err := body.SubstituteParams(binding).ExpandUniversals(universe)
			if err != nil {
				return nil, err
			}
			conjuncts = append(conjuncts, instance)
		}
		return m.And(conjuncts...).GroundAtoms(), nil

	case FLUENT_EXP:
		return n.GroundAtoms(), nil

	default:
		if len(n.args) == 0 {
			return n, nil
		}
		changed := false
		args := make([]*Node, len(n.args))
		for i, a := range n.args {
			expanded, err := a.ExpandUniversals(universe)
			if err != nil {
				return nil, err
			}
			args[i] = expanded
			if expanded != a {
				changed = true
			}
		}
		if !changed {
			return n, nil
		}
		return m.rebuild(n, args), nil
	}
}

// enumerate builds every binding of the variables to objects of their
// types, in universe order.
func enumerate(m *Manager, vars []Param, universe Universe) []map[string]*Node {
	bindings := []map[string]*Node{{}}
	for _, v := range vars {
		var next []map[string]*Node
		for _, b := range bindings {
			for _, obj := range universe(v.Type) {
				extended := make(map[string]*Node, len(b)+1)
				for k, val := range b {
					extended[k] = val
				}
				extended[v.Name] = m.ObjectExp(obj, v.Type)
				next = append(next, extended)
			}
		}
		bindings = next
	}
	return bindings
}

// GroundAtoms folds fully-instantiated fluent applications into 0-arity
// ground atoms named with GroundName. Applications still carrying
// parameter references are left alone.
func (n *Node) GroundAtoms() *Node {
	if n.kind == FLUENT_EXP {
		if len(n.args) == 0 {
			return n
		}
		names := make([]string, len(n.args))
		for i, a := range n.args {
			if a.kind != OBJECT_EXP {
				return n
			}
			names[i] = a.name
		}
		return n.m.FluentExp(GroundName(n.name, names))
	}
	if len(n.args) == 0 {
		return n
	}
	changed := false
	args := make([]*Node, len(n.args))
	for i, a := range n.args {
		args[i] = a.GroundAtoms()
		if args[i] != a {
			changed = true
		}
	}
	if !changed {
		return n
	}
	return n.m.rebuild(n, args)
}
