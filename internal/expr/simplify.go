package expr

// Simplify returns the canonical simplified form of the node: constants are
// folded, nested conjunctions and disjunctions flattened, duplicates and
// complementary literal pairs collapsed. Argument order is preserved, so a
// simplified formula is deterministic for a deterministic construction
// order and pointer identity can stand in for semantic identity.
func (n *Node) Simplify() *Node {
	m := n.m
	switch n.kind {
	case BOOL_CONSTANT, FLUENT_EXP, PARAM_EXP, OBJECT_EXP:
		return n

	case NOT:
		arg := n.args[0].Simplify()
		switch {
		case arg.IsTrue():
			return m.falseNode
		case arg.IsFalse():
			return m.trueNode
		case arg.kind == NOT:
			return arg.args[0]
		}
		return m.Not(arg)

	case AND:
		return simplifyNary(m, n, AND)

	case OR:
		return simplifyNary(m, n, OR)

	case IMPLIES:
		left, right := n.args[0].Simplify(), n.args[1].Simplify()
		switch {
		case left.IsFalse() || right.IsTrue():
			return m.trueNode
		case left.IsTrue():
			return right
		case right.IsFalse():
			return m.Not(left).Simplify()
		}
		return m.Implies(left, right)

	case IFF:
		left, right := n.args[0].Simplify(), n.args[1].Simplify()
		switch {
		case left == right:
			return m.trueNode
		case left.IsTrue():
			return right
		case right.IsTrue():
			return left
		case left.IsFalse():
			return m.Not(right).Simplify()
		case right.IsFalse():
			return m.Not(left).Simplify()
		}
		return m.Iff(left, right)

	case FORALL, EXISTS:
		body := n.args[0].Simplify()
		if body.IsBoolConstant() {
			return body
		}
		return m.rebuild(n, []*Node{body})

	default:
		// Trajectory-constraint operators: simplify underneath, keep the shape.
		args := make([]*Node, len(n.args))
		for i, a := range n.args {
			args[i] = a.Simplify()
		}
		return m.rebuild(n, args)
	}
}

// simplifyNary flattens an AND or OR, dropping neutral elements, folding
// the absorbing element, de-duplicating operands and collapsing p with
// (not p) to the absorbing constant.
func simplifyNary(m *Manager, n *Node, kind Kind) *Node {
	neutral, absorbing := m.trueNode, m.falseNode
	if kind == OR {
		neutral, absorbing = m.falseNode, m.trueNode
	}

	var flat []*Node
	seenPos := make(map[int]bool)
	seenNeg := make(map[int]bool)

	var visit func(args []*Node) *Node
	visit = func(args []*Node) *Node {
		for _, raw := range args {
			a := raw.Simplify()
			switch {
			case a == absorbing:
				return absorbing
			case a == neutral:
				continue
			case a.kind == kind:
				if res := visit(a.args); res != nil {
					return res
				}
				continue
			}
			if a.kind == NOT {
				inner := a.args[0].id
				if seenPos[inner] {
					return absorbing
				}
				if seenNeg[inner] {
					continue
				}
				seenNeg[inner] = true
			} else {
				if seenNeg[a.id] {
					return absorbing
				}
				if seenPos[a.id] {
					continue
				}
				seenPos[a.id] = true
			}
			flat = append(flat, a)
		}
		return nil
	}
	if res := visit(n.args); res != nil {
		return res
	}

	switch len(flat) {
	case 0:
		return neutral
	case 1:
		return flat[0]
	}
	if kind == AND {
		return m.And(flat...)
	}
	return m.Or(flat...)
}
