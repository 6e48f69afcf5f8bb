package model

import (
	"strings"

	"trajectoryc/internal/expr"
)

// ActionInstance is an occurrence of an action with actual parameters.
// Grounded instances have no parameters.
type ActionInstance struct {
	Action *InstantaneousAction
	Params []*expr.Node
}

func (ai ActionInstance) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(ai.Action.Name)
	for _, p := range ai.Params {
		b.WriteByte(' ')
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	return b.String()
}

// SequentialPlan is an ordered list of action instances.
type SequentialPlan struct {
	Actions []ActionInstance
}

func (p *SequentialPlan) String() string {
	lines := make([]string, len(p.Actions))
	for i, a := range p.Actions {
		lines[i] = a.String()
	}
	return strings.Join(lines, "\n")
}
