package expr

import (
	"strings"
)

var kindSymbols = map[Kind]string{
	NOT:             "not",
	AND:             "and",
	OR:              "or",
	IMPLIES:         "imply",
	IFF:             "iff",
	FORALL:          "forall",
	EXISTS:          "exists",
	ALWAYS:          "always",
	SOMETIME:        "sometime",
	AT_MOST_ONCE:    "at-most-once",
	SOMETIME_BEFORE: "sometime-before",
	SOMETIME_AFTER:  "sometime-after",
}

// String renders the formula as an s-expression, matching the concrete
// syntax the PDDL writer and reader use.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.kind {
	case BOOL_CONSTANT:
		if n.value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case FLUENT_EXP:
		if len(n.args) == 0 {
			b.WriteString(n.name)
			return
		}
		b.WriteByte('(')
		b.WriteString(n.name)
		for _, a := range n.args {
			b.WriteByte(' ')
			a.write(b)
		}
		b.WriteByte(')')
	case PARAM_EXP:
		b.WriteByte('?')
		b.WriteString(n.name)
	case OBJECT_EXP:
		b.WriteString(n.name)
	case FORALL, EXISTS:
		b.WriteByte('(')
		b.WriteString(kindSymbols[n.kind])
		b.WriteString(" (")
		for i, v := range n.vars {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte('?')
			b.WriteString(v.Name)
			b.WriteString(" - ")
			b.WriteString(v.Type)
		}
		b.WriteString(") ")
		n.args[0].write(b)
		b.WriteByte(')')
	default:
		b.WriteByte('(')
		b.WriteString(kindSymbols[n.kind])
		for _, a := range n.args {
			b.WriteByte(' ')
			a.write(b)
		}
		b.WriteByte(')')
	}
}
