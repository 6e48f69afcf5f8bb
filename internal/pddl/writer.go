package pddl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// Writer emits the PDDL rendering of a problem, split into the usual
// domain and problem files, the way file-based planners consume them.
type Writer struct {
	problem *model.Problem
}

func NewWriter(problem *model.Problem) *Writer {
	return &Writer{problem: problem}
}

func (w *Writer) DomainName() string {
	return w.problem.Name + "-domain"
}

func (w *Writer) WriteDomain(out io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "(define (domain %s)\n", w.DomainName())
	fmt.Fprintf(&b, "  (:requirements %s)\n", strings.Join(w.requirements(), " "))

	if types := w.problem.Types(); len(types) > 0 {
		b.WriteString("  (:types")
		for _, t := range types {
			b.WriteByte(' ')
			b.WriteString(t.Name)
			if t.Parent != nil {
				b.WriteString(" - ")
				b.WriteString(t.Parent.Name)
			}
		}
		b.WriteString(")\n")
	}

	b.WriteString("  (:predicates\n")
	for _, f := range w.problem.Fluents() {
		if f.Type != model.BOOL_TYPE {
			continue
		}
		b.WriteString("    (")
		b.WriteString(f.Name)
		for _, p := range f.Parameters {
			fmt.Fprintf(&b, " ?%s - %s", p.Name, p.Type)
		}
		b.WriteString(")\n")
	}
	b.WriteString("  )\n")

	for _, a := range w.problem.Actions() {
		writeAction(&b, a)
	}
	b.WriteString(")\n")
	_, err := io.WriteString(out, b.String())
	return err
}

func writeAction(b *strings.Builder, a *model.InstantaneousAction) {
	fmt.Fprintf(b, "  (:action %s\n", a.Name)
	b.WriteString("    :parameters (")
	for i, p := range a.Parameters {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "?%s - %s", p.Name, p.Type)
	}
	b.WriteString(")\n")

	b.WriteString("    :precondition ")
	writeConjunction(b, a.Preconditions())
	b.WriteByte('\n')

	b.WriteString("    :effect ")
	effects := a.Effects()
	parts := make([]string, 0, len(effects))
	for _, eff := range effects {
		parts = append(parts, renderEffect(eff))
	}
	if len(parts) == 1 {
		b.WriteString(parts[0])
	} else {
		b.WriteString("(and " + strings.Join(parts, " ") + ")")
	}
	b.WriteString("\n  )\n")
}

func writeConjunction(b *strings.Builder, conjuncts []*expr.Node) {
	switch len(conjuncts) {
	case 0:
		b.WriteString("(and)")
	case 1:
		b.WriteString(Render(conjuncts[0]))
	default:
		parts := make([]string, len(conjuncts))
		for i, c := range conjuncts {
			parts[i] = Render(c)
		}
		b.WriteString("(and " + strings.Join(parts, " ") + ")")
	}
}

func renderEffect(eff model.Effect) string {
	assignment := Render(eff.Fluent)
	if eff.Value.IsFalse() {
		assignment = "(not " + assignment + ")"
	}
	if !eff.IsConditional() {
		return assignment
	}
	return "(when " + Render(eff.Condition) + " " + assignment + ")"
}

func (w *Writer) WriteProblem(out io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "(define (problem %s)\n", w.problem.Name)
	fmt.Fprintf(&b, "  (:domain %s)\n", w.DomainName())

	if objects := w.problem.Objects(); len(objects) > 0 {
		b.WriteString("  (:objects")
		for _, o := range objects {
			b.WriteByte(' ')
			b.WriteString(o.Name)
			if o.Type != nil {
				b.WriteString(" - ")
				b.WriteString(o.Type.Name)
			}
		}
		b.WriteString(")\n")
	}

	b.WriteString("  (:init")
	for _, f := range w.problem.Fluents() {
		if f.Arity() != 0 {
			continue
		}
		atom := w.problem.Env().FluentExp(f.Name)
		if v := w.problem.InitialValue(atom); v != nil && v.IsTrue() {
			b.WriteByte(' ')
			b.WriteString(Render(atom))
		}
	}
	for key, v := range w.problem.InitialValues() {
		if len(key.Args()) > 0 && v.IsTrue() {
			b.WriteByte(' ')
			b.WriteString(Render(key))
		}
	}
	b.WriteString(")\n")

	b.WriteString("  (:goal ")
	writeConjunction(&b, w.problem.Goals())
	b.WriteString(")\n")

	if constraints := w.problem.TrajectoryConstraints(); len(constraints) > 0 {
		b.WriteString("  (:constraints ")
		writeConjunction(&b, constraints)
		b.WriteString(")\n")
	}
	b.WriteString(")\n")
	_, err := io.WriteString(out, b.String())
	return err
}

func (w *Writer) WriteDomainFile(path string) error {
	return writeFile(path, w.WriteDomain)
}

func (w *Writer) WriteProblemFile(path string) error {
	return writeFile(path, w.WriteProblem)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// requirements derives the :requirements flags from the problem's kind.
func (w *Writer) requirements() []string {
	kind := w.problem.Kind()
	out := []string{":strips"}
	if kind.Has(model.FLAT_TYPING) || kind.Has(model.HIERARCHICAL_TYPING) {
		out = append(out, ":typing")
	}
	if kind.Has(model.NEGATIVE_CONDITIONS) {
		out = append(out, ":negative-preconditions")
	}
	if kind.Has(model.DISJUNCTIVE_CONDITIONS) {
		out = append(out, ":disjunctive-preconditions")
	}
	if kind.Has(model.EXISTENTIAL_CONDITIONS) {
		out = append(out, ":existential-preconditions")
	}
	if kind.Has(model.UNIVERSAL_CONDITIONS) {
		out = append(out, ":universal-preconditions")
	}
	if kind.Has(model.CONDITIONAL_EFFECTS) {
		out = append(out, ":conditional-effects")
	}
	if kind.Has(model.TRAJECTORY_CONSTRAINTS) {
		out = append(out, ":constraints")
	}
	return out
}

// Render writes a formula in PDDL concrete syntax: atoms are always
// parenthesised, unlike the substrate's bare printer.
func Render(n *expr.Node) string {
	var b strings.Builder
	render(&b, n)
	return b.String()
}

func render(b *strings.Builder, n *expr.Node) {
	switch n.Kind() {
	case expr.BOOL_CONSTANT:
		if n.IsTrue() {
			b.WriteString("(and)")
		} else {
			b.WriteString("(or)")
		}
	case expr.FLUENT_EXP:
		b.WriteByte('(')
		b.WriteString(n.Name())
		for _, a := range n.Args() {
			b.WriteByte(' ')
			render(b, a)
		}
		b.WriteByte(')')
	case expr.PARAM_EXP:
		b.WriteByte('?')
		b.WriteString(n.Name())
	case expr.OBJECT_EXP:
		b.WriteString(n.Name())
	case expr.FORALL, expr.EXISTS:
		head := "forall"
		if n.Kind() == expr.EXISTS {
			head = "exists"
		}
		b.WriteByte('(')
		b.WriteString(head)
		b.WriteString(" (")
		for i, v := range n.Vars() {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "?%s - %s", v.Name, v.Type)
		}
		b.WriteString(") ")
		render(b, n.Arg(0))
		b.WriteByte(')')
	default:
		b.WriteByte('(')
		b.WriteString(operatorName(n.Kind()))
		for _, a := range n.Args() {
			b.WriteByte(' ')
			render(b, a)
		}
		b.WriteByte(')')
	}
}

func operatorName(k expr.Kind) string {
	switch k {
	case expr.NOT:
		return "not"
	case expr.AND:
		return "and"
	case expr.OR:
		return "or"
	case expr.IMPLIES:
		return "imply"
	case expr.IFF:
		return "iff"
	case expr.ALWAYS:
		return "always"
	case expr.SOMETIME:
		return "sometime"
	case expr.AT_MOST_ONCE:
		return "at-most-once"
	case expr.SOMETIME_BEFORE:
		return "sometime-before"
	case expr.SOMETIME_AFTER:
		return "sometime-after"
	default:
		return "unknown"
	}
}
