package pddl

import (
	"fmt"

	"trajectoryc/internal/errors"
	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// Reader interprets parsed PDDL documents against the supported subset:
// typed objects, boolean predicates, instantaneous actions with
// conditional effects, init, goal and trajectory constraints.
type Reader struct {
	env     *expr.Manager
	problem *model.Problem
	objects map[string]*model.Object
}

// ReadProblem parses a domain file and a problem file into a model
// problem.
func ReadProblem(env *expr.Manager, domainPath, domainSource, problemPath, problemSource string) (*model.Problem, error) {
	domainDoc, err := ParseDocument(domainPath, domainSource)
	if err != nil {
		return nil, errors.ParseError(domainPath, err)
	}
	problemDoc, err := ParseDocument(problemPath, problemSource)
	if err != nil {
		return nil, errors.ParseError(problemPath, err)
	}

	r := &Reader{env: env, objects: make(map[string]*model.Object)}
	if err := r.readDomain(domainDoc); err != nil {
		return nil, errors.ParseError(domainPath, err)
	}
	if err := r.readProblemFile(problemDoc); err != nil {
		return nil, errors.ParseError(problemPath, err)
	}
	return r.problem, nil
}

func single(doc *Document, what string) (*SExpr, error) {
	if len(doc.Exprs) != 1 {
		return nil, fmt.Errorf("expected a single (define ...) form in the %s file", what)
	}
	root := doc.Exprs[0]
	if root.head() != "define" {
		return nil, fmt.Errorf("%s file does not start with (define ...)", what)
	}
	return root, nil
}

func (r *Reader) readDomain(doc *Document) error {
	root, err := single(doc, "domain")
	if err != nil {
		return err
	}
	// The problem is created on the domain name and renamed when the
	// problem file provides its own.
	name, err := definedName(root, "domain")
	if err != nil {
		return err
	}
	r.problem = model.NewProblem(name, r.env)

	for _, section := range root.List[2:] {
		switch section.keywordHead() {
		case ":requirements":
			// Advisory; the model computes its own kind.
		case ":types":
			if err := r.readTypes(section.List[1:]); err != nil {
				return err
			}
		case ":predicates":
			if err := r.readPredicates(section.List[1:]); err != nil {
				return err
			}
		case ":action":
			if err := r.readAction(section.List[1:]); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported domain section %s at %s", section.keywordHead(), section.Pos)
		}
	}
	return nil
}

func (r *Reader) readProblemFile(doc *Document) error {
	root, err := single(doc, "problem")
	if err != nil {
		return err
	}
	name, err := definedName(root, "problem")
	if err != nil {
		return err
	}
	r.problem.Name = name

	for _, section := range root.List[2:] {
		switch section.keywordHead() {
		case ":domain":
			// Trusted; the caller pairs the files.
		case ":objects":
			if err := r.readObjects(section.List[1:]); err != nil {
				return err
			}
		case ":init":
			if err := r.readInit(section.List[1:]); err != nil {
				return err
			}
		case ":goal":
			if len(section.List) != 2 {
				return fmt.Errorf("malformed :goal at %s", section.Pos)
			}
			goal, err := r.formula(section.List[1], nil)
			if err != nil {
				return err
			}
			r.problem.AddGoal(goal)
		case ":constraints":
			if len(section.List) != 2 {
				return fmt.Errorf("malformed :constraints at %s", section.Pos)
			}
			constraint, err := r.formula(section.List[1], nil)
			if err != nil {
				return err
			}
			if constraint.IsAnd() {
				for _, c := range constraint.Args() {
					r.problem.AddTrajectoryConstraint(c)
				}
			} else {
				r.problem.AddTrajectoryConstraint(constraint)
			}
		default:
			return fmt.Errorf("unsupported problem section %s at %s", section.keywordHead(), section.Pos)
		}
	}
	return nil
}

func definedName(root *SExpr, kind string) (string, error) {
	if len(root.List) < 2 {
		return "", fmt.Errorf("malformed (define ...) form")
	}
	header := root.List[1]
	if header.head() != kind || len(header.List) != 2 {
		return "", fmt.Errorf("expected (%s <name>)", kind)
	}
	name, ok := header.List[1].symbol()
	if !ok {
		return "", fmt.Errorf("expected a %s name", kind)
	}
	return name, nil
}

// readTypes reads a typed list of type names, creating parents on demand.
func (r *Reader) readTypes(items []*SExpr) error {
	groups, err := typedGroups(items)
	if err != nil {
		return err
	}
	for _, g := range groups {
		parent := r.typeOf(g.typ)
		for _, name := range g.names {
			if r.problem.Type(name) == nil {
				r.problem.AddType(&model.Type{Name: name, Parent: parent})
			}
		}
	}
	return nil
}

// typeOf resolves a type name, creating it as a root type if unseen. The
// PDDL default type "object" maps to a nil parent.
func (r *Reader) typeOf(name string) *model.Type {
	if name == "" || name == "object" {
		return nil
	}
	if t := r.problem.Type(name); t != nil {
		return t
	}
	t := &model.Type{Name: name}
	r.problem.AddType(t)
	return t
}

func (r *Reader) readPredicates(items []*SExpr) error {
	for _, item := range items {
		name := item.head()
		if name == "" {
			return fmt.Errorf("malformed predicate at %s", item.Pos)
		}
		params, err := typedVariables(item.List[1:])
		if err != nil {
			return err
		}
		r.problem.AddFluent(&model.Fluent{Name: name, Type: model.BOOL_TYPE, Parameters: params})
	}
	return nil
}

func (r *Reader) readAction(items []*SExpr) error {
	if len(items) == 0 {
		return fmt.Errorf("malformed :action")
	}
	name, ok := items[0].symbol()
	if !ok {
		return fmt.Errorf("action name expected at %s", items[0].Pos)
	}

	var params []expr.Param
	var precondition, effect *SExpr
	for i := 1; i+1 < len(items); i += 2 {
		key := ""
		if items[i].Atom != nil && items[i].Atom.Keyword != nil {
			key = *items[i].Atom.Keyword
		}
		switch key {
		case ":parameters":
			var err error
			params, err = typedVariables(items[i+1].List)
			if err != nil {
				return err
			}
		case ":precondition":
			precondition = items[i+1]
		case ":effect":
			effect = items[i+1]
		default:
			return fmt.Errorf("unsupported action clause %q at %s", key, items[i].Pos)
		}
	}

	scope := make(map[string]string, len(params))
	for _, p := range params {
		scope[p.Name] = p.Type
	}
	action := model.NewInstantaneousAction(name, params...)
	if precondition != nil {
		pre, err := r.formula(precondition, scope)
		if err != nil {
			return err
		}
		if pre.IsAnd() {
			for _, p := range pre.Args() {
				action.AddPrecondition(p)
			}
		} else if !pre.IsTrue() {
			action.AddPrecondition(pre)
		}
	}
	if effect != nil {
		effects, err := r.effects(effect, scope, r.env.TRUE())
		if err != nil {
			return err
		}
		for _, eff := range effects {
			action.AddEffect(eff)
		}
	}
	r.problem.AddAction(action)
	return nil
}

func (r *Reader) readObjects(items []*SExpr) error {
	groups, err := typedGroups(items)
	if err != nil {
		return err
	}
	for _, g := range groups {
		t := r.typeOf(g.typ)
		for _, name := range g.names {
			obj := &model.Object{Name: name, Type: t}
			r.problem.AddObject(obj)
			r.objects[name] = obj
		}
	}
	return nil
}

func (r *Reader) readInit(items []*SExpr) error {
	for _, item := range items {
		atom, err := r.formula(item, nil)
		if err != nil {
			return err
		}
		if !atom.IsFluentExp() {
			return fmt.Errorf(":init entries must be ground atoms, got %s at %s", atom, item.Pos)
		}
		r.problem.SetInitialValue(atom, r.env.TRUE())
	}
	return nil
}

// effects interprets an effect expression into conditional assignments.
func (r *Reader) effects(e *SExpr, scope map[string]string, condition *expr.Node) ([]model.Effect, error) {
	switch e.head() {
	case "and":
		var out []model.Effect
		for _, child := range e.List[1:] {
			effs, err := r.effects(child, scope, condition)
			if err != nil {
				return nil, err
			}
			out = append(out, effs...)
		}
		return out, nil
	case "when":
		if len(e.List) != 3 {
			return nil, fmt.Errorf("malformed (when ...) at %s", e.Pos)
		}
		cond, err := r.formula(e.List[1], scope)
		if err != nil {
			return nil, err
		}
		combined := r.env.And(condition, cond).Simplify()
		return r.effects(e.List[2], scope, combined)
	case "not":
		if len(e.List) != 2 {
			return nil, fmt.Errorf("malformed (not ...) effect at %s", e.Pos)
		}
		fluent, err := r.formula(e.List[1], scope)
		if err != nil {
			return nil, err
		}
		if !fluent.IsFluentExp() {
			return nil, fmt.Errorf("effect target must be a fluent at %s", e.Pos)
		}
		return []model.Effect{{Condition: condition, Fluent: fluent, Value: r.env.FALSE()}}, nil
	default:
		fluent, err := r.formula(e, scope)
		if err != nil {
			return nil, err
		}
		if !fluent.IsFluentExp() {
			return nil, fmt.Errorf("effect target must be a fluent at %s", e.Pos)
		}
		return []model.Effect{{Condition: condition, Fluent: fluent, Value: r.env.TRUE()}}, nil
	}
}

// formula interprets a condition, goal or constraint expression. scope
// maps in-scope variable names to their types.
func (r *Reader) formula(e *SExpr, scope map[string]string) (*expr.Node, error) {
	if !e.IsList {
		if name, ok := e.symbol(); ok {
			return r.env.FluentExp(name), nil
		}
		if name, ok := e.variable(); ok {
			typ, bound := scope[name]
			if !bound {
				return nil, fmt.Errorf("unbound variable ?%s at %s", name, e.Pos)
			}
			return r.env.ParamExp(name, typ), nil
		}
		return nil, fmt.Errorf("unsupported term at %s", e.Pos)
	}

	switch head := e.head(); head {
	case "":
		return nil, fmt.Errorf("unsupported expression at %s", e.Pos)
	case "and", "or":
		args := make([]*expr.Node, 0, len(e.List)-1)
		for _, child := range e.List[1:] {
			f, err := r.formula(child, scope)
			if err != nil {
				return nil, err
			}
			args = append(args, f)
		}
		if head == "and" {
			return r.env.And(args...), nil
		}
		return r.env.Or(args...), nil
	case "not":
		if len(e.List) != 2 {
			return nil, fmt.Errorf("malformed (not ...) at %s", e.Pos)
		}
		inner, err := r.formula(e.List[1], scope)
		if err != nil {
			return nil, err
		}
		return r.env.Not(inner), nil
	case "imply":
		if len(e.List) != 3 {
			return nil, fmt.Errorf("malformed (imply ...) at %s", e.Pos)
		}
		left, err := r.formula(e.List[1], scope)
		if err != nil {
			return nil, err
		}
		right, err := r.formula(e.List[2], scope)
		if err != nil {
			return nil, err
		}
		return r.env.Implies(left, right), nil
	case "forall", "exists":
		if len(e.List) != 3 {
			return nil, fmt.Errorf("malformed (%s ...) at %s", head, e.Pos)
		}
		vars, err := typedVariables(e.List[1].List)
		if err != nil {
			return nil, err
		}
		inner := make(map[string]string, len(scope)+len(vars))
		for k, v := range scope {
			inner[k] = v
		}
		for _, v := range vars {
			inner[v.Name] = v.Type
		}
		body, err := r.formula(e.List[2], inner)
		if err != nil {
			return nil, err
		}
		if head == "forall" {
			return r.env.Forall(vars, body), nil
		}
		return r.env.Exists(vars, body), nil
	case "always", "sometime", "at-most-once":
		if len(e.List) != 2 {
			return nil, fmt.Errorf("malformed (%s ...) at %s", head, e.Pos)
		}
		arg, err := r.formula(e.List[1], scope)
		if err != nil {
			return nil, err
		}
		switch head {
		case "always":
			return r.env.Always(arg), nil
		case "sometime":
			return r.env.Sometime(arg), nil
		default:
			return r.env.AtMostOnce(arg), nil
		}
	case "sometime-before", "sometime-after":
		if len(e.List) != 3 {
			return nil, fmt.Errorf("malformed (%s ...) at %s", head, e.Pos)
		}
		phi, err := r.formula(e.List[1], scope)
		if err != nil {
			return nil, err
		}
		psi, err := r.formula(e.List[2], scope)
		if err != nil {
			return nil, err
		}
		if head == "sometime-before" {
			return r.env.SometimeBefore(phi, psi), nil
		}
		return r.env.SometimeAfter(phi, psi), nil
	default:
		// A fluent application: (pred term*).
		args := make([]*expr.Node, 0, len(e.List)-1)
		for _, child := range e.List[1:] {
			term, err := r.term(child, scope)
			if err != nil {
				return nil, err
			}
			args = append(args, term)
		}
		return r.env.FluentExp(head, args...), nil
	}
}

func (r *Reader) term(e *SExpr, scope map[string]string) (*expr.Node, error) {
	if name, ok := e.variable(); ok {
		typ, bound := scope[name]
		if !bound {
			return nil, fmt.Errorf("unbound variable ?%s at %s", name, e.Pos)
		}
		return r.env.ParamExp(name, typ), nil
	}
	if name, ok := e.symbol(); ok {
		obj, found := r.objects[name]
		if !found {
			return nil, fmt.Errorf("unknown object %q at %s", name, e.Pos)
		}
		typeName := "object"
		if obj.Type != nil {
			typeName = obj.Type.Name
		}
		return r.env.ObjectExp(name, typeName), nil
	}
	return nil, fmt.Errorf("unsupported term at %s", e.Pos)
}

type typedGroup struct {
	names []string
	typ   string
}

// typedGroups splits a PDDL typed list of symbols: "a b - t c d" gives
// {a b}:t and {c d} with the default type.
func typedGroups(items []*SExpr) ([]typedGroup, error) {
	var out []typedGroup
	var pending []string
	for i := 0; i < len(items); i++ {
		if items[i].isDash() {
			if i+1 >= len(items) {
				return nil, fmt.Errorf("dangling '-' in typed list at %s", items[i].Pos)
			}
			typ, ok := items[i+1].symbol()
			if !ok {
				return nil, fmt.Errorf("type name expected at %s", items[i+1].Pos)
			}
			out = append(out, typedGroup{names: pending, typ: typ})
			pending = nil
			i++
			continue
		}
		name, ok := items[i].symbol()
		if !ok {
			return nil, fmt.Errorf("symbol expected in typed list at %s", items[i].Pos)
		}
		pending = append(pending, name)
	}
	if len(pending) > 0 {
		out = append(out, typedGroup{names: pending})
	}
	return out, nil
}

// typedVariables reads a typed list of ?variables into parameters.
func typedVariables(items []*SExpr) ([]expr.Param, error) {
	var out []expr.Param
	var pending []string
	flush := func(typ string) {
		for _, name := range pending {
			out = append(out, expr.Param{Name: name, Type: typ})
		}
		pending = nil
	}
	for i := 0; i < len(items); i++ {
		if items[i].isDash() {
			if i+1 >= len(items) {
				return nil, fmt.Errorf("dangling '-' in parameter list at %s", items[i].Pos)
			}
			typ, ok := items[i+1].symbol()
			if !ok {
				return nil, fmt.Errorf("type name expected at %s", items[i+1].Pos)
			}
			flush(typ)
			i++
			continue
		}
		name, ok := items[i].variable()
		if !ok {
			return nil, fmt.Errorf("variable expected in parameter list at %s", items[i].Pos)
		}
		pending = append(pending, name)
	}
	flush("object")
	return out, nil
}
