package pddl

import (
	"trajectoryc/internal/errors"
	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// ParsePlan reads a planner's plan file: one (action-name arg*) form per
// step, with ; comments ignored. Steps are resolved against the problem's
// actions, accepting either a lifted action applied to objects or the
// corresponding ground action name.
func ParsePlan(problem *model.Problem, path, source string) (*model.SequentialPlan, error) {
	doc, err := ParseDocument(path, source)
	if err != nil {
		return nil, errors.PlanParseError(err.Error())
	}
	env := problem.Env()
	plan := &model.SequentialPlan{}
	for _, e := range doc.Exprs {
		name := e.head()
		if name == "" {
			return nil, errors.PlanParseError(renderStep(e))
		}
		args := make([]string, 0, len(e.List)-1)
		for _, child := range e.List[1:] {
			sym, ok := child.symbol()
			if !ok {
				return nil, errors.PlanParseError(renderStep(e))
			}
			args = append(args, sym)
		}

		if action := problem.Action(name); action != nil && len(action.Parameters) == len(args) {
			params := make([]*expr.Node, len(args))
			for i, argName := range args {
				obj, err := problem.Object(argName)
				if err != nil {
					return nil, errors.PlanParseError(renderStep(e))
				}
				typeName := "object"
				if obj.Type != nil {
					typeName = obj.Type.Name
				}
				params[i] = env.ObjectExp(obj.Name, typeName)
			}
			plan.Actions = append(plan.Actions, model.ActionInstance{Action: action, Params: params})
			continue
		}

		// Ground problems carry 0-parameter actions under their joined name.
		if action := problem.Action(expr.GroundName(name, args)); action != nil {
			plan.Actions = append(plan.Actions, model.ActionInstance{Action: action})
			continue
		}
		return nil, errors.PlanParseError(renderStep(e))
	}
	return plan, nil
}

func renderStep(e *SExpr) string {
	if !e.IsList {
		if s, ok := e.symbol(); ok {
			return s
		}
		return "?"
	}
	out := "("
	for i, child := range e.List {
		if i > 0 {
			out += " "
		}
		out += renderStep(child)
	}
	return out + ")"
}
