package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trajectoryc/internal/compiler"
	"trajectoryc/internal/expr"
	"trajectoryc/internal/grounder"
	"trajectoryc/internal/model"
	"trajectoryc/internal/pddl"
)

var validateCmd = &cobra.Command{
	Use:   "validate <domain.pddl> <problem.pddl> <plan.txt>",
	Short: "Execute a plan and check goals and trajectory constraints",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		prob, err := readProblem(args[0], args[1])
		if err != nil {
			return err
		}
		planSource, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		plan, err := pddl.ParsePlan(prob, args[2], string(planSource))
		if err != nil {
			return err
		}

		// Execution works on the grounded transition system.
		grounding, err := grounder.NewGrounder().Ground(prob)
		if err != nil {
			return err
		}
		groundPlan, err := groundedPlan(grounding.Problem, plan)
		if err != nil {
			return err
		}

		if err := compiler.ValidatePlan(grounding.Problem, groundPlan); err != nil {
			color.Red("plan is invalid: %s", err)
			return err
		}
		color.Green("plan is valid: %d steps, goals and constraints satisfied", len(plan.Actions))
		return nil
	},
}

// groundedPlan maps lifted plan steps to their ground action instances.
func groundedPlan(ground *model.Problem, plan *model.SequentialPlan) (*model.SequentialPlan, error) {
	out := &model.SequentialPlan{Actions: make([]model.ActionInstance, len(plan.Actions))}
	for i, ai := range plan.Actions {
		names := make([]string, len(ai.Params))
		for j, p := range ai.Params {
			names[j] = p.Name()
		}
		name := expr.GroundName(ai.Action.Name, names)
		action := ground.Action(name)
		if action == nil {
			return nil, fmt.Errorf("plan step %s has no ground instance (statically inapplicable?)", ai)
		}
		out.Actions[i] = model.ActionInstance{Action: action}
	}
	return out, nil
}
