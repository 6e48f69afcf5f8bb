package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trajectoryc/internal/compiler"
	"trajectoryc/internal/engine"
	"trajectoryc/internal/solver"
)

var (
	solvePlanner  string
	solveRegistry string
	solveAnytime  bool
	solveTimeout  time.Duration
)

var solveCmd = &cobra.Command{
	Use:   "solve <domain.pddl> <problem.pddl>",
	Short: "Compile the problem and run a registered external planner",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prob, err := readProblem(args[0], args[1])
		if err != nil {
			return err
		}
		registry, err := solver.LoadRegistry(solveRegistry)
		if err != nil {
			return err
		}
		config, err := registry.Planner(solvePlanner)
		if err != nil {
			return err
		}

		result, err := compiler.NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
		if err != nil {
			return reportEngineError(err)
		}

		ctx := context.Background()
		if solveTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, solveTimeout)
			defer cancel()
		}

		if solveAnytime {
			return runAnytime(ctx, result, config)
		}

		answer, err := solver.NewPDDLSolver(solvePlanner, config).Solve(ctx, result.Problem)
		if err != nil {
			return err
		}
		return printAnswer(result, *answer)
	},
}

func runAnytime(ctx context.Context, result *engine.CompilerResult, config solver.PlannerConfig) error {
	anytime := solver.NewAnytimeSolver(solvePlanner, config)
	solutions, err := anytime.Solutions(ctx, result.Problem)
	if err != nil {
		return err
	}
	found := false
	for answer := range solutions {
		if err := printAnswer(result, answer); err != nil {
			return err
		}
		found = found || answer.Plan != nil
	}
	if !found {
		return fmt.Errorf("no plan found")
	}
	return nil
}

func printAnswer(result *engine.CompilerResult, answer engine.PlanGenerationResult) error {
	if answer.Plan == nil {
		color.Yellow("%s: %s", answer.EngineName, answer.Status)
		return nil
	}
	lifted, err := result.LiftPlan(answer.Plan)
	if err != nil {
		return err
	}
	color.Green("%s: %s (%d steps)", answer.EngineName, answer.Status, len(lifted.Actions))
	fmt.Println(lifted)
	return nil
}

func init() {
	solveCmd.Flags().StringVarP(&solvePlanner, "planner", "p", "", "planner name from the registry (required)")
	solveCmd.Flags().StringVarP(&solveRegistry, "registry", "r", "solvers.yaml", "planner registry file")
	solveCmd.Flags().BoolVar(&solveAnytime, "anytime", false, "stream improving solutions")
	solveCmd.Flags().DurationVar(&solveTimeout, "timeout", 0, "overall planning timeout")
	_ = solveCmd.MarkFlagRequired("planner")
}
