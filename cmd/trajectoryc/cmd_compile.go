package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trajectoryc/internal/compiler"
	"trajectoryc/internal/engine"
	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
	"trajectoryc/internal/pddl"
)

var compileOut string

var compileCmd = &cobra.Command{
	Use:   "compile <domain.pddl> <problem.pddl>",
	Short: "Remove trajectory constraints from a problem",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prob, err := readProblem(args[0], args[1])
		if err != nil {
			return err
		}

		result, err := compiler.NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
		if err != nil {
			return reportEngineError(err)
		}

		outDir := compileOut
		if outDir == "" {
			outDir = filepath.Dir(args[1])
		}
		base := strings.TrimSuffix(filepath.Base(args[1]), filepath.Ext(args[1]))
		domainPath := filepath.Join(outDir, base+"_compiled_domain.pddl")
		problemPath := filepath.Join(outDir, base+"_compiled_problem.pddl")

		w := pddl.NewWriter(result.Problem)
		if err := w.WriteDomainFile(domainPath); err != nil {
			return err
		}
		if err := w.WriteProblemFile(problemPath); err != nil {
			return err
		}

		color.Green("compiled %s", prob.Name)
		fmt.Printf("  domain:  %s\n", domainPath)
		fmt.Printf("  problem: %s\n", problemPath)
		fmt.Printf("  actions: %d, fluents: %d\n", len(result.Problem.Actions()), len(result.Problem.Fluents()))
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "output directory (defaults next to the problem file)")
}

// readProblem loads and parses a domain/problem pair, reporting parse
// errors with a caret.
func readProblem(domainPath, problemPath string) (*model.Problem, error) {
	domainSource, err := os.ReadFile(domainPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	problemSource, err := os.ReadFile(problemPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	env := expr.NewManager()
	prob, err := pddl.ReadProblem(env, domainPath, string(domainSource), problemPath, string(problemSource))
	if err != nil {
		reportParseError(string(domainSource), string(problemSource), err)
		return nil, err
	}
	return prob, nil
}
