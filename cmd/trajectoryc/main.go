// Package main implements the trajectoryc CLI.
//
// Commands:
//   - compile  - remove trajectory constraints from a PDDL problem
//   - validate - execute a plan and check goals and constraints
//   - solve    - compile, run a registered external planner, lift the plan
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "trajectoryc",
	Short: "Trajectory-constraints compiler for PDDL planning problems",
	Long: `trajectoryc compiles away PDDL3 trajectory constraints (always, sometime,
at-most-once, sometime-before, sometime-after), encoding their semantics
into monitoring atoms, conditional effects, preconditions and goals, so
that any classical planner can solve the problem.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commonlog.Configure(verbosity, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbose", "v", 0, "log verbosity (0-2)")
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(solveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
