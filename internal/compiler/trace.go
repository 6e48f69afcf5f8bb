package compiler

import (
	"fmt"

	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// ValidatePlan executes the plan over the problem's transition system and
// checks that the final state satisfies the goals and the whole state
// sequence satisfies every trajectory constraint.
func ValidatePlan(problem *model.Problem, plan *model.SequentialPlan) error {
	states, err := problem.Trace(plan)
	if err != nil {
		return err
	}
	final := states[len(states)-1]
	for _, goal := range problem.Goals() {
		holds, err := final.Eval(goal)
		if err != nil {
			return err
		}
		if !holds {
			return fmt.Errorf("goal %s does not hold in the final state", goal)
		}
	}
	return CheckTrajectoryConstraints(states, problem.TrajectoryConstraints())
}

// CheckTrajectoryConstraints verifies each constraint against a state
// sequence, returning an error describing the first violation.
func CheckTrajectoryConstraints(states []model.State, constraints []*expr.Node) error {
	for _, c := range constraints {
		ok, err := holdsOnTrace(states, c)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("trajectory constraint %s is violated", c)
		}
	}
	return nil
}

func holdsOnTrace(states []model.State, constraint *expr.Node) (bool, error) {
	switch constraint.Kind() {
	case expr.ALWAYS:
		truths, err := truthProfile(states, constraint.Arg(0))
		if err != nil {
			return false, err
		}
		for _, v := range truths {
			if !v {
				return false, nil
			}
		}
		return true, nil

	case expr.SOMETIME:
		truths, err := truthProfile(states, constraint.Arg(0))
		if err != nil {
			return false, err
		}
		for _, v := range truths {
			if v {
				return true, nil
			}
		}
		return false, nil

	case expr.AT_MOST_ONCE:
		truths, err := truthProfile(states, constraint.Arg(0))
		if err != nil {
			return false, err
		}
		intervals := 0
		inside := false
		for _, v := range truths {
			if v && !inside {
				intervals++
			}
			inside = v
		}
		return intervals <= 1, nil

	case expr.SOMETIME_BEFORE:
		phis, err := truthProfile(states, constraint.Arg(0))
		if err != nil {
			return false, err
		}
		psis, err := truthProfile(states, constraint.Arg(1))
		if err != nil {
			return false, err
		}
		for i, phi := range phis {
			if !phi {
				continue
			}
			sawPsi := false
			for j := 0; j < i; j++ {
				if psis[j] {
					sawPsi = true
					break
				}
			}
			if !sawPsi {
				return false, nil
			}
		}
		return true, nil

	case expr.SOMETIME_AFTER:
		phis, err := truthProfile(states, constraint.Arg(0))
		if err != nil {
			return false, err
		}
		psis, err := truthProfile(states, constraint.Arg(1))
		if err != nil {
			return false, err
		}
		for i, phi := range phis {
			if !phi {
				continue
			}
			sawPsi := false
			for j := i; j < len(psis); j++ {
				if psis[j] {
					sawPsi = true
					break
				}
			}
			if !sawPsi {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, fmt.Errorf("not a trajectory constraint: %s", constraint)
	}
}

func truthProfile(states []model.State, phi *expr.Node) ([]bool, error) {
	out := make([]bool, len(states))
	for i, s := range states {
		v, err := s.Eval(phi)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
