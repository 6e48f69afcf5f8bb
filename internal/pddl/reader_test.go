package pddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trajectoryc/internal/expr"
)

const roverDomain = `
; a small rover domain
(define (domain rover-domain)
  (:requirements :strips :typing :negative-preconditions :constraints)
  (:types loc)
  (:predicates
    (at ?l - loc)
    (visited ?l - loc)
  )
  (:action move
    :parameters (?from - loc ?to - loc)
    :precondition (and (at ?from) (not (at ?to)))
    :effect (and (not (at ?from)) (at ?to) (visited ?to))
  )
)
`

const roverProblem = `
(define (problem rover)
  (:domain rover-domain)
  (:objects l1 l2 - loc)
  (:init (at l1) (visited l1))
  (:goal (at l2))
  (:constraints (and
    (sometime (visited l2))
    (always (or (at l1) (at l2)))
  ))
)
`

func TestReadProblemBuildsModel(t *testing.T) {
	env := expr.NewManager()
	prob, err := ReadProblem(env, "d.pddl", roverDomain, "p.pddl", roverProblem)
	require.NoError(t, err)

	assert.Equal(t, "rover", prob.Name)
	assert.NotNil(t, prob.Type("loc"))
	assert.Len(t, prob.Objects(), 2)
	require.NotNil(t, prob.Fluent("at"))
	assert.Equal(t, 1, prob.Fluent("at").Arity())

	move := prob.Action("move")
	require.NotNil(t, move)
	assert.Len(t, move.Parameters, 2)
	require.Len(t, move.Preconditions(), 2)
	assert.Same(t, env.FluentExp("at", env.ParamExp("from", "loc")), move.Preconditions()[0])
	require.Len(t, move.Effects(), 3)
	assert.True(t, move.Effects()[0].Value.IsFalse())
	assert.True(t, move.Effects()[1].Value.IsTrue())

	assert.True(t, prob.InitialValue(env.FluentExp("at", env.ObjectExp("l1", "loc"))).IsTrue())
	require.Len(t, prob.Goals(), 1)
	require.Len(t, prob.TrajectoryConstraints(), 2)
	assert.True(t, prob.TrajectoryConstraints()[0].IsSometime())
	assert.True(t, prob.TrajectoryConstraints()[1].IsAlways())
}

func TestReadConditionalEffect(t *testing.T) {
	domain := `
(define (domain switches-domain)
  (:requirements :strips :conditional-effects)
  (:predicates (on) (glow))
  (:action flip
    :parameters ()
    :effect (and (on) (when (on) (glow)))
  )
)
`
	problem := `
(define (problem switches)
  (:domain switches-domain)
  (:init)
  (:goal (glow))
)
`
	env := expr.NewManager()
	prob, err := ReadProblem(env, "d.pddl", domain, "p.pddl", problem)
	require.NoError(t, err)

	flip := prob.Action("flip")
	require.NotNil(t, flip)
	require.Len(t, flip.Effects(), 2)
	assert.True(t, flip.Effects()[0].Condition.IsTrue())
	assert.Same(t, env.FluentExp("on"), flip.Effects()[1].Condition)
	assert.Same(t, env.FluentExp("glow"), flip.Effects()[1].Fluent)
}

func TestReadQuantifiedConstraint(t *testing.T) {
	domain := `
(define (domain paint-domain)
  (:requirements :strips :typing :constraints)
  (:types block)
  (:predicates (painted ?b - block))
  (:action paint
    :parameters (?b - block)
    :effect (painted ?b)
  )
)
`
	problem := `
(define (problem paint)
  (:domain paint-domain)
  (:objects a b - block)
  (:init)
  (:goal (and))
  (:constraints (forall (?b - block) (sometime (painted ?b))))
)
`
	env := expr.NewManager()
	prob, err := ReadProblem(env, "d.pddl", domain, "p.pddl", problem)
	require.NoError(t, err)

	require.Len(t, prob.TrajectoryConstraints(), 1)
	c := prob.TrajectoryConstraints()[0]
	assert.True(t, c.IsForall())
	assert.True(t, c.Arg(0).IsSometime())
}

func TestReadRejectsUnknownObject(t *testing.T) {
	problem := `
(define (problem broken)
  (:domain rover-domain)
  (:objects l1 - loc)
  (:init (at l9))
  (:goal (and))
)
`
	env := expr.NewManager()
	_, err := ReadProblem(env, "d.pddl", roverDomain, "p.pddl", problem)
	assert.Error(t, err)
}

func TestReadRejectsMalformedInput(t *testing.T) {
	env := expr.NewManager()
	_, err := ReadProblem(env, "d.pddl", "(define (domain x)", "p.pddl", "(define (problem y))")
	assert.Error(t, err)
}

func TestWriterReaderRoundTrip(t *testing.T) {
	env := expr.NewManager()
	prob, err := ReadProblem(env, "d.pddl", roverDomain, "p.pddl", roverProblem)
	require.NoError(t, err)

	var domainOut, problemOut strings.Builder
	w := NewWriter(prob)
	require.NoError(t, w.WriteDomain(&domainOut))
	require.NoError(t, w.WriteProblem(&problemOut))

	env2 := expr.NewManager()
	reparsed, err := ReadProblem(env2, "d.pddl", domainOut.String(), "p.pddl", problemOut.String())
	require.NoError(t, err)

	assert.Equal(t, prob.Name, reparsed.Name)
	assert.Len(t, reparsed.Actions(), len(prob.Actions()))
	assert.Len(t, reparsed.TrajectoryConstraints(), len(prob.TrajectoryConstraints()))
	move := reparsed.Action("move")
	require.NotNil(t, move)
	assert.Len(t, move.Preconditions(), 2)
	assert.Len(t, move.Effects(), 3)
}
