package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trajectoryc/internal/engine"
	"trajectoryc/internal/errors"
	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

// boolProblem builds a grounded problem over the given boolean fluents,
// all false initially unless listed in initiallyTrue.
func boolProblem(env *expr.Manager, fluents []string, initiallyTrue ...string) *model.Problem {
	prob := model.NewProblem("test", env)
	for _, name := range fluents {
		prob.AddFluent(&model.Fluent{Name: name, Type: model.BOOL_TYPE})
	}
	for _, name := range initiallyTrue {
		prob.SetInitialValue(env.FluentExp(name), env.TRUE())
	}
	return prob
}

func assignment(env *expr.Manager, fluent string, value bool) model.Effect {
	return model.Effect{Condition: env.TRUE(), Fluent: env.FluentExp(fluent), Value: env.Bool(value)}
}

func TestRejectsOtherCompilationKinds(t *testing.T) {
	env := expr.NewManager()
	prob := boolProblem(env, []string{"p"})

	_, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.GROUNDING)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorUnsupportedCompilationKind, errors.CodeOf(err))
}

func TestNoConstraintsLeavesProblemUntouched(t *testing.T) {
	env := expr.NewManager()
	prob := boolProblem(env, []string{"p", "q"}, "q")
	op := model.NewInstantaneousAction("op")
	op.AddPrecondition(env.FluentExp("q"))
	op.AddEffect(assignment(env, "p", true))
	prob.AddAction(op)
	prob.AddGoal(env.FluentExp("p"))

	result, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)

	out := result.Problem
	assert.Equal(t, "TrajectoryConstraintsRemover_test", out.Name)
	require.Len(t, out.Fluents(), 2, "no new fluents")
	require.Len(t, out.Actions(), 1)
	compiled := out.Actions()[0]
	assert.Equal(t, "op", compiled.Name)
	assert.Equal(t, []*expr.Node{env.FluentExp("q")}, compiled.Preconditions())
	assert.Len(t, compiled.Effects(), 1)
	assert.Equal(t, []*expr.Node{env.FluentExp("p")}, out.Goals())
	assert.True(t, out.InitialValue(env.FluentExp("q")).IsTrue())
	assert.Empty(t, out.TrajectoryConstraints())
}

func TestSometimeAddsMonitorEffectAndGoal(t *testing.T) {
	// S1: one action making p true; sometime(p).
	env := expr.NewManager()
	prob := boolProblem(env, []string{"p", "q"})
	op := model.NewInstantaneousAction("op")
	op.AddEffect(assignment(env, "p", true))
	prob.AddAction(op)
	prob.AddTrajectoryConstraint(env.Sometime(env.FluentExp("p")))

	result, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)

	out := result.Problem
	hold := env.FluentExp("hold-0")
	require.NotNil(t, out.Fluent("hold-0"))
	assert.Nil(t, out.InitialValue(hold), "monitor starts false")

	require.Len(t, out.Actions(), 1)
	effects := out.Actions()[0].Effects()
	require.Len(t, effects, 2)
	monitorEff := effects[1]
	assert.True(t, monitorEff.Condition.IsTrue(), "regressed condition simplifies to true")
	assert.Same(t, hold, monitorEff.Fluent)
	assert.True(t, monitorEff.Value.IsTrue())

	assert.Equal(t, []*expr.Node{hold}, out.Goals())
}

func TestAlwaysViolatedInInitialState(t *testing.T) {
	// P2: always(p) with p false initially.
	env := expr.NewManager()
	prob := boolProblem(env, []string{"p"})
	prob.AddTrajectoryConstraint(env.Always(env.FluentExp("p")))

	_, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorInitialStateViolation, errors.CodeOf(err))
	var ee *errors.EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "always", ee.Violated)
}

func TestSometimeBeforeViolatedInInitialState(t *testing.T) {
	// P3: sometime-before(p, q) with p already true.
	env := expr.NewManager()
	prob := boolProblem(env, []string{"p", "q"}, "p")
	prob.AddTrajectoryConstraint(env.SometimeBefore(env.FluentExp("p"), env.FluentExp("q")))

	_, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.Error(t, err)
	var ee *errors.EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "sometime-before", ee.Violated)
}

func TestAlwaysPrunesActionThatFalsifies(t *testing.T) {
	// S2: always(p); op makes p false; op must disappear.
	env := expr.NewManager()
	prob := boolProblem(env, []string{"p"}, "p")
	op := model.NewInstantaneousAction("op")
	op.AddEffect(assignment(env, "p", false))
	prob.AddAction(op)
	prob.AddTrajectoryConstraint(env.Always(env.FluentExp("p")))

	result, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)
	assert.Empty(t, result.Problem.Actions())
}

func TestAtMostOnceRewrite(t *testing.T) {
	// S3: at-most-once(p) with turn_on / turn_off.
	env := expr.NewManager()
	p := env.FluentExp("p")
	prob := boolProblem(env, []string{"p"})
	turnOn := model.NewInstantaneousAction("turn_on")
	turnOn.AddEffect(assignment(env, "p", true))
	turnOff := model.NewInstantaneousAction("turn_off")
	turnOff.AddEffect(assignment(env, "p", false))
	prob.AddAction(turnOn)
	prob.AddAction(turnOff)
	prob.AddTrajectoryConstraint(env.AtMostOnce(p))

	result, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)

	out := result.Problem
	seenPhi := env.FluentExp("seen-phi-0")
	require.NotNil(t, out.Fluent("seen-phi-0"))
	assert.Nil(t, out.InitialValue(seenPhi))

	on := out.Action("turn_on")
	require.NotNil(t, on)
	require.Len(t, on.Preconditions(), 1)
	assert.Same(t, env.Or(env.Not(seenPhi), p), on.Preconditions()[0])
	require.Len(t, on.Effects(), 2)
	assert.True(t, on.Effects()[1].Condition.IsTrue())
	assert.Same(t, seenPhi, on.Effects()[1].Fluent)

	off := out.Action("turn_off")
	require.NotNil(t, off)
	assert.Empty(t, off.Preconditions(), "closing the interval is always allowed")
	assert.Len(t, off.Effects(), 1, "no monitor effect for a falsifying action")

	assert.Empty(t, out.Goals(), "at-most-once is not a landmark")
}

func TestSometimeBeforeRewrite(t *testing.T) {
	// S4: sometime-before(p, q) with mark_p / mark_q.
	env := expr.NewManager()
	prob := boolProblem(env, []string{"p", "q"})
	markP := model.NewInstantaneousAction("mark_p")
	markP.AddEffect(assignment(env, "p", true))
	markQ := model.NewInstantaneousAction("mark_q")
	markQ.AddEffect(assignment(env, "q", true))
	prob.AddAction(markP)
	prob.AddAction(markQ)
	prob.AddTrajectoryConstraint(env.SometimeBefore(env.FluentExp("p"), env.FluentExp("q")))

	result, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)

	out := result.Problem
	seenPsi := env.FluentExp("seen-psi-0")
	assert.Nil(t, out.InitialValue(seenPsi))

	mp := out.Action("mark_p")
	require.NotNil(t, mp)
	require.Len(t, mp.Preconditions(), 1)
	assert.Same(t, seenPsi, mp.Preconditions()[0])
	assert.Len(t, mp.Effects(), 1, "mark_p does not touch psi")

	mq := out.Action("mark_q")
	require.NotNil(t, mq)
	assert.Empty(t, mq.Preconditions())
	require.Len(t, mq.Effects(), 2)
	assert.True(t, mq.Effects()[1].Condition.IsTrue())
	assert.Same(t, seenPsi, mq.Effects()[1].Fluent)

	assert.Empty(t, out.Goals(), "sometime-before is not a landmark")
}

func TestSometimeAfterRewrite(t *testing.T) {
	// S5: sometime-after(p, q).
	env := expr.NewManager()
	q := env.FluentExp("q")
	prob := boolProblem(env, []string{"p", "q"})
	setP := model.NewInstantaneousAction("set_p")
	setP.AddEffect(assignment(env, "p", true))
	setQ := model.NewInstantaneousAction("set_q")
	setQ.AddEffect(assignment(env, "q", true))
	prob.AddAction(setP)
	prob.AddAction(setQ)
	prob.AddTrajectoryConstraint(env.SometimeAfter(env.FluentExp("p"), q))

	result, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)

	out := result.Problem
	hold := env.FluentExp("hold-0")
	require.NotNil(t, out.Fluent("hold-0"))
	assert.True(t, out.InitialValue(hold).IsTrue(), "q or not p holds initially")
	assert.Equal(t, []*expr.Node{hold}, out.Goals())

	sp := out.Action("set_p")
	require.NotNil(t, sp)
	require.Len(t, sp.Effects(), 2)
	clearing := sp.Effects()[1]
	assert.Same(t, env.Not(q), clearing.Condition)
	assert.Same(t, hold, clearing.Fluent)
	assert.True(t, clearing.Value.IsFalse())

	sq := out.Action("set_q")
	require.NotNil(t, sq)
	require.Len(t, sq.Effects(), 2)
	setting := sq.Effects()[1]
	assert.True(t, setting.Condition.IsTrue())
	assert.Same(t, hold, setting.Fluent)
	assert.True(t, setting.Value.IsTrue())
}

func TestAtMostOnceKeepsUnregressedPhi(t *testing.T) {
	// The permit "phi was already true before the action" refers to the
	// pre-action phi: the right-hand disjunct must not be regressed.
	env := expr.NewManager()
	p, c := env.FluentExp("p"), env.FluentExp("c")
	prob := boolProblem(env, []string{"p", "c"})
	op := model.NewInstantaneousAction("op")
	op.AddEffect(model.Effect{Condition: c, Fluent: p, Value: env.TRUE()})
	prob.AddAction(op)
	prob.AddTrajectoryConstraint(env.AtMostOnce(p))

	result, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)

	seenPhi := env.FluentExp("seen-phi-0")
	compiled := result.Problem.Action("op")
	require.NotNil(t, compiled)
	require.Len(t, compiled.Preconditions(), 1)
	regressed := env.Or(c, p) // regress(p, op)
	assert.Same(t,
		env.Or(env.Not(regressed), env.Not(seenPhi), p),
		compiled.Preconditions()[0])

	require.Len(t, compiled.Effects(), 2)
	assert.Same(t, regressed, compiled.Effects()[1].Condition)
	assert.Same(t, seenPhi, compiled.Effects()[1].Fluent)
}

func TestMonitorAllocationIsInjective(t *testing.T) {
	// P5: one fresh monitor per constraint, counter shared across kinds.
	env := expr.NewManager()
	prob := boolProblem(env, []string{"p", "q", "r"})
	op := model.NewInstantaneousAction("op")
	op.AddEffect(assignment(env, "p", true))
	op.AddEffect(assignment(env, "q", true))
	op.AddEffect(assignment(env, "r", true))
	prob.AddAction(op)
	prob.AddTrajectoryConstraint(env.Sometime(env.FluentExp("p")))
	prob.AddTrajectoryConstraint(env.AtMostOnce(env.FluentExp("q")))
	prob.AddTrajectoryConstraint(env.SometimeBefore(env.FluentExp("r"), env.FluentExp("p")))

	result, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)

	out := result.Problem
	assert.NotNil(t, out.Fluent("hold-0"))
	assert.NotNil(t, out.Fluent("seen-phi-1"))
	assert.NotNil(t, out.Fluent("seen-psi-2"))
}

func TestUniversalConstraintExpandsOverObjects(t *testing.T) {
	env := expr.NewManager()
	block := &model.Type{Name: "block"}
	prob := model.NewProblem("blocks", env)
	prob.AddType(block)
	prob.AddObject(&model.Object{Name: "a", Type: block})
	prob.AddObject(&model.Object{Name: "b", Type: block})
	prob.AddFluent(&model.Fluent{Name: "painted", Type: model.BOOL_TYPE, Parameters: []expr.Param{{Name: "x", Type: "block"}}})
	paint := model.NewInstantaneousAction("paint", expr.Param{Name: "x", Type: "block"})
	paint.AddEffect(model.Effect{
		Condition: env.TRUE(),
		Fluent:    env.FluentExp("painted", env.ParamExp("x", "block")),
		Value:     env.TRUE(),
	})
	prob.AddAction(paint)
	prob.AddTrajectoryConstraint(env.Forall(
		[]expr.Param{{Name: "x", Type: "block"}},
		env.Sometime(env.FluentExp("painted", env.ParamExp("x", "block"))),
	))

	result, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)

	out := result.Problem
	require.NotNil(t, out.Fluent("hold-0"))
	require.NotNil(t, out.Fluent("hold-1"))
	require.Len(t, out.Goals(), 1)
	assert.Same(t, env.And(env.FluentExp("hold-0"), env.FluentExp("hold-1")), out.Goals()[0])

	paintA := out.Action("paint_a")
	require.NotNil(t, paintA)
	require.Len(t, paintA.Effects(), 2, "only its own block's monitor is relevant")
	assert.Same(t, env.FluentExp("hold-0"), paintA.Effects()[1].Fluent)
}

func TestExistentialConstraintRejected(t *testing.T) {
	env := expr.NewManager()
	block := &model.Type{Name: "block"}
	prob := model.NewProblem("blocks", env)
	prob.AddType(block)
	prob.AddObject(&model.Object{Name: "a", Type: block})
	prob.AddFluent(&model.Fluent{Name: "painted", Type: model.BOOL_TYPE, Parameters: []expr.Param{{Name: "x", Type: "block"}}})
	prob.AddTrajectoryConstraint(env.Exists(
		[]expr.Param{{Name: "x", Type: "block"}},
		env.Sometime(env.FluentExp("painted", env.ParamExp("x", "block"))),
	))

	_, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorUnsupportedConstraint, errors.CodeOf(err))
}

func TestPlanLifterRoundTrip(t *testing.T) {
	env := expr.NewManager()
	loc := &model.Type{Name: "loc"}
	prob := model.NewProblem("rover", env)
	prob.AddType(loc)
	prob.AddObject(&model.Object{Name: "l1", Type: loc})
	prob.AddObject(&model.Object{Name: "l2", Type: loc})
	prob.AddFluent(&model.Fluent{Name: "visited", Type: model.BOOL_TYPE, Parameters: []expr.Param{{Name: "l", Type: "loc"}}})
	visit := model.NewInstantaneousAction("visit", expr.Param{Name: "l", Type: "loc"})
	visit.AddEffect(model.Effect{
		Condition: env.TRUE(),
		Fluent:    env.FluentExp("visited", env.ParamExp("l", "loc")),
		Value:     env.TRUE(),
	})
	prob.AddAction(visit)
	prob.AddTrajectoryConstraint(env.Sometime(env.FluentExp("visited", env.ObjectExp("l2", "loc"))))

	result, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)

	ground := result.Problem.Action("visit_l2")
	require.NotNil(t, ground)
	lifted, err := result.LiftActionInstance(model.ActionInstance{Action: ground})
	require.NoError(t, err)
	assert.Same(t, visit, lifted.Action)
	require.Len(t, lifted.Params, 1)
	assert.Same(t, env.ObjectExp("l2", "loc"), lifted.Params[0])

	_, err = result.LiftActionInstance(model.ActionInstance{Action: model.NewInstantaneousAction("made_up")})
	assert.Error(t, err, "unknown instances fail the lookup")
}

func TestCompileDoesNotModifyInput(t *testing.T) {
	env := expr.NewManager()
	prob := boolProblem(env, []string{"p"})
	op := model.NewInstantaneousAction("op")
	op.AddEffect(assignment(env, "p", true))
	prob.AddAction(op)
	prob.AddTrajectoryConstraint(env.Sometime(env.FluentExp("p")))

	_, err := NewTrajectoryConstraintsRemover().Compile(prob, engine.TRAJECTORY_CONSTRAINTS_REMOVING)
	require.NoError(t, err)

	assert.Len(t, prob.TrajectoryConstraints(), 1)
	assert.Len(t, op.Effects(), 1)
	assert.Nil(t, prob.Fluent("hold-0"))
}
