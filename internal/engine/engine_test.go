package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trajectoryc/internal/expr"
	"trajectoryc/internal/model"
)

func TestCompilationKindString(t *testing.T) {
	assert.Equal(t, "GROUNDING", GROUNDING.String())
	assert.Equal(t, "TRAJECTORY_CONSTRAINTS_REMOVING", TRAJECTORY_CONSTRAINTS_REMOVING.String())
}

func TestLiftPlanMapsEveryStep(t *testing.T) {
	env := expr.NewManager()
	ground := model.NewInstantaneousAction("move_l1_l2")
	lifted := model.NewInstantaneousAction("move", expr.Param{Name: "from", Type: "loc"}, expr.Param{Name: "to", Type: "loc"})

	result := &CompilerResult{
		LiftActionInstance: func(ai model.ActionInstance) (model.ActionInstance, error) {
			if ai.Action.Name != "move_l1_l2" {
				return model.ActionInstance{}, fmt.Errorf("unknown action %s", ai.Action.Name)
			}
			return model.ActionInstance{
				Action: lifted,
				Params: []*expr.Node{env.ObjectExp("l1", "loc"), env.ObjectExp("l2", "loc")},
			}, nil
		},
		EngineName: "test",
	}

	plan := &model.SequentialPlan{Actions: []model.ActionInstance{{Action: ground}, {Action: ground}}}
	mapped, err := result.LiftPlan(plan)
	require.NoError(t, err)
	require.Len(t, mapped.Actions, 2)
	assert.Same(t, lifted, mapped.Actions[0].Action)
	assert.Equal(t, "(move l1 l2)", mapped.Actions[0].String())

	_, err = result.LiftPlan(&model.SequentialPlan{Actions: []model.ActionInstance{{Action: model.NewInstantaneousAction("other")}}})
	assert.Error(t, err)
}
