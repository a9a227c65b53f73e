package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronuchit/kstar/internal/types"
)

// chainTask builds a 3-variable task where op i flips variable i from 0 to 1
// and requires variable i-1 to already be 1.
func chainTask() *Task {
	t := &Task{
		Name:        "chain",
		DomainSizes: []int{2, 2, 2},
		Init:        State{0, 0, 0},
		Goals:       []FactPair{{Var: 2, Value: 1}},
		Operators: []Operator{
			{Name: "set0", Cost: 1, Effects: []Effect{{Fact: FactPair{Var: 0, Value: 1}}}},
			{Name: "set1", Cost: 1,
				Preconditions: []FactPair{{Var: 0, Value: 1}},
				Effects:       []Effect{{Fact: FactPair{Var: 1, Value: 1}}}},
			{Name: "set2", Cost: 1,
				Preconditions: []FactPair{{Var: 1, Value: 1}},
				Effects:       []Effect{{Fact: FactPair{Var: 2, Value: 1}}}},
		},
	}
	for i := range t.Operators {
		t.Operators[i].ID = i
	}
	return t
}

func TestState_Contains(t *testing.T) {
	s := State{1, 0, 2}

	assert.True(t, s.Contains(FactPair{Var: 0, Value: 1}))
	assert.False(t, s.Contains(FactPair{Var: 1, Value: 1}))
	assert.False(t, s.Contains(FactPair{Var: 5, Value: 0}), "out-of-range var is never contained")
}

func TestState_Key_DistinguishesStates(t *testing.T) {
	assert.NotEqual(t, State{1, 12}.Key(), State{11, 2}.Key())
	assert.Equal(t, State{0, 1}.Key(), State{0, 1}.Key())
}

func TestOperator_ApplicableIn(t *testing.T) {
	task := chainTask()
	init := task.Init

	assert.True(t, task.Operators[0].ApplicableIn(init))
	assert.False(t, task.Operators[1].ApplicableIn(init))
}

func TestOperator_Apply_UnconditionalEffect(t *testing.T) {
	task := chainTask()
	succ := task.Operators[0].Apply(task.Init)

	assert.Equal(t, State{1, 0, 0}, succ)
	assert.Equal(t, State{0, 0, 0}, task.Init, "Apply must not mutate the input state")
}

func TestOperator_Apply_ConditionalEffectSkippedWhenConditionFalse(t *testing.T) {
	op := Operator{
		Name: "cond",
		Effects: []Effect{
			{Fact: FactPair{Var: 0, Value: 1}},
			{Conditions: []FactPair{{Var: 1, Value: 1}}, Fact: FactPair{Var: 2, Value: 1}},
		},
	}
	succ := op.Apply(State{0, 0, 0})

	assert.Equal(t, State{1, 0, 0}, succ, "conditional effect must not fire")

	succ = op.Apply(State{0, 1, 0})
	assert.Equal(t, State{1, 1, 1}, succ, "conditional effect fires when condition holds")
}

func TestTask_ApplicableOperators(t *testing.T) {
	task := chainTask()

	ops := task.ApplicableOperators(State{0, 0, 0})
	require.Len(t, ops, 1)
	assert.Equal(t, "set0", ops[0].Name)

	ops = task.ApplicableOperators(State{1, 1, 0})
	require.Len(t, ops, 3)
}

func TestTask_IsGoalState(t *testing.T) {
	task := chainTask()

	assert.False(t, task.IsGoalState(State{1, 1, 0}))
	assert.True(t, task.IsGoalState(State{1, 1, 1}))
}

func TestTask_HasConditionalEffects(t *testing.T) {
	task := chainTask()
	assert.False(t, task.HasConditionalEffects())

	task.Operators[0].Effects[0].Conditions = []FactPair{{Var: 1, Value: 0}}
	assert.True(t, task.HasConditionalEffects())
}

func TestTask_Validate_RejectsOutOfRangeFact(t *testing.T) {
	task := chainTask()
	task.Goals = append(task.Goals, FactPair{Var: 9, Value: 0})

	err := task.Validate()
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.TASK_FACT_OUT_OF_RANGE))
}

func TestTask_Validate_RejectsNegativeCost(t *testing.T) {
	task := chainTask()
	task.Operators[0].Cost = -1

	err := task.Validate()
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.TASK_INVALID))
}

func TestLoad_YAMLRoundTrip(t *testing.T) {
	data := []byte(`
name: tiny
variables: [2, 2]
init: [0, 0]
goals:
  - {var: 1, value: 1}
operators:
  - name: a
    cost: 2
    effects:
      - fact: {var: 0, value: 1}
  - name: b
    cost: 1
    preconditions:
      - {var: 0, value: 1}
    effects:
      - fact: {var: 1, value: 1}
        when:
          - {var: 0, value: 1}
`)
	task, err := Load(data)
	require.NoError(t, err)

	assert.Equal(t, "tiny", task.Name)
	require.Len(t, task.Operators, 2)
	assert.Equal(t, 0, task.Operators[0].ID)
	assert.Equal(t, 1, task.Operators[1].ID)
	assert.True(t, task.HasConditionalEffects())
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load([]byte("operators: {not: [valid"))
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.TASK_PARSE_FAILED))
}
