package costshare

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronuchit/kstar/internal/landmark"
	"github.com/ronuchit/kstar/internal/task"
	"github.com/ronuchit/kstar/internal/types"
)

func fp(v, val int) task.FactPair {
	return task.FactPair{Var: v, Value: val}
}

// sharedAchieverFixture: two goal landmarks, one operator achieving both
// plus a dedicated achiever each.
//
//	op "both" (cost 4) achieves A and B
//	op "onlyA" (cost 3) achieves A
//	op "onlyB" (cost 1) achieves B
func sharedAchieverFixture(t *testing.T) (*task.Task, *landmark.Graph) {
	t.Helper()
	tk := &task.Task{
		DomainSizes: []int{2, 2},
		Init:        task.State{0, 0},
		Goals:       []task.FactPair{fp(0, 1), fp(1, 1)},
		Operators: []task.Operator{
			{ID: 0, Name: "both", Cost: 4, Effects: []task.Effect{{Fact: fp(0, 1)}, {Fact: fp(1, 1)}}},
			{ID: 1, Name: "onlyA", Cost: 3, Effects: []task.Effect{{Fact: fp(0, 1)}}},
			{ID: 2, Name: "onlyB", Cost: 1, Effects: []task.Effect{{Fact: fp(1, 1)}}},
		},
	}
	g, err := landmark.FromGoals(tk)
	require.NoError(t, err)
	return tk, g
}

func TestUniformAssignment_SharedOperatorCostSplit(t *testing.T) {
	tk, g := sharedAchieverFixture(t)
	u := NewUniformAssignment(g, tk)
	reached := make([]bool, g.NumLandmarks())

	h, err := u.CostSharingValue(reached, tk.Init)
	require.NoError(t, err)

	// "both" is shared by two relevant landmarks: share 4/2 = 2 each.
	// A: min(2, 3/1) = 2. B: min(2, 1/1) = 1. Total 3.
	assert.InDelta(t, 3.0, h, 1e-9)
}

func TestUniformAssignment_ReachedLandmarkContributesNothing(t *testing.T) {
	tk, g := sharedAchieverFixture(t)
	u := NewUniformAssignment(g, tk)

	reached := make([]bool, g.NumLandmarks())
	reached[g.LandmarkFor(fp(0, 1)).ID()] = true
	s := task.State{1, 0}

	h, err := u.CostSharingValue(reached, s)
	require.NoError(t, err)

	// Only B is relevant; "both" is no longer shared: min(4, 1) = 1.
	assert.InDelta(t, 1.0, h, 1e-9)
}

func TestUniformAssignment_NoAchieverIsInfinite(t *testing.T) {
	tk, g := sharedAchieverFixture(t)
	g.LandmarkFor(fp(1, 1)).FirstAchievers = make([]int, 0)
	u := NewUniformAssignment(g, tk)
	reached := make([]bool, g.NumLandmarks())

	h, err := u.CostSharingValue(reached, tk.Init)
	require.NoError(t, err)
	assert.True(t, math.IsInf(h, 1))
}

func TestUniformAssignment_AllReachedIsZero(t *testing.T) {
	tk, g := sharedAchieverFixture(t)
	u := NewUniformAssignment(g, tk)

	reached := []bool{true, true}
	s := task.State{1, 1}

	h, err := u.CostSharingValue(reached, s)
	require.NoError(t, err)
	assert.Zero(t, h)
}

// stubSolver returns a canned solution and records the last model.
type stubSolver struct {
	solution  LPSolution
	err       error
	lastModel LPModel
}

func (s *stubSolver) Solve(m LPModel) (LPSolution, error) {
	s.lastModel = m
	return s.solution, s.err
}

func TestNewOptimalAssignment_RequiresSolver(t *testing.T) {
	tk, g := sharedAchieverFixture(t)

	_, err := NewOptimalAssignment(g, tk, nil)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.COST_LP_SOLVER_MISSING))
}

func TestOptimalAssignment_BuildsPerOperatorConstraints(t *testing.T) {
	tk, g := sharedAchieverFixture(t)
	solver := &stubSolver{solution: LPSolution{Feasible: true, Objective: 4.0}}
	o, err := NewOptimalAssignment(g, tk, solver)
	require.NoError(t, err)

	reached := make([]bool, g.NumLandmarks())
	h, err := o.CostSharingValue(reached, tk.Init)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, h, 1e-9)

	m := solver.lastModel
	assert.Equal(t, 2, m.NumVariables)
	require.Len(t, m.Constraints, 3, "one capacity row per achieving operator")

	// The "both" row covers two variables with bound 4.
	var sharedRows int
	for _, row := range m.Constraints {
		if len(row.Coefficients) == 2 {
			sharedRows++
			assert.InDelta(t, 4.0, row.UpperBound, 1e-9)
		}
	}
	assert.Equal(t, 1, sharedRows)
}

func TestOptimalAssignment_NoRelevantLandmarksSkipsSolver(t *testing.T) {
	tk, g := sharedAchieverFixture(t)
	solver := &stubSolver{err: fmt.Errorf("must not be called")}
	o, err := NewOptimalAssignment(g, tk, solver)
	require.NoError(t, err)

	h, err := o.CostSharingValue([]bool{true, true}, task.State{1, 1})
	require.NoError(t, err)
	assert.Zero(t, h)
}

func TestOptimalAssignment_NoAchieverIsInfinite(t *testing.T) {
	tk, g := sharedAchieverFixture(t)
	g.LandmarkFor(fp(0, 1)).FirstAchievers = make([]int, 0)
	solver := &stubSolver{solution: LPSolution{Feasible: true}}
	o, err := NewOptimalAssignment(g, tk, solver)
	require.NoError(t, err)

	h, err := o.CostSharingValue(make([]bool, g.NumLandmarks()), tk.Init)
	require.NoError(t, err)
	assert.True(t, math.IsInf(h, 1))
}

func TestOptimalAssignment_SolverErrorWrapped(t *testing.T) {
	tk, g := sharedAchieverFixture(t)
	solver := &stubSolver{err: fmt.Errorf("numerical trouble")}
	o, err := NewOptimalAssignment(g, tk, solver)
	require.NoError(t, err)

	_, err = o.CostSharingValue(make([]bool, g.NumLandmarks()), tk.Init)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.COST_LP_SOLVE_FAILED))
}

func TestOptimalAssignment_InfeasibleIsError(t *testing.T) {
	tk, g := sharedAchieverFixture(t)
	solver := &stubSolver{solution: LPSolution{Feasible: false}}
	o, err := NewOptimalAssignment(g, tk, solver)
	require.NoError(t, err)

	_, err = o.CostSharingValue(make([]bool, g.NumLandmarks()), tk.Init)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.COST_LP_SOLVE_FAILED))
}
