package costshare

import (
	"math"

	"github.com/ronuchit/kstar/internal/landmark"
	"github.com/ronuchit/kstar/internal/task"
	"github.com/ronuchit/kstar/internal/types"
)

// LPModel is a linear program in the form used by optimal cost
// partitioning: maximize the sum of per-landmark values h_L >= 0 subject
// to, for every operator o, the sum of h_L over landmarks o achieves being
// at most cost(o).
type LPModel struct {
	// NumVariables is the number of h_L variables; variables are indexed
	// 0..NumVariables-1 and implicitly bounded below by zero.
	NumVariables int

	// Constraints are the per-operator capacity rows.
	Constraints []LPConstraint
}

// LPConstraint is one row: sum of Coefficients over its variables <= UpperBound.
type LPConstraint struct {
	// Coefficients maps variable index to coefficient; absent means zero.
	Coefficients map[int]float64

	UpperBound float64
}

// LPSolution is the solver's answer for an LPModel.
type LPSolution struct {
	// Feasible is false when the program has no solution.
	Feasible bool

	// Objective is the maximized objective value when feasible.
	Objective float64
}

// LPSolver solves the cost-partitioning linear program. The solver's
// numerics are deliberately outside this package; any implementation that
// returns the true optimum keeps the heuristic admissible.
type LPSolver interface {
	Solve(m LPModel) (LPSolution, error)
}

// OptimalAssignment computes the optimal cost partitioning by delegating
// the linear program to an injected solver.
type OptimalAssignment struct {
	graph  *landmark.Graph
	task   *task.Task
	solver LPSolver
}

// NewOptimalAssignment creates the LP-based strategy. The solver must not
// be nil.
func NewOptimalAssignment(g *landmark.Graph, t *task.Task, solver LPSolver) (*OptimalAssignment, error) {
	if solver == nil {
		return nil, types.NewError(types.COST_LP_SOLVER_MISSING,
			"optimal cost partitioning requires an LP solver")
	}
	return &OptimalAssignment{graph: g, task: t, solver: solver}, nil
}

// CostSharingValue implements Assignment by building the cost-partitioning
// LP for the currently relevant landmarks and returning its optimum. A
// relevant landmark with no achievers short-circuits to +Inf, and an
// infeasible program is reported as a solver error.
func (o *OptimalAssignment) CostSharingValue(reached []bool, s task.State) (float64, error) {
	// Map relevant landmarks to LP variable indices.
	varOf := make(map[int]int)
	for _, n := range o.graph.Nodes() {
		if !relevant(reached, s, n) {
			continue
		}
		if len(achievers(reached, n)) == 0 {
			return math.Inf(1), nil
		}
		varOf[n.ID()] = len(varOf)
	}
	if len(varOf) == 0 {
		return 0, nil
	}

	model := LPModel{NumVariables: len(varOf)}
	rows := make(map[int]*LPConstraint)
	for _, n := range o.graph.Nodes() {
		v, ok := varOf[n.ID()]
		if !ok {
			continue
		}
		for _, op := range achievers(reached, n) {
			row, ok := rows[op]
			if !ok {
				row = &LPConstraint{
					Coefficients: make(map[int]float64),
					UpperBound:   float64(o.task.Operators[op].Cost),
				}
				rows[op] = row
			}
			row.Coefficients[v] = 1
		}
	}
	for i := range o.task.Operators {
		if row, ok := rows[i]; ok {
			model.Constraints = append(model.Constraints, *row)
		}
	}

	sol, err := o.solver.Solve(model)
	if err != nil {
		return 0, types.WrapError(types.COST_LP_SOLVE_FAILED, "cost partitioning LP failed", err)
	}
	if !sol.Feasible {
		return 0, types.NewError(types.COST_LP_SOLVE_FAILED, "cost partitioning LP infeasible")
	}
	return sol.Objective, nil
}
