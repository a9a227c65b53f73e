// Package exploration implements a delete-relaxation exploration: starting
// from a state, it computes which facts are reachable when effects
// only ever add facts, and extracts a relaxed plan to a disjunctive goal
// set. The heuristic layer uses it as the fallback source of preferred
// operators when no helpful action is directly visible.
package exploration

import (
	"errors"
	"sort"

	"github.com/ronuchit/kstar/internal/task"
)

// ErrNilTask is returned by New when no task is supplied.
var ErrNilTask = errors.New("exploration: nil task")

// factSupport records how a fact was first derived during the relaxed
// sweep: the operator that added it and the facts that had to hold for the
// operator's effect to fire.
type factSupport struct {
	layer      int
	achiever   int // operator id, -1 for facts true in the start state
	supporters []task.FactPair
}

// RelaxedExploration runs relaxed plan searches toward disjunctive goal
// sets. The exported operator-id buffer persists across calls and is read
// by the caller after a successful search; the caller owns clearing it.
type RelaxedExploration struct {
	task            *task.Task
	additionalGoals []task.FactPair
	exported        []int
}

// New creates a RelaxedExploration for the task.
func New(t *task.Task) (*RelaxedExploration, error) {
	if t == nil {
		return nil, ErrNilTask
	}
	return &RelaxedExploration{task: t}, nil
}

// SetAdditionalGoals configures extra goal facts that are merged into the
// disjunction of the next PlanForDisjunctiveGoal call.
func (e *RelaxedExploration) SetAdditionalGoals(goals []task.FactPair) {
	e.additionalGoals = append(e.additionalGoals[:0], goals...)
}

// ExportedOperators returns the operator ids of the last found relaxed
// plan, in application order. The slice is owned by the exploration; read
// it before calling ClearExported.
func (e *RelaxedExploration) ExportedOperators() []int {
	return e.exported
}

// ClearExported empties the exported operator buffer. Callers must invoke
// it after every search, on success and failure alike, or stale operators
// bleed into the next call.
func (e *RelaxedExploration) ClearExported() {
	e.exported = e.exported[:0]
}

// PlanForDisjunctiveGoal searches for a relaxed plan from s to any fact in
// the union of goals and the configured additional goals. It reports
// whether one was found; on success the plan's operator ids are appended
// to the exported buffer. Not finding a plan is a normal outcome, not an
// error: under delete relaxation it proves the goals unreachable.
func (e *RelaxedExploration) PlanForDisjunctiveGoal(goals []task.FactPair, s task.State) bool {
	disjunction := make([]task.FactPair, 0, len(goals)+len(e.additionalGoals))
	disjunction = append(disjunction, goals...)
	disjunction = append(disjunction, e.additionalGoals...)
	if len(disjunction) == 0 {
		return false
	}

	supports := e.explore(s)

	// Choose the goal fact reached in the earliest layer.
	best := task.FactPair{Var: -1}
	bestLayer := -1
	for _, g := range disjunction {
		sup, ok := supports[g]
		if !ok {
			continue
		}
		if bestLayer < 0 || sup.layer < bestLayer {
			best = g
			bestLayer = sup.layer
		}
	}
	if bestLayer < 0 {
		return false
	}

	e.extractPlan(best, supports)
	return true
}

// explore computes the relaxed fixpoint from s, recording for every
// derivable fact the operator and supporting facts that first added it.
func (e *RelaxedExploration) explore(s task.State) map[task.FactPair]factSupport {
	supports := make(map[task.FactPair]factSupport, len(s))
	for v, val := range s {
		supports[task.FactPair{Var: v, Value: val}] = factSupport{achiever: -1}
	}

	// The sweep runs until a full pass adds nothing. Every earlier pass
	// adds at least one fact, and the fact space is finite, so it
	// terminates; a single operator may keep contributing across passes
	// when its conditional effects feed each other.
	for layer := 1; ; layer++ {
		added := false
		for i := range e.task.Operators {
			op := &e.task.Operators[i]
			if !preconditionsHold(op.Preconditions, supports) {
				continue
			}
			for _, eff := range op.Effects {
				if _, known := supports[eff.Fact]; known {
					continue
				}
				if !preconditionsHold(eff.Conditions, supports) {
					continue
				}
				supporters := make([]task.FactPair, 0, len(op.Preconditions)+len(eff.Conditions))
				supporters = append(supporters, op.Preconditions...)
				supporters = append(supporters, eff.Conditions...)
				supports[eff.Fact] = factSupport{
					layer:      layer,
					achiever:   op.ID,
					supporters: supporters,
				}
				added = true
			}
		}
		if !added {
			break
		}
	}
	return supports
}

func preconditionsHold(facts []task.FactPair, supports map[task.FactPair]factSupport) bool {
	for _, f := range facts {
		if _, ok := supports[f]; !ok {
			return false
		}
	}
	return true
}

// extractPlan backchains from the goal fact through recorded supports and
// appends the collected operator ids to the exported buffer in layer order.
func (e *RelaxedExploration) extractPlan(goal task.FactPair, supports map[task.FactPair]factSupport) {
	type planOp struct {
		id    int
		layer int
	}
	var plan []planOp
	inPlan := make(map[int]bool)
	visited := make(map[task.FactPair]bool)

	var chase func(f task.FactPair)
	chase = func(f task.FactPair) {
		if visited[f] {
			return
		}
		visited[f] = true
		sup := supports[f]
		if sup.achiever < 0 {
			return
		}
		for _, need := range sup.supporters {
			chase(need)
		}
		if !inPlan[sup.achiever] {
			inPlan[sup.achiever] = true
			plan = append(plan, planOp{id: sup.achiever, layer: sup.layer})
		}
	}
	chase(goal)

	sort.SliceStable(plan, func(i, j int) bool { return plan[i].layer < plan[j].layer })
	for _, p := range plan {
		e.exported = append(e.exported, p.id)
	}
}
