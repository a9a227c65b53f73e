package landmark

import (
	"github.com/ronuchit/kstar/internal/task"
)

// StatusManager tracks, per visited state, which landmarks have been
// reached. It is the only source of "reached" information for the heuristic
// layer. Reached vectors are keyed by state and progressed along search
// transitions, so a landmark achieved before its order-parents were reached
// is deliberately not counted.
type StatusManager struct {
	graph   *Graph
	reached map[string][]bool
}

// NewStatusManager creates a status manager for the given graph.
func NewStatusManager(g *Graph) *StatusManager {
	return &StatusManager{
		graph:   g,
		reached: make(map[string][]bool),
	}
}

// ProgressInitialState computes the reached vector for the initial state
// from scratch: a landmark counts as reached iff it has no order-parents
// and already holds in the initial state. Must be called before any other
// query.
func (m *StatusManager) ProgressInitialState(init task.State) {
	v := make([]bool, m.graph.NumLandmarks())
	for _, n := range m.graph.Nodes() {
		if len(n.Parents()) == 0 && n.IsTrueIn(init) {
			v[n.ID()] = true
		}
	}
	m.reached[init.Key()] = v
}

// ProgressTransition updates the child state's reached vector from the
// parent's: a landmark is reached in the child if it was reached in the
// parent, or it holds in the child and all its order-parents were reached
// in the parent.
func (m *StatusManager) ProgressTransition(parent task.State, op *task.Operator, child task.State) {
	_ = op // the operator determines child; the progression only needs the states
	prev, ok := m.reached[parent.Key()]
	if !ok {
		// Unseen parent: treat as an initial-state computation for the child.
		m.ProgressInitialState(parent)
		prev = m.reached[parent.Key()]
	}
	key := child.Key()
	v, ok := m.reached[key]
	if !ok {
		v = make([]bool, m.graph.NumLandmarks())
		copy(v, prev)
		m.reached[key] = v
	} else {
		// Revisited state: a landmark is only kept reached if every path kept
		// it reached, so intersect with the progression from this parent.
		next := make([]bool, len(prev))
		copy(next, prev)
		m.progressInto(next, child)
		for i := range v {
			v[i] = v[i] && next[i]
		}
		return
	}
	m.progressInto(v, child)
}

func (m *StatusManager) progressInto(v []bool, child task.State) {
	for _, n := range m.graph.Nodes() {
		if v[n.ID()] {
			continue
		}
		if !n.IsTrueIn(child) {
			continue
		}
		allParentsReached := true
		for pid := range n.Parents() {
			if !v[pid] {
				allParentsReached = false
				break
			}
		}
		if allParentsReached {
			v[n.ID()] = true
		}
	}
}

// Update derives the landmark statuses for s and returns the structural
// dead-end verdict: true if some unreached landmark has provably no first
// achiever, or some needed-again landmark has provably no possible
// achiever. Calling Update twice on the same state with no intervening
// transition yields the same vector and verdict; the derivation is pure.
func (m *StatusManager) Update(s task.State) bool {
	v := m.vectorFor(s)
	for _, n := range m.graph.Nodes() {
		if !v[n.ID()] {
			if n.FirstAchievers != nil && len(n.FirstAchievers) == 0 {
				return true
			}
			continue
		}
		if NeededAgain(v, s, n) {
			if n.PossibleAchievers != nil && len(n.PossibleAchievers) == 0 {
				return true
			}
		}
	}
	return false
}

// ReachedVector returns the reached vector for s. The vector is owned by
// the manager; callers must not mutate it.
func (m *StatusManager) ReachedVector(s task.State) []bool {
	return m.vectorFor(s)
}

func (m *StatusManager) vectorFor(s task.State) []bool {
	v, ok := m.reached[s.Key()]
	if !ok {
		// States are normally announced via the lifecycle hooks; fall back
		// to a from-scratch computation for states evaluated cold.
		m.ProgressInitialState(s)
		v = m.reached[s.Key()]
	}
	return v
}

// NeededAgain reports whether a reached landmark must be re-achieved: it is
// currently false in the state and is either a goal landmark or has a
// greedy-necessary child that is not reached yet.
func NeededAgain(reached []bool, s task.State, n *Node) bool {
	if !reached[n.ID()] || n.IsTrueIn(s) {
		return false
	}
	if n.Goal {
		return true
	}
	for cid, ot := range n.Children() {
		if ot == GreedyNecessary && !reached[cid] {
			return true
		}
	}
	return false
}
