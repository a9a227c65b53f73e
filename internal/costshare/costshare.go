// Package costshare implements the cost-assignment strategies behind the
// admissible landmark heuristic. Each operator's cost is partitioned across
// the landmarks it helps achieve so the per-landmark contributions sum to
// an admissible lower bound.
package costshare

import (
	"math"

	"github.com/ronuchit/kstar/internal/landmark"
	"github.com/ronuchit/kstar/internal/task"
)

// Assignment computes a fractional admissible lower bound for the current
// reached vector and state. An infinite result signals that some required
// landmark has no achiever, which the evaluator reports as a dead end.
type Assignment interface {
	CostSharingValue(reached []bool, s task.State) (float64, error)
}

// relevant reports whether a landmark still demands cost: it is unreached,
// or reached but needed again.
func relevant(reached []bool, s task.State, n *landmark.Node) bool {
	if !reached[n.ID()] {
		return true
	}
	return landmark.NeededAgain(reached, s, n)
}

// achievers returns the operator ids that may achieve the landmark in its
// current status: first achievers while unreached, possible achievers once
// it is needed again.
func achievers(reached []bool, n *landmark.Node) []int {
	if !reached[n.ID()] {
		return n.FirstAchievers
	}
	return n.PossibleAchievers
}

// UniformAssignment distributes each operator's cost uniformly over the
// relevant landmarks it achieves; a landmark's contribution is the cheapest
// share among its achievers.
type UniformAssignment struct {
	graph *landmark.Graph
	task  *task.Task
}

// NewUniformAssignment creates the uniform cost-partitioning strategy.
func NewUniformAssignment(g *landmark.Graph, t *task.Task) *UniformAssignment {
	return &UniformAssignment{graph: g, task: t}
}

// CostSharingValue implements Assignment. The value is
//
//	sum over relevant landmarks L of  min over achievers o of cost(o) / |relevant landmarks o achieves|
//
// which never exceeds the true remaining cost because every operator's cost
// is counted at most once in total. A relevant landmark with no achievers
// yields +Inf.
func (u *UniformAssignment) CostSharingValue(reached []bool, s task.State) (float64, error) {
	// How many relevant landmarks each operator helps achieve.
	sharedBy := make([]int, len(u.task.Operators))
	for _, n := range u.graph.Nodes() {
		if !relevant(reached, s, n) {
			continue
		}
		for _, op := range achievers(reached, n) {
			sharedBy[op]++
		}
	}

	h := 0.0
	for _, n := range u.graph.Nodes() {
		if !relevant(reached, s, n) {
			continue
		}
		minShare := math.Inf(1)
		for _, op := range achievers(reached, n) {
			share := float64(u.task.Operators[op].Cost) / float64(sharedBy[op])
			if share < minShare {
				minShare = share
			}
		}
		h += minShare
		if math.IsInf(h, 1) {
			return h, nil
		}
	}
	return h, nil
}
