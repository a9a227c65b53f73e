package landmark

import (
	"github.com/ronuchit/kstar/internal/task"
)

// Costs is the cost accounting for one reached vector: the summed cost of
// all landmarks, of landmarks counted as satisfied, and of landmarks that
// are reached but must be re-achieved. The counting heuristic value is
// Total - Reached + Needed.
type Costs struct {
	Total   int
	Reached int
	Needed  int
}

// CountCosts computes the cost accounting for the given reached vector and
// state. It is a pure function: nothing on the graph is mutated, so there
// is no per-call state to reset.
func CountCosts(g *Graph, reached []bool, s task.State) Costs {
	var c Costs
	for _, n := range g.Nodes() {
		c.Total += n.Cost
		if reached[n.ID()] {
			c.Reached += n.Cost
			if NeededAgain(reached, s, n) {
				c.Needed += n.Cost
			}
		}
	}
	return c
}
