package landmark

import (
	"github.com/ronuchit/kstar/internal/task"
)

// FromGoals builds the trivial landmark graph containing one simple goal
// landmark per goal fact, with achiever lists computed from the task's
// operators. Every goal fact is a sound landmark by definition, so the
// resulting graph is valid input for both heuristic modes. Landmark mining
// beyond this baseline is the job of external factories.
func FromGoals(t *task.Task) (*Graph, error) {
	g := NewGraph()
	seen := make(map[task.FactPair]bool)
	for _, goal := range t.Goals {
		if seen[goal] {
			continue
		}
		seen[goal] = true
		if _, err := g.AddNode([]task.FactPair{goal}, false, true, 1); err != nil {
			return nil, err
		}
	}
	g.ComputeAchievers(t)
	return g, nil
}
