// Package landmark provides the landmark graph and its per-state status
// bookkeeping. Nodes live in a fixed arena with stable integer ids, so
// reached-sets are plain boolean vectors indexed by node id and membership
// checks are O(1) with no pointer-lifetime hazards.
//
// The graph is immutable once built: the heuristic layer only queries it.
// Cost accounting is a pure function over a reached vector (see CountCosts),
// not mutable graph state, so nothing has to be reset between evaluations.
//
// Errors:
//
//	ErrNoFacts        - a node was added with an empty fact list.
//	ErrDuplicateFact  - a fact is already claimed by another node.
//	ErrForeignNode    - an ordering references a node from another graph.
//	ErrSelfOrder      - an ordering from a node to itself.
package landmark

import (
	"errors"

	"github.com/ronuchit/kstar/internal/task"
)

// Sentinel errors for graph construction.
var (
	// ErrNoFacts indicates a landmark node was added without any facts.
	ErrNoFacts = errors.New("landmark: node has no facts")

	// ErrDuplicateFact indicates a fact already belongs to another node.
	ErrDuplicateFact = errors.New("landmark: fact already assigned to a node")

	// ErrForeignNode indicates an ordering endpoint from a different graph.
	ErrForeignNode = errors.New("landmark: node does not belong to this graph")

	// ErrSelfOrder indicates an ordering from a node to itself.
	ErrSelfOrder = errors.New("landmark: self-ordering not allowed")
)

// OrderType tags an ordering edge between two landmarks. "Reasonable" and
// "obedient-reasonable" orders are unsound for admissible estimates and are
// rejected at heuristic construction when admissible mode is requested.
type OrderType int

const (
	// Necessary: the parent must hold one step before the child.
	Necessary OrderType = iota
	// GreedyNecessary: the parent must hold one step before the child is
	// first achieved.
	GreedyNecessary
	// Natural: the parent must be achieved before the child.
	Natural
	// Reasonable: achieving the child first would force re-achieving it.
	Reasonable
	// ObedientReasonable: reasonable under the assumption that previously
	// accepted reasonable orders are obeyed.
	ObedientReasonable
)

// String returns the conventional name of the order type.
func (o OrderType) String() string {
	switch o {
	case Necessary:
		return "necessary"
	case GreedyNecessary:
		return "greedy-necessary"
	case Natural:
		return "natural"
	case Reasonable:
		return "reasonable"
	case ObedientReasonable:
		return "obedient-reasonable"
	default:
		return "unknown"
	}
}

// IsReasonable reports whether the order is of a reasonable flavor.
func (o OrderType) IsReasonable() bool {
	return o == Reasonable || o == ObedientReasonable
}

// Node is a single landmark: one fact, or a disjunction of facts. Nodes are
// created through Graph.AddNode and referenced by their stable id.
type Node struct {
	id    int
	graph *Graph

	// Facts is the fact pair (simple landmark) or the disjunction of fact
	// pairs (disjunctive landmark) this node stands for.
	Facts []task.FactPair

	// Disjunctive marks a node satisfied by any one of its facts.
	Disjunctive bool

	// Goal marks a landmark that is part of the goal condition.
	Goal bool

	// Cost is the cost this landmark contributes to the counting formula.
	Cost int

	// FirstAchievers are ids of operators that can make the landmark true
	// for the first time; PossibleAchievers are ids of operators that can
	// re-achieve it. Empty slices mean "provably no achiever".
	FirstAchievers    []int
	PossibleAchievers []int

	parents  map[int]OrderType
	children map[int]OrderType
}

// ID returns the node's stable index in the graph arena.
func (n *Node) ID() int { return n.id }

// Parents returns the node's order-typed parent map keyed by node id.
// Callers must treat it as read-only.
func (n *Node) Parents() map[int]OrderType { return n.parents }

// Children returns the node's order-typed child map keyed by node id.
// Callers must treat it as read-only.
func (n *Node) Children() map[int]OrderType { return n.children }

// IsTrueIn reports whether the landmark holds in s: any fact for a
// disjunctive node, every fact otherwise.
func (n *Node) IsTrueIn(s task.State) bool {
	if n.Disjunctive {
		for _, f := range n.Facts {
			if s.Contains(f) {
				return true
			}
		}
		return false
	}
	for _, f := range n.Facts {
		if !s.Contains(f) {
			return false
		}
	}
	return true
}

// Graph is an arena of landmark nodes plus ordering edges. Iteration order
// over Nodes() is the insertion order and is stable across calls.
type Graph struct {
	nodes     []*Node
	factIndex map[task.FactPair]*Node
}

// NewGraph returns an empty landmark graph.
func NewGraph() *Graph {
	return &Graph{factIndex: make(map[task.FactPair]*Node)}
}

// AddNode creates a landmark node for the given facts. Each fact may belong
// to at most one node; AddNode returns ErrDuplicateFact otherwise.
func (g *Graph) AddNode(facts []task.FactPair, disjunctive, goal bool, cost int) (*Node, error) {
	if len(facts) == 0 {
		return nil, ErrNoFacts
	}
	for _, f := range facts {
		if _, ok := g.factIndex[f]; ok {
			return nil, ErrDuplicateFact
		}
	}
	n := &Node{
		id:          len(g.nodes),
		graph:       g,
		Facts:       append([]task.FactPair(nil), facts...),
		Disjunctive: disjunctive,
		Goal:        goal,
		Cost:        cost,
		parents:     make(map[int]OrderType),
		children:    make(map[int]OrderType),
	}
	g.nodes = append(g.nodes, n)
	for _, f := range n.Facts {
		g.factIndex[f] = n
	}
	return n, nil
}

// AddOrder records an ordering edge parent -> child of the given type.
// A later AddOrder for the same pair overwrites the order type.
func (g *Graph) AddOrder(parent, child *Node, ot OrderType) error {
	if parent.graph != g || child.graph != g {
		return ErrForeignNode
	}
	if parent == child {
		return ErrSelfOrder
	}
	child.parents[parent.id] = ot
	parent.children[child.id] = ot
	return nil
}

// Nodes returns the node arena in stable insertion order. Callers must not
// modify the slice.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Node returns the node with the given id.
func (g *Graph) Node(id int) *Node { return g.nodes[id] }

// NumLandmarks returns the total number of landmark nodes.
func (g *Graph) NumLandmarks() int { return len(g.nodes) }

// LandmarkFor resolves a fact to the node owning it, or nil.
func (g *Graph) LandmarkFor(f task.FactPair) *Node {
	return g.factIndex[f]
}

// HasReasonableOrders reports whether any edge is of a reasonable flavor.
func (g *Graph) HasReasonableOrders() bool {
	for _, n := range g.nodes {
		for _, ot := range n.parents {
			if ot.IsReasonable() {
				return true
			}
		}
	}
	return false
}

// ComputeAchievers fills every node's achiever lists by scanning the task's
// operators: an operator achieves a node if one of its effects produces one
// of the node's facts. With no ordering information both lists coincide.
func (g *Graph) ComputeAchievers(t *task.Task) {
	for _, n := range g.nodes {
		// Non-nil empty lists mean "provably no achiever" to the status
		// manager's dead-end check; nil means the lists were never computed.
		n.FirstAchievers = make([]int, 0)
		n.PossibleAchievers = make([]int, 0)
		for i := range t.Operators {
			op := &t.Operators[i]
			for _, e := range op.Effects {
				if g.factIndex[e.Fact] == n {
					n.FirstAchievers = append(n.FirstAchievers, op.ID)
					n.PossibleAchievers = append(n.PossibleAchievers, op.ID)
					break
				}
			}
		}
	}
}
