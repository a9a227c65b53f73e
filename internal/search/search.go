// Package search provides a greedy best-first search driver around the
// landmark-count evaluator. It owns the caller-side contract of the
// heuristic: announcing the initial state and every transition, pruning
// dead ends only when the evaluator declares them reliable, and feeding
// preferred operators into a second open list.
package search

import (
	"container/heap"
	"context"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ronuchit/kstar/internal/heuristic"
	"github.com/ronuchit/kstar/internal/task"
	"github.com/ronuchit/kstar/internal/types"
)

// Options configures a search run.
type Options struct {
	// MaxExpansions bounds the number of expanded states; zero means
	// unbounded.
	MaxExpansions int

	Logger *slog.Logger
	Tracer trace.Tracer
}

// Result summarizes a finished search.
type Result struct {
	// RunID identifies this search run; every log line and trace span the
	// run emits carries it.
	RunID types.ID

	Solved bool

	// Plan is the operator-id sequence from the initial state to a goal
	// state, empty when unsolved.
	Plan []int

	// Cost is the summed cost of the plan operators.
	Cost int

	Expanded  int
	Evaluated int
	Generated int
}

// GreedyBestFirst is a sequential greedy best-first search with dual open
// lists: one ordered by heuristic value over all generated states, one
// restricted to states generated by preferred operators. Expansion
// alternates between them, preferred list first.
type GreedyBestFirst struct {
	task   *task.Task
	eval   *heuristic.LandmarkCountEvaluator
	opts   Options
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a search driver for the task and evaluator.
func New(t *task.Task, eval *heuristic.LandmarkCountEvaluator, opts Options) *GreedyBestFirst {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("kstar/search")
	}
	return &GreedyBestFirst{task: t, eval: eval, opts: opts, logger: logger, tracer: tracer}
}

// node is one search node; parent links reconstruct the plan.
type node struct {
	state     task.State
	parent    *node
	op        int // operator id applied at the parent, -1 for the root
	h         int
	preferred []int // preferred operators reported when this node was evaluated
}

// Run executes the search to completion. An unsolvable task yields a
// Result with Solved false and no error; exceeding the expansion bound is
// reported as an error.
func (g *GreedyBestFirst) Run(ctx context.Context) (Result, error) {
	ctx, span := g.tracer.Start(ctx, "search.Run")
	defer span.End()

	res := Result{RunID: types.NewID()}
	span.SetAttributes(attribute.String("search.run_id", res.RunID.String()))
	logger := g.logger.With("run_id", res.RunID.String())
	logger.InfoContext(ctx, "starting search",
		"task", g.task.Name, "max_expansions", g.opts.MaxExpansions)

	g.eval.NotifyInitialState(g.task.Init)
	root := &node{state: g.task.Init, op: -1}
	ev, err := g.eval.Compute(ctx, g.task.Init)
	if err != nil {
		return res, err
	}
	res.Evaluated++
	if ev.DeadEnd && g.eval.DeadEndsAreReliable() {
		logger.InfoContext(ctx, "initial state is a dead end, task unsolvable")
		return res, nil
	}
	root.h = valueOf(ev)
	root.preferred = ev.Preferred

	open := newOpenList()
	pref := newOpenList()
	open.push(root)
	closed := make(map[string]bool)

	for open.Len() > 0 || pref.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		n := g.nextNode(open, pref)
		key := n.state.Key()
		if closed[key] {
			continue
		}
		closed[key] = true

		if g.task.IsGoalState(n.state) {
			res.Solved = true
			res.Plan, res.Cost = g.extractPlan(n)
			logger.InfoContext(ctx, "solution found",
				"plan_length", len(res.Plan), "cost", res.Cost,
				"expanded", res.Expanded, "evaluated", res.Evaluated)
			return res, nil
		}

		if g.opts.MaxExpansions > 0 && res.Expanded >= g.opts.MaxExpansions {
			return res, types.NewErrorf(types.SEARCH_EXPANSION_LIMIT,
				"expansion bound %d exhausted", g.opts.MaxExpansions)
		}
		res.Expanded++

		preferredHere := make(map[int]bool, len(n.preferred))
		for _, op := range n.preferred {
			preferredHere[op] = true
		}

		for _, op := range g.task.ApplicableOperators(n.state) {
			child := op.Apply(n.state)
			if closed[child.Key()] {
				continue
			}
			res.Generated++
			g.eval.NotifyStateTransition(n.state, op, child)
			ev, err := g.eval.Compute(ctx, child)
			if err != nil {
				return res, err
			}
			res.Evaluated++
			if ev.DeadEnd && g.eval.DeadEndsAreReliable() {
				continue
			}
			c := &node{
				state:     child,
				parent:    n,
				op:        op.ID,
				h:         valueOf(ev),
				preferred: ev.Preferred,
			}
			open.push(c)
			if preferredHere[op.ID] {
				pref.push(c)
			}
		}
	}

	logger.InfoContext(ctx, "open lists exhausted, task unsolvable",
		"expanded", res.Expanded, "evaluated", res.Evaluated)
	return res, nil
}

// nextNode alternates between the preferred and regular open lists,
// preferred first, falling back to whichever is non-empty.
func (g *GreedyBestFirst) nextNode(open, pref *openList) *node {
	if pref.Len() > 0 && (pref.ticks <= open.ticks || open.Len() == 0) {
		pref.ticks++
		return pref.pop()
	}
	open.ticks++
	return open.pop()
}

func (g *GreedyBestFirst) extractPlan(n *node) ([]int, int) {
	var rev []int
	cost := 0
	for cur := n; cur.parent != nil; cur = cur.parent {
		rev = append(rev, cur.op)
		cost += g.task.Operator(cur.op).Cost
	}
	plan := make([]int, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		plan = append(plan, rev[i])
	}
	return plan, cost
}

// valueOf maps an evaluation to an ordering key; unreliable dead ends sort
// last instead of being pruned.
func valueOf(ev heuristic.Result) int {
	if ev.DeadEnd {
		return math.MaxInt32
	}
	return ev.Value
}

// openList is a min-heap over h with FIFO tie-breaking.
type openList struct {
	items []*node
	seq   []int
	next  int
	ticks int
}

func newOpenList() *openList { return &openList{} }

func (l *openList) push(n *node) {
	heap.Push(l, n)
}

func (l *openList) pop() *node {
	return heap.Pop(l).(*node)
}

func (l *openList) Len() int { return len(l.items) }

func (l *openList) Less(i, j int) bool {
	if l.items[i].h != l.items[j].h {
		return l.items[i].h < l.items[j].h
	}
	return l.seq[i] < l.seq[j]
}

func (l *openList) Swap(i, j int) {
	l.items[i], l.items[j] = l.items[j], l.items[i]
	l.seq[i], l.seq[j] = l.seq[j], l.seq[i]
}

func (l *openList) Push(x any) {
	l.items = append(l.items, x.(*node))
	l.seq = append(l.seq, l.next)
	l.next++
}

func (l *openList) Pop() any {
	n := len(l.items) - 1
	it := l.items[n]
	l.items = l.items[:n]
	l.seq = l.seq[:n]
	return it
}
