// Package heuristic implements the landmark-count heuristic evaluator: per
// evaluated state it produces a remaining-cost estimate, a dead-end
// verdict, and a set of preferred operators. The estimate is either an
// admissible cost-partitioned lower bound or the cheaper inadmissible
// counting value; preferred operators come from a direct scan over
// applicable operators with a goal-directed relaxed exploration as fallback.
package heuristic

import (
	"context"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ronuchit/kstar/internal/costshare"
	"github.com/ronuchit/kstar/internal/exploration"
	"github.com/ronuchit/kstar/internal/landmark"
	"github.com/ronuchit/kstar/internal/task"
	"github.com/ronuchit/kstar/internal/types"
)

// epsilon guards the ceil of the fractional admissible value against
// floating rounding inflating a conceptually integral lower bound.
const epsilon = 0.01

// Config fixes the evaluator's behavior at construction time. The
// admissibility combination is validated once by New and is immutable
// afterward.
type Config struct {
	// Admissible selects the cost-partitioned lower bound instead of the
	// counting value.
	Admissible bool

	// Optimal selects LP-based optimal cost partitioning instead of the
	// uniform one. Only meaningful with Admissible.
	Optimal bool

	// PreferredOperators enables helpful-action detection.
	PreferredOperators bool

	// ReasonableOrders declares that the landmark graph was generated
	// using reasonable orderings. Forbidden in admissible mode.
	ReasonableOrders bool

	// ConditionalEffectsSupported declares whether the landmark-generation
	// method supports conditional effects.
	ConditionalEffectsSupported bool

	// LPSolver is required when Optimal is set.
	LPSolver costshare.LPSolver

	// Logger defaults to slog.Default; Tracer defaults to a noop tracer.
	Logger *slog.Logger
	Tracer trace.Tracer
}

// Result is the outcome of evaluating one state. DeadEnd and Value are
// mutually exclusive; Preferred is only populated when preferred-operator
// computation is enabled.
type Result struct {
	Value     int
	DeadEnd   bool
	Preferred []int
}

// LandmarkCountEvaluator orchestrates the landmark graph, status manager,
// cost-assignment strategy, and bounded exploration for one search. It is
// single-threaded: one Compute runs to completion before the next begins.
type LandmarkCountEvaluator struct {
	task    *task.Task
	graph   *landmark.Graph
	status  *landmark.StatusManager
	explore *exploration.RelaxedExploration

	// assignment is bound iff admissible mode is on.
	assignment costshare.Assignment

	admissible           bool
	preferredOps         bool
	condEffectsSupported bool

	logger *slog.Logger
	tracer trace.Tracer
}

// New validates the admissibility configuration and binds exactly one
// cost-assignment strategy. The checks run in a fixed order (reasonable
// orderings first, then axioms, then conditional effects) and each
// violation carries its own error code so the driver can report a distinct
// diagnostic per cause.
func New(t *task.Task, g *landmark.Graph, cfg Config) (*LandmarkCountEvaluator, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = noop.NewTracerProvider().Tracer("kstar/heuristic")
	}

	if cfg.Admissible {
		if cfg.ReasonableOrders || g.HasReasonableOrders() {
			return nil, types.NewError(types.LM_REASONABLE_ORDERS_UNSUPPORTED,
				"reasonable orderings should not be used for admissible heuristics")
		}
		if t.HasAxioms() {
			return nil, types.NewError(types.LM_AXIOMS_UNSUPPORTED,
				"cost partitioning does not support axioms")
		}
		if t.HasConditionalEffects() && !cfg.ConditionalEffectsSupported {
			return nil, types.NewError(types.LM_CONDITIONAL_EFFECTS_UNSUPPORTED,
				"conditional effects not supported by the landmark generation method")
		}
	}

	explore, err := exploration.New(t)
	if err != nil {
		return nil, err
	}

	e := &LandmarkCountEvaluator{
		task:                 t,
		graph:                g,
		status:               landmark.NewStatusManager(g),
		explore:              explore,
		admissible:           cfg.Admissible,
		preferredOps:         cfg.PreferredOperators,
		condEffectsSupported: cfg.ConditionalEffectsSupported,
		logger:               cfg.Logger,
		tracer:               cfg.Tracer,
	}

	if cfg.Admissible {
		if cfg.Optimal {
			e.assignment, err = costshare.NewOptimalAssignment(g, t, cfg.LPSolver)
			if err != nil {
				return nil, err
			}
		} else {
			e.assignment = costshare.NewUniformAssignment(g, t)
		}
	}

	e.logger.Info("initialized landmark count heuristic",
		"landmarks", g.NumLandmarks(),
		"admissible", cfg.Admissible,
		"optimal", cfg.Optimal,
		"preferred_operators", cfg.PreferredOperators)
	return e, nil
}

// Compute evaluates one state. The exploration's exported-operator buffer
// is cleared on every exit path, dead ends included, so nothing leaks into
// the next evaluation.
func (e *LandmarkCountEvaluator) Compute(ctx context.Context, s task.State) (Result, error) {
	ctx, span := e.tracer.Start(ctx, "heuristic.Compute")
	defer span.End()
	defer e.explore.ClearExported()

	// The counting value may legally be nonzero at a goal state when
	// landmarks were achieved out of order, so the goal test must be
	// explicit and must win.
	if e.task.IsGoalState(s) {
		return Result{Value: 0}, nil
	}

	h, dead, err := e.heuristicValue(s)
	if err != nil {
		return Result{}, err
	}
	if dead {
		e.logger.DebugContext(ctx, "state is a dead end", "source", "status manager")
		span.SetAttributes(attribute.Bool("heuristic.dead_end", true))
		return Result{DeadEnd: true}, nil
	}
	span.SetAttributes(attribute.Int("heuristic.value", h))

	res := Result{Value: h}
	if !e.preferredOps {
		return res, nil
	}

	// Tier 1: operators directly achieving a new landmark leaf. Tier 2:
	// when all landmarks are reached or no such operator exists, plan
	// toward the landmark leaves with the relaxed exploration.
	reached := e.status.ReachedVector(s)
	if countTrue(reached) == e.graph.NumLandmarks() || !e.helpfulActions(s, reached, &res) {
		leaves := e.collectLeaves(s, true, reached)
		e.explore.SetAdditionalGoals(leaves)
		if !e.explore.PlanForDisjunctiveGoal(leaves, s) {
			// Second, independent dead-end source: no relaxed plan reaches
			// any leaf. A normal outcome, not an error.
			e.logger.DebugContext(ctx, "state is a dead end", "source", "exploration")
			return Result{DeadEnd: true}, nil
		}
		res.Preferred = append([]int(nil), e.explore.ExportedOperators()...)
	}
	return res, nil
}

// heuristicValue computes the scalar estimate: the status manager's
// dead-end verdict first, then the bound strategy or the counting formula.
func (e *LandmarkCountEvaluator) heuristicValue(s task.State) (int, bool, error) {
	if e.status.Update(s) {
		return 0, true, nil
	}

	var h int
	if e.admissible {
		reached := e.status.ReachedVector(s)
		hVal, err := e.assignment.CostSharingValue(reached, s)
		if err != nil {
			return 0, false, err
		}
		if math.IsInf(hVal, 1) {
			return 0, true, nil
		}
		h = int(math.Ceil(hVal - epsilon))
	} else {
		costs := landmark.CountCosts(e.graph, e.status.ReachedVector(s), s)
		h = costs.Total - costs.Reached + costs.Needed
	}

	if h < 0 {
		// A negative value is a defect in the cost strategy or the graph's
		// accounting; clamping it would hide an admissibility bug.
		return 0, false, types.NewErrorf(types.LM_NEGATIVE_HEURISTIC,
			"computed negative heuristic value %d", h)
	}
	return h, false, nil
}

// helpfulActions scans the applicable operators for effects achieving an
// interesting landmark. Operators achieving simple landmarks strictly
// outrank those achieving only disjunctive ones. Returns false when neither
// bucket has candidates.
func (e *LandmarkCountEvaluator) helpfulActions(s task.State, reached []bool, res *Result) bool {
	var simple, disjunctive []int
	numReached := countTrue(reached)

	for _, op := range e.task.ApplicableOperators(s) {
		for _, eff := range op.Effects {
			// Effects whose condition does not fire, and effects already
			// true in the state, achieve nothing here.
			if !eff.Fires(s) || s.Contains(eff.Fact) {
				continue
			}
			n := e.graph.LandmarkFor(eff.Fact)
			if n == nil || !e.interesting(s, reached, numReached, n) {
				continue
			}
			if n.Disjunctive {
				disjunctive = append(disjunctive, op.ID)
			} else {
				simple = append(simple, op.ID)
			}
		}
	}

	if len(simple) == 0 && len(disjunctive) == 0 {
		return false
	}
	if len(simple) > 0 {
		res.Preferred = append(res.Preferred, simple...)
	} else {
		res.Preferred = append(res.Preferred, disjunctive...)
	}
	return true
}

// interesting applies the two-regime policy: while landmarks remain
// unreached, a landmark is interesting iff it is unreached and its orders
// are obeyed; once all are reached, only goal landmarks currently false in
// the state remain interesting.
func (e *LandmarkCountEvaluator) interesting(s task.State, reached []bool, numReached int, n *landmark.Node) bool {
	if numReached != e.graph.NumLandmarks() {
		if reached[n.ID()] {
			return false
		}
		return !e.ordersDisobeyed(n, reached)
	}
	return n.Goal && !n.IsTrueIn(s)
}

// collectLeaves gathers the fact pairs of every unsatisfied landmark whose
// order-parents are all reached. A landmark counts as unsatisfied when it
// is unreached, or reached but needed again; the latter makes lapsed goal
// landmarks valid exploration targets once everything has been reached.
// The result is the disjunctive sub-goal for the exploration fallback.
func (e *LandmarkCountEvaluator) collectLeaves(s task.State, includeDisjunctive bool, reached []bool) []task.FactPair {
	var leaves []task.FactPair
	for _, n := range e.graph.Nodes() {
		if !includeDisjunctive && n.Disjunctive {
			continue
		}
		if reached[n.ID()] && !landmark.NeededAgain(reached, s, n) {
			continue
		}
		if e.ordersDisobeyed(n, reached) {
			continue
		}
		leaves = append(leaves, n.Facts...)
	}
	return leaves
}

// ordersDisobeyed reports whether any order-parent of n is absent from the
// reached set, short-circuiting on the first unmet parent.
func (e *LandmarkCountEvaluator) ordersDisobeyed(n *landmark.Node, reached []bool) bool {
	for pid := range n.Parents() {
		if !reached[pid] {
			return true
		}
	}
	return false
}

// NotifyInitialState instructs the status manager to compute the initial
// state's reached set from scratch. Call it once, before any evaluation.
func (e *LandmarkCountEvaluator) NotifyInitialState(init task.State) {
	e.status.ProgressInitialState(init)
}

// NotifyStateTransition progresses the reached set across one search
// transition. It always returns true: the resulting state's cached value
// must be invalidated, since the reached set may have changed.
func (e *LandmarkCountEvaluator) NotifyStateTransition(parent task.State, op *task.Operator, child task.State) bool {
	e.status.ProgressTransition(parent, op, child)
	return true
}

// DeadEndsAreReliable reports whether a dead-end verdict from this
// evaluator is sound: always in admissible mode, otherwise only when the
// task has no axioms and conditional effects are absent or supported.
func (e *LandmarkCountEvaluator) DeadEndsAreReliable() bool {
	if e.admissible {
		return true
	}
	return !e.task.HasAxioms() &&
		(!e.task.HasConditionalEffects() || e.condEffectsSupported)
}

// ExplorationBufferEmpty reports whether the exploration's exported
// operator buffer is empty. It exists for lifecycle verification.
func (e *LandmarkCountEvaluator) ExplorationBufferEmpty() bool {
	return len(e.explore.ExportedOperators()) == 0
}

func countTrue(v []bool) int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}
