// Package task models a grounded planning task: finite-domain variables,
// states, operators with conditional effects, and the goal condition. The
// heuristic and search layers only read tasks; nothing here mutates a task
// after construction.
package task

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ronuchit/kstar/internal/types"
)

// FactPair identifies a propositional fact as a (variable, value) pair.
// It is a value type with no ownership semantics.
type FactPair struct {
	Var   int `yaml:"var"`
	Value int `yaml:"value"`
}

// String returns the fact in "var=value" form.
func (f FactPair) String() string {
	return fmt.Sprintf("%d=%d", f.Var, f.Value)
}

// State assigns a value to every variable, indexed by variable id.
type State []int

// Contains reports whether the fact holds in this state.
func (s State) Contains(f FactPair) bool {
	return f.Var >= 0 && f.Var < len(s) && s[f.Var] == f.Value
}

// Key returns a compact string key for map storage. Two states have the
// same key iff they assign the same values.
func (s State) Key() string {
	var b strings.Builder
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	copy(out, s)
	return out
}

// Effect is a single conditional effect: the resulting fact is set iff
// every condition fact holds in the state the operator is applied to.
// An unconditional effect has no conditions.
type Effect struct {
	Conditions []FactPair `yaml:"when,omitempty"`
	Fact       FactPair   `yaml:"fact"`
}

// Fires reports whether the effect's conditions are all satisfied in s.
// Unconditional effects always fire.
func (e Effect) Fires(s State) bool {
	for _, c := range e.Conditions {
		if !s.Contains(c) {
			return false
		}
	}
	return true
}

// Operator is a grounded action: preconditions, an ordered list of
// conditional effects, and a non-negative cost. Operators are identified
// by their index in Task.Operators.
type Operator struct {
	ID            int        `yaml:"-"`
	Name          string     `yaml:"name"`
	Cost          int        `yaml:"cost"`
	Preconditions []FactPair `yaml:"preconditions,omitempty"`
	Effects       []Effect   `yaml:"effects"`
}

// ApplicableIn reports whether every precondition holds in s.
func (o *Operator) ApplicableIn(s State) bool {
	for _, p := range o.Preconditions {
		if !s.Contains(p) {
			return false
		}
	}
	return true
}

// IsConditional reports whether any effect carries conditions.
func (o *Operator) IsConditional() bool {
	for _, e := range o.Effects {
		if len(e.Conditions) > 0 {
			return true
		}
	}
	return false
}

// Apply returns the successor state reached by applying o in s. Effects
// whose conditions do not hold in s are skipped. The caller must check
// applicability first; Apply does not.
func (o *Operator) Apply(s State) State {
	succ := s.Clone()
	for _, e := range o.Effects {
		if e.Fires(s) {
			succ[e.Fact.Var] = e.Fact.Value
		}
	}
	return succ
}

// Task is an immutable grounded planning task.
type Task struct {
	Name string `yaml:"name"`

	// DomainSizes[v] is the number of values variable v ranges over.
	DomainSizes []int `yaml:"variables"`

	Init      State      `yaml:"init"`
	Goals     []FactPair `yaml:"goals"`
	Operators []Operator `yaml:"operators"`

	// Axioms records whether the original task contained derived
	// variables. Axiom evaluation itself is not modeled; the flag gates
	// admissible-mode validation in the heuristic layer.
	Axioms bool `yaml:"axioms,omitempty"`
}

// HasAxioms reports whether the task declares derived variables.
func (t *Task) HasAxioms() bool {
	return t.Axioms
}

// HasConditionalEffects reports whether any operator has a conditional effect.
func (t *Task) HasConditionalEffects() bool {
	for i := range t.Operators {
		if t.Operators[i].IsConditional() {
			return true
		}
	}
	return false
}

// IsGoalState reports whether every goal fact holds in s.
func (t *Task) IsGoalState(s State) bool {
	for _, g := range t.Goals {
		if !s.Contains(g) {
			return false
		}
	}
	return true
}

// ApplicableOperators returns pointers to every operator applicable in s,
// in operator-id order. This is the successor-enumeration contract the
// helpful-action scan depends on.
func (t *Task) ApplicableOperators(s State) []*Operator {
	var ops []*Operator
	for i := range t.Operators {
		if t.Operators[i].ApplicableIn(s) {
			ops = append(ops, &t.Operators[i])
		}
	}
	return ops
}

// Operator returns the operator with the given id.
func (t *Task) Operator(id int) *Operator {
	return &t.Operators[id]
}

// Validate checks structural consistency: domain sizes positive, the
// initial state complete, and every fact within its variable's domain.
func (t *Task) Validate() error {
	if len(t.DomainSizes) == 0 {
		return types.NewError(types.TASK_INVALID, "task has no variables")
	}
	for v, size := range t.DomainSizes {
		if size <= 0 {
			return types.NewErrorf(types.TASK_INVALID, "variable %d has non-positive domain size %d", v, size)
		}
	}
	if len(t.Init) != len(t.DomainSizes) {
		return types.NewErrorf(types.TASK_INVALID,
			"initial state assigns %d variables, task has %d", len(t.Init), len(t.DomainSizes))
	}
	for v, val := range t.Init {
		if err := t.checkFact(FactPair{Var: v, Value: val}); err != nil {
			return err
		}
	}
	for _, g := range t.Goals {
		if err := t.checkFact(g); err != nil {
			return err
		}
	}
	for i := range t.Operators {
		op := &t.Operators[i]
		if op.Cost < 0 {
			return types.NewErrorf(types.TASK_INVALID, "operator %q has negative cost %d", op.Name, op.Cost)
		}
		for _, p := range op.Preconditions {
			if err := t.checkFact(p); err != nil {
				return err
			}
		}
		for _, e := range op.Effects {
			if err := t.checkFact(e.Fact); err != nil {
				return err
			}
			for _, c := range e.Conditions {
				if err := t.checkFact(c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (t *Task) checkFact(f FactPair) error {
	if f.Var < 0 || f.Var >= len(t.DomainSizes) || f.Value < 0 || f.Value >= t.DomainSizes[f.Var] {
		return types.NewErrorf(types.TASK_FACT_OUT_OF_RANGE, "fact %s outside variable domains", f)
	}
	return nil
}
