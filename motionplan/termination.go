package motionplan

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/benbjohnson/clock"
)

// TerminationContext is everything a TerminationCondition may look at. The planner refreshes the
// counters before every evaluation; conditions hold no state of their own.
type TerminationContext struct {
	Ctx   context.Context
	Clock clock.Clock
	// Start is when the current solve began, according to Clock.
	Start time.Time
	// Sampled counts every drawn sample, valid or not.
	Sampled int
	// ValidSampled counts samples whose steered motion passed validation.
	ValidSampled int
	// ExactSolution is true once a goal-satisfying motion is known.
	ExactSolution bool
}

// TerminationCondition is a predicate polled once per planner iteration. Planning stops the first
// time it returns true, so cancellation latency is one iteration.
type TerminationCondition interface {
	Terminate(tc *TerminationContext) bool
	fmt.Stringer
}

// TimeCondition holds once the budget has elapsed since the solve started.
type TimeCondition struct {
	Budget time.Duration
}

// NewTimeCondition returns a TimeCondition for a budget in seconds. Budgets too large for a
// time.Duration, +Inf included, saturate at the longest duration; NaN and negative budgets are zero.
func NewTimeCondition(seconds float64) *TimeCondition {
	nanos := seconds * float64(time.Second)
	switch {
	case math.IsNaN(nanos) || nanos <= 0:
		return &TimeCondition{}
	case nanos >= math.MaxInt64:
		return &TimeCondition{Budget: time.Duration(math.MaxInt64)}
	default:
		return &TimeCondition{Budget: time.Duration(nanos)}
	}
}

// Terminate reports whether the budget is used up.
func (c *TimeCondition) Terminate(tc *TerminationContext) bool {
	return tc.Clock.Since(tc.Start) >= c.Budget
}

func (c *TimeCondition) String() string {
	return fmt.Sprintf("time(%v)", c.Budget)
}

// SampleCountCondition holds once at least Min samples have been drawn.
type SampleCountCondition struct {
	Min int
}

// Terminate reports whether enough samples were drawn.
func (c *SampleCountCondition) Terminate(tc *TerminationContext) bool {
	return tc.Sampled >= c.Min
}

func (c *SampleCountCondition) String() string {
	return fmt.Sprintf("samples(%d)", c.Min)
}

// ValidSampleCountCondition holds once at least Min samples produced a tree motion.
type ValidSampleCountCondition struct {
	Min int
}

// Terminate reports whether enough valid samples were produced.
func (c *ValidSampleCountCondition) Terminate(tc *TerminationContext) bool {
	return tc.ValidSampled >= c.Min
}

func (c *ValidSampleCountCondition) String() string {
	return fmt.Sprintf("valid_samples(%d)", c.Min)
}

// ContextCondition holds once the solve context is done.
type ContextCondition struct{}

// Terminate reports whether the context was cancelled or timed out.
func (ContextCondition) Terminate(tc *TerminationContext) bool {
	return tc.Ctx != nil && tc.Ctx.Err() != nil
}

func (ContextCondition) String() string {
	return "context"
}

// ExactSolutionCondition holds as soon as any goal-satisfying motion is known. Combine it with Or
// to turn the planner into a first-solution planner.
type ExactSolutionCondition struct{}

// Terminate reports whether an exact solution exists.
func (ExactSolutionCondition) Terminate(tc *TerminationContext) bool {
	return tc.ExactSolution
}

func (ExactSolutionCondition) String() string {
	return "exact_solution"
}

// AndCondition holds when both operands hold. Both operands are evaluated every time.
type AndCondition struct {
	Left, Right TerminationCondition
}

// And combines two conditions such that both must hold.
func And(left, right TerminationCondition) *AndCondition {
	return &AndCondition{Left: left, Right: right}
}

// Terminate evaluates both operands.
func (c *AndCondition) Terminate(tc *TerminationContext) bool {
	l := c.Left.Terminate(tc)
	r := c.Right.Terminate(tc)
	return l && r
}

func (c *AndCondition) String() string {
	return fmt.Sprintf("(%v and %v)", c.Left, c.Right)
}

// OrCondition holds when either operand holds. Both operands are evaluated every time.
type OrCondition struct {
	Left, Right TerminationCondition
}

// Or combines two conditions such that either may end planning.
func Or(left, right TerminationCondition) *OrCondition {
	return &OrCondition{Left: left, Right: right}
}

// Terminate evaluates both operands.
func (c *OrCondition) Terminate(tc *TerminationContext) bool {
	l := c.Left.Terminate(tc)
	r := c.Right.Terminate(tc)
	return l || r
}

func (c *OrCondition) String() string {
	return fmt.Sprintf("(%v or %v)", c.Left, c.Right)
}

// countCondition builds the condition behind the min-sample entry points: the count floor always
// applies, and a positive time budget is conjoined with it.
func countCondition(count TerminationCondition, solveTime float64) TerminationCondition {
	if !(solveTime > 0) {
		return count
	}
	return And(count, NewTimeCondition(solveTime))
}
