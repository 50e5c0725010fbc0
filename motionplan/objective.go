package motionplan

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/optrrt/statespace"
)

// Objective is the cost algebra used to accumulate and compare path costs along the tree.
type Objective interface {
	// IdentityCost is the cost of a start motion.
	IdentityCost() float64
	// InfiniteCost is worse than any achievable cost.
	InfiniteCost() float64
	// MotionCost is the cost of the straight motion from a to b.
	MotionCost(a, b statespace.State) float64
	// CombineCosts accumulates an edge cost onto a path cost.
	CombineCosts(a, b float64) float64
	// IsCostBetterThan is a strict comparison.
	IsCostBetterThan(a, b float64) bool
	// IsSymmetric reports whether MotionCost(a, b) == MotionCost(b, a).
	IsSymmetric() bool
}

// additiveObjective provides the sum/less-than algebra shared by the objectives below.
type additiveObjective struct{}

func (additiveObjective) IdentityCost() float64 { return 0 }

func (additiveObjective) InfiniteCost() float64 { return math.Inf(1) }

func (additiveObjective) CombineCosts(a, b float64) float64 { return a + b }

func (additiveObjective) IsCostBetterThan(a, b float64) bool { return a < b }

// PathLengthObjective minimizes the length of the path as measured by the space.
type PathLengthObjective struct {
	additiveObjective
	space statespace.Space
}

// NewPathLengthObjective creates the default objective.
func NewPathLengthObjective(space statespace.Space) *PathLengthObjective {
	return &PathLengthObjective{space: space}
}

// MotionCost is the space distance.
func (o *PathLengthObjective) MotionCost(a, b statespace.State) float64 {
	return o.space.Distance(a, b)
}

// IsSymmetric follows the space's distance.
func (o *PathLengthObjective) IsSymmetric() bool {
	return o.space.HasSymmetricDistance()
}

// StateCostIntegralObjective integrates a per-state cost along each motion with the trapezoid rule,
// sampling the motion every `resolution` of distance.
type StateCostIntegralObjective struct {
	additiveObjective
	space      statespace.Space
	stateCost  func(statespace.State) float64
	resolution float64
}

// NewStateCostIntegralObjective creates an objective that penalizes time spent in costly states.
func NewStateCostIntegralObjective(
	space statespace.Space,
	stateCost func(statespace.State) float64,
	resolution float64,
) (*StateCostIntegralObjective, error) {
	if stateCost == nil {
		return nil, errors.New("state cost integral objective needs a state cost function")
	}
	if resolution <= 0 {
		return nil, errors.Errorf("resolution must be positive, got %v", resolution)
	}
	return &StateCostIntegralObjective{space: space, stateCost: stateCost, resolution: resolution}, nil
}

// MotionCost approximates the integral of the state cost over the motion.
func (o *StateCostIntegralObjective) MotionCost(a, b statespace.State) float64 {
	dist := o.space.Distance(a, b)
	if dist == 0 {
		return 0
	}
	steps := int(math.Ceil(dist / o.resolution))
	segment := dist / float64(steps)
	total := 0.
	prev := o.stateCost(a)
	for i := 1; i <= steps; i++ {
		next := o.stateCost(o.space.Interpolate(a, b, float64(i)/float64(steps)))
		total += 0.5 * (prev + next) * segment
		prev = next
	}
	return total
}

// IsSymmetric is true for symmetric spaces; the trapezoid rule is direction independent.
func (o *StateCostIntegralObjective) IsSymmetric() bool {
	return o.space.HasSymmetricDistance() && o.space.HasSymmetricInterpolate()
}

// MultiObjective is a weighted sum of additive objectives.
type MultiObjective struct {
	additiveObjective
	objectives []Objective
	weights    []float64
}

// NewMultiObjective combines objectives; weights must be non-negative and match in length.
func NewMultiObjective(objectives []Objective, weights []float64) (*MultiObjective, error) {
	if len(objectives) == 0 || len(objectives) != len(weights) {
		return nil, errors.Errorf("got %d objectives and %d weights", len(objectives), len(weights))
	}
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return nil, errors.Errorf("objective weights must be non-negative, got %v", w)
		}
	}
	return &MultiObjective{objectives: objectives, weights: weights}, nil
}

// MotionCost is the weighted sum of the components' motion costs.
func (o *MultiObjective) MotionCost(a, b statespace.State) float64 {
	total := 0.
	for i, obj := range o.objectives {
		total += o.weights[i] * obj.MotionCost(a, b)
	}
	return total
}

// IsSymmetric holds when every component is symmetric.
func (o *MultiObjective) IsSymmetric() bool {
	for _, obj := range o.objectives {
		if !obj.IsSymmetric() {
			return false
		}
	}
	return true
}
