package motionplan

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"go.viam.com/optrrt/statespace"
)

// Goal samples are drawn this many times before falling back to the region's center.
const goalSampleAttempts = 100

// GoalRegion decides whether a state reaches the goal and how far it is from it.
type GoalRegion interface {
	// IsSatisfied returns whether the state is in the goal, and its distance to the goal.
	IsSatisfied(s statespace.State) (bool, float64)
}

// GoalSampler draws states from inside a goal region.
type GoalSampler interface {
	SampleGoal(rng *rand.Rand) statespace.State
	// CanSample reports whether SampleGoal can currently produce states.
	CanSample() bool
}

// SampleableGoalRegion is a goal region that can also be sampled directly.
type SampleableGoalRegion interface {
	GoalRegion
	GoalSampler
}

// Goal is a goal region tagged with whether it may be sampled. Only goals built with
// NewSampleableGoal carry a sampler; the planner never inspects the region's dynamic type.
type Goal struct {
	region  GoalRegion
	sampler GoalSampler
}

// NewGoal wraps a region that can only be tested.
func NewGoal(region GoalRegion) Goal {
	return Goal{region: region}
}

// NewSampleableGoal wraps a region that can be tested and sampled.
func NewSampleableGoal(region SampleableGoalRegion) Goal {
	return Goal{region: region, sampler: region}
}

// IsSet reports whether the goal wraps a region.
func (g Goal) IsSet() bool {
	return g.region != nil
}

// IsSatisfied tests the wrapped region.
func (g Goal) IsSatisfied(s statespace.State) (bool, float64) {
	return g.region.IsSatisfied(s)
}

// Sampleable reports whether the goal carries a sampler.
func (g Goal) Sampleable() bool {
	return g.sampler != nil
}

// sample draws from the goal if it is sampleable and currently able to sample.
func (g Goal) sample(rng *rand.Rand) (statespace.State, bool) {
	if g.sampler == nil || !g.sampler.CanSample() {
		return nil, false
	}
	return g.sampler.SampleGoal(rng), true
}

// GoalState is satisfied within Threshold of a single state. Its distance is the distance to the state.
type GoalState struct {
	space     statespace.Space
	state     statespace.State
	threshold float64
}

// NewGoalState creates a single-state goal.
func NewGoalState(space statespace.Space, state statespace.State, threshold float64) (*GoalState, error) {
	if len(state) != space.Dimension() {
		return nil, newDimensionMismatchError("goal state", len(state), space.Dimension())
	}
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, errors.Errorf("goal threshold must be non-negative, got %v", threshold)
	}
	return &GoalState{space: space, state: state.Clone(), threshold: threshold}, nil
}

// IsSatisfied reports whether s is within the threshold of the goal state.
func (g *GoalState) IsSatisfied(s statespace.State) (bool, float64) {
	d := g.space.Distance(s, g.state)
	return d <= g.threshold, d
}

// SampleGoal returns a copy of the goal state.
func (g *GoalState) SampleGoal(_ *rand.Rand) statespace.State {
	return g.state.Clone()
}

// CanSample is always true.
func (g *GoalState) CanSample() bool {
	return true
}

// GoalBall is satisfied by any state within Radius of Center. Its distance is the distance to the
// center, so satisfying states still report how central they are.
type GoalBall struct {
	space  statespace.Space
	center statespace.State
	radius float64
}

// NewGoalBall creates a ball-shaped goal region.
func NewGoalBall(space statespace.Space, center statespace.State, radius float64) (*GoalBall, error) {
	if len(center) != space.Dimension() {
		return nil, newDimensionMismatchError("goal center", len(center), space.Dimension())
	}
	if radius < 0 || math.IsNaN(radius) {
		return nil, errors.Errorf("goal radius must be non-negative, got %v", radius)
	}
	return &GoalBall{space: space, center: center.Clone(), radius: radius}, nil
}

// Center returns the center of the ball.
func (g *GoalBall) Center() statespace.State {
	return g.center.Clone()
}

// Radius returns the radius of the ball.
func (g *GoalBall) Radius() float64 {
	return g.radius
}

// IsSatisfied reports whether s is inside the ball.
func (g *GoalBall) IsSatisfied(s statespace.State) (bool, float64) {
	d := g.space.Distance(s, g.center)
	return d <= g.radius, d
}

// SampleGoal draws a state uniformly from the part of the ball inside the space bounds.
func (g *GoalBall) SampleGoal(rng *rand.Rand) statespace.State {
	dim := len(g.center)
	for range goalSampleAttempts {
		direction := make([]float64, dim)
		norm := 0.
		for i := range direction {
			direction[i] = rng.NormFloat64()
			norm += direction[i] * direction[i]
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			continue
		}
		r := g.radius * math.Pow(rng.Float64(), 1/float64(dim))
		candidate := make(statespace.State, dim)
		for i := range candidate {
			candidate[i] = g.center[i] + direction[i]/norm*r
		}
		if g.space.SatisfiesBounds(candidate) {
			return candidate
		}
	}
	return g.center.Clone()
}

// CanSample is always true.
func (g *GoalBall) CanSample() bool {
	return true
}
