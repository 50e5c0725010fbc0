package statespace

import (
	"math"

	"github.com/pkg/errors"
)

// Motions are checked every this fraction of the space's maximum extent unless told otherwise.
const defaultResolutionFraction = 0.01

// ValidityChecker decides whether a single state is usable, e.g. collision free.
type ValidityChecker interface {
	IsValid(s State) bool
}

// ValidityCheckerFunc adapts a function to a ValidityChecker.
type ValidityCheckerFunc func(s State) bool

// IsValid calls the function.
func (f ValidityCheckerFunc) IsValid(s State) bool {
	return f(s)
}

// ObstacleValidityChecker accepts states within the space bounds that are outside of every obstacle.
type ObstacleValidityChecker struct {
	space     Space
	obstacles []Obstacle
}

// NewObstacleValidityChecker creates a checker for the given obstacles.
func NewObstacleValidityChecker(space Space, obstacles ...Obstacle) *ObstacleValidityChecker {
	return &ObstacleValidityChecker{space: space, obstacles: obstacles}
}

// IsValid reports whether the state is in bounds and collision free.
func (c *ObstacleValidityChecker) IsValid(s State) bool {
	if !c.space.SatisfiesBounds(s) {
		return false
	}
	for _, o := range c.obstacles {
		if o.Contains(s) {
			return false
		}
	}
	return true
}

// Obstacles returns the obstacles being checked against.
func (c *ObstacleValidityChecker) Obstacles() []Obstacle {
	return c.obstacles
}

// Information couples a space with a validity checker and the resolution at which straight motions
// are validated. It is what the planner consumes.
type Information struct {
	Space
	checker    ValidityChecker
	resolution float64
}

// NewInformation creates the space information. A non-positive resolution defaults to one percent
// of the space's maximum extent. A nil checker accepts every in-bounds state.
func NewInformation(space Space, checker ValidityChecker, resolution float64) (*Information, error) {
	if space == nil {
		return nil, errors.New("space information needs a space")
	}
	if checker == nil {
		checker = ValidityCheckerFunc(space.SatisfiesBounds)
	}
	if resolution <= 0 {
		resolution = space.MaximumExtent() * defaultResolutionFraction
	}
	if resolution <= 0 || math.IsInf(resolution, 0) || math.IsNaN(resolution) {
		return nil, errors.Errorf("cannot derive a motion resolution from extent %v", space.MaximumExtent())
	}
	return &Information{Space: space, checker: checker, resolution: resolution}, nil
}

// Resolution returns the distance between consecutive states checked along a motion.
func (si *Information) Resolution() float64 {
	return si.resolution
}

// IsValid reports whether a single state is valid.
func (si *Information) IsValid(s State) bool {
	return si.checker.IsValid(s)
}

// CheckMotion reports whether every state along the straight motion from `from` to `to` is valid.
// `from` is assumed valid; the end state is checked first since it is the most likely to fail.
func (si *Information) CheckMotion(from, to State) bool {
	if !si.IsValid(to) {
		return false
	}
	steps := int(math.Ceil(si.Distance(from, to) / si.resolution))
	for i := 1; i < steps; i++ {
		if !si.IsValid(si.Interpolate(from, to, float64(i)/float64(steps))) {
			return false
		}
	}
	return true
}
