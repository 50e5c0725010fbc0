package motionplan

import "github.com/pkg/errors"

var (
	// ErrInvalidStart is returned when no valid start state is available to grow the tree from.
	ErrInvalidStart = errors.New("there are no valid initial states")

	// ErrNoSolutionFound is returned when planning ended without a solution, exact or approximate.
	ErrNoSolutionFound = errors.New("motion planner failed to find path")

	// ErrNoGoal is returned when a problem definition has no goal region.
	ErrNoGoal = errors.New("problem definition has no goal")

	// ErrEmptyTree is returned by nearest-neighbor queries against an empty tree.
	ErrEmptyTree = errors.New("tree has no motions")

	// ErrStaleHandle is returned when a handle outlived the tree contents it referred to.
	ErrStaleHandle = errors.New("motion handle refers to a cleared tree")
)

// newDimensionMismatchError is used when a state does not match the dimension of the space.
func newDimensionMismatchError(what string, got, expected int) error {
	return errors.Errorf("%s has %d dimensions but the space has %d", what, got, expected)
}
