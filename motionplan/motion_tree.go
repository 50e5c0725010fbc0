package motionplan

import (
	"github.com/pkg/errors"

	"go.viam.com/optrrt/statespace"
)

// Handle addresses a motion in a tree. A handle is only good for the tree generation it was minted
// in; clearing the tree invalidates every outstanding handle. The zero Handle is never valid.
type Handle struct {
	index      int
	generation uint64
}

// motion is a node of the tree: a state, the motion it was extended from, and its cost bookkeeping.
type motion struct {
	state statespace.State
	// parent is only meaningful when root is false.
	parent Handle
	root   bool
	// cost of the path from the root to this motion
	cost float64
	// cost of the edge from the parent to this motion
	incCost float64
}

// motionTree owns every motion of one planner. Motions live in an arena and refer to their parent
// by handle, so a parent always has a smaller index than its children and the tree cannot cycle.
type motionTree struct {
	motions    []motion
	roots      []Handle
	generation uint64
	nn         NearestNeighbors
}

func newMotionTree(nn NearestNeighbors) *motionTree {
	return &motionTree{
		generation: 1,
		nn:         nn,
	}
}

// addRoot inserts a parentless motion for a start state.
func (t *motionTree) addRoot(state statespace.State, cost float64) Handle {
	h := t.insert(motion{state: state, root: true, cost: cost})
	t.roots = append(t.roots, h)
	return h
}

// insert stores a copy of the motion's state and indexes it for nearest-neighbor queries. No
// validation is performed here.
func (t *motionTree) insert(m motion) Handle {
	m.state = m.state.Clone()
	h := Handle{index: len(t.motions), generation: t.generation}
	t.motions = append(t.motions, m)
	t.nn.Add(h.index, m.state)
	return h
}

func (t *motionTree) get(h Handle) (*motion, error) {
	if h.generation != t.generation || h.index < 0 || h.index >= len(t.motions) {
		return nil, ErrStaleHandle
	}
	return &t.motions[h.index], nil
}

// parentOf returns the parent handle of a motion, false for roots.
func (t *motionTree) parentOf(h Handle) (Handle, bool, error) {
	m, err := t.get(h)
	if err != nil {
		return Handle{}, false, err
	}
	if m.root {
		return Handle{}, false, nil
	}
	return m.parent, true, nil
}

// nearest returns the motion closest to the query state.
func (t *motionTree) nearest(state statespace.State) (Handle, error) {
	if len(t.motions) == 0 {
		return Handle{}, ErrEmptyTree
	}
	idx, err := t.nn.Nearest(state)
	if err != nil {
		return Handle{}, errors.Wrap(err, "nearest neighbor query")
	}
	return Handle{index: idx, generation: t.generation}, nil
}

// list returns a handle for every motion. Callers must not rely on the order.
func (t *motionTree) list() []Handle {
	handles := make([]Handle, 0, len(t.motions))
	for i := range t.motions {
		handles = append(handles, Handle{index: i, generation: t.generation})
	}
	return handles
}

func (t *motionTree) rootHandles() []Handle {
	return append([]Handle(nil), t.roots...)
}

func (t *motionTree) len() int {
	return len(t.motions)
}

// clear releases every motion and bumps the generation. Calling it on an empty tree is a no-op
// apart from the generation bump.
func (t *motionTree) clear() {
	t.motions = nil
	t.roots = nil
	t.nn.Clear()
	t.generation++
}
