package motionplan

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/kdtree"

	"go.viam.com/optrrt/statespace"
)

// Names of the nearest-neighbor structures selectable through PlannerOptions.
const (
	NearestNeighborsAuto   = "auto"
	NearestNeighborsLinear = "linear"
	NearestNeighborsKDTree = "kdtree"
)

// NearestNeighbors indexes tree motions by state. It only ever grows during planning and is emptied
// with the tree. Indexes are arena indexes of the owning motionTree.
type NearestNeighbors interface {
	Add(index int, state statespace.State)
	// Nearest returns the index whose state minimizes the distance to the query.
	Nearest(query statespace.State) (int, error)
	Size() int
	Clear()
}

// euclideanSpace is implemented by spaces whose distance is the L2 norm of raw coordinates.
type euclideanSpace interface {
	IsEuclidean() bool
}

// newNearestNeighbors builds the structure named by kind. The k-d tree requires a Euclidean space;
// "auto" picks it whenever the space allows and falls back to a linear scan otherwise.
func newNearestNeighbors(kind string, space statespace.Space) (NearestNeighbors, error) {
	euclidean := false
	if es, ok := space.(euclideanSpace); ok {
		euclidean = es.IsEuclidean()
	}
	switch kind {
	case NearestNeighborsAuto, "":
		if euclidean {
			return newKDNeighbors(), nil
		}
		return newLinearNeighbors(space.Distance), nil
	case NearestNeighborsLinear:
		return newLinearNeighbors(space.Distance), nil
	case NearestNeighborsKDTree:
		if !euclidean {
			return nil, errors.Errorf("%s nearest neighbors need a euclidean space, got %T", kind, space)
		}
		return newKDNeighbors(), nil
	default:
		return nil, errors.Errorf("unknown nearest neighbors type %q", kind)
	}
}

type neighbor struct {
	index int
	state statespace.State
}

// linearNeighbors scans every entry. It works with any distance function, symmetric or not, and
// measures from the stored state to the query.
type linearNeighbors struct {
	distance func(a, b statespace.State) float64
	entries  []neighbor
}

func newLinearNeighbors(distance func(a, b statespace.State) float64) *linearNeighbors {
	return &linearNeighbors{distance: distance}
}

func (nm *linearNeighbors) Add(index int, state statespace.State) {
	nm.entries = append(nm.entries, neighbor{index: index, state: state})
}

func (nm *linearNeighbors) Nearest(query statespace.State) (int, error) {
	if len(nm.entries) == 0 {
		return -1, ErrEmptyTree
	}
	bestDist := math.Inf(1)
	best := nm.entries[0].index
	for _, n := range nm.entries {
		if dist := nm.distance(n.state, query); dist < bestDist {
			bestDist = dist
			best = n.index
		}
	}
	return best, nil
}

func (nm *linearNeighbors) Size() int {
	return len(nm.entries)
}

func (nm *linearNeighbors) Clear() {
	nm.entries = nil
}

// kdPoint is a state stored in the k-d tree alongside the arena index it belongs to.
type kdPoint struct {
	index  int
	coords statespace.State
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	return p.coords[d] - q.coords[d]
}

func (p kdPoint) Dims() int {
	return len(p.coords)
}

// Distance returns the squared euclidean distance, which is what the tree prunes against.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	var sum float64
	for dim, v := range p.coords {
		diff := q.coords[dim] - v
		sum += diff * diff
	}
	return sum
}

// kdNeighbors is an incrementally built k-d tree. Inserts are not rebalanced; uniform sampling
// keeps the tree shallow enough in practice.
type kdNeighbors struct {
	tree *kdtree.Tree
}

func newKDNeighbors() *kdNeighbors {
	return &kdNeighbors{tree: &kdtree.Tree{}}
}

func (nm *kdNeighbors) Add(index int, state statespace.State) {
	nm.tree.Insert(kdPoint{index: index, coords: state}, false)
}

func (nm *kdNeighbors) Nearest(query statespace.State) (int, error) {
	if nm.tree.Count == 0 {
		return -1, ErrEmptyTree
	}
	got, _ := nm.tree.Nearest(kdPoint{index: -1, coords: query})
	if got == nil {
		return -1, ErrEmptyTree
	}
	return got.(kdPoint).index, nil
}

func (nm *kdNeighbors) Size() int {
	return nm.tree.Count
}

func (nm *kdNeighbors) Clear() {
	nm.tree = &kdtree.Tree{}
}
