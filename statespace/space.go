package statespace

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Infinite limits are sampled within this range.
const defaultUnboundedRange = 999.

// Limit represents the bounds of one dimension of a space.
type Limit struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Space is the geometry of a configuration space: how states are sampled, measured and blended.
type Space interface {
	Dimension() int
	Limits() []Limit
	// Distance is the length of the straight motion from a to b.
	Distance(a, b State) float64
	// Interpolate returns the state `by` of the way from `from` to `to`, by in [0, 1].
	Interpolate(from, to State, by float64) State
	SampleUniform(rng *rand.Rand) State
	SatisfiesBounds(s State) bool
	// MaximumExtent is the largest distance between any two states of the space.
	MaximumExtent() float64
	HasSymmetricDistance() bool
	HasSymmetricInterpolate() bool
}

// RealVectorSpace is an axis-aligned box of R^n with the L2 metric.
type RealVectorSpace struct {
	limits []Limit
	mins   []float64
	maxs   []float64
}

// NewRealVectorSpace creates a space bounded by the given per-dimension limits.
func NewRealVectorSpace(limits []Limit) (*RealVectorSpace, error) {
	if len(limits) == 0 {
		return nil, errors.New("a space needs at least one dimension")
	}
	rvs := &RealVectorSpace{
		limits: make([]Limit, len(limits)),
		mins:   make([]float64, len(limits)),
		maxs:   make([]float64, len(limits)),
	}
	for i, lim := range limits {
		if math.IsNaN(lim.Min) || math.IsNaN(lim.Max) || lim.Min > lim.Max {
			return nil, errors.Errorf("dimension %d has invalid limits [%v, %v]", i, lim.Min, lim.Max)
		}
		rvs.limits[i] = lim
		rvs.mins[i], rvs.maxs[i] = boundedRange(lim)
	}
	return rvs, nil
}

func boundedRange(lim Limit) (float64, float64) {
	l, u := lim.Min, lim.Max
	if math.IsInf(l, -1) {
		l = -defaultUnboundedRange
	}
	if math.IsInf(u, 1) {
		u = defaultUnboundedRange
	}
	return l, u
}

// Dimension returns the number of coordinates of a state.
func (rvs *RealVectorSpace) Dimension() int {
	return len(rvs.limits)
}

// Limits returns a copy of the bounds.
func (rvs *RealVectorSpace) Limits() []Limit {
	out := make([]Limit, len(rvs.limits))
	copy(out, rvs.limits)
	return out
}

// Distance returns the Euclidean distance between two states.
func (rvs *RealVectorSpace) Distance(a, b State) float64 {
	return floats.Distance(a, b, 2)
}

// Interpolate linearly blends two states.
func (rvs *RealVectorSpace) Interpolate(from, to State, by float64) State {
	diff := make([]float64, len(from))
	floats.SubTo(diff, to, from)
	out := make(State, len(from))
	floats.AddScaledTo(out, from, by, diff)
	return out
}

// SampleUniform draws a state uniformly within the bounds. Unbounded dimensions are sampled from
// [-999, 999].
func (rvs *RealVectorSpace) SampleUniform(rng *rand.Rand) State {
	out := make(State, 0, len(rvs.limits))
	for i := range rvs.limits {
		jRange := rvs.maxs[i] - rvs.mins[i]
		out = append(out, rng.Float64()*jRange+rvs.mins[i])
	}
	return out
}

// SatisfiesBounds reports whether the state has the right dimension and lies within the limits.
func (rvs *RealVectorSpace) SatisfiesBounds(s State) bool {
	if len(s) != len(rvs.limits) {
		return false
	}
	for i, v := range s {
		if v < rvs.limits[i].Min || v > rvs.limits[i].Max {
			return false
		}
	}
	return true
}

// EnforceBounds returns a copy of the state clamped into the limits.
func (rvs *RealVectorSpace) EnforceBounds(s State) State {
	out := s.Clone()
	for i := range out {
		out[i] = math.Min(math.Max(out[i], rvs.limits[i].Min), rvs.limits[i].Max)
	}
	return out
}

// MaximumExtent is the length of the diagonal of the bounding box.
func (rvs *RealVectorSpace) MaximumExtent() float64 {
	return floats.Distance(rvs.mins, rvs.maxs, 2)
}

// HasSymmetricDistance is always true for the L2 metric.
func (rvs *RealVectorSpace) HasSymmetricDistance() bool {
	return true
}

// HasSymmetricInterpolate is always true for linear interpolation.
func (rvs *RealVectorSpace) HasSymmetricInterpolate() bool {
	return true
}

// IsEuclidean marks spaces whose Distance is the L2 norm over raw coordinates, which lets spatial
// indexes prune on coordinate planes.
func (rvs *RealVectorSpace) IsEuclidean() bool {
	return true
}
