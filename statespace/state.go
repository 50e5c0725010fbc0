// Package statespace defines the configuration spaces the planner searches: states, bounds, sampling,
// distance and interpolation, plus validity checking against obstacles.
package statespace

import (
	"fmt"
	"strings"
)

// State is a point in a configuration space. A State is a plain value; spaces never retain the
// slices they are handed, and the planner copies states it keeps.
type State []float64

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	out := make(State, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both states have identical coordinates.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i, v := range s {
		if v != other[i] {
			return false
		}
	}
	return true
}

func (s State) String() string {
	parts := make([]string, 0, len(s))
	for _, v := range s {
		parts = append(parts, fmt.Sprintf("%.4f", v))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FloatsToState copies a float slice into a state.
func FloatsToState(vals []float64) State {
	return State(vals).Clone()
}
