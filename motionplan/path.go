package motionplan

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/samber/lo"

	"go.viam.com/optrrt/statespace"
)

// Path is a sequence of states from a start state toward the goal, with the objective's cost of
// reaching its last state.
type Path struct {
	States []statespace.State
	Cost   float64
}

// Len returns the number of states on the path.
func (p *Path) Len() int {
	return len(p.States)
}

// Length returns the summed distance between consecutive states.
func (p *Path) Length(space statespace.Space) float64 {
	total := 0.
	for i := 1; i < len(p.States); i++ {
		total += space.Distance(p.States[i-1], p.States[i])
	}
	return total
}

// extractPath walks parent handles from h up to its root and returns the states root first. The
// states are copies.
func extractPath(tree *motionTree, h Handle) ([]statespace.State, error) {
	handles := []Handle{h}
	for {
		parent, ok, err := tree.parentOf(handles[len(handles)-1])
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		handles = append(handles, parent)
	}
	slices.Reverse(handles)

	states := make([]statespace.State, 0, len(handles))
	for _, ph := range handles {
		m, err := tree.get(ph)
		if err != nil {
			return nil, err
		}
		states = append(states, m.state.Clone())
	}
	return states, nil
}

// pathToFloats converts a path to plain slices, e.g. for encoding.
func pathToFloats(states []statespace.State) [][]float64 {
	return lo.Map(states, func(s statespace.State, _ int) []float64 {
		return []float64(s.Clone())
	})
}

// MarshalJSON encodes the path with a null cost when the cost is not finite.
func (p *Path) MarshalJSON() ([]byte, error) {
	type pathJSON struct {
		States [][]float64 `json:"states"`
		Cost   *float64    `json:"cost"`
	}
	out := pathJSON{States: pathToFloats(p.States)}
	if !math.IsInf(p.Cost, 0) && !math.IsNaN(p.Cost) {
		cost := p.Cost
		out.Cost = &cost
	}
	return json.Marshal(out)
}
