package motionplan

import "encoding/json"

// PlannerStatus is the outcome of a Solve call.
type PlannerStatus int

// Possible planner outcomes.
const (
	StatusUnknown PlannerStatus = iota
	StatusInvalidStart
	StatusInvalidGoal
	StatusTimeout
	StatusApproximateSolution
	StatusExactSolution
)

func (s PlannerStatus) String() string {
	switch s {
	case StatusInvalidStart:
		return "invalid start"
	case StatusInvalidGoal:
		return "invalid goal"
	case StatusTimeout:
		return "timeout"
	case StatusApproximateSolution:
		return "approximate solution"
	case StatusExactSolution:
		return "exact solution"
	case StatusUnknown:
		fallthrough
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its string form.
func (s PlannerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Solved reports whether the status carries a path.
func (s PlannerStatus) Solved() bool {
	return s == StatusExactSolution || s == StatusApproximateSolution
}

// PlanResult is what a Solve call produced. Path is nil unless the status is solved.
type PlanResult struct {
	Status PlannerStatus `json:"status"`
	// Approximate is true when the path ends at the motion closest to the goal rather than in it.
	Approximate bool `json:"approximate"`
	// ApproximateDistance is the goal distance of the path's last state for approximate results,
	// -1 otherwise.
	ApproximateDistance float64   `json:"approximate_distance"`
	Path                *Path     `json:"path,omitempty"`
	Meta                *PlanMeta `json:"meta,omitempty"`
}

func newPlanResult(status PlannerStatus, meta *PlanMeta) *PlanResult {
	return &PlanResult{Status: status, ApproximateDistance: -1, Meta: meta}
}
