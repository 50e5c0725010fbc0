package motionplan

import (
	"go.viam.com/optrrt/statespace"
)

// ProblemDefinition holds the start states, the goal and the objective of a planning problem.
type ProblemDefinition struct {
	starts    []statespace.State
	goal      Goal
	objective Objective
}

// NewProblemDefinition creates a problem definition for the goal and any number of starts.
func NewProblemDefinition(goal Goal, starts ...statespace.State) *ProblemDefinition {
	pdef := &ProblemDefinition{goal: goal}
	for _, s := range starts {
		pdef.AddStartState(s)
	}
	return pdef
}

// AddStartState appends a start state. Starts added after a solve are picked up by the next solve.
func (pdef *ProblemDefinition) AddStartState(s statespace.State) {
	pdef.starts = append(pdef.starts, s.Clone())
}

// StartStates returns the start states in the order they were added.
func (pdef *ProblemDefinition) StartStates() []statespace.State {
	return pdef.starts
}

// ClearStartStates removes all start states.
func (pdef *ProblemDefinition) ClearStartStates() {
	pdef.starts = nil
}

// SetGoal replaces the goal.
func (pdef *ProblemDefinition) SetGoal(goal Goal) {
	pdef.goal = goal
}

// Goal returns the goal.
func (pdef *ProblemDefinition) Goal() Goal {
	return pdef.goal
}

// SetObjective sets the optimization objective. A nil objective makes planners default to path length.
func (pdef *ProblemDefinition) SetObjective(objective Objective) {
	pdef.objective = objective
}

// Objective returns the objective, nil if none was set.
func (pdef *ProblemDefinition) Objective() Objective {
	return pdef.objective
}
