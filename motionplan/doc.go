// Package motionplan contains an anytime, asymptotically improving sampling-based path planner.
// OptimizingRRT grows a tree of valid motions through a statespace.Information and keeps the cheapest
// goal-satisfying motion it has seen under the problem's Objective.
package motionplan
