package motionplan

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"go.viam.com/optrrt/logging"
	"go.viam.com/optrrt/statespace"
)

// IntermediateSolutionCallback is invoked every time Solve finds a goal motion cheaper than the best
// one so far. The path runs from a start state to the new goal motion.
type IntermediateSolutionCallback func(path []statespace.State, cost float64)

// OptimizingRRT is an anytime RRT that keeps sampling after the first solution is found and reports
// the cheapest goal-satisfying motion under the problem's objective. Every motion is connected to its
// nearest neighbor; no rewiring takes place.
//
// A planner is not safe for concurrent use.
type OptimizingRRT struct {
	si     *statespace.Information
	pdef   *ProblemDefinition
	opts   *PlannerOptions
	logger logging.Logger
	clock  clock.Clock
	rng    *rand.Rand

	maxDistance float64
	goalBias    float64
	objective   Objective
	setupDone   bool

	tree           *motionTree
	startsConsumed int
	lastGoalMotion Handle
	hasGoalMotion  bool
	bestCost       float64

	sampled      int
	validSampled int

	onSolution IntermediateSolutionCallback
}

// NewOptimizingRRT creates a planner for the problem. Nil options use NewBasicPlannerOptions.
func NewOptimizingRRT(
	si *statespace.Information,
	pdef *ProblemDefinition,
	opts *PlannerOptions,
	logger logging.Logger,
) (*OptimizingRRT, error) {
	if si == nil {
		return nil, errors.New("planner needs space information")
	}
	if pdef == nil {
		return nil, errors.New("planner needs a problem definition")
	}
	if opts == nil {
		opts = NewBasicPlannerOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger("optrrt")
	}
	nn, err := newNearestNeighbors(opts.NearestNeighbors, si.Space)
	if err != nil {
		return nil, err
	}

	//nolint:gosec
	return &OptimizingRRT{
		si:          si,
		pdef:        pdef,
		opts:        opts,
		logger:      logger,
		clock:       clock.New(),
		rng:         rand.New(rand.NewSource(int64(opts.RandomSeed))),
		maxDistance: opts.Range,
		goalBias:    opts.GoalBias,
		tree:        newMotionTree(nn),
		bestCost:    math.NaN(),
	}, nil
}

// SetClock replaces the clock time conditions are measured with.
func (mp *OptimizingRRT) SetClock(c clock.Clock) {
	mp.clock = c
}

// SetRange sets the maximum length of a motion. Zero means it is derived from the space at setup.
func (mp *OptimizingRRT) SetRange(distance float64) error {
	if distance < 0 || distance > maxRange || math.IsNaN(distance) {
		return errors.Errorf("range must be in [0, %v], got %v", maxRange, distance)
	}
	mp.maxDistance = distance
	if distance == 0 {
		mp.setupDone = false
	}
	return nil
}

// Range returns the maximum length of a motion.
func (mp *OptimizingRRT) Range() float64 {
	return mp.maxDistance
}

// SetGoalBias sets the probability of sampling from the goal region.
func (mp *OptimizingRRT) SetGoalBias(bias float64) error {
	if bias < 0 || bias > 1 || math.IsNaN(bias) {
		return errors.Errorf("goal bias must be in [0, 1], got %v", bias)
	}
	mp.goalBias = bias
	return nil
}

// GoalBias returns the probability of sampling from the goal region.
func (mp *OptimizingRRT) GoalBias() float64 {
	return mp.goalBias
}

// SetIntermediateSolutionCallback registers a function called on every improvement of the best
// solution. Nil removes it.
func (mp *OptimizingRRT) SetIntermediateSolutionCallback(cb IntermediateSolutionCallback) {
	mp.onSolution = cb
}

// SampledStates returns how many samples the last Solve call drew.
func (mp *OptimizingRRT) SampledStates() int {
	return mp.sampled
}

// ValidSampledStates returns how many samples of the last Solve call produced a motion.
func (mp *OptimizingRRT) ValidSampledStates() int {
	return mp.validSampled
}

// BestCost returns the cost of the best solution known to the planner, NaN before the first solve
// and after Clear.
func (mp *OptimizingRRT) BestCost() float64 {
	return mp.bestCost
}

// TreeSize returns the number of motions in the tree.
func (mp *OptimizingRRT) TreeSize() int {
	return mp.tree.len()
}

// Clear drops the tree, the remembered solution and the sampler state. The next Solve starts over
// from the problem's start states.
func (mp *OptimizingRRT) Clear() {
	mp.setupDone = false
	mp.tree.clear()
	mp.startsConsumed = 0
	mp.lastGoalMotion = Handle{}
	mp.hasGoalMotion = false
	mp.bestCost = math.NaN()
	mp.sampled = 0
	mp.validSampled = 0
	//nolint:gosec
	mp.rng = rand.New(rand.NewSource(int64(mp.opts.RandomSeed)))
}

func (mp *OptimizingRRT) setup(ctx context.Context) error {
	if mp.setupDone {
		return nil
	}
	_, span := trace.StartSpan(ctx, "optrrt::setup")
	defer span.End()

	if !mp.pdef.Goal().IsSet() {
		return ErrNoGoal
	}

	if mp.maxDistance == 0 {
		mp.maxDistance = mp.si.MaximumExtent() * defaultRangeFactor
		mp.logger.Infof("range computed as %v", mp.maxDistance)
	}
	if mp.maxDistance <= 0 || math.IsInf(mp.maxDistance, 0) || math.IsNaN(mp.maxDistance) {
		return errors.Errorf("cannot derive a range from a space with extent %v", mp.si.MaximumExtent())
	}

	if !mp.si.HasSymmetricDistance() || !mp.si.HasSymmetricInterpolate() {
		mp.logger.Warn("optimizing rrt requires a state space with symmetric distance and symmetric interpolation")
	}

	if obj := mp.pdef.Objective(); obj != nil {
		mp.objective = obj
	} else {
		mp.logger.Info("no optimization objective specified, defaulting to optimizing path length")
		mp.objective = NewPathLengthObjective(mp.si.Space)
		mp.pdef.SetObjective(mp.objective)
	}

	mp.setupDone = true
	return nil
}

// addStartStates roots the tree at every start state the problem gained since the last call.
// Invalid states are skipped.
func (mp *OptimizingRRT) addStartStates() {
	starts := mp.pdef.StartStates()
	for ; mp.startsConsumed < len(starts); mp.startsConsumed++ {
		s := starts[mp.startsConsumed]
		switch {
		case len(s) != mp.si.Dimension():
			mp.logger.Warnw("skipping start state", "state", s.String(),
				"error", newDimensionMismatchError("start state", len(s), mp.si.Dimension()).Error())
		case !mp.si.SatisfiesBounds(s):
			mp.logger.Warnw("skipping start state outside of the space bounds", "state", s.String())
		case !mp.si.IsValid(s):
			mp.logger.Warnw("skipping invalid start state", "state", s.String())
		default:
			mp.tree.addRoot(s, mp.objective.IdentityCost())
		}
	}
}

// sample draws the next target state, from the goal with probability GoalBias when it can.
func (mp *OptimizingRRT) sample(goal Goal) statespace.State {
	if goal.Sampleable() && mp.rng.Float64() < mp.goalBias {
		if s, ok := goal.sample(mp.rng); ok {
			return s
		}
	}
	return mp.si.SampleUniform(mp.rng)
}

// SolveWithMinSamples plans until at least numSamples samples were drawn. A positive solveTime in
// seconds additionally requires that much time to pass.
func (mp *OptimizingRRT) SolveWithMinSamples(ctx context.Context, numSamples int, solveTime float64) (*PlanResult, error) {
	return mp.Solve(ctx, countCondition(&SampleCountCondition{Min: numSamples}, solveTime))
}

// SolveWithMinValidSamples plans until at least numSamples samples produced a motion. A positive
// solveTime in seconds additionally requires that much time to pass.
func (mp *OptimizingRRT) SolveWithMinValidSamples(ctx context.Context, numSamples int, solveTime float64) (*PlanResult, error) {
	return mp.Solve(ctx, countCondition(&ValidSampleCountCondition{Min: numSamples}, solveTime))
}

// Solve grows the tree until the condition holds or ctx is done, then returns the best path found.
// Without a goal-satisfying motion the path leads to the motion closest to the goal and the result
// is approximate. ErrNoSolutionFound is returned alongside the result when there is no path at all.
func (mp *OptimizingRRT) Solve(ctx context.Context, cond TerminationCondition) (*PlanResult, error) {
	if cond == nil {
		return nil, errors.New("solve needs a termination condition")
	}
	ctx, span := trace.StartSpan(ctx, "optrrt::Solve")
	defer span.End()

	meta := NewPlanMeta()
	defer meta.DeferTiming("Solve", time.Now())
	start := mp.clock.Now()
	defer func() {
		meta.Duration = mp.clock.Since(start)
	}()

	setupStart := time.Now()
	if err := mp.setup(ctx); err != nil {
		if errors.Is(err, ErrNoGoal) {
			return newPlanResult(StatusInvalidGoal, meta), err
		}
		return nil, err
	}
	mp.addStartStates()
	meta.AddTiming("setup", time.Since(setupStart))

	if mp.tree.len() == 0 {
		mp.logger.Error("there are no valid initial states")
		return newPlanResult(StatusInvalidStart, meta), ErrInvalidStart
	}

	goal := mp.pdef.Goal()
	obj := mp.objective
	mp.logger.Infof("starting planning with %d states already in datastructure", mp.tree.len())

	solution := Handle{}
	haveSolution := false
	bestCost := obj.InfiniteCost()
	if mp.hasGoalMotion {
		if m, err := mp.tree.get(mp.lastGoalMotion); err == nil {
			solution, haveSolution, bestCost = mp.lastGoalMotion, true, m.cost
			mp.logger.Infof("starting planning with existing solution of cost %.5f", m.cost)
		}
	}
	approximation := Handle{}
	haveApproximation := false
	approxDist := math.Inf(1)

	mp.sampled = 0
	mp.validSampled = 0
	tc := &TerminationContext{Ctx: ctx, Clock: mp.clock, Start: start}
	stop := Or(cond, ContextCondition{})
	mp.logger.CDebugf(ctx, "planning until %v", stop)

	_, growSpan := trace.StartSpan(ctx, "optrrt::grow")
	growStart := time.Now()
	for {
		tc.Sampled, tc.ValidSampled, tc.ExactSolution = mp.sampled, mp.validSampled, haveSolution
		if stop.Terminate(tc) {
			break
		}

		rstate := mp.sample(goal)
		mp.sampled++
		if mp.opts.LogEvery > 0 && mp.sampled%mp.opts.LogEvery == 0 {
			mp.logger.CDebugf(ctx, "sampled states: %d of which %d are valid, tree size %d",
				mp.sampled, mp.validSampled, mp.tree.len())
		}

		nearHandle, err := mp.tree.nearest(rstate)
		if err != nil {
			growSpan.End()
			return nil, err
		}
		near, err := mp.tree.get(nearHandle)
		if err != nil {
			growSpan.End()
			return nil, err
		}
		nearState, nearCost := near.state, near.cost

		dstate := rstate
		if d := mp.si.Distance(nearState, rstate); d > mp.maxDistance {
			dstate = mp.si.Interpolate(nearState, rstate, mp.maxDistance/d)
		}

		if !mp.si.CheckMotion(nearState, dstate) {
			continue
		}
		mp.validSampled++

		incCost := obj.MotionCost(nearState, dstate)
		cost := obj.CombineCosts(nearCost, incCost)
		h := mp.tree.insert(motion{state: dstate, parent: nearHandle, cost: cost, incCost: incCost})

		sat, dist := goal.IsSatisfied(dstate)
		if sat {
			approxDist = dist
			if !haveSolution || obj.IsCostBetterThan(cost, bestCost) {
				solution, haveSolution, bestCost = h, true, cost
				meta.Improvements++
				mp.logger.CDebugf(ctx, "cost of best solution so far: %v", bestCost)
				mp.reportSolution(h, cost)
			}
		}
		if dist < approxDist {
			approxDist = dist
			approximation, haveApproximation = h, true
			mp.logger.CDebugf(ctx, "approximate distance to goal: %v", approxDist)
		}
	}
	meta.AddTiming("grow", time.Since(growStart))
	growSpan.End()

	meta.Sampled = mp.sampled
	meta.ValidSampled = mp.validSampled
	meta.TreeSize = mp.tree.len()

	result := newPlanResult(StatusTimeout, meta)
	final := solution
	switch {
	case haveSolution:
		mp.lastGoalMotion, mp.hasGoalMotion = solution, true
		mp.bestCost = bestCost
		result.Status = StatusExactSolution
	case haveApproximation:
		final = approximation
		result.Status = StatusApproximateSolution
		result.Approximate = true
		result.ApproximateDistance = approxDist
	default:
		mp.logger.Infow("no solution found", "sampled", mp.sampled, "valid_sampled", mp.validSampled,
			"states", mp.tree.len())
		return result, ErrNoSolutionFound
	}

	extractStart := time.Now()
	states, err := extractPath(mp.tree, final)
	if err != nil {
		return nil, err
	}
	meta.AddTiming("extractPath", time.Since(extractStart))
	m, err := mp.tree.get(final)
	if err != nil {
		return nil, err
	}
	result.Path = &Path{States: states, Cost: m.cost}

	mp.logger.Infow("planning finished",
		"status", result.Status.String(),
		"cost", m.cost,
		"sampled", mp.sampled,
		"valid_sampled", mp.validSampled,
		"states", mp.tree.len(),
	)
	return result, nil
}

func (mp *OptimizingRRT) reportSolution(h Handle, cost float64) {
	if mp.onSolution == nil {
		return
	}
	states, err := extractPath(mp.tree, h)
	if err != nil {
		mp.logger.Warnw("could not report intermediate solution", "error", err)
		return
	}
	mp.onSolution(states, cost)
}
