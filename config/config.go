// Package config reads planning problems from JSON or YAML files and turns them into the inputs of
// a motionplan.OptimizingRRT.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/optrrt/motionplan"
	"go.viam.com/optrrt/statespace"
	"go.viam.com/optrrt/utils"
)

// Obstacle types.
const (
	ObstacleBox  = "box"
	ObstacleBall = "ball"
)

// ProblemConfig describes a planning problem in a real vector space.
type ProblemConfig struct {
	Name   string             `json:"name,omitempty" yaml:"name,omitempty"`
	Bounds []statespace.Limit `json:"bounds" yaml:"bounds" jsonschema:"minItems=1"`
	Starts [][]float64        `json:"starts" yaml:"starts" jsonschema:"minItems=1"`
	Goal   GoalConfig         `json:"goal" yaml:"goal"`

	Obstacles []ObstacleConfig `json:"obstacles,omitempty" yaml:"obstacles,omitempty"`

	// Distance between states checked along a motion. Defaults to one percent of the space's extent.
	Resolution float64 `json:"resolution,omitempty" yaml:"resolution,omitempty"`

	// Planner holds PlannerOptions overrides, keyed by their json names.
	Planner map[string]interface{} `json:"planner,omitempty" yaml:"planner,omitempty"`

	Termination TerminationConfig `json:"termination" yaml:"termination"`
}

// GoalConfig is a ball-shaped goal region.
type GoalConfig struct {
	Center []float64 `json:"center" yaml:"center"`
	Radius float64   `json:"radius" yaml:"radius"`
	// Sampleable defaults to true; false disables goal biasing.
	Sampleable *bool `json:"sampleable,omitempty" yaml:"sampleable,omitempty"`
}

// ObstacleConfig is an axis-aligned box or a ball that states may not enter.
type ObstacleConfig struct {
	Type   string    `json:"type" yaml:"type" jsonschema:"enum=box,enum=ball"`
	Label  string    `json:"label,omitempty" yaml:"label,omitempty"`
	Center []float64 `json:"center" yaml:"center"`
	// Dims are the side lengths of a box.
	Dims []float64 `json:"dims,omitempty" yaml:"dims,omitempty"`
	// Radius of a ball.
	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
}

// TerminationConfig bounds a run. Exactly one of Samples and ValidSamples must be set. A positive
// Time additionally has to elapse before planning stops; zero stops on the count alone.
type TerminationConfig struct {
	Samples      int     `json:"samples,omitempty" yaml:"samples,omitempty"`
	ValidSamples int     `json:"valid_samples,omitempty" yaml:"valid_samples,omitempty"`
	Time         float64 `json:"time,omitempty" yaml:"time,omitempty"`
}

// Validate returns every problem found in the config.
func (cfg *ProblemConfig) Validate() error {
	var errs error
	dim := len(cfg.Bounds)
	if dim == 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError("", "bounds"))
	}
	for i, lim := range cfg.Bounds {
		if math.IsNaN(lim.Min) || math.IsNaN(lim.Max) || lim.Min > lim.Max {
			errs = multierr.Append(errs, utils.NewConfigValidationError(fmt.Sprintf("bounds.%d", i),
				errors.Errorf("min %v is greater than max %v", lim.Min, lim.Max)))
		}
	}

	if len(cfg.Starts) == 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError("", "starts"))
	}
	for i, s := range cfg.Starts {
		errs = multierr.Append(errs, checkDimension(fmt.Sprintf("starts.%d", i), s, dim))
	}

	errs = multierr.Append(errs, cfg.Goal.Validate("goal", dim))
	for i, obs := range cfg.Obstacles {
		errs = multierr.Append(errs, obs.Validate(fmt.Sprintf("obstacles.%d", i), dim))
	}
	if cfg.Resolution < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError("resolution",
			errors.Errorf("can't be negative, got %v", cfg.Resolution)))
	}
	errs = multierr.Append(errs, cfg.Termination.Validate("termination"))
	if _, err := motionplan.NewPlannerOptionsFromExtra(cfg.Planner); err != nil {
		errs = multierr.Append(errs, utils.NewConfigValidationError("planner", err))
	}
	return errs
}

// Validate checks the goal against the dimension of the space.
func (gc *GoalConfig) Validate(path string, dim int) error {
	if len(gc.Center) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "center")
	}
	if gc.Radius < 0 || math.IsNaN(gc.Radius) {
		return utils.NewConfigValidationError(path, errors.Errorf("radius can't be negative, got %v", gc.Radius))
	}
	return checkDimension(path+".center", gc.Center, dim)
}

// Validate checks the obstacle's shape parameters.
func (oc *ObstacleConfig) Validate(path string, dim int) error {
	if len(oc.Center) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "center")
	}
	if err := checkDimension(path+".center", oc.Center, dim); err != nil {
		return err
	}
	switch strings.ToLower(oc.Type) {
	case ObstacleBox:
		if len(oc.Dims) == 0 {
			return utils.NewConfigValidationFieldRequiredError(path, "dims")
		}
		return checkDimension(path+".dims", oc.Dims, dim)
	case ObstacleBall:
		if oc.Radius <= 0 {
			return utils.NewConfigValidationError(path, errors.Errorf("radius must be positive, got %v", oc.Radius))
		}
		return nil
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "type")
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown obstacle type %q", oc.Type))
	}
}

// Validate checks that exactly one count is configured.
func (tc *TerminationConfig) Validate(path string) error {
	var errs error
	if tc.Samples < 0 || tc.ValidSamples < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, errors.New("sample counts can't be negative")))
	}
	if (tc.Samples > 0) == (tc.ValidSamples > 0) {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.New("exactly one of samples and valid_samples must be set")))
	}
	if tc.Time < 0 || math.IsNaN(tc.Time) {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, errors.Errorf("time must be non-negative, got %v", tc.Time)))
	}
	return errs
}

// Condition builds the termination condition the count entry points of the planner would use.
func (tc *TerminationConfig) Condition() motionplan.TerminationCondition {
	var count motionplan.TerminationCondition = &motionplan.SampleCountCondition{Min: tc.Samples}
	if tc.ValidSamples > 0 {
		count = &motionplan.ValidSampleCountCondition{Min: tc.ValidSamples}
	}
	if tc.Time > 0 {
		return motionplan.And(count, motionplan.NewTimeCondition(tc.Time))
	}
	return count
}

func checkDimension(path string, vals []float64, dim int) error {
	if len(vals) != dim {
		return utils.NewConfigValidationError(path, errors.Errorf("has %d values but the space has %d dimensions", len(vals), dim))
	}
	return nil
}

// Problem is everything needed to construct and run a planner.
type Problem struct {
	Name        string
	Space       *statespace.RealVectorSpace
	Info        *statespace.Information
	Goal        *motionplan.GoalBall
	Definition  *motionplan.ProblemDefinition
	Options     *motionplan.PlannerOptions
	Termination motionplan.TerminationCondition
}

// Build validates the config and constructs the problem it describes.
func (cfg *ProblemConfig) Build() (*Problem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	space, err := statespace.NewRealVectorSpace(cfg.Bounds)
	if err != nil {
		return nil, err
	}

	obstacles := make([]statespace.Obstacle, 0, len(cfg.Obstacles))
	for i, oc := range cfg.Obstacles {
		label := oc.Label
		if label == "" {
			label = fmt.Sprintf("%s_%d", strings.ToLower(oc.Type), i)
		}
		var obs statespace.Obstacle
		if strings.ToLower(oc.Type) == ObstacleBox {
			obs, err = statespace.NewBox(oc.Center, oc.Dims, label)
		} else {
			obs, err = statespace.NewBall(oc.Center, oc.Radius, label)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "obstacle %d", i)
		}
		obstacles = append(obstacles, obs)
	}

	si, err := statespace.NewInformation(space, statespace.NewObstacleValidityChecker(space, obstacles...), cfg.Resolution)
	if err != nil {
		return nil, err
	}

	ball, err := motionplan.NewGoalBall(space, cfg.Goal.Center, cfg.Goal.Radius)
	if err != nil {
		return nil, err
	}
	goal := motionplan.NewSampleableGoal(ball)
	if cfg.Goal.Sampleable != nil && !*cfg.Goal.Sampleable {
		goal = motionplan.NewGoal(ball)
	}

	pdef := motionplan.NewProblemDefinition(goal)
	for _, s := range cfg.Starts {
		pdef.AddStartState(statespace.FloatsToState(s))
	}

	opts, err := motionplan.NewPlannerOptionsFromExtra(cfg.Planner)
	if err != nil {
		return nil, err
	}

	return &Problem{
		Name:        cfg.Name,
		Space:       space,
		Info:        si,
		Goal:        ball,
		Definition:  pdef,
		Options:     opts,
		Termination: cfg.Termination.Condition(),
	}, nil
}
