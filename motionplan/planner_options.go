package motionplan

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/optrrt/utils"
)

// default values for planning options.
const (
	// Probability of sampling from the goal region instead of the whole space.
	defaultGoalBias = 0.05

	// A range of zero is replaced by this fraction of the space's maximum extent at setup.
	defaultRangeFactor = 0.2

	// random seed.
	defaultRandomSeed = 0

	// Log a progress line every this many samples.
	defaultLogEvery = 1000

	// maxRange is the upper end of the range a caller may configure.
	maxRange = 10000.
)

var defaultLogEveryEnv = defaultLogEvery

func init() {
	defaultLogEveryEnv = logEveryFromEnv()
}

// logEveryFromEnv reads OPTRRT_LOG_EVERY. Negative values fall back to the default.
func logEveryFromEnv() int {
	logEvery := utils.GetenvInt(utils.EnvVarPrefix+"LOG_EVERY", defaultLogEvery)
	if logEvery < 0 {
		return defaultLogEvery
	}
	return logEvery
}

// NewBasicPlannerOptions specifies a set of basic options for the planner.
func NewBasicPlannerOptions() *PlannerOptions {
	opt := &PlannerOptions{}
	opt.GoalBias = defaultGoalBias
	opt.RandomSeed = defaultRandomSeed
	opt.NearestNeighbors = NearestNeighborsAuto
	opt.LogEvery = defaultLogEveryEnv
	return opt
}

// PlannerOptions are a set of options to be passed to a planner which will specify how to grow its tree.
type PlannerOptions struct {
	// Maximum length of a single motion. Zero means the planner picks one from the space's extent.
	Range float64 `json:"range"`

	// Probability of drawing a goal sample when the goal is sampleable.
	GoalBias float64 `json:"goal_bias"`

	// The random seed used by the sampler. This parameter guarantees deterministic outputs for a
	// given set of identical inputs.
	RandomSeed int `json:"rseed"`

	// Which nearest-neighbor oracle to use: "auto", "linear" or "kdtree".
	NearestNeighbors string `json:"nearest_neighbors"`

	// Log a progress line every this many samples, 0 to disable.
	LogEvery int `json:"log_every"`
}

// NewPlannerOptionsFromExtra returns basic default settings updated by overridden parameters found
// in an attribute map, e.g. the "planner" section of a problem file.
func NewPlannerOptionsFromExtra(extra map[string]interface{}) (*PlannerOptions, error) {
	opt := NewBasicPlannerOptions()
	if len(extra) == 0 {
		return opt, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           opt,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(extra); err != nil {
		return nil, errors.Wrap(err, "error decoding planner options")
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return opt, nil
}

// Validate reports every option that is out of its domain.
func (p *PlannerOptions) Validate() error {
	var errs error
	if p.Range < 0 || p.Range > maxRange {
		errs = multierr.Append(errs, utils.NewOutOfRangeError("range", p.Range, 0, maxRange))
	}
	if p.GoalBias < 0 || p.GoalBias > 1 {
		errs = multierr.Append(errs, utils.NewOutOfRangeError("goal_bias", p.GoalBias, 0, 1))
	}
	if p.LogEvery < 0 {
		errs = multierr.Append(errs, errors.Errorf("log_every can't be negative, got %d", p.LogEvery))
	}
	switch p.NearestNeighbors {
	case "", NearestNeighborsAuto, NearestNeighborsLinear, NearestNeighborsKDTree:
	default:
		errs = multierr.Append(errs, errors.Errorf("unknown nearest_neighbors %q", p.NearestNeighbors))
	}
	return errs
}
