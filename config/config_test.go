package config

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/optrrt/logging"
	"go.viam.com/optrrt/motionplan"
	"go.viam.com/optrrt/statespace"
)

func TestReadJSON(t *testing.T) {
	cfg, err := Read("testdata/open_field.json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Name, test.ShouldEqual, "open field")
	test.That(t, cfg.Bounds, test.ShouldResemble, []statespace.Limit{{Min: -1, Max: 11}, {Min: -1, Max: 11}})
	test.That(t, cfg.Termination.Samples, test.ShouldEqual, 5000)

	prob, err := cfg.Build()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, prob.Options.Range, test.ShouldEqual, 1.)
	test.That(t, prob.Options.RandomSeed, test.ShouldEqual, 3)
	test.That(t, prob.Info.Resolution(), test.ShouldEqual, 0.05)
	test.That(t, prob.Definition.Goal().Sampleable(), test.ShouldBeTrue)
	test.That(t, prob.Termination.String(), test.ShouldEqual, "samples(5000)")

	mp, err := motionplan.NewOptimizingRRT(prob.Info, prob.Definition, prob.Options, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	res, err := mp.Solve(context.Background(), prob.Termination)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status, test.ShouldEqual, motionplan.StatusExactSolution)
}

func TestReadYAML(t *testing.T) {
	t.Setenv("OPTRRT_TEST_RANGE", "0.75")
	cfg, err := Read("testdata/walled.yaml")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Obstacles, test.ShouldHaveLength, 2)
	test.That(t, cfg.Termination.ValidSamples, test.ShouldEqual, 500)

	prob, err := cfg.Build()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, prob.Options.Range, test.ShouldEqual, 0.75)
	test.That(t, prob.Options.NearestNeighbors, test.ShouldEqual, motionplan.NearestNeighborsLinear)
	test.That(t, prob.Info.IsValid(statespace.State{5, 0}), test.ShouldBeFalse)
	test.That(t, prob.Info.IsValid(statespace.State{2, 8.2}), test.ShouldBeFalse)
	test.That(t, prob.Info.IsValid(statespace.State{1, 1}), test.ShouldBeTrue)

	mp, err := motionplan.NewOptimizingRRT(prob.Info, prob.Definition, prob.Options, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	res, err := mp.Solve(context.Background(), prob.Termination)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Approximate, test.ShouldBeTrue)
	test.That(t, mp.ValidSampledStates(), test.ShouldEqual, 500)
}

func TestReadJSON5(t *testing.T) {
	cfg, err := Read("testdata/narrow_gap.json5")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Name, test.ShouldEqual, "narrow gap")
	test.That(t, cfg.Obstacles, test.ShouldHaveLength, 1)
	test.That(t, cfg.Obstacles[0].Label, test.ShouldEqual, "lower wall")

	prob, err := cfg.Build()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, prob.Options.RandomSeed, test.ShouldEqual, 7)
	test.That(t, prob.Info.IsValid(statespace.State{5, 8}), test.ShouldBeFalse)
	test.That(t, prob.Info.IsValid(statespace.State{5, 9.5}), test.ShouldBeTrue)

	mp, err := motionplan.NewOptimizingRRT(prob.Info, prob.Definition, prob.Options, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	res, err := mp.Solve(context.Background(), prob.Termination)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Status.Solved(), test.ShouldBeTrue)
	test.That(t, res.Path.States[0], test.ShouldResemble, statespace.State{1, 1})
}

func TestFromReaderErrors(t *testing.T) {
	_, err := FromReader(strings.NewReader(`{"bounds": [}`), FormatJSON)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader(strings.NewReader(`{"bogus": 1}`), FormatJSON)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader(strings.NewReader(`{}`), "toml")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Read("testdata/missing.json")
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, FormatFromPath("a/b.YML"), test.ShouldEqual, FormatYAML)
	test.That(t, FormatFromPath("a/b.conf"), test.ShouldEqual, FormatJSON)
	test.That(t, FormatFromPath("a/b.json5"), test.ShouldEqual, FormatJSON5)

	_, err = FromReader(strings.NewReader(`{bounds: [`), FormatJSON5)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidate(t *testing.T) {
	valid := func() *ProblemConfig {
		return &ProblemConfig{
			Bounds:      []statespace.Limit{{Min: 0, Max: 1}, {Min: 0, Max: 1}},
			Starts:      [][]float64{{0, 0}},
			Goal:        GoalConfig{Center: []float64{1, 1}, Radius: 0.1},
			Termination: TerminationConfig{Samples: 10},
		}
	}
	test.That(t, valid().Validate(), test.ShouldBeNil)

	for _, tc := range []struct {
		name     string
		edit     func(*ProblemConfig)
		expected string
	}{
		{"no bounds", func(c *ProblemConfig) { c.Bounds = nil }, `"bounds" is required`},
		{"inverted bounds", func(c *ProblemConfig) { c.Bounds[1] = statespace.Limit{Min: 2, Max: 1} }, `error validating "bounds.1"`},
		{"no starts", func(c *ProblemConfig) { c.Starts = nil }, `"starts" is required`},
		{"short start", func(c *ProblemConfig) { c.Starts = append(c.Starts, []float64{1}) }, `error validating "starts.1"`},
		{"no goal", func(c *ProblemConfig) { c.Goal = GoalConfig{} }, `"center" is required`},
		{"negative radius", func(c *ProblemConfig) { c.Goal.Radius = -1 }, "radius can't be negative"},
		{"untyped obstacle", func(c *ProblemConfig) {
			c.Obstacles = []ObstacleConfig{{Center: []float64{0.5, 0.5}}}
		}, `"type" is required`},
		{"box without dims", func(c *ProblemConfig) {
			c.Obstacles = []ObstacleConfig{{Type: ObstacleBox, Center: []float64{0.5, 0.5}}}
		}, `"dims" is required`},
		{"flat ball", func(c *ProblemConfig) {
			c.Obstacles = []ObstacleConfig{{Type: ObstacleBall, Center: []float64{0.5, 0.5}}}
		}, "radius must be positive"},
		{"unknown obstacle", func(c *ProblemConfig) {
			c.Obstacles = []ObstacleConfig{{Type: "cone", Center: []float64{0.5, 0.5}}}
		}, `unknown obstacle type "cone"`},
		{"both counts", func(c *ProblemConfig) { c.Termination.ValidSamples = 3 }, "exactly one of samples and valid_samples"},
		{"no counts", func(c *ProblemConfig) { c.Termination = TerminationConfig{Time: 1} }, "exactly one of samples and valid_samples"},
		{"negative time", func(c *ProblemConfig) { c.Termination.Time = -1 }, "time must be non-negative"},
		{"nan time", func(c *ProblemConfig) { c.Termination.Time = math.NaN() }, "time must be non-negative, got NaN"},
		{"negative resolution", func(c *ProblemConfig) { c.Resolution = -1 }, `error validating "resolution"`},
		{"bad planner", func(c *ProblemConfig) { c.Planner = map[string]interface{}{"goal_bias": 3} }, `error validating "planner"`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.edit(cfg)
			err := cfg.Validate()
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.expected)
			_, err = cfg.Build()
			test.That(t, err, test.ShouldNotBeNil)
		})
	}
}

func TestTerminationCondition(t *testing.T) {
	tc := TerminationConfig{ValidSamples: 5, Time: 2}
	test.That(t, tc.Condition().String(), test.ShouldEqual, "(valid_samples(5) and time(2s))")

	cfg := &ProblemConfig{
		Bounds:      []statespace.Limit{{Min: 0, Max: 1}},
		Starts:      [][]float64{{0}},
		Goal:        GoalConfig{Center: []float64{1}, Radius: 0.1, Sampleable: new(bool)},
		Termination: TerminationConfig{Samples: 10},
	}
	prob, err := cfg.Build()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, prob.Definition.Goal().Sampleable(), test.ShouldBeFalse)
}

func TestSchema(t *testing.T) {
	out, err := json.Marshal(Schema())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(out), test.ShouldContainSubstring, "ProblemConfig")
	test.That(t, string(out), test.ShouldContainSubstring, "valid_samples")
}
