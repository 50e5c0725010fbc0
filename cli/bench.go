package cli

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"go.viam.com/optrrt/logging"
	"go.viam.com/optrrt/motionplan"
)

// benchRun is the outcome of one seeded run.
type benchRun struct {
	seed     int
	status   motionplan.PlannerStatus
	cost     float64
	states   int
	duration time.Duration
}

// BenchAction solves the problem once per seed and prints a table of the runs and a summary of the
// exact solution costs. Each run owns its planner, so runs may proceed in parallel.
func BenchAction(c *cli.Context) error {
	logger, done := newLogger(c)
	defer done()

	cfg, err := readProblem(c)
	if err != nil {
		return err
	}
	numRuns := c.Int(benchFlagRuns)
	if numRuns <= 0 {
		return errors.Errorf("--%s must be positive, got %d", benchFlagRuns, numRuns)
	}
	firstSeed := c.Int(planFlagSeed)

	runs := make([]benchRun, numRuns)
	g, ctx := errgroup.WithContext(c.Context)
	if parallel := c.Int(benchFlagParallel); parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := range runs {
		g.Go(func() error {
			prob, err := cfg.Build()
			if err != nil {
				return err
			}
			seed := firstSeed + i
			prob.Options.RandomSeed = seed

			runLogger := logger.Sublogger(fmt.Sprintf("seed%d", seed))
			if !c.Bool(generalFlagDebug) {
				runLogger.SetLevel(logging.WARN)
			}
			mp, err := motionplan.NewOptimizingRRT(prob.Info, prob.Definition, prob.Options, runLogger)
			if err != nil {
				return err
			}
			res, err := mp.Solve(ctx, prob.Termination)
			if res == nil {
				return err
			}
			run := benchRun{seed: seed, status: res.Status, cost: -1, states: mp.TreeSize(), duration: res.Meta.Duration}
			if res.Path != nil {
				run.cost = res.Path.Cost
			}
			runs[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Seed", "Status", "Cost", "States", "Duration"})
	var exact []float64
	for _, run := range runs {
		cost := "-"
		if run.cost >= 0 {
			cost = fmt.Sprintf("%.4f", run.cost)
		}
		t.AppendRow(table.Row{run.seed, run.status.String(), cost, run.states, run.duration.Round(time.Microsecond)})
		if run.status == motionplan.StatusExactSolution {
			exact = append(exact, run.cost)
		}
	}
	t.Render()

	fmt.Fprintf(c.App.Writer, "solved %d/%d\n", len(exact), numRuns)
	if len(exact) == 0 {
		return nil
	}
	summary, err := summarizeCosts(exact)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, summary)
	return nil
}

func summarizeCosts(costs []float64) (string, error) {
	data := stats.Float64Data(costs)
	lowest, err := data.Min()
	if err != nil {
		return "", err
	}
	mean, err := data.Mean()
	if err != nil {
		return "", err
	}
	median, err := data.Median()
	if err != nil {
		return "", err
	}
	stddev, err := data.StandardDeviation()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("cost min %.4f mean %.4f median %.4f stddev %.4f", lowest, mean, median, stddev), nil
}
