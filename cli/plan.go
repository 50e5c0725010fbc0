package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/optrrt/config"
	"go.viam.com/optrrt/logging"
	"go.viam.com/optrrt/motionplan"
)

// newLogger writes logs to the app's error writer so stdout only carries results, and to a rotated
// log file when one is requested. The returned function closes the file.
func newLogger(c *cli.Context) (logging.Logger, func()) {
	logger := logging.NewBlankLogger("optrrt")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	if c.Bool(generalFlagDebug) {
		logger.SetLevel(logging.DEBUG)
	} else {
		logger.SetLevel(logging.INFO)
	}

	closeFile := func() {}
	if logFile := c.Path(generalFlagLogFile); logFile != "" {
		appender := logging.NewFileAppender(logFile, logFileMaxSizeMB, logFileMaxBackups)
		logger.AddAppender(appender)
		closeFile = func() {
			//nolint:errcheck
			appender.Close()
		}
	}
	return logger, func() {
		//nolint:errcheck
		logger.Sync()
		closeFile()
	}
}

// readProblem reads the problem file given as the only argument and applies the termination flags.
func readProblem(c *cli.Context) (*config.ProblemConfig, error) {
	if c.NArg() != 1 {
		return nil, errors.New("expected exactly one problem file")
	}
	cfg, err := config.Read(c.Args().First())
	if err != nil {
		return nil, err
	}
	if c.IsSet(planFlagSamples) || c.IsSet(planFlagValidSamples) {
		cfg.Termination.Samples = c.Int(planFlagSamples)
		cfg.Termination.ValidSamples = c.Int(planFlagValidSamples)
	}
	if c.IsSet(planFlagTime) {
		cfg.Termination.Time = c.Float64(planFlagTime)
	}
	if err := cfg.Termination.Validate("termination"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PlanAction solves the problem file given as the only argument and prints the result as JSON.
func PlanAction(c *cli.Context) error {
	logger, done := newLogger(c)
	defer done()

	cfg, err := readProblem(c)
	if err != nil {
		return err
	}
	prob, err := cfg.Build()
	if err != nil {
		return err
	}
	if c.IsSet(planFlagSeed) {
		prob.Options.RandomSeed = c.Int(planFlagSeed)
	}

	mp, err := motionplan.NewOptimizingRRT(prob.Info, prob.Definition, prob.Options, logger.Sublogger("planner"))
	if err != nil {
		return err
	}
	logger.Infow("planning", "problem", c.Args().First(), "until", prob.Termination.String())

	res, solveErr := mp.Solve(c.Context, prob.Termination)
	if res == nil {
		return solveErr
	}

	if c.Bool(planFlagTiming) {
		res.Meta.OutputTiming(c.App.ErrWriter)
	}
	if dotPath := c.Path(planFlagDot); dotPath != "" {
		if err := writeDOT(mp.PlannerData(), prob.Name, dotPath); err != nil {
			return err
		}
		logger.Infof("wrote search tree to %s", dotPath)
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	return solveErr
}

func writeDOT(data *motionplan.PlannerData, name, dotPath string) error {
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(dotPath), filepath.Ext(dotPath))
	}
	out, err := data.DOT(name)
	if err != nil {
		return errors.Wrap(err, "failed to render search tree")
	}
	//nolint:gosec
	return os.WriteFile(dotPath, out, 0o644)
}

// SchemaAction prints the JSON schema of problem files.
func SchemaAction(c *cli.Context) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(config.Schema())
}
