// Package cli contains the optrrt command line application.
package cli

import (
	"io"
	"runtime"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	generalFlagDebug   = "debug"
	generalFlagLogFile = "log-file"

	planFlagSamples      = "samples"
	planFlagValidSamples = "valid-samples"
	planFlagTime         = "time"
	planFlagSeed         = "seed"
	planFlagDot          = "dot"
	planFlagTiming       = "timing"

	benchFlagRuns     = "runs"
	benchFlagParallel = "parallel"

	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

// terminationFlags override the termination section of a problem file.
func terminationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  planFlagSamples,
			Usage: "stop after drawing at least this many samples",
		},
		&cli.IntFlag{
			Name:  planFlagValidSamples,
			Usage: "stop after at least this many samples extended the tree",
		},
		&cli.Float64Flag{
			Name:  planFlagTime,
			Usage: "also require this many seconds of planning before stopping",
		},
	}
}

var app = &cli.App{
	Name:            "optrrt",
	Usage:           "plan paths with an optimizing rapidly-exploring random tree",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    generalFlagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.PathFlag{
			Name:  generalFlagLogFile,
			Usage: "also write logs to `FILE`, rotated every 10MB",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "plan",
			Usage:     "solve the planning problem described by a JSON or YAML file",
			ArgsUsage: "<problem file>",
			Flags: append(terminationFlags(),
				&cli.IntFlag{
					Name:  planFlagSeed,
					Usage: "random seed, overrides the problem's planner.rseed",
				},
				&cli.PathFlag{
					Name:  planFlagDot,
					Usage: "write the search tree in graphviz format to `FILE`",
				},
				&cli.BoolFlag{
					Name:  planFlagTiming,
					Usage: "print how long each planning phase took",
				},
			),
			Action: PlanAction,
		},
		{
			Name:      "bench",
			Usage:     "solve a problem with consecutive seeds and summarize the path costs",
			ArgsUsage: "<problem file>",
			Flags: append(terminationFlags(),
				&cli.IntFlag{
					Name:  planFlagSeed,
					Usage: "seed of the first run",
				},
				&cli.IntFlag{
					Name:  benchFlagRuns,
					Value: 10,
					Usage: "number of runs",
				},
				&cli.IntFlag{
					Name:  benchFlagParallel,
					Value: runtime.NumCPU(),
					Usage: "number of runs planning at the same time",
				},
			),
			Action: BenchAction,
		},
		{
			Name:   "schema",
			Usage:  "print the JSON schema of problem files",
			Action: SchemaAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
