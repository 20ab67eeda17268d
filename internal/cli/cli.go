package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/vk/benchplan/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app
// config, a boolean indicating the program should exit cleanly, or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("benchplan", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
benchplan - a declarative benchmark campaign planner for HPC clusters.

Expands a project configuration into the deduplicated, ordered set of
feasible test vectors, and optionally the executable case descriptions.

Usage:
  benchplan [options] [PROJECT_PATH]

Arguments:
  PROJECT_PATH
    Path to a project document (.hcl, .yaml, .yml or .json).

Options:
`)
		flagSet.PrintDefaults()
	}

	projectFlag := flagSet.String("project", "", "Path to the project document.")
	pFlag := flagSet.String("p", "", "Path to the project document (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	maxVectorsFlag := flagSet.Int("max-vectors", 0, "Hard cap on emitted test vectors. 0 uses the default.")
	parallelFlag := flagSet.Bool("parallel", false, "Expand models concurrently.")
	casesFlag := flagSet.Bool("cases", false, "Also emit the case description for every vector.")
	outputFlag := flagSet.String("output", "", "Write the vector list as JSON to this file instead of stdout.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *projectFlag != "" {
		path = *projectFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		ProjectPath: path,
		LogFormat:   *logFormatFlag,
		LogLevel:    *logLevelFlag,
		MaxVectors:  *maxVectorsFlag,
		Parallel:    *parallelFlag,
		EmitCases:   *casesFlag,
		OutputPath:  *outputFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
