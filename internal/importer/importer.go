package importer

import (
	"context"
	"errors"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// DefaultCommand merges a .reg file into the current user's registry
var DefaultCommand = []string{"reg", "import"}

// Runner executes an external command
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, discarding their output
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Outcome is the result of importing one file. ExitCode is -1 when the
// command could not be started or was killed
type Outcome struct {
	Path     string
	ExitCode int
	Err      error
}

// Importer hands generated session files to the registry-import tool
type Importer struct {
	command []string
	runner  Runner
	log     logrus.FieldLogger
}

// New creates an importer. An empty command falls back to DefaultCommand
// and a nil runner to ExecRunner
func New(command []string, runner Runner, log logrus.FieldLogger) *Importer {
	if len(command) == 0 {
		command = DefaultCommand
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Importer{command: command, runner: runner, log: log}
}

// Import runs the command once per path, in order. Failures are logged and
// reported in the outcomes but never stop the remaining imports
func (i *Importer) Import(ctx context.Context, paths []string) []Outcome {
	outcomes := make([]Outcome, 0, len(paths))
	for _, path := range paths {
		args := append(append([]string{}, i.command[1:]...), path)
		err := i.runner.Run(ctx, i.command[0], args...)

		out := Outcome{Path: path, Err: err}
		fields := logrus.Fields{"path": path, "command": i.command[0]}

		var exitErr *exec.ExitError
		switch {
		case err == nil:
			i.log.WithFields(fields).Debug("imported session file")
		case errors.As(err, &exitErr):
			out.ExitCode = exitErr.ExitCode()
			i.log.WithFields(fields).WithField("exit_code", out.ExitCode).Warn("registry import failed")
		default:
			out.ExitCode = -1
			i.log.WithFields(fields).WithError(err).Warn("registry import could not run")
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}
