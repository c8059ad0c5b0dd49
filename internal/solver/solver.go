// Package solver adapts an external command into the solve function the
// dispatcher invokes.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/simrigproject/simrig/internal/common/simrigerrors"
	"github.com/simrigproject/simrig/internal/configuration"
	"github.com/simrigproject/simrig/internal/dispatch"
)

// CommandSolver runs the configured command once per job. Every job gets
// its own process, so concurrent jobs share no state.
type CommandSolver struct {
	command    string
	args       []string
	workingDir string
}

func New(config configuration.SolverConfig) (*CommandSolver, error) {
	if config.Command == "" {
		return nil, errors.WithStack(&simrigerrors.ErrInvalidConfiguration{
			Name:    "command",
			Value:   config.Command,
			Message: "a solver command is required",
		})
	}
	return &CommandSolver{
		command:    config.Command,
		args:       config.Args,
		workingDir: config.WorkingDir,
	}, nil
}

// Solve implements dispatch.SolveFunc. The job specification is written to
// the command's stdin as a single flat JSON object, and run_no and
// datasource are additionally exposed as SIMRIG_RUN_NO and
// SIMRIG_DATASOURCE. Stdout and stderr pass through. A non-zero exit is the
// job's failure; cancelling ctx kills the process, which the dispatcher
// records as an ordinary failure.
func (s *CommandSolver) Solve(ctx context.Context, spec dispatch.JobSpec) error {
	payload, err := json.Marshal(spec)
	if err != nil {
		return errors.WithStack(err)
	}
	cmd := exec.CommandContext(ctx, s.command, s.args...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Dir = s.workingDir
	cmd.Env = append(os.Environ(),
		"SIMRIG_RUN_NO="+spec.RunNo,
		"SIMRIG_DATASOURCE="+spec.Datasource,
	)
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "solver command %s failed for run %s", s.command, spec.RunNo)
	}
	return nil
}
