// Package runner ties settings, planning, and dispatch together into the
// uniform, weighted, and sweep batch flows.
package runner

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/simrigproject/simrig/internal/common/simrigerrors"
	"github.com/simrigproject/simrig/internal/common/util"
	"github.com/simrigproject/simrig/internal/configuration"
	"github.com/simrigproject/simrig/internal/dispatch"
	"github.com/simrigproject/simrig/internal/options"
	"github.com/simrigproject/simrig/internal/planner"
	"github.com/simrigproject/simrig/internal/settings"
)

type Runner struct {
	config     configuration.RunnerConfig
	settings   settings.Settings
	dispatcher *dispatch.Dispatcher
	solve      dispatch.SolveFunc
}

func New(config configuration.RunnerConfig, s settings.Settings, dispatcher *dispatch.Dispatcher, solve dispatch.SolveFunc) *Runner {
	return &Runner{
		config:     config,
		settings:   s,
		dispatcher: dispatcher,
		solve:      solve,
	}
}

// Params are the per-invocation inputs layered over the configured
// defaults.
type Params struct {
	// Run the whole flow once per feasible sweep_options combination.
	Sweep bool
	// Extra runtime options merged over the settings' runtime_options,
	// the extras winning.
	Options map[string]interface{}
}

// Run executes the configured batch flow. In weighted mode each datasource
// gets its own batch, dispatched in weight table order; a batch that
// surfaces a failure stops the flow after it has drained, and later
// datasources are not started. In uniform mode the configured run count is
// dispatched as one batch.
func (r *Runner) Run(ctx context.Context, params Params) error {
	baseOptions, err := r.settings.RuntimeOptions()
	if err != nil {
		return err
	}
	runtimeOptions := mergeOptions(baseOptions, params.Options)

	if !params.Sweep {
		return r.runOnce(ctx, runtimeOptions)
	}

	lists, present, err := r.settings.SweepOptions()
	if err != nil {
		return err
	}
	if !present {
		return errors.WithStack(&simrigerrors.ErrInvalidConfiguration{
			Name:    "sweep_options",
			Value:   nil,
			Message: "sweep mode requires sweep_options in the settings",
		})
	}
	combos := options.FeasibleCombinations(lists)
	log.Infof("sweeping %d feasible option combinations", len(combos))
	for i, combo := range combos {
		log.WithField("combination", combo).Infof("starting sweep pass %d of %d", i+1, len(combos))
		if err := r.runOnce(ctx, mergeOptions(runtimeOptions, combo)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runOnce(ctx context.Context, runtimeOptions map[string]interface{}) error {
	if r.config.Weighted {
		return r.runWeighted(ctx, runtimeOptions)
	}
	return r.runUniform(ctx, runtimeOptions)
}

func (r *Runner) runUniform(ctx context.Context, runtimeOptions map[string]interface{}) error {
	log.Infof("running %d simulations", r.config.Runs)
	batch := buildBatch(r.config.Runs, stripExtension(r.config.Datasource), runtimeOptions)
	return r.dispatchBatch(ctx, batch)
}

func (r *Runner) runWeighted(ctx context.Context, runtimeOptions map[string]interface{}) error {
	table, err := r.settings.DatasourceWeights()
	if err != nil {
		return err
	}
	allocations, err := planner.Plan(r.config.Runs, table)
	if err != nil {
		return err
	}
	for _, allocation := range allocations {
		log.Infof("datasource %s weight scaled from %v to %.2f", allocation.Source, allocation.Weight, allocation.NormalizedWeight)
		log.Infof("running %d simulations for datasource %s", allocation.Runs, allocation.Source)
		batch := buildBatch(allocation.Runs, stripExtension(allocation.Source), runtimeOptions)
		if err := r.dispatchBatch(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) dispatchBatch(ctx context.Context, batch dispatch.JobBatch) error {
	batchId := util.NewULID()
	log.WithField("batchId", batchId).Infof("dispatching %d jobs", len(batch))
	_, err := r.dispatcher.Run(ctx, batch, r.solve)
	return err
}

// buildBatch numbers runs from one within each batch.
func buildBatch(runs int, datasource string, runtimeOptions map[string]interface{}) dispatch.JobBatch {
	batch := make(dispatch.JobBatch, runs)
	for i := 0; i < runs; i++ {
		batch[i] = dispatch.JobSpec{
			RunNo:      strconv.Itoa(i + 1),
			Randomized: true,
			Datasource: datasource,
			Options:    runtimeOptions,
		}
	}
	return batch
}

func stripExtension(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func mergeOptions(base, extra map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(extra))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range extra {
		merged[key] = value
	}
	return merged
}
