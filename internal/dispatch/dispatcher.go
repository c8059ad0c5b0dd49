package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/simrigproject/simrig/internal/common/logging"
	"github.com/simrigproject/simrig/internal/common/simrigerrors"
	"github.com/simrigproject/simrig/internal/configuration"
)

// Dispatcher runs job batches across a fixed-size pool of workers.
type Dispatcher struct {
	parallelism      int
	progressInterval time.Duration
}

func NewDispatcher(config configuration.DispatchConfig) (*Dispatcher, error) {
	if config.Parallelism < 1 {
		return nil, errors.WithStack(&simrigerrors.ErrInvalidConfiguration{
			Name:    "parallelism",
			Value:   config.Parallelism,
			Message: "at least one worker is required",
		})
	}
	return &Dispatcher{
		parallelism:      config.Parallelism,
		progressInterval: config.ProgressInterval,
	}, nil
}

// JobOutcome records how one job ended.
type JobOutcome struct {
	Spec     JobSpec
	Err      error
	Duration time.Duration
}

// BatchResult holds one outcome per job, in submission order, plus the wall
// clock duration of the whole batch.
type BatchResult struct {
	Outcomes []JobOutcome
	Elapsed  time.Duration
}

// FirstError returns the first failure in submission order, nil if every
// job succeeded.
func (r *BatchResult) FirstError() error {
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			return errors.WithStack(&simrigerrors.ErrJobFailed{
				RunNo:      outcome.Spec.RunNo,
				Datasource: outcome.Spec.Datasource,
				Err:        outcome.Err,
			})
		}
	}
	return nil
}

// AllErrors combines every failure in the batch into a single error, nil if
// every job succeeded.
func (r *BatchResult) AllErrors() error {
	var result *multierror.Error
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			result = multierror.Append(result, outcome.Err)
		}
	}
	return result.ErrorOrNil()
}

// Run executes every job in the batch, calling solve once per spec with at
// most the configured parallelism running concurrently. Jobs are scheduled
// in batch order as workers free up and outcomes are collected in batch
// order regardless of completion order.
//
// The pool always drains: a failing job never stops, cancels, or skips the
// others, and Run returns only once every job has finished. Jobs are never
// retried and have no timeout; a hung solve call blocks the batch. ctx is
// passed through to solve untouched, and cancelling it does not stop the
// dispatcher from scheduling the remaining jobs.
//
// The returned error is the first failure in submission order, surfaced
// only after the whole batch has drained; the BatchResult is returned in
// both the success and the failure case.
func (d *Dispatcher) Run(ctx context.Context, batch JobBatch, solve SolveFunc) (*BatchResult, error) {
	start := time.Now()

	type indexedJob struct {
		index int
		spec  JobSpec
	}

	outcomes := make([]JobOutcome, len(batch))
	var completed int64

	workers := d.parallelism
	if len(batch) < workers {
		workers = len(batch)
	}

	jobs := make(chan indexedJob)
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				jobStart := time.Now()
				err := solve(ctx, job.spec)
				outcomes[job.index] = JobOutcome{
					Spec:     job.spec,
					Err:      err,
					Duration: time.Since(jobStart),
				}
				atomic.AddInt64(&completed, 1)
				if err != nil {
					jobsFailed.Inc()
					entry := log.WithField("runNo", job.spec.RunNo).WithField("datasource", job.spec.Datasource)
					logging.WithStacktrace(entry, err).Error("job failed")
				} else {
					jobsSucceeded.Inc()
				}
			}
		}()
	}

	stopProgress := make(chan struct{})
	if d.progressInterval > 0 && len(batch) > 0 {
		go func() {
			ticker := time.NewTicker(d.progressInterval)
			defer ticker.Stop()
			for {
				select {
				case <-stopProgress:
					return
				case <-ticker.C:
					log.Infof("completed %d of %d jobs", atomic.LoadInt64(&completed), len(batch))
				}
			}
		}()
	}

	for i, spec := range batch {
		jobs <- indexedJob{index: i, spec: spec}
	}
	close(jobs)
	wg.Wait()
	close(stopProgress)

	elapsed := time.Since(start)
	batchDurationSeconds.Observe(elapsed.Seconds())
	log.Infof("total time taken is %.2f minutes", elapsed.Minutes())

	result := &BatchResult{Outcomes: outcomes, Elapsed: elapsed}
	return result, result.FirstError()
}
