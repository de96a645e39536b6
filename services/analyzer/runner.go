// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/vitality/pkg/logging"
	"github.com/AleutianAI/vitality/services/analyzer/observability"
	"github.com/AleutianAI/vitality/services/datatypes"
	"github.com/AleutianAI/vitality/services/providers"
	"github.com/AleutianAI/vitality/services/storage"
)

// RunState is one step of a run's lifecycle.
type RunState string

const (
	StateIdle       RunState = "idle"
	StateConnecting RunState = "connecting"
	StateClearing   RunState = "clearing"
	StateComputing  RunState = "computing"
	StateWriting    RunState = "writing"
	StateCompleted  RunState = "completed"
	StateFailed     RunState = "failed"
)

// Completion is the single signal a run delivers to its caller.
type Completion struct {
	OK             bool          `json:"ok"`
	RecordsWritten int           `json:"recordsWritten"`
	ErrorKind      string        `json:"errorKind,omitempty"`
	Duration       time.Duration `json:"duration"`
}

// RunStatus is a point-in-time view of one run, readable while the
// run is still executing.
type RunStatus struct {
	ID         string      `json:"id"`
	Request    JobRequest  `json:"request"`
	State      RunState    `json:"state"`
	Started    time.Time   `json:"started"`
	Completion *Completion `json:"completion,omitempty"`
}

// Writers bundles the providers a runner writes rebuild results
// through, one per rebuildable kind.
type Writers struct {
	Keywords     *providers.KeywordProvider
	Evolutions   *providers.EvolutionProvider
	Dependencies *providers.DependencyProvider
	AuditReports *providers.AuditProvider
}

// RunnerConfig configures run execution.
type RunnerConfig struct {
	// Timeout bounds one run end to end. Zero means DefaultRunTimeout.
	Timeout time.Duration
}

// DefaultRunTimeout bounds a single analysis run.
const DefaultRunTimeout = 10 * time.Minute

// Runner executes analyzer jobs in isolation.
//
// # Description
//
// Each Start spawns one goroutine that sequences the rebuild contract:
// verify the store, take the kind locks, clear the owned collections,
// compute, write, release. The caller is handed a buffered channel
// that receives exactly one Completion, whatever happens inside the
// run; panics inside a job are contained and reported as a failed
// completion. A failed run after clearing leaves the kind empty until
// the next cycle; there is no rollback.
//
// # Thread Safety
//
// Safe for concurrent use. Overlapping runs touching the same result
// kind are rejected, not queued.
type Runner struct {
	store   *storage.Store
	writers Writers
	jobs    map[string]Job
	locks   *KindLockManager
	timeout time.Duration
	log     *logging.Logger
	metrics *observability.AnalyzerMetrics

	mu   sync.Mutex
	runs map[string]*RunStatus
}

// NewRunner wires a runner over the injected store handle. A nil
// metrics instance disables metric reporting, which tests rely on.
func NewRunner(store *storage.Store, writers Writers, cfg RunnerConfig, log *logging.Logger, metrics *observability.AnalyzerMetrics) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRunTimeout
	}
	if log == nil {
		log = logging.Default()
	}
	return &Runner{
		store:   store,
		writers: writers,
		jobs:    BuiltinJobs(),
		locks:   NewKindLockManager(),
		timeout: cfg.Timeout,
		log:     log,
		metrics: metrics,
		runs:    make(map[string]*RunStatus),
	}
}

// Status returns the current view of a run.
func (r *Runner) Status(runID string) (RunStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.runs[runID]
	if !ok {
		return RunStatus{}, false
	}
	copied := *status
	return copied, true
}

// Start launches one analysis run and returns its identity together
// with the completion channel. The channel is buffered and receives
// exactly one Completion; Start itself never fails, invalid requests
// are reported through the channel like any other failure.
func (r *Runner) Start(ctx context.Context, req JobRequest) (string, <-chan Completion) {
	return r.StartJob(ctx, r.jobs[req.Job], req)
}

// StartJob launches a run of an explicit job, bypassing the registry.
// The scheduler uses this to execute a portfolio-wide composite as one
// clear-and-write cycle. A nil job fails the run with "unknown_job".
func (r *Runner) StartJob(ctx context.Context, job Job, req JobRequest) (string, <-chan Completion) {
	runID := uuid.NewString()
	done := make(chan Completion, 1)

	r.mu.Lock()
	r.runs[runID] = &RunStatus{ID: runID, Request: req, State: StateIdle, Started: time.Now()}
	r.mu.Unlock()

	go r.execute(ctx, runID, job, req, done)
	return runID, done
}

func (r *Runner) setState(runID string, state RunState) {
	r.mu.Lock()
	if status, ok := r.runs[runID]; ok {
		status.State = state
	}
	r.mu.Unlock()
}

func (r *Runner) execute(ctx context.Context, runID string, job Job, req JobRequest, done chan<- Completion) {
	started := time.Now()
	log := r.log.With("run_id", runID, "job", req.Job, "app_id", req.ApplicationID)

	finished := false
	finish := func(c Completion) {
		if finished {
			return
		}
		finished = true
		c.Duration = time.Since(started)

		r.mu.Lock()
		if status, ok := r.runs[runID]; ok {
			if c.OK {
				status.State = StateCompleted
			} else {
				status.State = StateFailed
			}
			completion := c
			status.Completion = &completion
		}
		r.mu.Unlock()

		if r.metrics != nil {
			outcome := "success"
			if !c.OK {
				outcome = "failure"
				r.metrics.RunErrorsTotal.WithLabelValues(req.Job, c.ErrorKind).Inc()
			}
			r.metrics.RunsTotal.WithLabelValues(req.Job, outcome).Inc()
			r.metrics.RunDurationSeconds.WithLabelValues(req.Job, outcome).Observe(c.Duration.Seconds())
		}
		if c.OK {
			log.Info("analysis run completed", "records_written", c.RecordsWritten, "duration", c.Duration)
		} else {
			log.Error("analysis run failed", "error_kind", c.ErrorKind, "duration", c.Duration)
		}
		done <- c
	}

	// The caller must receive a completion even if the job panics.
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("analysis run panicked", "panic", fmt.Sprint(rec))
			finish(Completion{OK: false, ErrorKind: "panic"})
		}
	}()

	if r.metrics != nil {
		r.metrics.ActiveRuns.WithLabelValues(req.Job).Inc()
		defer r.metrics.ActiveRuns.WithLabelValues(req.Job).Dec()
	}

	if job == nil {
		finish(Completion{OK: false, ErrorKind: "unknown_job"})
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.setState(runID, StateConnecting)
	if r.store == nil || !r.store.Ready() {
		finish(Completion{OK: false, ErrorKind: "store_unavailable"})
		return
	}

	kinds := job.Kinds()
	if err := r.locks.TryAcquire(runID, kinds); err != nil {
		log.Warn("rebuild rejected", "reason", err)
		finish(Completion{OK: false, ErrorKind: "rebuild_in_flight"})
		return
	}
	defer r.locks.Release(runID, kinds)

	r.setState(runID, StateClearing)
	for _, kind := range kinds {
		if err := r.clear(runCtx, kind); err != nil {
			finish(Completion{OK: false, ErrorKind: storeErrorKind(err)})
			return
		}
	}

	r.setState(runID, StateComputing)
	results, err := job.Analyze(runCtx, req)
	if err != nil {
		finish(Completion{OK: false, ErrorKind: errorKindOf(err)})
		return
	}

	r.setState(runID, StateWriting)
	written, err := r.write(runCtx, results)
	if err != nil {
		// Clearing already happened: the kind stays empty until the
		// next successful cycle.
		finish(Completion{OK: false, RecordsWritten: written, ErrorKind: storeErrorKind(err)})
		return
	}

	finish(Completion{OK: true, RecordsWritten: written})
}

// clear truncates one owned collection through its provider.
func (r *Runner) clear(ctx context.Context, kind datatypes.ResultKind) error {
	switch kind {
	case datatypes.KindKeyword:
		return r.writers.Keywords.DeleteAll(ctx)
	case datatypes.KindEvolution:
		return r.writers.Evolutions.DeleteAll(ctx)
	case datatypes.KindDependency:
		return r.writers.Dependencies.DeleteAll(ctx)
	case datatypes.KindAuditReport:
		return r.writers.AuditReports.DeleteAll(ctx)
	default:
		return fmt.Errorf("kind %s is not rebuildable", kind)
	}
}

// write inserts the result set through the provider create paths and
// returns how many records landed before the first failure.
func (r *Runner) write(ctx context.Context, results *ResultSet) (int, error) {
	written := 0
	count := func(kind datatypes.ResultKind) {
		written++
		if r.metrics != nil {
			r.metrics.RecordsWrittenTotal.WithLabelValues(string(kind)).Inc()
		}
	}

	for i := range results.Keywords {
		if _, err := r.writers.Keywords.Create(ctx, &results.Keywords[i]); err != nil {
			return written, err
		}
		count(datatypes.KindKeyword)
	}
	for i := range results.Evolutions {
		if _, err := r.writers.Evolutions.Create(ctx, &results.Evolutions[i]); err != nil {
			return written, err
		}
		count(datatypes.KindEvolution)
	}
	for i := range results.Dependencies {
		if _, err := r.writers.Dependencies.Create(ctx, &results.Dependencies[i]); err != nil {
			return written, err
		}
		count(datatypes.KindDependency)
	}
	for i := range results.AuditReports {
		if _, err := r.writers.AuditReports.Create(ctx, &results.AuditReports[i]); err != nil {
			return written, err
		}
		count(datatypes.KindAuditReport)
	}
	return written, nil
}

// errorKindOf classifies a compute-phase error.
func errorKindOf(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "analyzer_fault"
	}
}

// storeErrorKind classifies a clear- or write-phase error using the
// provider taxonomy, with context errors taking precedence.
func storeErrorKind(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return providers.ErrorKind(err)
	}
}
