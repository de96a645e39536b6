// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analyzer

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/vitality/pkg/logging"
	"github.com/AleutianAI/vitality/services/datatypes"
)

// PortfolioEntry is one tracked application in the portfolio file.
type PortfolioEntry struct {
	AppID     string `yaml:"appId"`
	Workspace string `yaml:"workspace"`
	Branch    string `yaml:"branch"`
}

// Portfolio is the scheduled-analysis configuration.
type Portfolio struct {
	Applications []PortfolioEntry `yaml:"applications"`
}

// LoadPortfolio reads and validates a portfolio YAML file.
func LoadPortfolio(path string) (*Portfolio, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading portfolio %s: %w", path, err)
	}
	var p Portfolio
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parsing portfolio %s: %w", path, err)
	}
	for i, entry := range p.Applications {
		if entry.AppID == "" {
			return nil, fmt.Errorf("portfolio %s: entry %d has no appId", path, i)
		}
		if entry.Workspace == "" {
			return nil, fmt.Errorf("portfolio %s: entry %q has no workspace", path, entry.AppID)
		}
	}
	return &p, nil
}

// SchedulerConfig tunes a portfolio cycle.
type SchedulerConfig struct {
	// Parallelism bounds concurrent per-application computations
	// inside one cycle. Zero means 4.
	Parallelism int
	// AnalysesPerSecond rate-limits per-application computations
	// across the cycle. Zero means 1.
	AnalysesPerSecond rate.Limit
}

// Scheduler drives full-portfolio analysis cycles.
//
// # Description
//
// A cycle executes each built-in job once, as one clear-and-write run
// over the merged results of every portfolio application. Merging
// before writing keeps the kind-wide truncation contract coherent
// across a multi-application portfolio: the collection is cleared once
// per cycle, not once per application. Per-application computations
// are pure, so they fan out concurrently, bounded and rate limited.
type Scheduler struct {
	runner  *Runner
	cfg     SchedulerConfig
	limiter *rate.Limiter
	log     *logging.Logger
}

// NewScheduler creates a scheduler over the given runner.
func NewScheduler(runner *Runner, cfg SchedulerConfig, log *logging.Logger) *Scheduler {
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}
	if cfg.AnalysesPerSecond <= 0 {
		cfg.AnalysesPerSecond = 1
	}
	if log == nil {
		log = logging.Default()
	}
	return &Scheduler{
		runner:  runner,
		cfg:     cfg,
		limiter: rate.NewLimiter(cfg.AnalysesPerSecond, 1),
		log:     log,
	}
}

// CycleSummary reports the per-job outcomes of one portfolio cycle.
type CycleSummary struct {
	Completions map[string]Completion
}

// OK reports whether every job of the cycle succeeded.
func (s *CycleSummary) OK() bool {
	for _, c := range s.Completions {
		if !c.OK {
			return false
		}
	}
	return true
}

// RunCycle executes every built-in job across the portfolio. Jobs run
// sequentially so their kind locks never contend with each other; a
// failed job does not stop the remaining jobs. The returned summary
// carries one completion per job.
func (s *Scheduler) RunCycle(ctx context.Context, portfolio *Portfolio) (*CycleSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &CycleSummary{Completions: make(map[string]Completion)}
	for _, name := range []string{JobKeywordEvolution, JobDependencyStatus, JobAudit} {
		base := s.runner.jobs[name]
		composite := &portfolioJob{
			base:        base,
			entries:     portfolio.Applications,
			limiter:     s.limiter,
			parallelism: s.cfg.Parallelism,
		}

		s.log.Info("portfolio cycle: starting job", "job", name, "applications", len(portfolio.Applications))
		_, done := s.runner.StartJob(ctx, composite, JobRequest{Job: name})
		completion := <-done
		summary.Completions[name] = completion
		if !completion.OK {
			s.log.Warn("portfolio cycle: job failed", "job", name, "error_kind", completion.ErrorKind)
		}
	}
	return summary, nil
}

// portfolioJob merges one built-in job's results across every
// portfolio application so the runner performs a single
// clear-and-write for the whole portfolio.
type portfolioJob struct {
	base        Job
	entries     []PortfolioEntry
	limiter     *rate.Limiter
	parallelism int
}

func (p *portfolioJob) Name() string { return p.base.Name() }

func (p *portfolioJob) Kinds() []datatypes.ResultKind { return p.base.Kinds() }

// Analyze fans the base job out across the portfolio and merges the
// per-application results in portfolio order.
func (p *portfolioJob) Analyze(ctx context.Context, _ JobRequest) (*ResultSet, error) {
	perApp := make([]*ResultSet, len(p.entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)
	for i, entry := range p.entries {
		g.Go(func() error {
			if err := p.limiter.Wait(gctx); err != nil {
				return err
			}
			rs, err := p.base.Analyze(gctx, JobRequest{
				ApplicationID: entry.AppID,
				Workspace:     entry.Workspace,
				Branch:        entry.Branch,
				Job:           p.base.Name(),
			})
			if err != nil {
				return fmt.Errorf("application %s: %w", entry.AppID, err)
			}
			perApp[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &ResultSet{}
	for _, rs := range perApp {
		if rs == nil {
			continue
		}
		merged.Keywords = append(merged.Keywords, rs.Keywords...)
		merged.Evolutions = append(merged.Evolutions, rs.Evolutions...)
		merged.Dependencies = append(merged.Dependencies, rs.Dependencies...)
		merged.AuditReports = append(merged.AuditReports, rs.AuditReports...)
	}
	return merged, nil
}
