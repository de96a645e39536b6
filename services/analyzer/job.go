// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package analyzer implements the analysis pipeline: pluggable analyzer
// jobs, the isolated job runner that sequences clear-then-rebuild
// cycles around them, per-kind rebuild locks, the portfolio scheduler
// and the workspace watcher.
package analyzer

import (
	"context"

	"github.com/AleutianAI/vitality/services/datatypes"
)

// Job names accepted in a JobRequest.
const (
	JobKeywordEvolution = "keyword-evolution"
	JobDependencyStatus = "dependency-status"
	JobAudit            = "audit"
)

// JobRequest describes one analysis run: which application to analyze,
// where its checked-out workspace lives, and which job to execute.
type JobRequest struct {
	ApplicationID string `json:"applicationId"`
	Workspace     string `json:"workspaceReference"`
	Branch        string `json:"branch,omitempty"`
	Job           string `json:"job"`
}

// ResultSet is the output of one job run, grouped by owned kind. A job
// only populates the fields for the kinds it declares in Kinds().
type ResultSet struct {
	Keywords     []datatypes.Keyword
	Evolutions   []datatypes.Evolution
	Dependencies []datatypes.Dependency
	AuditReports []datatypes.AuditReport
}

// Total returns the number of records across all kinds.
func (r *ResultSet) Total() int {
	return len(r.Keywords) + len(r.Evolutions) + len(r.Dependencies) + len(r.AuditReports)
}

// Job is a pure computation from (application, workspace) to result
// records.
//
// # Description
//
// Jobs never touch the store: clearing and writing is the runner's
// responsibility. A job that cannot produce results, for example when
// the workspace is missing, returns an empty ResultSet rather than an
// error; errors are reserved for faults that should fail the run.
type Job interface {
	// Name identifies the job in requests, logs and metrics.
	Name() string

	// Kinds lists the result kinds this job owns. The runner clears
	// exactly these before writing, and locks exactly these for the
	// duration of the run.
	Kinds() []datatypes.ResultKind

	// Analyze computes the replacement result set for one application.
	Analyze(ctx context.Context, req JobRequest) (*ResultSet, error)
}

// BuiltinJobs returns the registry of shipped jobs keyed by name.
func BuiltinJobs() map[string]Job {
	jobs := []Job{
		NewKeywordEvolutionJob(),
		NewDependencyStatusJob(),
		NewAuditJob(),
	}
	registry := make(map[string]Job, len(jobs))
	for _, job := range jobs {
		registry[job.Name()] = job
	}
	return registry
}
