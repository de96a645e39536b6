// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the analysis
// pipeline: rebuild outcomes, durations and in-flight runs, labeled so
// a failed rebuild is diagnosable from the metrics endpoint alone.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "vitality"

const analyzerSubsystem = "analyzer"

// AnalyzerMetrics holds the Prometheus metrics of the job runner and
// scheduler.
//
// # Fields
//
//   - RunsTotal: Counter of analysis runs by job and outcome.
//   - RunErrorsTotal: Counter of failed runs by job and error kind.
//   - RunDurationSeconds: Histogram of run duration by job.
//   - RecordsWrittenTotal: Counter of records written by result kind.
//   - ActiveRuns: Gauge of currently executing runs.
//
// # Thread Safety
//
// All operations are thread-safe via Prometheus's internal locking.
type AnalyzerMetrics struct {
	// RunsTotal counts completed analysis runs.
	// Labels: job (keyword-evolution, dependency-status, audit),
	// status (success, failure)
	RunsTotal *prometheus.CounterVec

	// RunErrorsTotal counts failed runs by cause.
	// Labels: job, error_kind (rebuild_in_flight, timeout, panic, ...)
	RunErrorsTotal *prometheus.CounterVec

	// RunDurationSeconds measures end-to-end run duration.
	// Labels: job, status
	RunDurationSeconds *prometheus.HistogramVec

	// RecordsWrittenTotal counts result records written per rebuild.
	// Labels: kind
	RecordsWrittenTotal *prometheus.CounterVec

	// ActiveRuns tracks runs currently in flight.
	// Labels: job
	ActiveRuns *prometheus.GaugeVec
}

// DefaultMetrics is the instance initialized by InitMetrics.
var DefaultMetrics *AnalyzerMetrics

// InitMetrics creates and registers the analyzer metrics on the
// default Prometheus registry. Call once at service startup; a second
// call panics on duplicate registration.
func InitMetrics() *AnalyzerMetrics {
	DefaultMetrics = &AnalyzerMetrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "runs_total",
				Help:      "Total analysis runs by job and status",
			},
			[]string{"job", "status"},
		),

		RunErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "run_errors_total",
				Help:      "Total failed analysis runs by job and error kind",
			},
			[]string{"job", "error_kind"},
		),

		RunDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "run_duration_seconds",
				Help:      "End-to-end analysis run duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
			},
			[]string{"job", "status"},
		),

		RecordsWrittenTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "records_written_total",
				Help:      "Total result records written by kind",
			},
			[]string{"kind"},
		),

		ActiveRuns: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: analyzerSubsystem,
				Name:      "active_runs",
				Help:      "Number of analysis runs currently in flight",
			},
			[]string{"job"},
		),
	}

	return DefaultMetrics
}
