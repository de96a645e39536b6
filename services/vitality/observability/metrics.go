// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the vitality
// API service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "vitality"

const apiSubsystem = "api"

// APIMetrics holds the Prometheus metrics of the HTTP layer.
//
// # Fields
//
//   - RequestsTotal: Counter of API requests by endpoint and status.
//   - ProviderErrorsTotal: Counter of provider failures surfaced
//     through the API, by result kind and error kind. Together with
//     the analyzer metrics this is the observable error channel:
//     degraded reads are never silent.
//   - ProfileDurationSeconds: Histogram of profile fan-out latency.
//
// # Thread Safety
//
// All operations are thread-safe via Prometheus's internal locking.
type APIMetrics struct {
	// RequestsTotal counts API requests.
	// Labels: endpoint, status (ok, client_error, server_error)
	RequestsTotal *prometheus.CounterVec

	// ProviderErrorsTotal counts provider failures by origin.
	// Labels: kind, error_kind
	ProviderErrorsTotal *prometheus.CounterVec

	// ProfileDurationSeconds measures profile assembly latency.
	ProfileDurationSeconds prometheus.Histogram
}

// DefaultMetrics is the instance initialized by InitMetrics.
var DefaultMetrics *APIMetrics

// InitMetrics creates and registers the API metrics on the default
// Prometheus registry. Call once at service startup.
func InitMetrics() *APIMetrics {
	DefaultMetrics = &APIMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: apiSubsystem,
				Name:      "requests_total",
				Help:      "Total API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		ProviderErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: apiSubsystem,
				Name:      "provider_errors_total",
				Help:      "Total provider failures surfaced through the API by kind and error kind",
			},
			[]string{"kind", "error_kind"},
		),

		ProfileDurationSeconds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: apiSubsystem,
				Name:      "profile_duration_seconds",
				Help:      "Application profile fan-out latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
	}

	return DefaultMetrics
}
