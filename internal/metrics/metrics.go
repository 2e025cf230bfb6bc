// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package metrics exposes Prometheus counters for the remote operations the
// SDK issues. Host programs that already serve a /metrics endpoint pick
// these up through the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fabrica_operations_started_total",
		Help: "Remote resource operations scheduled, by operation kind.",
	}, []string{"operation"})

	OperationsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fabrica_operations_failed_total",
		Help: "Remote resource operations that failed for a non-shutdown reason.",
	}, []string{"operation"})

	OperationsParked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fabrica_operations_parked_total",
		Help: "Operations parked because the engine endpoint became unavailable.",
	})
)
