// Copyright (c) 2025, Server Report Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auditor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Audit run metrics
	auditRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "server_report_run_duration_seconds",
			Help:    "Time taken to complete a full audit run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	auditRunTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "server_report_run_total",
			Help: "Total number of audit run attempts",
		},
		[]string{"status"}, // success or error
	)

	auditCollectorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "server_report_collector_duration_seconds",
			Help:    "Time taken by individual collectors",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"collector"}, // hardware, system, processes, traffic
	)

	auditTableRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "server_report_table_rows",
			Help: "Number of data rows in the last table written per collector",
		},
		[]string{"collector"},
	)
)
