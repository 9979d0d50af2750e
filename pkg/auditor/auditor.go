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

// Package auditor orchestrates an audit run: retention sweep, interface
// resolution, sequential collection, and CSV export.
package auditor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/serveraudit/server-report/pkg/collector"
	"github.com/serveraudit/server-report/pkg/config"
	"github.com/serveraudit/server-report/pkg/errors"
	"github.com/serveraudit/server-report/pkg/execx"
	"github.com/serveraudit/server-report/pkg/netiface"
	"github.com/serveraudit/server-report/pkg/retention"
	"github.com/serveraudit/server-report/pkg/serializer"
	"github.com/serveraudit/server-report/pkg/table"
)

// Kind selects which sections of the audit to run.
type Kind string

const (
	KindFull      Kind = "full"
	KindHardware  Kind = "hardware"
	KindSystem    Kind = "system"
	KindProcesses Kind = "processes"
	KindTraffic   Kind = "traffic"
)

// TableWriter persists one named table.
// This interface enables dependency injection for testing.
type TableWriter interface {
	Write(name string, t *table.Table) (string, error)
}

// Auditor runs the selected collectors in a fixed order and writes each
// table as it completes. The target day, interface name, and run ID are
// computed once per run. A collector failure aborts the run; tables
// already written stay on disk.
type Auditor struct {
	Config *config.Config
	Runner execx.Runner
	Writer TableWriter

	// Factory overrides the default per-run factory when set.
	Factory collector.Factory

	// Now overrides the clock when set.
	Now func() time.Time
}

// New creates an auditor with production dependencies.
func New(cfg *config.Config) *Auditor {
	return &Auditor{
		Config: cfg,
		Runner: execx.NewRunner(),
		Writer: &serializer.CSVWriter{Dir: cfg.OutputDir},
	}
}

type step struct {
	name   string
	create func(collector.Factory) collector.Collector
	file   func(date string) string
}

// allSteps is the canonical collection order: static inventory first,
// then the aggregated day, then the live snapshot, then traffic totals.
var allSteps = []step{
	{
		name:   "hardware",
		create: collector.Factory.CreateHardwareCollector,
		file:   func(string) string { return "hardware_inventory.csv" },
	},
	{
		name:   "system",
		create: collector.Factory.CreateSystemCollector,
		file:   func(date string) string { return fmt.Sprintf("system_summary_%s.csv", date) },
	},
	{
		name:   "processes",
		create: collector.Factory.CreateProcessCollector,
		file:   func(date string) string { return fmt.Sprintf("processes_%s.csv", date) },
	},
	{
		name:   "traffic",
		create: collector.Factory.CreateTrafficCollector,
		file:   func(date string) string { return fmt.Sprintf("network_traffic_%s.csv", date) },
	},
}

// Run executes the audit for the given kind.
func (a *Auditor) Run(ctx context.Context, kind Kind) error {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	start := now()
	day := start.AddDate(0, 0, -1)

	log := slog.With("run", uuid.NewString())
	log.Info("starting audit",
		"kind", string(kind),
		"targetDay", day.Format("2006-01-02"))

	a.sweep(start)

	steps, err := selectSteps(kind)
	if err != nil {
		return err
	}

	factory := a.Factory
	if factory == nil {
		iface := (&netiface.Resolver{Runner: a.Runner}).Resolve(ctx)
		log.Info("resolved primary interface", "interface", iface)
		factory = collector.NewDefaultFactory(a.Runner, iface, day, a.Config.SysstatLogDir)
	}

	date := day.Format("2006-01-02")
	for _, s := range steps {
		if err := a.runStep(ctx, log, factory, s, date); err != nil {
			auditRunTotal.WithLabelValues("error").Inc()
			a.writeMetricsSnapshot()
			return err
		}
	}

	auditRunTotal.WithLabelValues("success").Inc()
	auditRunDuration.Observe(now().Sub(start).Seconds())
	a.writeMetricsSnapshot()
	log.Info("audit complete", "duration", now().Sub(start).Round(time.Millisecond).String())
	return nil
}

// metricsSnapshotFile is picked up by the node_exporter textfile
// collector when the output directory is on its search path.
const metricsSnapshotFile = "server_report.prom"

// metricsPrefix selects this tool's metric families; runtime families
// (go_*, process_*) are left out to avoid duplicates with the host's
// own exporter.
const metricsPrefix = "server_report_"

// writeMetricsSnapshot renders the run's metrics in the text exposition
// format next to the CSV output. A one-shot process has no endpoint to
// scrape, so the snapshot file is the metrics' only exit path. Best
// effort: a failed export never fails the audit.
func (a *Auditor) writeMetricsSnapshot() {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		slog.Warn("failed to gather metrics", "error", err)
		return
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), metricsPrefix) {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			slog.Warn("failed to encode metrics", "error", err)
			return
		}
	}

	if err := os.MkdirAll(a.Config.OutputDir, 0o755); err != nil {
		slog.Warn("failed to create output directory for metrics", "error", err)
		return
	}
	path := filepath.Join(a.Config.OutputDir, metricsSnapshotFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		slog.Warn("failed to write metrics snapshot", "file", path, "error", err)
		return
	}
	slog.Info("metrics snapshot written", "file", path)
}

func (a *Auditor) runStep(ctx context.Context, log *slog.Logger, f collector.Factory, s step, date string) error {
	stepStart := time.Now()

	t, err := s.create(f).Collect(ctx)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal,
			fmt.Sprintf("%s collection failed", s.name), err,
			map[string]any{"collector": s.name})
	}

	path, err := a.Writer.Write(s.file(date), t)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal,
			fmt.Sprintf("%s export failed", s.name), err,
			map[string]any{"collector": s.name})
	}

	auditCollectorDuration.WithLabelValues(s.name).Observe(time.Since(stepStart).Seconds())
	auditTableRows.WithLabelValues(s.name).Set(float64(t.Len()))
	log.Info("section written", "collector", s.name, "file", path, "rows", t.Len())
	return nil
}

// sweep applies retention before collecting so a run on a full disk can
// still free space for its own output.
func (a *Auditor) sweep(now time.Time) {
	s := &retention.Sweeper{
		DataDir:           a.Config.OutputDir,
		LogDir:            a.Config.LogDir,
		ActiveLog:         a.Config.LogFile,
		DataRetentionDays: a.Config.DataRetentionDays,
		LogRetentionDays:  a.Config.LogRetentionDays,
	}
	s.Sweep(now)
}

func selectSteps(kind Kind) ([]step, error) {
	if kind == KindFull {
		return allSteps, nil
	}
	for _, s := range allSteps {
		if Kind(s.name) == kind {
			return []step{s}, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, fmt.Sprintf("unknown audit kind: %s", kind))
}
