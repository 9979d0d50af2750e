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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serveraudit/server-report/pkg/collector"
	"github.com/serveraudit/server-report/pkg/config"
	"github.com/serveraudit/server-report/pkg/errors"
	"github.com/serveraudit/server-report/pkg/table"
)

type fakeCollector struct {
	name string
	err  error
}

func (f *fakeCollector) Collect(context.Context) (*table.Table, error) {
	if f.err != nil {
		return nil, f.err
	}
	t := table.New("Property", "Value")
	t.Append("source", f.name)
	return t, nil
}

type fakeFactory struct {
	fail map[string]error
}

func (f *fakeFactory) create(name string) collector.Collector {
	return &fakeCollector{name: name, err: f.fail[name]}
}

func (f *fakeFactory) CreateHardwareCollector() collector.Collector { return f.create("hardware") }
func (f *fakeFactory) CreateSystemCollector() collector.Collector   { return f.create("system") }
func (f *fakeFactory) CreateProcessCollector() collector.Collector  { return f.create("processes") }
func (f *fakeFactory) CreateTrafficCollector() collector.Collector  { return f.create("traffic") }

type fakeWriter struct {
	names []string
	err   error
}

func (w *fakeWriter) Write(name string, t *table.Table) (string, error) {
	if w.err != nil {
		return "", w.err
	}
	w.names = append(w.names, name)
	return "/tmp/" + name, nil
}

func testAuditor(t *testing.T, factory collector.Factory, writer TableWriter) *Auditor {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "data")
	cfg.LogDir = t.TempDir()
	return &Auditor{
		Config:  &cfg,
		Writer:  writer,
		Factory: factory,
		Now: func() time.Time {
			return time.Date(2025, 8, 22, 3, 0, 0, 0, time.UTC)
		},
	}
}

func TestRun_FullOrderAndNaming(t *testing.T) {
	w := &fakeWriter{}
	a := testAuditor(t, &fakeFactory{}, w)

	require.NoError(t, a.Run(context.Background(), KindFull))

	// Target day is the run day minus one.
	assert.Equal(t, []string{
		"hardware_inventory.csv",
		"system_summary_2025-08-21.csv",
		"processes_2025-08-21.csv",
		"network_traffic_2025-08-21.csv",
	}, w.names)
}

func TestRun_SingleKind(t *testing.T) {
	tests := []struct {
		kind Kind
		file string
	}{
		{KindHardware, "hardware_inventory.csv"},
		{KindSystem, "system_summary_2025-08-21.csv"},
		{KindProcesses, "processes_2025-08-21.csv"},
		{KindTraffic, "network_traffic_2025-08-21.csv"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			w := &fakeWriter{}
			a := testAuditor(t, &fakeFactory{}, w)

			require.NoError(t, a.Run(context.Background(), tt.kind))
			assert.Equal(t, []string{tt.file}, w.names)
		})
	}
}

func TestRun_FailFast(t *testing.T) {
	w := &fakeWriter{}
	f := &fakeFactory{fail: map[string]error{"system": fmt.Errorf("sadf exploded")}}
	a := testAuditor(t, f, w)

	err := a.Run(context.Background(), KindFull)
	require.Error(t, err)

	var serr *errors.StructuredError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, errors.ErrCodeInternal, serr.Code)

	// Hardware was written before the failure; nothing after it.
	assert.Equal(t, []string{"hardware_inventory.csv"}, w.names)
}

func TestRun_WriterFailureAborts(t *testing.T) {
	w := &fakeWriter{err: fmt.Errorf("disk full")}
	a := testAuditor(t, &fakeFactory{}, w)

	err := a.Run(context.Background(), KindFull)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hardware export failed")
}

func TestRun_WritesMetricsSnapshot(t *testing.T) {
	w := &fakeWriter{}
	a := testAuditor(t, &fakeFactory{}, w)

	require.NoError(t, a.Run(context.Background(), KindFull))

	data, err := os.ReadFile(filepath.Join(a.Config.OutputDir, metricsSnapshotFile))
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "server_report_run_total")
	assert.Contains(t, out, "server_report_collector_duration_seconds")
	// Runtime families stay out of the textfile to avoid exporter clashes.
	assert.NotContains(t, out, "go_goroutines")
}

func TestRun_WritesMetricsSnapshotOnFailure(t *testing.T) {
	f := &fakeFactory{fail: map[string]error{"hardware": fmt.Errorf("lscpu exploded")}}
	a := testAuditor(t, f, &fakeWriter{})

	require.Error(t, a.Run(context.Background(), KindFull))

	data, err := os.ReadFile(filepath.Join(a.Config.OutputDir, metricsSnapshotFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `server_report_run_total{status="error"}`)
}

func TestRun_UnknownKind(t *testing.T) {
	a := testAuditor(t, &fakeFactory{}, &fakeWriter{})

	err := a.Run(context.Background(), Kind("bogus"))
	require.Error(t, err)

	var serr *errors.StructuredError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, errors.ErrCodeInvalidConfig, serr.Code)
}
