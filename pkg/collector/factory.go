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

package collector

import (
	"context"
	"time"

	"github.com/serveraudit/server-report/pkg/collector/hardware"
	"github.com/serveraudit/server-report/pkg/collector/process"
	"github.com/serveraudit/server-report/pkg/collector/sysstat"
	"github.com/serveraudit/server-report/pkg/collector/traffic"
	"github.com/serveraudit/server-report/pkg/execx"
	"github.com/serveraudit/server-report/pkg/table"
)

// Collector produces one table from one or more external tool invocations.
type Collector interface {
	Collect(ctx context.Context) (*table.Table, error)
}

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateHardwareCollector() Collector
	CreateSystemCollector() Collector
	CreateProcessCollector() Collector
	CreateTrafficCollector() Collector
}

// DefaultFactory creates collectors with production dependencies. The
// interface name and target day are computed once per run and shared by
// every collector the factory creates.
type DefaultFactory struct {
	Runner        execx.Runner
	Interface     string
	Day           time.Time
	SysstatLogDir string
}

// NewDefaultFactory creates a factory for one audit run.
func NewDefaultFactory(runner execx.Runner, iface string, day time.Time, sysstatLogDir string) *DefaultFactory {
	return &DefaultFactory{
		Runner:        runner,
		Interface:     iface,
		Day:           day,
		SysstatLogDir: sysstatLogDir,
	}
}

// CreateHardwareCollector creates the static hardware inventory collector.
func (f *DefaultFactory) CreateHardwareCollector() Collector {
	return &hardware.Collector{Runner: f.Runner}
}

// CreateSystemCollector creates the 24-hour system metrics collector.
func (f *DefaultFactory) CreateSystemCollector() Collector {
	return &sysstat.Collector{Runner: f.Runner, LogDir: f.SysstatLogDir, Day: f.Day}
}

// CreateProcessCollector creates the per-process snapshot collector.
func (f *DefaultFactory) CreateProcessCollector() Collector {
	return &process.Collector{Runner: f.Runner, Interface: f.Interface}
}

// CreateTrafficCollector creates the server-wide traffic collector.
func (f *DefaultFactory) CreateTrafficCollector() Collector {
	return &traffic.Collector{Runner: f.Runner, Interface: f.Interface, Day: f.Day}
}
