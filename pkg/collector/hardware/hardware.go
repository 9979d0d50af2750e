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

// Package hardware collects the static hardware inventory as
// (Category, Key, Value) triples. Every fact comes from an independent
// external query; a failed query omits its rows and never aborts the
// collector.
package hardware

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/serveraudit/server-report/pkg/defaults"
	"github.com/serveraudit/server-report/pkg/execx"
	"github.com/serveraudit/server-report/pkg/table"
)

// Shell pipelines for fixed-field text utilities. Positions follow the
// stable output contracts of free(1) and df(1).
const (
	memTotalLine  = `free -h | awk '/^Mem:/{print $2}'`
	memAvailLine  = `free -h | awk '/^Mem:/{print $7}'`
	swapTotalLine = `free -h | awk '/^Swap:/{print $2}'`
	rootDiskLine  = `df -h / | awk 'NR==2{print $2, $3, $4, $5}'`
	osNameLine    = `cat /etc/os-release | grep PRETTY_NAME | cut -d'"' -f2`
)

// Collector gathers the one-shot static inventory.
type Collector struct {
	Runner execx.Runner
}

// Collect implements the collector interface.
func (c *Collector) Collect(ctx context.Context) (*table.Table, error) {
	slog.Info("collecting hardware inventory")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := table.New("Category", "Key", "Value")

	c.collectCPU(ctx, t)
	c.collectMemory(ctx, t)
	c.collectDisk(ctx, t)
	c.collectBlockDevices(ctx, t)
	c.collectSystem(ctx, t)
	c.collectDMI(ctx, t)
	c.collectHostFacts(ctx, t)

	slog.Info("hardware inventory collected", "rows", t.Len())
	return t, nil
}

// lscpu --json emits a flat list of {field, data} pairs.
type lscpuOutput struct {
	Entries []lscpuEntry `json:"lscpu"`
}

type lscpuEntry struct {
	Field string `json:"field"`
	Data  string `json:"data"`
}

func (c *Collector) collectCPU(ctx context.Context, t *table.Table) {
	out := execx.Output(ctx, c.Runner, execx.Vector("lscpu", "--json"), defaults.CommandTimeout)
	if out == "" {
		return
	}

	var parsed lscpuOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		slog.Warn("lscpu JSON parse failed", "error", err)
		return
	}

	for _, e := range parsed.Entries {
		field := strings.TrimRight(e.Field, ":")
		if field == "" || e.Data == "" {
			continue
		}
		t.Append("CPU", field, e.Data)
	}
}

func (c *Collector) collectMemory(ctx context.Context, t *table.Table) {
	facts := []struct {
		key  string
		line string
	}{
		{"Total", memTotalLine},
		{"Available", memAvailLine},
		{"Swap Total", swapTotalLine},
	}
	for _, f := range facts {
		if v := execx.Output(ctx, c.Runner, execx.ShellLine(f.line), defaults.CommandTimeout); v != "" {
			t.Append("Memory", f.key, v)
		}
	}
}

func (c *Collector) collectDisk(ctx context.Context, t *table.Table) {
	out := execx.Output(ctx, c.Runner, execx.ShellLine(rootDiskLine), defaults.CommandTimeout)
	if out == "" {
		return
	}
	parts := strings.Fields(out)
	if len(parts) < 4 {
		return
	}
	t.Append("Disk", "Root Size", parts[0])
	t.Append("Disk", "Root Used", parts[1])
	t.Append("Disk", "Root Available", parts[2])
	t.Append("Disk", "Root Use%", parts[3])
}

func (c *Collector) collectBlockDevices(ctx context.Context, t *table.Table) {
	out := execx.Output(ctx, c.Runner, execx.Vector("lsblk", "-nd", "-o", "NAME,SIZE,TYPE"), defaults.CommandTimeout)
	for _, line := range strings.Split(out, "\n") {
		parts := strings.Fields(line)
		if len(parts) >= 3 && parts[2] == "disk" {
			t.Append("Disk", "Block Device "+parts[0], parts[1])
		}
	}
}

func (c *Collector) collectSystem(ctx context.Context, t *table.Table) {
	facts := []struct {
		category string
		key      string
		cmd      execx.Command
	}{
		{"Kernel", "Version", execx.Vector("uname", "-r")},
		{"Kernel", "Architecture", execx.Vector("uname", "-m")},
		{"System", "Hostname", execx.Vector("hostname", "-f")},
		{"System", "Uptime", execx.Vector("uptime", "-p")},
		{"System", "OS", execx.ShellLine(osNameLine)},
	}
	for _, f := range facts {
		if v := execx.Output(ctx, c.Runner, f.cmd, defaults.CommandTimeout); v != "" {
			t.Append(f.category, f.key, v)
		}
	}
}

func (c *Collector) collectDMI(ctx context.Context, t *table.Table) {
	// dmidecode is absent on some VMs and containers; best effort.
	if v := execx.Output(ctx, c.Runner, execx.Vector("dmidecode", "-s", "system-manufacturer"), defaults.CommandTimeout); v != "" {
		t.Append("Hardware", "Manufacturer", v)
	}
	if v := execx.Output(ctx, c.Runner, execx.Vector("dmidecode", "-s", "system-product-name"), defaults.CommandTimeout); v != "" {
		t.Append("Hardware", "Product", v)
	}
}

func (c *Collector) collectHostFacts(ctx context.Context, t *table.Table) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		slog.Warn("host info query failed", "error", err)
		return
	}
	if info.Platform != "" {
		t.Append("System", "Platform", strings.TrimSpace(info.Platform+" "+info.PlatformVersion))
	}
	if info.VirtualizationSystem != "" {
		t.Append("System", "Virtualization", info.VirtualizationSystem)
	}
	if info.VirtualizationRole != "" {
		t.Append("System", "Virtualization Role", info.VirtualizationRole)
	}
}
