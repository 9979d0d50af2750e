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

// Package process merges a per-process CPU/memory/I/O sampler (pidstat)
// with a per-process network-rate sampler (nethogs), keyed by pid.
package process

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/serveraudit/server-report/pkg/defaults"
	"github.com/serveraudit/server-report/pkg/execx"
	"github.com/serveraudit/server-report/pkg/table"
)

// pidstat merged-header mode: 18 fixed-position fields, then the command
// name, which may contain embedded whitespace.
const pidstatFixedFields = 18

// pidstatLine samples CPU, memory and I/O for every process: 3 samples at
// a 1-second interval, single merged header.
const pidstatLine = "pidstat -u -r -d -h 1 3"

// header is the merged 21-column output schema.
var header = []string{
	"Timestamp", "UID", "PID",
	"%usr", "%system", "%guest", "%wait", "%CPU", "CPU_core",
	"minflt/s", "majflt/s", "VSZ_KB", "RSS_KB", "%MEM",
	"kB_rd/s", "kB_wr/s", "kB_ccwr/s", "iodelay",
	"Command", "Net_Sent_KB/s", "Net_Recv_KB/s",
}

// Collector produces the merged per-process snapshot.
type Collector struct {
	Runner    execx.Runner
	Interface string
}

// netRate is one process's sent/received KB/s pair.
type netRate struct {
	sent string
	recv string
}

// Collect implements the collector interface. The CPU/IO sampler defines
// the row universe; network rates are attached where present (left join
// on pid) and left empty otherwise.
func (c *Collector) Collect(ctx context.Context) (*table.Table, error) {
	slog.Info("collecting process snapshot", "interface", c.Interface)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pids, samples := c.collectPidstat(ctx)
	rates := c.collectNethogs(ctx)

	t := table.New(header...)
	for _, pid := range pids {
		row := samples[pid]
		r := rates[pid]
		t.AppendRow(append(row, r.sent, r.recv))
	}

	slog.Info("process snapshot collected",
		"processes", len(pids),
		"withNetwork", len(rates))
	return t, nil
}

// collectPidstat parses the merged-header sampler output into per-pid rows.
// For a repeated pid the most recent sample overwrites the prior one; the
// returned slice preserves first-seen order for deterministic output.
func (c *Collector) collectPidstat(ctx context.Context) ([]string, map[string]table.Row) {
	out := execx.Output(ctx, c.Runner, execx.ShellLine(pidstatLine), defaults.SamplerTimeout)

	pids := make([]string, 0, 64)
	samples := make(map[string]table.Row, 64)

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "Linux") {
			continue
		}

		parts := strings.Fields(line)
		// timestamp UID PID %usr %system %guest %wait %CPU CPU minflt/s
		// majflt/s VSZ RSS %MEM kB_rd/s kB_wr/s kB_ccwr/s iodelay Command
		if len(parts) < pidstatFixedFields+1 {
			continue
		}
		pid := parts[2]
		if _, err := strconv.Atoi(pid); err != nil {
			continue
		}

		cmdName := strings.Join(parts[pidstatFixedFields:], " ")
		row := make(table.Row, 0, len(header))
		row = append(row, parts[:pidstatFixedFields]...)
		row = append(row, cmdName)

		if _, seen := samples[pid]; !seen {
			pids = append(pids, pid)
		}
		samples[pid] = row
	}

	return pids, samples
}

// collectNethogs parses the tab-delimited text-mode sampler output into a
// pid-keyed rate map. Lines carry "<path>/<pid>/<uid>\t<sent>\t<recv>";
// synthetic aggregate lines (pid 0 or a non-digit segment) are discarded.
// The last refresh cycle's value for a given pid wins.
func (c *Collector) collectNethogs(ctx context.Context) map[string]netRate {
	// nethogs prints refresh banners on stderr and needs the 2>/dev/null;
	// -t text mode, -c 5 refresh cycles, -v 0 KB/s view.
	line := fmt.Sprintf("nethogs -t -c 5 -v 0 %s 2>/dev/null", c.Interface)
	out := execx.Output(ctx, c.Runner, execx.ShellLine(line), defaults.SamplerTimeout)

	rates := make(map[string]netRate, 32)
	if out == "" {
		return rates
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Refreshing") {
			continue
		}

		cells := strings.Split(line, "\t")
		if len(cells) != 3 {
			continue
		}

		segments := strings.Split(cells[0], "/")
		if len(segments) < 3 {
			continue
		}
		pid := segments[len(segments)-2]
		if !isPositivePID(pid) {
			continue
		}

		rates[pid] = netRate{
			sent: strings.TrimSpace(cells[1]),
			recv: strings.TrimSpace(cells[2]),
		}
	}

	return rates
}

// isPositivePID reports whether s is a non-empty digit string other than "0".
func isPositivePID(s string) bool {
	if s == "" || s == "0" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
