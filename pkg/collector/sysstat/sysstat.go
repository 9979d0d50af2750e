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

// Package sysstat exports a 24-hour window of CPU, memory, I/O,
// per-device network and load metrics from the sysstat accounting log.
package sysstat

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/serveraudit/server-report/pkg/defaults"
	"github.com/serveraudit/server-report/pkg/execx"
	"github.com/serveraudit/server-report/pkg/table"
)

// exportDelimiter separates fields in the sadf database export.
const exportDelimiter = ";"

// Collector exports one day of system metrics via sadf.
type Collector struct {
	Runner execx.Runner

	// LogDir holds the day-numbered accounting files (saDD).
	LogDir string

	// Day is the target calendar day (the run's previous day).
	Day time.Time
}

// Collect implements the collector interface. A missing accounting file or
// an empty export yields a fixed advisory table, never an error.
func (c *Collector) Collect(ctx context.Context) (*table.Table, error) {
	slog.Info("collecting system metrics", "day", c.Day.Format("2006-01-02"))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saFile := filepath.Join(c.LogDir, fmt.Sprintf("sa%02d", c.Day.Day()))
	if _, err := os.Stat(saFile); err != nil {
		slog.Warn("sysstat accounting file not found", "file", saFile)
		return advisory("No sysstat data available for yesterday. Wait 24h after setup."), nil
	}

	// -d database (semicolon) format, -s/-e full day window;
	// -- separates sadf flags from sar activity flags.
	line := fmt.Sprintf("sadf -d -s 00:00:00 -e 23:59:59 %s -- -u -r -b -n DEV -q", saFile)
	out := execx.Output(ctx, c.Runner, execx.ShellLine(line), defaults.ExportTimeout)
	if out == "" {
		slog.Warn("sadf returned empty output", "file", saFile)
		return advisory("sadf returned no data. sysstat may still be collecting."), nil
	}

	rows := make([]table.Row, 0, 128)
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "#") {
			// The export's own header line, marker stripped.
			parts := strings.Split(strings.TrimLeft(line, "# "), exportDelimiter)
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			rows = append(rows, table.Row(parts))
			continue
		}
		rows = append(rows, table.Row(strings.Split(line, exportDelimiter)))
	}

	slog.Info("system metrics collected", "rows", len(rows), "file", saFile)
	return table.FromRows(rows), nil
}

// advisory returns the fixed 2-row table used when no export is possible.
func advisory(msg string) *table.Table {
	t := table.New("Info")
	t.Append(msg)
	return t
}
