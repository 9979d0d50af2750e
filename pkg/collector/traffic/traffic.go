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

// Package traffic extracts one calendar day's totals from the vnstat
// day-granular JSON traffic database.
package traffic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/serveraudit/server-report/pkg/defaults"
	"github.com/serveraudit/server-report/pkg/execx"
	"github.com/serveraudit/server-report/pkg/table"
)

// queryWindowDays is the trailing window requested from vnstat; the target
// day is always within it.
const queryWindowDays = 30

var header = []string{"Interface", "Date", "RX_Bytes", "TX_Bytes", "RX_GB", "TX_GB", "Total_GB"}

// Collector queries the vnstat database for the target day's totals.
type Collector struct {
	Runner    execx.Runner
	Interface string
	Day       time.Time
}

// vnstat 2.x JSON: interfaces → traffic → days, byte counts, and a
// {year, month, day} date object per entry.
type vnstatDB struct {
	Interfaces []vnstatInterface `json:"interfaces"`
}

type vnstatInterface struct {
	Name    string        `json:"name"`
	Traffic vnstatTraffic `json:"traffic"`
}

type vnstatTraffic struct {
	Days []vnstatDay `json:"days"`
}

type vnstatDay struct {
	Date vnstatDate `json:"date"`
	RX   uint64     `json:"rx"`
	TX   uint64     `json:"tx"`
}

type vnstatDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Collect implements the collector interface. No matching day, empty
// output, or a malformed database all degrade to a zero-filled record;
// a bad traffic query never aborts the run.
func (c *Collector) Collect(ctx context.Context) (*table.Table, error) {
	slog.Info("collecting traffic", "interface", c.Interface, "day", c.Day.Format("2006-01-02"))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := table.New(header...)
	dateStr := c.Day.Format("2006-01-02")

	line := fmt.Sprintf("vnstat -i %s --json d %d", c.Interface, queryWindowDays)
	out := execx.Output(ctx, c.Runner, execx.ShellLine(line), defaults.CommandTimeout)
	if out == "" {
		slog.Warn("vnstat returned empty output", "interface", c.Interface)
		t.AppendRow(zeroRow(c.Interface, dateStr))
		return t, nil
	}

	rx, tx, err := c.dayTotals(out)
	if err != nil {
		slog.Error("vnstat JSON parse error", "error", err, "interface", c.Interface)
		t.AppendRow(zeroRow(c.Interface, dateStr))
		return t, nil
	}

	t.Append(
		c.Interface,
		dateStr,
		strconv.FormatUint(rx, 10),
		strconv.FormatUint(tx, 10),
		toGB(rx),
		toGB(tx),
		toGB(rx+tx),
	)

	slog.Info("traffic collected",
		"interface", c.Interface,
		"day", dateStr,
		"rxGB", toGB(rx),
		"txGB", toGB(tx))
	return t, nil
}

// dayTotals finds the first day entry exactly matching the target
// {year, month, day}. A missing day yields zero totals, not an error.
func (c *Collector) dayTotals(out string) (rx, tx uint64, err error) {
	var db vnstatDB
	if err := json.Unmarshal([]byte(out), &db); err != nil {
		return 0, 0, err
	}
	if len(db.Interfaces) == 0 {
		return 0, 0, fmt.Errorf("no interfaces in vnstat JSON")
	}

	for _, d := range db.Interfaces[0].Traffic.Days {
		if d.Date.Year == c.Day.Year() && d.Date.Month == int(c.Day.Month()) && d.Date.Day == c.Day.Day() {
			return d.RX, d.TX, nil
		}
	}

	slog.Warn("no vnstat data for target day",
		"interface", c.Interface,
		"day", c.Day.Format("2006-01-02"))
	return 0, 0, nil
}

// toGB converts a byte count to gigabytes (/1024³) with three decimals.
// This exact rounding/unit rule is relied on by downstream consumers.
func toGB(bytes uint64) string {
	return fmt.Sprintf("%.3f", float64(bytes)/(1<<30))
}

func zeroRow(iface, date string) table.Row {
	return table.Row{iface, date, "0", "0", "0.000", "0.000", "0.000"}
}
