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

// Package retention deletes aged data and log files. Both policies use
// strict greater-than at the boundary: a file exactly at the retention
// window is retained.
package retention

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var datePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

// Sweeper applies the two independent retention policies: data CSV files
// by the calendar date embedded in their name, log files by modification
// time. The currently active log file is always excluded.
type Sweeper struct {
	DataDir   string
	LogDir    string
	ActiveLog string

	DataRetentionDays int
	LogRetentionDays  int
}

// Sweep removes eligible files and returns the number removed. Individual
// removal failures are logged and do not stop the sweep.
func (s *Sweeper) Sweep(now time.Time) int {
	removed := s.sweepData(now)
	removed += s.sweepLogs(now)
	if removed > 0 {
		slog.Info("cleanup complete", "removed", removed)
	}
	return removed
}

// sweepData deletes data files whose embedded YYYY-MM-DD date is older
// than the retention window. Files without a parseable date are never
// touched.
func (s *Sweeper) sweepData(now time.Time) int {
	matches, err := filepath.Glob(filepath.Join(s.DataDir, "*.csv"))
	if err != nil {
		return 0
	}

	removed := 0
	for _, path := range matches {
		m := datePattern.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			continue
		}
		fileDate, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			continue
		}
		if wholeDays(now.Sub(fileDate)) > s.DataRetentionDays {
			if err := os.Remove(path); err != nil {
				slog.Warn("failed to remove old data file", "file", path, "error", err)
				continue
			}
			removed++
			slog.Info("removed old data file", "file", filepath.Base(path))
		}
	}
	return removed
}

// sweepLogs deletes log files older than the retention window by
// modification time, skipping the active log regardless of its age.
func (s *Sweeper) sweepLogs(now time.Time) int {
	matches, err := filepath.Glob(filepath.Join(s.LogDir, "*.log*"))
	if err != nil {
		return 0
	}

	removed := 0
	for _, path := range matches {
		if path == s.ActiveLog {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if wholeDays(now.Sub(info.ModTime())) > s.LogRetentionDays {
			if err := os.Remove(path); err != nil {
				slog.Warn("failed to remove old log file", "file", path, "error", err)
				continue
			}
			removed++
			slog.Info("removed old log file", "file", filepath.Base(path))
		}
	}
	return removed
}

// wholeDays truncates an age to whole 24-hour days.
func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}
