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

// Package logging wraps the standard library slog package with audit-tool
// defaults: structured JSON records carrying module/version attributes,
// written to the persistent audit log, with an optional verbose text
// handler on stderr for interactive runs.
//
// Setting the default logger for a run:
//
//	closer, _ := logging.Setup("server-report", version, cfg.LogFile, verbose)
//	defer closer()
//	slog.Info("audit started", "command", "full")
//
// Every failure of an external tool is logged here with the literal
// command line and truncated diagnostics, so the log file remains the
// single place to reconstruct a degraded run.
package logging
