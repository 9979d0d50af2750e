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

// Package collector defines the collection interface and factory for the
// audit tool's four data sources: hardware inventory, 24-hour system
// metrics, the per-process snapshot, and server-wide traffic.
//
// # Core Interface
//
// Each collector produces exactly one table from one or more external
// tool invocations:
//
//	type Collector interface {
//	    Collect(ctx context.Context) (*table.Table, error)
//	}
//
// Collectors tolerate their own internal per-fact and per-record failures:
// a failed query omits its rows, a malformed record is skipped or
// zero-filled, and the collector still returns a (possibly degraded)
// table. Collectors run strictly in sequence during a full run.
//
// # Factory Pattern
//
// The Factory interface abstracts collector creation so the orchestrator
// can be tested with canned collectors, and so the once-computed
// interface name and target day are shared by every collector of a run.
package collector
