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

package table

import "fmt"

// Row is an ordered sequence of text cells. All values stay textual; no
// type coercion happens between a tool's output and the written file.
type Row []string

// Table is an ordered sequence of rows. The first row names the columns.
// A Table is owned transiently by one collector and consumed immediately
// by the writer.
type Table struct {
	Rows []Row
}

// New creates a Table seeded with the given header row.
func New(header ...string) *Table {
	return &Table{Rows: []Row{Row(header)}}
}

// FromRows creates a Table from pre-built rows, header first. Used by
// collectors whose source defines its own (possibly repeated) headers,
// such as the sysstat export.
func FromRows(rows []Row) *Table {
	return &Table{Rows: rows}
}

// Append adds one data row.
func (t *Table) Append(cells ...string) {
	t.Rows = append(t.Rows, Row(cells))
}

// AppendRow adds one pre-built data row.
func (t *Table) AppendRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// Header returns the header row, or nil for an empty table.
func (t *Table) Header() Row {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Len returns the number of data rows (excluding the header).
func (t *Table) Len() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows) - 1
}

// Validate checks that every data row matches the header's cell count.
// Collectors with a fixed schema call this before handing the table to
// the writer.
func (t *Table) Validate() error {
	if len(t.Rows) == 0 {
		return fmt.Errorf("table has no header row")
	}
	arity := len(t.Rows[0])
	for i, r := range t.Rows[1:] {
		if len(r) != arity {
			return fmt.Errorf("row %d has %d cells, header has %d", i+1, len(r), arity)
		}
	}
	return nil
}
