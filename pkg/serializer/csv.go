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

package serializer

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/serveraudit/server-report/pkg/table"
)

// CSVWriter serializes tables into a fixed output directory. The directory
// is re-created defensively before every write so a swept or never-created
// destination does not fail the run.
type CSVWriter struct {
	Dir string
}

// NewCSVWriter creates a writer targeting dir.
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{Dir: dir}
}

// Write persists the table under the given file name and returns the full
// path. The write is all-or-nothing: rows are encoded into a temp file in
// the target directory and renamed into place only on success.
func (w *CSVWriter) Write(name string, t *table.Table) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.Dir, err)
	}

	tmp, err := os.CreateTemp(w.Dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file in %s: %w", w.Dir, err)
	}
	tmpPath := tmp.Name()

	if err := encodeCSV(tmp, t); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	// CreateTemp files are 0600; data files should be readable.
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to chmod temp file: %w", err)
	}

	path := filepath.Join(w.Dir, name)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to rename %s to %s: %w", tmpPath, path, err)
	}

	slog.Info("csv written", "file", name, "rows", len(t.Rows))
	return path, nil
}

func encodeCSV(f *os.File, t *table.Table) error {
	// The UTF8BOM encoder emits the byte-order marker ahead of the first
	// write, which is what spreadsheet applications look for.
	bw := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bw)

	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return bw.Close()
}

// Read loads a previously written file back into a Table, stripping the
// byte-order marker. Rows may have varying arity (the sysstat export
// carries one header per metric category).
func Read(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, table.Row(rec))
	}
	return table.FromRows(rows), nil
}
