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

package hardware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serveraudit/server-report/pkg/execx"
	"github.com/serveraudit/server-report/pkg/table"
)

const lscpuJSON = `{
  "lscpu": [
    {"field": "Architecture:", "data": "x86_64"},
    {"field": "CPU(s):", "data": "8"},
    {"field": "Model name:", "data": "Intel(R) Xeon(R) Platinum 8259CL"},
    {"field": "Empty:", "data": ""}
  ]
}`

func fullOutputs() map[string]string {
	return map[string]string{
		"lscpu --json":                     lscpuJSON,
		memTotalLine:                       "15Gi",
		memAvailLine:                       "9.1Gi",
		swapTotalLine:                      "0B",
		rootDiskLine:                       "97G 24G 73G 25%",
		"lsblk -nd -o NAME,SIZE,TYPE":      "nvme0n1 100G disk\nloop0   4K loop",
		"uname -r":                         "6.8.0-45-generic",
		"uname -m":                         "x86_64",
		"hostname -f":                      "srv-01.example.com",
		"uptime -p":                        "up 3 weeks, 2 days",
		osNameLine:                         "Ubuntu 24.04.1 LTS",
		"dmidecode -s system-manufacturer": "Amazon EC2",
		"dmidecode -s system-product-name": "m5.2xlarge",
	}
}

func findRow(t *table.Table, category, key string) (string, bool) {
	for _, r := range t.Rows[1:] {
		if r[0] == category && r[1] == key {
			return r[2], true
		}
	}
	return "", false
}

func TestCollect_FullInventory(t *testing.T) {
	c := &Collector{Runner: &execx.FakeRunner{Outputs: fullOutputs()}}

	tbl, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.NoError(t, tbl.Validate())

	assert.Equal(t, table.Row{"Category", "Key", "Value"}, tbl.Header())

	v, ok := findRow(tbl, "CPU", "Model name")
	require.True(t, ok)
	assert.Equal(t, "Intel(R) Xeon(R) Platinum 8259CL", v)

	// Trailing colon stripped from the lscpu field name.
	_, ok = findRow(tbl, "CPU", "Architecture")
	assert.True(t, ok)

	// Empty lscpu values are skipped.
	_, ok = findRow(tbl, "CPU", "Empty")
	assert.False(t, ok)

	v, ok = findRow(tbl, "Memory", "Total")
	require.True(t, ok)
	assert.Equal(t, "15Gi", v)

	v, ok = findRow(tbl, "Disk", "Root Use%")
	require.True(t, ok)
	assert.Equal(t, "25%", v)

	// Only TYPE==disk block devices are listed.
	v, ok = findRow(tbl, "Disk", "Block Device nvme0n1")
	require.True(t, ok)
	assert.Equal(t, "100G", v)
	_, ok = findRow(tbl, "Disk", "Block Device loop0")
	assert.False(t, ok)

	v, ok = findRow(tbl, "Hardware", "Manufacturer")
	require.True(t, ok)
	assert.Equal(t, "Amazon EC2", v)
}

func TestCollect_FailedQueriesOmitRows(t *testing.T) {
	// Everything fails except uname; the collector must still return a table.
	c := &Collector{Runner: &execx.FakeRunner{Outputs: map[string]string{
		"uname -r": "6.8.0-45-generic",
	}}}

	tbl, err := c.Collect(context.Background())
	require.NoError(t, err)

	_, ok := findRow(tbl, "Kernel", "Version")
	assert.True(t, ok)
	_, ok = findRow(tbl, "Memory", "Total")
	assert.False(t, ok)
	_, ok = findRow(tbl, "Hardware", "Manufacturer")
	assert.False(t, ok)
}

func TestCollect_MalformedLscpuJSON(t *testing.T) {
	c := &Collector{Runner: &execx.FakeRunner{Outputs: map[string]string{
		"lscpu --json": "{not json",
		"uname -m":     "aarch64",
	}}}

	tbl, err := c.Collect(context.Background())
	require.NoError(t, err)

	// Parse failure only drops the CPU rows.
	_, ok := findRow(tbl, "Kernel", "Architecture")
	assert.True(t, ok)
}
