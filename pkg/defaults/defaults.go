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

package defaults

import "time"

// Filesystem locations used when no configuration overrides them.
const (
	// LogDir is the root directory for audit logs and data.
	LogDir = "/var/log/server-audit"

	// DataDir is the directory where collected CSV files are written.
	DataDir = "/var/log/server-audit/data"

	// LogFile is the persistent audit log file.
	LogFile = "/var/log/server-audit/audit.log"

	// SysstatLogDir holds the day-numbered sysstat accounting files (saDD).
	SysstatLogDir = "/var/log/sysstat"

	// ConfigFile is the optional YAML configuration file.
	ConfigFile = "/etc/server-report/config.yaml"

	// EnvFile is the optional dotenv file with environment overrides.
	EnvFile = "/etc/server-report/server-report.env"
)

// Retention windows. Files exactly at the boundary are retained;
// deletion requires strictly greater age.
const (
	// DataRetentionDays is the maximum whole-day age of data CSV files.
	DataRetentionDays = 7

	// LogRetentionDays is the maximum whole-day age of rotated log files.
	LogRetentionDays = 1
)

// Command execution timeouts. Every external invocation is bounded;
// a timeout converts an indefinite hang into a single logged failure.
const (
	// CommandTimeout is the default timeout for one-shot tool invocations.
	CommandTimeout = 60 * time.Second

	// SamplerTimeout bounds the multi-cycle samplers (pidstat, nethogs).
	SamplerTimeout = 30 * time.Second

	// ExportTimeout bounds the sysstat accounting-log export (sadf).
	ExportTimeout = 30 * time.Second

	// AptUpdateTimeout bounds "apt-get update" during first-run setup.
	AptUpdateTimeout = 120 * time.Second

	// AptInstallTimeout bounds package installation during first-run setup.
	AptInstallTimeout = 180 * time.Second
)

// PlaceholderInterface is returned by the interface resolver when neither
// the routing table nor the link list yields a usable interface name.
const PlaceholderInterface = "eth0"

// RequiredPackages are installed during first-run setup.
var RequiredPackages = []string{"sysstat", "vnstat", "nethogs", "lshw", "dmidecode"}
