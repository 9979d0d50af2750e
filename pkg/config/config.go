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

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/serveraudit/server-report/pkg/defaults"
	serrors "github.com/serveraudit/server-report/pkg/errors"
)

// Config holds every externally tunable setting. It is an explicit value
// threaded through collectors, writers and the sweeper; nothing reads these
// settings from ambient globals.
type Config struct {
	// OutputDir is where collected CSV files are written.
	OutputDir string `yaml:"outputDir"`

	// LogDir holds the audit log and its rotations.
	LogDir string `yaml:"logDir"`

	// LogFile is the currently active audit log, always excluded from sweeps.
	LogFile string `yaml:"logFile"`

	// SysstatLogDir holds the day-numbered sysstat accounting files.
	SysstatLogDir string `yaml:"sysstatLogDir"`

	// DataRetentionDays is the data file retention window in whole days.
	DataRetentionDays int `yaml:"dataRetentionDays"`

	// LogRetentionDays is the log file retention window in whole days.
	LogRetentionDays int `yaml:"logRetentionDays"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:         defaults.DataDir,
		LogDir:            defaults.LogDir,
		LogFile:           defaults.LogFile,
		SysstatLogDir:     defaults.SysstatLogDir,
		DataRetentionDays: defaults.DataRetentionDays,
		LogRetentionDays:  defaults.LogRetentionDays,
	}
}

// Load builds the effective configuration: defaults, then the YAML file
// (the given path, or the default path when it exists), then the optional
// dotenv file, then SERVER_REPORT_* environment variables. CLI flag
// overrides are applied by the caller on the returned value.
func Load(path string) (Config, error) {
	cfg := Default()

	yamlPath := path
	if yamlPath == "" {
		yamlPath = defaults.ConfigFile
	}
	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, serrors.Wrap(serrors.ErrCodeInvalidConfig,
				fmt.Sprintf("failed to parse config file %s", yamlPath), err)
		}
	} else if path != "" {
		// An explicitly requested config file must exist.
		return cfg, serrors.Wrap(serrors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	// Optional dotenv overrides; absence is not an error.
	_ = godotenv.Load(defaults.EnvFile)
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_REPORT_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("SERVER_REPORT_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("SERVER_REPORT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SERVER_REPORT_SYSSTAT_LOG_DIR"); v != "" {
		cfg.SysstatLogDir = v
	}
	if v := os.Getenv("SERVER_REPORT_DATA_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.DataRetentionDays = n
		}
	}
	if v := os.Getenv("SERVER_REPORT_LOG_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LogRetentionDays = n
		}
	}
}

// Validate checks the configuration for values that would make a run
// misbehave in non-obvious ways.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return serrors.New(serrors.ErrCodeInvalidConfig, "output directory must not be empty")
	}
	if c.DataRetentionDays < 0 {
		return serrors.New(serrors.ErrCodeInvalidConfig, "data retention days must not be negative")
	}
	if c.LogRetentionDays < 0 {
		return serrors.New(serrors.ErrCodeInvalidConfig, "log retention days must not be negative")
	}
	return nil
}
