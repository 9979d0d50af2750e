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

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/serveraudit/server-report/pkg/config"
	"github.com/serveraudit/server-report/pkg/errors"
	"github.com/serveraudit/server-report/pkg/logging"
)

const name = "server-report"

var (
	// overridden during build with ldflags
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: "Daily server audit: hardware, system metrics, processes, and traffic",
		Description: `Collects a once-daily audit of an Ubuntu server and writes each section
as a CSV file (UTF-8 with BOM, loadable directly into Excel):

  hardware   static hardware inventory
  system     previous day's sysstat metrics (CPU, memory, I/O, network, load)
  processes  short live pidstat sample merged with per-process network rates
  traffic    previous day's vnstat totals for the primary interface

Running with no subcommand performs the full audit. All audit commands
and setup require root.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Override the data output directory",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Also log to stderr",
			},
		},
		Commands: []*cli.Command{
			auditCmd("full", "Run the complete audit (default)"),
			auditCmd("hardware", "Collect the hardware inventory"),
			auditCmd("system", "Export yesterday's sysstat metrics"),
			auditCmd("processes", "Capture the per-process snapshot"),
			auditCmd("traffic", "Export yesterday's traffic totals"),
			setupCmd(),
			versionCmd(),
		},
		DefaultCommand: "full",
	}
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// requireRoot gates commands that read privileged hardware sources or
// write under /var/log.
func requireRoot() error {
	if os.Geteuid() != 0 {
		return errors.New(errors.ErrCodeSetup, "this command must be run as root")
	}
	return nil
}

// initRun loads the configuration and directs logging to the audit log
// file. The returned closer flushes and closes the log file.
func initRun(cmd *cli.Command) (*config.Config, func() error, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	if dir := cmd.String("output-dir"); dir != "" {
		cfg.OutputDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	closer, err := logging.Setup(name, version, cfg.LogFile, cmd.Bool("verbose"))
	if err != nil {
		return nil, nil, err
	}
	return &cfg, closer, nil
}
