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

	"github.com/urfave/cli/v3"

	"github.com/serveraudit/server-report/pkg/setup"
)

// setupDoneMessage reminds interactive users about the sysstat warm-up.
const setupDoneMessage = "Setup complete. sysstat needs up to 24 hours to accumulate data;\n" +
	"run 'server-report full' tomorrow for a complete report."

func setupCmd() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Install and activate the monitoring tools (sysstat, vnstat, nethogs, lshw, dmidecode)",
		Description: `Installs the required packages via apt, enables sysstat collection,
activates the sysstat and vnstat systemd units, initializes the vnstat
database for the primary interface, and creates the data directory.

sysstat accumulates history over time: the first system summary with
real data is available roughly 24 hours after setup.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireRoot(); err != nil {
				return err
			}

			cfg, closer, err := initRun(cmd)
			if err != nil {
				return err
			}
			defer closer() //nolint:errcheck

			if err := setup.New(cfg).Run(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.Writer, setupDoneMessage)
			return nil
		},
	}
}
