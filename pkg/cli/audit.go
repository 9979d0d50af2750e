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

	"github.com/serveraudit/server-report/pkg/auditor"
)

// auditDoneMessage is the one-line stdout confirmation for interactive
// runs; detail stays in the audit log.
func auditDoneMessage(outputDir string) string {
	return fmt.Sprintf("Audit complete. CSV files are in %s", outputDir)
}

// auditCmd builds one audit subcommand; the command name doubles as the
// audit kind.
func auditCmd(kind, usage string) *cli.Command {
	return &cli.Command{
		Name:  kind,
		Usage: usage,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireRoot(); err != nil {
				return err
			}

			cfg, closer, err := initRun(cmd)
			if err != nil {
				return err
			}
			defer closer() //nolint:errcheck

			if err := auditor.New(cfg).Run(ctx, auditor.Kind(kind)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.Writer, auditDoneMessage(cfg.OutputDir))
			return nil
		},
	}
}
