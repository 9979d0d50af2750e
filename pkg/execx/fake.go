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

package execx

import (
	"context"
	"time"

	serrors "github.com/serveraudit/server-report/pkg/errors"
)

// FakeRunner is a canned-output Runner for tests. Outputs are keyed by the
// literal command line (Command.String()); commands listed in Fail behave
// like a non-strict tool failure (empty stdout, exit code 1).
type FakeRunner struct {
	Outputs map[string]string
	Fail    map[string]bool

	// Calls records every command line in invocation order.
	Calls []string
}

// Run implements the Runner interface.
func (f *FakeRunner) Run(_ context.Context, cmd Command, _ time.Duration) Result {
	key := cmd.String()
	f.Calls = append(f.Calls, key)
	if f.Fail[key] {
		return Result{ExitCode: 1}
	}
	return Result{Stdout: f.Outputs[key]}
}

// RunStrict implements the Runner interface.
func (f *FakeRunner) RunStrict(ctx context.Context, cmd Command, timeout time.Duration) (Result, error) {
	res := f.Run(ctx, cmd, timeout)
	if f.Fail[cmd.String()] {
		return res, serrors.NewWithContext(serrors.ErrCodeExecFailed, "command failed",
			map[string]any{"command": cmd.String(), "exitCode": res.ExitCode})
	}
	return res, nil
}
