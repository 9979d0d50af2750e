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
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	serrors "github.com/serveraudit/server-report/pkg/errors"
)

// maxDiagnosticLen bounds stderr captured into log records.
const maxDiagnosticLen = 512

// Command is a tagged invocation variant. Vector commands run without any
// shell interpretation; ShellLine commands run under "sh -c" and exist only
// for pipelines and text-processing idioms. The split is structural so that
// injection safety is decided at the call site, not by a runtime check.
type Command struct {
	name  string
	args  []string
	line  string
	shell bool
}

// Vector creates a command from a discrete argument vector. No shell is
// involved, so arguments are never re-interpreted.
func Vector(name string, args ...string) Command {
	return Command{name: name, args: args}
}

// ShellLine creates a command from one composed string, interpreted by
// "sh -c". Use only when a pipeline or redirection is required.
func ShellLine(line string) Command {
	return Command{line: line, shell: true}
}

// String returns the literal command line for diagnostics.
func (c Command) String() string {
	if c.shell {
		return c.line
	}
	if len(c.args) == 0 {
		return c.name
	}
	return c.name + " " + strings.Join(c.args, " ")
}

// Result carries the outcome of one invocation. A failed non-strict run is
// collapsed to empty Stdout regardless of the failure mode; the distinction
// survives only in the log.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands with a bounded timeout.
type Runner interface {
	// Run never returns an error: missing binary, timeout and non-zero exit
	// all yield a Result with empty Stdout, logged with the literal command.
	Run(ctx context.Context, cmd Command, timeout time.Duration) Result

	// RunStrict propagates failures as StructuredError carrying the exit
	// code and captured diagnostic output.
	RunStrict(ctx context.Context, cmd Command, timeout time.Duration) (Result, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// NewRunner creates a production command runner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements the Runner interface.
func (r *ExecRunner) Run(ctx context.Context, cmd Command, timeout time.Duration) Result {
	res, err := r.invoke(ctx, cmd, timeout)
	if err != nil {
		res.Stdout = ""
	}
	return res
}

// RunStrict implements the Runner interface.
func (r *ExecRunner) RunStrict(ctx context.Context, cmd Command, timeout time.Duration) (Result, error) {
	return r.invoke(ctx, cmd, timeout)
}

func (r *ExecRunner) invoke(ctx context.Context, cmd Command, timeout time.Duration) (Result, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var ec *exec.Cmd
	if cmd.shell {
		ec = exec.CommandContext(cctx, "sh", "-c", cmd.line)
	} else {
		ec = exec.CommandContext(cctx, cmd.name, cmd.args...)
	}

	var stdout, stderr bytes.Buffer
	ec.Stdout = &stdout
	ec.Stderr = &stderr

	err := ec.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return res, nil
	}

	res.ExitCode = -1
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}

	code := serrors.ErrCodeExecFailed
	switch {
	case cctx.Err() == context.DeadlineExceeded:
		code = serrors.ErrCodeTimeout
	case stderrors.Is(err, exec.ErrNotFound):
		code = serrors.ErrCodeNotFound
	}

	slog.Error("command failed",
		"command", cmd.String(),
		"code", string(code),
		"exitCode", res.ExitCode,
		"timeout", timeout.String(),
		"stderr", truncate(res.Stderr, maxDiagnosticLen),
	)

	return res, serrors.WrapWithContext(code, "command failed", err, map[string]any{
		"command":  cmd.String(),
		"exitCode": res.ExitCode,
		"stderr":   truncate(res.Stderr, maxDiagnosticLen),
	})
}

// Output runs cmd non-strictly and returns its stdout with surrounding
// whitespace trimmed. Failures yield an empty string.
func Output(ctx context.Context, r Runner, cmd Command, timeout time.Duration) string {
	return strings.TrimSpace(r.Run(ctx, cmd, timeout).Stdout)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
