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
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/serveraudit/server-report/pkg/errors"
)

func TestVector_Run(t *testing.T) {
	r := NewRunner()
	res := r.Run(context.Background(), Vector("echo", "hello", "world"), 5*time.Second)

	assert.Equal(t, "hello world\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestVector_NoShellInterpretation(t *testing.T) {
	r := NewRunner()
	// A shell metacharacter must pass through as a literal argument.
	out := Output(context.Background(), r, Vector("echo", "a;b|c"), 5*time.Second)

	assert.Equal(t, "a;b|c", out)
}

func TestShellLine_Pipeline(t *testing.T) {
	r := NewRunner()
	out := Output(context.Background(), r, ShellLine("printf 'one\\ntwo\\n' | head -1"), 5*time.Second)

	assert.Equal(t, "one", out)
}

func TestRun_MissingBinary(t *testing.T) {
	r := NewRunner()
	res := r.Run(context.Background(), Vector("definitely-not-a-binary-xyz"), 5*time.Second)

	assert.Empty(t, res.Stdout)
	assert.Equal(t, -1, res.ExitCode)
}

func TestRun_NonZeroExit(t *testing.T) {
	r := NewRunner()
	// Stdout written before a non-zero exit is still collapsed to empty.
	res := r.Run(context.Background(), ShellLine("echo partial; exit 3"), 5*time.Second)

	assert.Empty(t, res.Stdout)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRun_Timeout(t *testing.T) {
	r := NewRunner()
	start := time.Now()
	res := r.Run(context.Background(), Vector("sleep", "10"), 200*time.Millisecond)

	assert.Empty(t, res.Stdout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunStrict_PropagatesExitCode(t *testing.T) {
	r := NewRunner()
	_, err := r.RunStrict(context.Background(), ShellLine("echo diag >&2; exit 2"), 5*time.Second)
	require.Error(t, err)

	var se *serrors.StructuredError
	require.True(t, stderrors.As(err, &se))
	assert.Equal(t, serrors.ErrCodeExecFailed, se.Code)
	assert.Equal(t, 2, se.Context["exitCode"])
	assert.Contains(t, se.Context["stderr"], "diag")
}

func TestRunStrict_TimeoutCode(t *testing.T) {
	r := NewRunner()
	_, err := r.RunStrict(context.Background(), Vector("sleep", "10"), 100*time.Millisecond)
	require.Error(t, err)

	var se *serrors.StructuredError
	require.True(t, stderrors.As(err, &se))
	assert.Equal(t, serrors.ErrCodeTimeout, se.Code)
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "uname -r", Vector("uname", "-r").String())
	assert.Equal(t, "hostname", Vector("hostname").String())
	assert.Equal(t, "free -h | awk '{print $2}'", ShellLine("free -h | awk '{print $2}'").String())
}
