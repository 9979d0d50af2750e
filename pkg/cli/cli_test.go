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
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Wiring(t *testing.T) {
	root := rootCmd()

	assert.Equal(t, "server-report", root.Name)
	assert.Equal(t, "full", root.DefaultCommand)

	var names []string
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"full", "hardware", "system", "processes", "traffic", "setup", "version"}, names)
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	root := rootCmd()

	var names []string
	for _, f := range root.Flags {
		names = append(names, f.Names()[0])
	}
	assert.ElementsMatch(t, []string{"config", "output-dir", "verbose"}, names)
}

func TestSuccessMessages(t *testing.T) {
	msg := auditDoneMessage("/var/log/server-audit/data")
	assert.Contains(t, msg, "Audit complete")
	assert.Contains(t, msg, "/var/log/server-audit/data")

	assert.Contains(t, setupDoneMessage, "Setup complete")
	assert.Contains(t, setupDoneMessage, "24 hours")
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	root := rootCmd()
	root.Writer = &buf

	require.NoError(t, root.Run(context.Background(), []string{"server-report", "version"}))

	out := buf.String()
	assert.Contains(t, out, "server-report version")
	assert.Contains(t, out, version)
}
