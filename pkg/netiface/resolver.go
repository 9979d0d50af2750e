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

// Package netiface determines the primary network-facing interface.
package netiface

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/serveraudit/server-report/pkg/defaults"
	"github.com/serveraudit/server-report/pkg/execx"
)

// anchorAddress is a public address used only to ask the routing table
// which interface the default route would use; no traffic is sent.
const anchorAddress = "8.8.8.8"

// linkFallbackLine lists "up" interfaces and picks the first non-loopback.
const linkFallbackLine = `ip -o link show up | awk -F': ' '{print $2}' | grep -v lo | head -1`

var devPattern = regexp.MustCompile(`dev\s+(\S+)`)

// Resolver finds the primary interface through a three-tier fallback:
// routing table, first non-loopback "up" link, fixed placeholder. It
// always returns a name, favoring availability over correctness;
// downstream collectors tolerate a wrong name by producing empty data.
type Resolver struct {
	Runner execx.Runner
}

// Resolve returns the primary interface name.
func (r *Resolver) Resolve(ctx context.Context) string {
	out := execx.Output(ctx, r.Runner, execx.Vector("ip", "route", "get", anchorAddress), defaults.CommandTimeout)
	if m := devPattern.FindStringSubmatch(out); m != nil {
		slog.Info("detected primary interface", "interface", m[1])
		return m[1]
	}

	if out := execx.Output(ctx, r.Runner, execx.ShellLine(linkFallbackLine), defaults.CommandTimeout); out != "" {
		slog.Warn("default route detection failed, falling back to first up link", "interface", out)
		return out
	}

	slog.Warn("no interface detected, using placeholder", "interface", defaults.PlaceholderInterface)
	return defaults.PlaceholderInterface
}
