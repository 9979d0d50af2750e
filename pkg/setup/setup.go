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

// Package setup installs and activates the monitoring tools the audit
// depends on. Package installation is mandatory; service activation and
// vnstat database initialization are best-effort so a partially
// configured host still gets as much enabled as possible.
package setup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/serveraudit/server-report/pkg/config"
	"github.com/serveraudit/server-report/pkg/defaults"
	"github.com/serveraudit/server-report/pkg/errors"
	"github.com/serveraudit/server-report/pkg/execx"
	"github.com/serveraudit/server-report/pkg/netiface"
)

// sysstatDefaultFile is the Debian/Ubuntu sysstat activation switch.
const sysstatDefaultFile = "/etc/default/sysstat"

// monitoredUnits are enabled and started so sysstat accumulates history
// and vnstat tracks traffic from setup time onward.
var monitoredUnits = []string{
	"sysstat.service",
	"sysstat-collect.timer",
	"sysstat-summary.timer",
	"vnstat.service",
}

// SystemdConn is the subset of the systemd D-Bus connection the installer
// uses. This interface enables dependency injection for testing.
type SystemdConn interface {
	EnableUnitFilesContext(ctx context.Context, files []string, runtime, force bool) (bool, []dbus.EnableUnitFileChange, error)
	StartUnitContext(ctx context.Context, name, mode string, ch chan<- string) (int, error)
	Close()
}

// Installer prepares a host for daily audit runs.
type Installer struct {
	Config *config.Config
	Runner execx.Runner

	// Connect opens the systemd D-Bus connection. Defaults to the system
	// bus when nil.
	Connect func(ctx context.Context) (SystemdConn, error)

	// SysstatDefaultPath overrides the activation file location for tests.
	SysstatDefaultPath string
}

// New creates an installer with production dependencies.
func New(cfg *config.Config) *Installer {
	return &Installer{
		Config: cfg,
		Runner: execx.NewRunner(),
		Connect: func(ctx context.Context) (SystemdConn, error) {
			return dbus.NewSystemdConnectionContext(ctx)
		},
		SysstatDefaultPath: sysstatDefaultFile,
	}
}

// Run performs the full setup sequence. Package installation failure is
// fatal; every later stage degrades to a logged warning.
func (i *Installer) Run(ctx context.Context) error {
	slog.Info("starting setup", "packages", defaults.RequiredPackages)

	if err := i.installPackages(ctx); err != nil {
		return err
	}

	i.enableSysstatCollection()
	i.activateUnits(ctx)
	i.initVnstat(ctx)

	if err := os.MkdirAll(i.Config.OutputDir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeSetup, "failed to create data directory", err)
	}

	slog.Info("setup complete",
		"dataDir", i.Config.OutputDir,
		"note", "sysstat needs up to 24h before the first system summary has data")
	return nil
}

// installPackages refreshes the package index and installs the monitoring
// tools. Both commands are strict: without the tools there is no audit.
func (i *Installer) installPackages(ctx context.Context) error {
	if _, err := i.Runner.RunStrict(ctx,
		execx.Vector("apt-get", "update", "-qq"),
		defaults.AptUpdateTimeout); err != nil {
		return errors.Wrap(errors.ErrCodeSetup, "apt-get update failed", err)
	}

	args := append([]string{"install", "-y"}, defaults.RequiredPackages...)
	if _, err := i.Runner.RunStrict(ctx,
		execx.Vector("apt-get", args...),
		defaults.AptInstallTimeout); err != nil {
		return errors.Wrap(errors.ErrCodeSetup, "package installation failed", err)
	}

	slog.Info("packages installed", "count", len(defaults.RequiredPackages))
	return nil
}

// enableSysstatCollection flips ENABLED="false" to "true" in the sysstat
// activation file. Debian ships the daemon disabled.
func (i *Installer) enableSysstatCollection() {
	data, err := os.ReadFile(i.SysstatDefaultPath)
	if err != nil {
		slog.Warn("cannot read sysstat activation file", "file", i.SysstatDefaultPath, "error", err)
		return
	}

	content := string(data)
	if !strings.Contains(content, `ENABLED="false"`) {
		slog.Info("sysstat collection already enabled")
		return
	}

	content = strings.ReplaceAll(content, `ENABLED="false"`, `ENABLED="true"`)
	if err := os.WriteFile(i.SysstatDefaultPath, []byte(content), 0o644); err != nil {
		slog.Warn("cannot update sysstat activation file", "file", i.SysstatDefaultPath, "error", err)
		return
	}
	slog.Info("sysstat collection enabled", "file", i.SysstatDefaultPath)
}

// activateUnits enables and starts the monitoring units over D-Bus.
// Failures are logged per unit; a host without systemd still completes
// setup.
func (i *Installer) activateUnits(ctx context.Context) {
	conn, err := i.Connect(ctx)
	if err != nil {
		slog.Warn("cannot connect to systemd, skipping unit activation", "error", err)
		return
	}
	defer conn.Close()

	if _, _, err := conn.EnableUnitFilesContext(ctx, monitoredUnits, false, true); err != nil {
		slog.Warn("failed to enable units", "error", err)
	}

	for _, unit := range monitoredUnits {
		if _, err := conn.StartUnitContext(ctx, unit, "replace", nil); err != nil {
			slog.Warn("failed to start unit", "unit", unit, "error", err)
			continue
		}
		slog.Info("unit started", "unit", unit)
	}
}

// initVnstat makes sure the primary interface has a vnstat database. The
// probe and the add are both best-effort.
func (i *Installer) initVnstat(ctx context.Context) {
	iface := (&netiface.Resolver{Runner: i.Runner}).Resolve(ctx)

	probe := execx.ShellLine(fmt.Sprintf("vnstat --json d -i %s", iface))
	if out := execx.Output(ctx, i.Runner, probe, defaults.CommandTimeout); out != "" {
		slog.Info("vnstat database present", "interface", iface)
		return
	}

	add := execx.Vector("vnstat", "--add", "-i", iface)
	if res := i.Runner.Run(ctx, add, defaults.CommandTimeout); res.ExitCode != 0 {
		slog.Warn("vnstat database initialization failed", "interface", iface, "exitCode", res.ExitCode)
		return
	}
	slog.Info("vnstat database initialized", "interface", iface)
}
