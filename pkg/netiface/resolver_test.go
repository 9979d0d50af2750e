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

package netiface

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serveraudit/server-report/pkg/execx"
)

const routeCmd = "ip route get 8.8.8.8"

func TestResolve_FromRoutingTable(t *testing.T) {
	r := &Resolver{Runner: &execx.FakeRunner{
		Outputs: map[string]string{
			routeCmd: "8.8.8.8 via 10.0.0.1 dev ens3 src 10.0.0.5 uid 0",
		},
	}}

	assert.Equal(t, "ens3", r.Resolve(context.Background()))
}

func TestResolve_FallbackToUpLink(t *testing.T) {
	r := &Resolver{Runner: &execx.FakeRunner{
		Outputs: map[string]string{
			routeCmd:         "",
			linkFallbackLine: "enp0s31f6",
		},
	}}

	assert.Equal(t, "enp0s31f6", r.Resolve(context.Background()))
}

func TestResolve_Placeholder(t *testing.T) {
	r := &Resolver{Runner: &execx.FakeRunner{Outputs: map[string]string{}}}

	assert.Equal(t, "eth0", r.Resolve(context.Background()))
}

func TestResolve_RouteLineWithoutDev(t *testing.T) {
	r := &Resolver{Runner: &execx.FakeRunner{
		Outputs: map[string]string{
			routeCmd:         "RTNETLINK answers: Network is unreachable",
			linkFallbackLine: "ens3",
		},
	}}

	assert.Equal(t, "ens3", r.Resolve(context.Background()))
}
