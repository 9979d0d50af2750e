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

package collector

import (
	"testing"
	"time"

	"github.com/serveraudit/server-report/pkg/execx"
)

func TestDefaultFactory_CreatesAllCollectors(t *testing.T) {
	f := NewDefaultFactory(&execx.FakeRunner{}, "ens3", time.Now(), "/var/log/sysstat")

	creators := map[string]func() Collector{
		"hardware": f.CreateHardwareCollector,
		"system":   f.CreateSystemCollector,
		"process":  f.CreateProcessCollector,
		"traffic":  f.CreateTrafficCollector,
	}

	for name, create := range creators {
		t.Run(name, func(t *testing.T) {
			if create() == nil {
				t.Errorf("%s collector is nil", name)
			}
		})
	}
}
