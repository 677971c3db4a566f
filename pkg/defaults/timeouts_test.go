// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Poller parameters
		{"PollInterval", PollInterval, 1 * time.Second, 30 * time.Second},
		{"NoticeFetchTimeout", NoticeFetchTimeout, 500 * time.Millisecond, 10 * time.Second},

		// Command timeouts
		{"CommandTimeout", CommandTimeout, 1 * time.Minute, 30 * time.Minute},
		{"TriggerCommandTimeout", TriggerCommandTimeout, 30 * time.Second, 10 * time.Minute},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 15 * time.Second, 60 * time.Second},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 300 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 5 * time.Second, 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestNoticeFetchFitsInsidePollInterval(t *testing.T) {
	// A fetch must never outlive the cadence that schedules it.
	if NoticeFetchTimeout >= PollInterval {
		t.Errorf("NoticeFetchTimeout (%v) must be shorter than PollInterval (%v)",
			NoticeFetchTimeout, PollInterval)
	}
}
