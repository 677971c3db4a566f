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

import "time"

// Poller cadence and notice fetch parameters.
const (
	// PollInterval is the default cadence at which the agent checks the
	// notice source for an interruption signal.
	PollInterval = 5 * time.Second

	// NoticeFetchTimeout bounds a single notice fetch. The notice endpoint
	// is link-local metadata; anything slower is treated as no notice.
	NoticeFetchTimeout = 2 * time.Second
)

// External command timeouts.
const (
	// CommandTimeout bounds prepare, activate, and swap-offset commands.
	// Preparing a large swap area is disk bound and can legitimately be slow.
	CommandTimeout = 10 * time.Minute

	// TriggerCommandTimeout bounds the hibernation trigger command.
	TriggerCommandTimeout = 2 * time.Minute
)

// Server timeouts for the observability HTTP server.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 10 * time.Second
)
