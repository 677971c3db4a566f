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

// Package command invokes the opaque external commands the agent is
// configured with (prepare, activate, swap-offset, trigger). Commands are
// given as single shell-quoted strings and executed directly, without a
// shell. A non-zero exit is a fatal EXTERNAL_COMMAND error; there is no retry.
package command

import (
	"context"
	"log/slog"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/NVIDIA/hibernate-agent/pkg/defaults"
	"github.com/NVIDIA/hibernate-agent/pkg/errors"
)

// Runner executes a configured external command to completion.
type Runner interface {
	Run(ctx context.Context, commandLine string) error
}

// Option configures an exec-backed Runner.
type Option func(*execRunner)

// WithTimeout overrides the per-command timeout.
// Default is defaults.CommandTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *execRunner) {
		r.timeout = d
	}
}

type execRunner struct {
	timeout time.Duration
}

// NewRunner returns a Runner backed by os/exec.
func NewRunner(opts ...Option) Runner {
	r := &execRunner{
		timeout: defaults.CommandTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run splits the command line into words, executes it, and waits for
// completion. Output is captured and attached to the error on failure.
func (r *execRunner) Run(ctx context.Context, commandLine string) error {
	words, err := shellquote.Split(commandLine)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeConfiguration,
			"command line is not parseable", err,
			map[string]any{"command": commandLine})
	}
	if len(words) == 0 {
		return errors.NewWithContext(errors.ErrCodeConfiguration,
			"command line is empty",
			map[string]any{"command": commandLine})
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, words[0], words[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeExternalCommand,
			"external command failed", err,
			map[string]any{
				"command": commandLine,
				"output":  string(out),
			})
	}

	slog.Debug("external command completed",
		"command", commandLine,
		"duration", time.Since(start))

	return nil
}
