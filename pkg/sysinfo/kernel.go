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

package sysinfo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/NVIDIA/hibernate-agent/pkg/command"
)

var freezeTimeoutPath = "/sys/power/pm_freeze_timeout"

// Tuner applies kernel parameters needed before hibernation. Both operations
// run once at startup; tests substitute a Noop.
type Tuner interface {
	// SetFreezeTimeout bounds the hibernation freeze phase, in seconds.
	SetFreezeTimeout(ctx context.Context, seconds int) error
	// UpdateSwapOffset points the kernel's resume machinery at the swap
	// backing store.
	UpdateSwapOffset(ctx context.Context) error
}

type kernelTuner struct {
	offsetCommand string
	commands      command.Runner
}

// NewTuner returns a Tuner that writes kernel interface files directly and
// delegates the swap-offset update to the configured external command.
func NewTuner(offsetCommand string, commands command.Runner) Tuner {
	if commands == nil {
		commands = command.NewRunner()
	}
	return &kernelTuner{
		offsetCommand: offsetCommand,
		commands:      commands,
	}
}

func (t *kernelTuner) SetFreezeTimeout(_ context.Context, seconds int) error {
	// The kernel interface takes milliseconds.
	value := strconv.Itoa(seconds * 1000)
	if err := os.WriteFile(freezeTimeoutPath, []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", freezeTimeoutPath, err)
	}

	slog.Info("freeze timeout applied",
		"path", freezeTimeoutPath,
		"seconds", seconds)
	return nil
}

func (t *kernelTuner) UpdateSwapOffset(ctx context.Context) error {
	if t.offsetCommand == "" {
		slog.Debug("no swap offset command configured, skipping")
		return nil
	}
	return t.commands.Run(ctx, t.offsetCommand)
}

// Noop is a Tuner that does nothing, for tests and dry runs.
type Noop struct{}

// SetFreezeTimeout implements Tuner.
func (Noop) SetFreezeTimeout(context.Context, int) error { return nil }

// UpdateSwapOffset implements Tuner.
func (Noop) UpdateSwapOffset(context.Context) error { return nil }
