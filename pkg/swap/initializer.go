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

package swap

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/NVIDIA/hibernate-agent/pkg/command"
	"github.com/NVIDIA/hibernate-agent/pkg/errors"
)

// BlockSize is the unit in which the backing store is written.
const BlockSize = 1024

// fillerByte fills blocks while not hurrying. Content is irrelevant for
// correctness; a repeated printable byte keeps writes cheap and compressible
// without paying for real randomness.
const fillerByte = 'b'

// Worker is the capability the background runner drives. InitSwap allocates
// and prepares the backing store, TurnOnSwap activates it, and SetNeedToHurry
// switches an in-flight allocation to its fastest fill mode.
type Worker interface {
	InitSwap(ctx context.Context) error
	TurnOnSwap(ctx context.Context) error
	SetNeedToHurry(hurry bool)
}

// Initializer owns creation and activation of one swap backing store.
// The target size is fixed at construction; the fill pattern is decided
// per block from the current hurry flag, so an interruption can accelerate
// an allocation that is already underway.
type Initializer struct {
	path            string
	size            int64
	prepareCommand  string
	activateCommand string
	commands        command.Runner

	hurry atomic.Bool
}

// NewInitializer validates the configuration and returns an Initializer.
func NewInitializer(path string, size int64, prepareCommand, activateCommand string, commands command.Runner) (*Initializer, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeConfiguration, "swap file path is empty")
	}
	if size <= 0 {
		return nil, errors.NewWithContext(errors.ErrCodeConfiguration,
			"swap size must be positive",
			map[string]any{"size": size})
	}
	if prepareCommand == "" || activateCommand == "" {
		return nil, errors.New(errors.ErrCodeConfiguration,
			"prepare and activate commands are required")
	}
	if commands == nil {
		commands = command.NewRunner()
	}

	return &Initializer{
		path:            path,
		size:            size,
		prepareCommand:  prepareCommand,
		activateCommand: activateCommand,
		commands:        commands,
	}, nil
}

// SetNeedToHurry switches the fill pattern for all blocks written from this
// point forward. Safe to call from another goroutine mid-allocation; a block
// or two written with the old pattern after the switch is acceptable.
func (i *Initializer) SetNeedToHurry(hurry bool) {
	i.hurry.Store(hurry)
}

// NeedToHurry reports the current value of the hurry flag.
func (i *Initializer) NeedToHurry() bool {
	return i.hurry.Load()
}

// InitSwap allocates the backing store at the configured size and runs the
// prepare command against it. Failure of either step is fatal to the caller.
func (i *Initializer) InitSwap(ctx context.Context) error {
	slog.Info("allocating swap backing store",
		"path", i.path,
		"size", i.size)

	start := time.Now()
	if err := i.allocate(); err != nil {
		return err
	}
	allocDuration.Observe(time.Since(start).Seconds())

	slog.Info("swap backing store allocated",
		"path", i.path,
		"duration", time.Since(start),
		"hurried", i.hurry.Load())

	return i.commands.Run(ctx, i.prepareCommand)
}

// TurnOnSwap runs the activate command. It must only be called after InitSwap
// has returned; the background runner enforces that ordering.
func (i *Initializer) TurnOnSwap(ctx context.Context) error {
	slog.Info("activating swap", "path", i.path)
	return i.commands.Run(ctx, i.activateCommand)
}

// allocate writes the backing store block by block, re-reading the hurry flag
// before each block so acceleration takes effect mid-write.
func (i *Initializer) allocate() error {
	f, err := os.OpenFile(i.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create swap file %s: %w", i.path, err)
	}

	filler := bytes.Repeat([]byte{fillerByte}, BlockSize)
	zeros := make([]byte, BlockSize)

	for written := int64(0); written < i.size; {
		block := filler
		if i.hurry.Load() {
			// All-zero blocks let sparse-capable stores skip real work.
			block = zeros
		}

		if remaining := i.size - written; remaining < BlockSize {
			block = block[:remaining]
		}

		n, err := f.Write(block)
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write swap file %s: %w", i.path, err)
		}
		written += int64(n)
		bytesWritten.Add(float64(n))
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync swap file %s: %w", i.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close swap file %s: %w", i.path, err)
	}

	return nil
}
