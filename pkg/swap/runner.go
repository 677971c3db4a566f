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
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/NVIDIA/hibernate-agent/pkg/errors"
)

type runnerState int32

const (
	stateNotStarted runnerState = iota
	stateRunning
	stateFinished
)

// BackgroundRunner runs a Worker's InitSwap and TurnOnSwap sequence on a
// single background goroutine. TurnOnSwap is invoked exactly once, only after
// InitSwap has returned; there is no cancellation path, only acceleration via
// the worker's hurry flag. The goroutine's outcome is captured and surfaced
// to whichever caller first observes completion.
type BackgroundRunner struct {
	worker Worker

	state atomic.Int32
	done  chan struct{}

	// err is written by the background goroutine before done is closed and
	// read only after done is observed closed.
	err error

	// errDelivered ensures a captured error is surfaced exactly once, on the
	// first CheckFinished or ForceCompletion call that observes completion.
	errDelivered atomic.Bool
}

// NewBackgroundRunner wraps a Worker. The runner owns the background
// goroutine for the lifetime of the init sequence.
func NewBackgroundRunner(worker Worker) *BackgroundRunner {
	return &BackgroundRunner{
		worker: worker,
		done:   make(chan struct{}),
	}
}

// StartInit transitions the runner to running and spawns the background
// goroutine. Starting twice is a programming error.
func (r *BackgroundRunner) StartInit(ctx context.Context) error {
	if !r.state.CompareAndSwap(int32(stateNotStarted), int32(stateRunning)) {
		return errors.New(errors.ErrCodeProgramming,
			"background initializer already started")
	}

	go func() {
		defer func() {
			r.state.Store(int32(stateFinished))
			close(r.done)
		}()

		if err := r.worker.InitSwap(ctx); err != nil {
			r.err = err
			return
		}
		if err := r.worker.TurnOnSwap(ctx); err != nil {
			r.err = err
		}
	}()

	return nil
}

// CheckFinished reports whether the background sequence has completed. It
// never blocks. A captured error is returned on the first call that observes
// completion and on no call after that.
func (r *BackgroundRunner) CheckFinished() (bool, error) {
	select {
	case <-r.done:
	default:
		return false, nil
	}

	return true, r.takeErr()
}

// ForceCompletion sets the worker's hurry flag and blocks until the
// background sequence finishes. When it returns, TurnOnSwap has run (or the
// captured error is returned). There is deliberately no timeout: the
// accelerated fill loop bounds the wait in practice, and activating swap
// must never race with a partially written backing store.
func (r *BackgroundRunner) ForceCompletion() error {
	if runnerState(r.state.Load()) == stateNotStarted {
		return errors.New(errors.ErrCodeProgramming,
			"force completion requested before start")
	}

	slog.Info("forcing swap initialization to complete")
	forcedCompletions.Inc()
	r.worker.SetNeedToHurry(true)

	<-r.done

	return r.takeErr()
}

// takeErr returns the captured error if it has not been delivered yet.
func (r *BackgroundRunner) takeErr() error {
	if r.err != nil && r.errDelivered.CompareAndSwap(false, true) {
		return r.err
	}
	return nil
}
