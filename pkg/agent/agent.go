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

// Package agent wires the hibernation preparation pipeline together: kernel
// tuning at startup, background swap initialization, the interrupt poll loop,
// and the observability server.
package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/hibernate-agent/pkg/command"
	"github.com/NVIDIA/hibernate-agent/pkg/config"
	"github.com/NVIDIA/hibernate-agent/pkg/poller"
	"github.com/NVIDIA/hibernate-agent/pkg/server"
	"github.com/NVIDIA/hibernate-agent/pkg/swap"
	"github.com/NVIDIA/hibernate-agent/pkg/sysinfo"
)

// Agent runs the hibernation preparation control loop. Exactly two lines of
// execution matter: the poll loop and the one background goroutine owned by
// the swap runner.
type Agent struct {
	cfg     *config.Config
	version string

	commands    command.Runner
	tuner       sysinfo.Tuner
	totalMemory func() (uint64, error)
	sdNotify    func(state string)
}

// Option configures an Agent, mainly to substitute collaborators in tests.
type Option func(*Agent)

// WithCommandRunner replaces the external command runner.
func WithCommandRunner(r command.Runner) Option {
	return func(a *Agent) {
		a.commands = r
	}
}

// WithTuner replaces the kernel tuner.
func WithTuner(t sysinfo.Tuner) Option {
	return func(a *Agent) {
		a.tuner = t
	}
}

// WithTotalMemoryFunc replaces total memory detection.
func WithTotalMemoryFunc(f func() (uint64, error)) Option {
	return func(a *Agent) {
		a.totalMemory = f
	}
}

// New creates an Agent from a validated configuration.
func New(cfg *config.Config, version string, opts ...Option) *Agent {
	a := &Agent{
		cfg:         cfg,
		version:     version,
		commands:    command.NewRunner(),
		totalMemory: sysinfo.TotalMemory,
		sdNotify: func(state string) {
			// Best effort; a missing NOTIFY_SOCKET is normal outside systemd.
			if _, err := daemon.SdNotify(false, state); err != nil {
				slog.Warn("sd_notify failed", "error", err)
			}
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.tuner == nil {
		a.tuner = sysinfo.NewTuner(cfg.SwapOffsetCommand, a.commands)
	}
	return a
}

// Run prepares the instance for hibernation and polls for an interruption
// notice until ctx is canceled or a fatal error surfaces.
func (a *Agent) Run(ctx context.Context) error {
	if err := a.applyKernelSettings(ctx); err != nil {
		return err
	}

	initializer, err := swap.NewInitializer(
		a.cfg.SwapFile,
		a.cfg.SwapSizeBytes(),
		a.cfg.PrepareCommand,
		a.cfg.ActivateCommand,
		a.commands,
	)
	if err != nil {
		return err
	}

	runner := swap.NewBackgroundRunner(initializer)
	if err := runner.StartInit(ctx); err != nil {
		return err
	}

	p := poller.New(a.cfg.NoticeURL, a.cfg.TriggerCommand, runner,
		poller.WithCommandRunner(a.commands))

	srvCfg := server.DefaultConfig()
	srvCfg.Name = "hiberd"
	srvCfg.Version = a.version
	srvCfg.Port = a.cfg.Port
	srv := server.New(srvCfg)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Start(gctx)
	})

	g.Go(func() error {
		return a.pollLoop(gctx, p, runner, srv)
	})

	a.sdNotify(daemon.SdNotifyReady)
	defer a.sdNotify(daemon.SdNotifyStopping)

	slog.Info("agent running",
		"noticeURL", a.cfg.NoticeURL,
		"pollInterval", a.cfg.PollInterval,
		"swapFile", a.cfg.SwapFile,
		"swapSize", a.cfg.SwapSizeBytes())

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("agent stopped gracefully")
	return nil
}

// applyKernelSettings sizes the freeze timeout from total memory and points
// the kernel's resume machinery at the swap backing store. Runs once, before
// any background work starts.
func (a *Agent) applyKernelSettings(ctx context.Context) error {
	if crv := a.cfg.FreezeCurve(); crv != nil {
		memory, err := a.totalMemory()
		if err != nil {
			return err
		}

		if timeout, ok := crv.Timeout(memory); ok {
			if err := a.tuner.SetFreezeTimeout(ctx, timeout); err != nil {
				return err
			}
		} else {
			// A gap in the curve means "keep the kernel default".
			slog.Info("no freeze timeout override for this memory size",
				"memoryBytes", memory)
		}
	}

	return a.tuner.UpdateSwapOffset(ctx)
}

// pollLoop drives one poll iteration per tick. It also watches for the
// background initialization finishing so readiness and captured errors are
// observed promptly.
func (a *Agent) pollLoop(ctx context.Context, p *poller.Poller, runner *swap.BackgroundRunner, srv *server.Server) error {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	swapReady := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !swapReady {
				finished, err := runner.CheckFinished()
				if err != nil {
					return err
				}
				if finished {
					swapReady = true
					srv.SetReady(true)
					slog.Info("swap initialized and activated", "path", a.cfg.SwapFile)
				}
			}

			if err := p.RunLoopIteration(ctx); err != nil {
				return err
			}
		}
	}
}
