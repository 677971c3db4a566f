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

// Package poller watches an instance-metadata notice source for an impending
// interruption and reacts to the first notice by forcing swap initialization
// to complete and firing the configured trigger command exactly once.
//
// A "not found" (404) response means no notice. A failed fetch is NOT a
// notice: transport errors are logged and swallowed so the caller's scheduler
// keeps polling. Any other response, regardless of payload, is a notice.
package poller

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/NVIDIA/hibernate-agent/pkg/command"
	"github.com/NVIDIA/hibernate-agent/pkg/defaults"
)

// CompletionWaiter is the slice of the background runner the poller needs:
// a non-blocking completion check and a blocking force-completion.
type CompletionWaiter interface {
	CheckFinished() (bool, error)
	ForceCompletion() error
}

// Poller performs one notice fetch per loop iteration. It holds a reference
// to, not ownership of, the background runner.
type Poller struct {
	noticeURL      string
	triggerCommand string
	runner         CompletionWaiter
	commands       command.Runner
	client         *http.Client

	// triggered is set at most once per process lifetime. Only the poll
	// goroutine touches it.
	triggered bool
}

// Option configures a Poller.
type Option func(*Poller)

// WithHTTPClient replaces the notice-fetch HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Poller) {
		p.client = c
	}
}

// WithCommandRunner replaces the trigger command runner.
func WithCommandRunner(r command.Runner) Option {
	return func(p *Poller) {
		p.commands = r
	}
}

// New returns a Poller watching noticeURL. On the first notice it forces
// completion on runner and then executes triggerCommand.
func New(noticeURL, triggerCommand string, runner CompletionWaiter, opts ...Option) *Poller {
	p := &Poller{
		noticeURL:      noticeURL,
		triggerCommand: triggerCommand,
		runner:         runner,
		commands: command.NewRunner(
			command.WithTimeout(defaults.TriggerCommandTimeout)),
		client: &http.Client{Timeout: defaults.NoticeFetchTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Triggered reports whether the trigger path has already run.
func (p *Poller) Triggered() bool {
	return p.triggered
}

// RunLoopIteration performs one fetch against the notice source and reacts
// to it. The caller owns the cadence. Errors returned here are fatal
// (forced-completion or trigger failures); transport problems are not errors.
func (p *Poller) RunLoopIteration(ctx context.Context) error {
	pollsTotal.Inc()

	if !p.fetchNotice(ctx) {
		return nil
	}

	if p.triggered {
		// Triggering twice must never happen.
		slog.Debug("interruption notice already handled")
		return nil
	}
	p.triggered = true
	noticesTotal.Inc()

	slog.Info("interruption notice received, forcing swap initialization",
		"url", p.noticeURL)

	if err := p.runner.ForceCompletion(); err != nil {
		return err
	}

	slog.Info("swap ready, executing hibernation trigger",
		"command", p.triggerCommand)

	return p.commands.Run(ctx, p.triggerCommand)
}

// fetchNotice reports whether the notice source currently signals an
// interruption. The absence of a usable response is treated as no notice.
func (p *Poller) fetchNotice(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.noticeURL, nil)
	if err != nil {
		slog.Warn("failed to build notice request", "url", p.noticeURL, "error", err)
		fetchFailures.Inc()
		return false
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		slog.Warn("notice fetch failed, treating as no notice",
			"url", p.noticeURL,
			"duration", time.Since(start),
			"error", err)
		fetchFailures.Inc()
		return false
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	// Body content is not interpreted; only the status matters.
	return resp.StatusCode != http.StatusNotFound
}
