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

package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/NVIDIA/hibernate-agent/pkg/config"
	"github.com/NVIDIA/hibernate-agent/pkg/sysinfo"
)

// recordingRunner records command invocations instead of executing them.
type recordingRunner struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingRunner) Run(_ context.Context, commandLine string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, commandLine)
	return nil
}

func (r *recordingRunner) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func testConfig(t *testing.T, noticeURL string) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.SwapFile = filepath.Join(t.TempDir(), "swapfile")
	cfg.SwapSize = "64KiB"
	cfg.PrepareCommand = "mkswap-stub"
	cfg.ActivateCommand = "swapon-stub"
	cfg.TriggerCommand = "hibernate-stub"
	cfg.NoticeURL = noticeURL
	cfg.PollInterval = 10 * time.Millisecond
	cfg.Port = 0 // random free port
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config is invalid: %v", err)
	}
	return cfg
}

func TestRunWithoutNotice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	commands := &recordingRunner{}

	a := New(cfg, "test",
		WithCommandRunner(commands),
		WithTuner(sysinfo.Noop{}),
		WithTotalMemoryFunc(func() (uint64, error) { return 16 << 30, nil }))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	calls := commands.recorded()
	if len(calls) != 2 || calls[0] != "mkswap-stub" || calls[1] != "swapon-stub" {
		t.Errorf("expected prepare then activate, got %v", calls)
	}
}

func TestRunTriggersOnNotice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	commands := &recordingRunner{}

	a := New(cfg, "test",
		WithCommandRunner(commands),
		WithTuner(sysinfo.Noop{}),
		WithTotalMemoryFunc(func() (uint64, error) { return 16 << 30, nil }))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	var triggers int
	for _, call := range commands.recorded() {
		if call == "hibernate-stub" {
			triggers++
		}
	}
	if triggers != 1 {
		t.Errorf("trigger command ran %d times, want exactly 1", triggers)
	}
}
