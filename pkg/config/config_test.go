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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/hibernate-agent/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(4)<<30, cfg.SwapSizeBytes())
	assert.Nil(t, cfg.FreezeCurve())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hiberd.yaml")
	content := `
swapFile: /mnt/swapfile
swapSize: 512MiB
prepareCommand: /sbin/mkswap /mnt/swapfile
activateCommand: /sbin/swapon /mnt/swapfile
triggerCommand: /usr/sbin/pm-hibernate
noticeURL: http://169.254.169.254/latest/meta-data/spot/termination-time
freezeTimeoutCurve: "0-8:20,8-16:40,16-:60"
pollInterval: 2s
port: 9090
logLevel: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/mnt/swapfile", cfg.SwapFile)
	assert.Equal(t, int64(512)<<20, cfg.SwapSizeBytes())
	assert.Equal(t, "/usr/sbin/pm-hibernate", cfg.TriggerCommand)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)

	timeout, ok := cfg.FreezeCurve().Timeout(12 << 30)
	require.True(t, ok)
	assert.Equal(t, 40, timeout)
}

func TestLoadMissingFileFailsFast(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfiguration))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty swap file", mutate: func(c *Config) { c.SwapFile = "" }},
		{name: "bad swap size", mutate: func(c *Config) { c.SwapSize = "many bytes" }},
		{name: "negative swap size", mutate: func(c *Config) { c.SwapSize = "-1g" }},
		{name: "missing prepare command", mutate: func(c *Config) { c.PrepareCommand = "" }},
		{name: "missing activate command", mutate: func(c *Config) { c.ActivateCommand = "" }},
		{name: "missing trigger command", mutate: func(c *Config) { c.TriggerCommand = "" }},
		{name: "bad notice URL", mutate: func(c *Config) { c.NoticeURL = "not a url" }},
		{name: "malformed curve", mutate: func(c *Config) { c.FreezeTimeoutCurve = "0-8" }},
		{name: "zero poll interval", mutate: func(c *Config) { c.PollInterval = 0 }},
		{name: "port out of range", mutate: func(c *Config) { c.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeConfiguration),
				"expected CONFIGURATION code, got %v", err)
		})
	}
}
