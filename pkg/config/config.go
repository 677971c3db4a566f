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

// Package config loads and validates the agent configuration from a YAML
// file, environment variables, and CLI flag overrides. All validation happens
// before any background work starts; a malformed curve or size fails fast.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	units "github.com/docker/go-units"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/hibernate-agent/pkg/curve"
	"github.com/NVIDIA/hibernate-agent/pkg/defaults"
	"github.com/NVIDIA/hibernate-agent/pkg/errors"
)

// Config holds the agent configuration.
type Config struct {
	// SwapFile is the path of the swap backing store.
	SwapFile string `yaml:"swapFile"`
	// SwapSize is the backing store size, human readable ("4GiB", "512m").
	SwapSize string `yaml:"swapSize"`

	// PrepareCommand marks the backing store ready for use (mkswap).
	PrepareCommand string `yaml:"prepareCommand"`
	// ActivateCommand turns swap on (swapon).
	ActivateCommand string `yaml:"activateCommand"`
	// TriggerCommand is invoked exactly once upon a confirmed interruption.
	TriggerCommand string `yaml:"triggerCommand"`
	// SwapOffsetCommand points the kernel's resume machinery at the backing
	// store. Optional; runs once at startup.
	SwapOffsetCommand string `yaml:"swapOffsetCommand"`

	// NoticeURL is the interruption notice source. A 404 means no notice.
	NoticeURL string `yaml:"noticeURL"`
	// FreezeTimeoutCurve maps total memory (GiB ranges) to a freeze timeout
	// in seconds, e.g. "0-8:20,8-16:40,16-:60". Optional.
	FreezeTimeoutCurve string `yaml:"freezeTimeoutCurve"`

	// PollInterval is the cadence of notice source polls.
	PollInterval time.Duration `yaml:"pollInterval"`
	// Port serves the observability endpoints (health, ready, metrics).
	Port int `yaml:"port"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`

	swapSizeBytes int64
	freezeCurve   curve.Curve
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		SwapFile:        "/swap",
		SwapSize:        "4GiB",
		PrepareCommand:  "/sbin/mkswap /swap",
		ActivateCommand: "/sbin/swapon /swap",
		TriggerCommand:  "/usr/bin/systemctl hibernate",
		NoticeURL:       "http://169.254.169.254/latest/meta-data/spot/instance-action",
		PollInterval:    defaults.PollInterval,
		Port:            8080,
		LogLevel:        "info",
	}
}

// Load builds a configuration from defaults, the optional YAML file at path,
// and environment variable overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration,
				"failed to read config file", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfiguration,
				"failed to parse config file", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides selected settings from the environment.
func (c *Config) applyEnv() {
	if portStr := os.Getenv("PORT"); portStr != "" {
		var port int
		if _, err := fmt.Sscanf(portStr, "%d", &port); err == nil {
			c.Port = port
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

// Validate checks the configuration and resolves derived values. It must be
// called (directly or via Load) before SwapSizeBytes or FreezeCurve.
func (c *Config) Validate() error {
	if c.SwapFile == "" {
		return errors.New(errors.ErrCodeConfiguration, "swapFile is required")
	}

	size, err := units.RAMInBytes(c.SwapSize)
	if err != nil || size <= 0 {
		return errors.WrapWithContext(errors.ErrCodeConfiguration,
			"swapSize is not a valid byte size", err,
			map[string]any{"swapSize": c.SwapSize})
	}
	c.swapSizeBytes = size

	for name, cmd := range map[string]string{
		"prepareCommand":  c.PrepareCommand,
		"activateCommand": c.ActivateCommand,
		"triggerCommand":  c.TriggerCommand,
	} {
		if cmd == "" {
			return errors.New(errors.ErrCodeConfiguration, name+" is required")
		}
	}

	if _, err := url.ParseRequestURI(c.NoticeURL); err != nil {
		return errors.WrapWithContext(errors.ErrCodeConfiguration,
			"noticeURL is not a valid URL", err,
			map[string]any{"noticeURL": c.NoticeURL})
	}

	if c.FreezeTimeoutCurve != "" {
		crv, err := curve.Parse(c.FreezeTimeoutCurve)
		if err != nil {
			return errors.Wrap(errors.ErrCodeConfiguration,
				"freezeTimeoutCurve is malformed", err)
		}
		c.freezeCurve = crv
	}

	if c.PollInterval <= 0 {
		return errors.NewWithContext(errors.ErrCodeConfiguration,
			"pollInterval must be positive",
			map[string]any{"pollInterval": c.PollInterval.String()})
	}

	if c.Port < 0 || c.Port > 65535 {
		return errors.NewWithContext(errors.ErrCodeConfiguration,
			"port is out of range",
			map[string]any{"port": c.Port})
	}

	return nil
}

// SwapSizeBytes returns the resolved swap size in bytes.
func (c *Config) SwapSizeBytes() int64 {
	return c.swapSizeBytes
}

// FreezeCurve returns the parsed freeze timeout curve; nil when unset.
func (c *Config) FreezeCurve() curve.Curve {
	return c.freezeCurve
}
