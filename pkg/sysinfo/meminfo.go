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

// Package sysinfo reads the machine facts the agent needs (total memory) and
// applies the kernel parameters hibernation depends on (freeze timeout, swap
// offset).
package sysinfo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NVIDIA/hibernate-agent/pkg/sysfile"
)

var meminfoPath = "/proc/meminfo"

// TotalMemory returns the machine's total memory in bytes, read from
// /proc/meminfo.
func TotalMemory() (uint64, error) {
	m, err := sysfile.NewParser(sysfile.WithKVDelimiter(":")).GetMap(meminfoPath)
	if err != nil {
		return 0, err
	}

	raw, ok := m["MemTotal"]
	if !ok {
		return 0, fmt.Errorf("MemTotal not found in %s", meminfoPath)
	}

	// Value is of the form "16337932 kB".
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, fmt.Errorf("MemTotal entry %q is empty", raw)
	}

	kb, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse MemTotal %q: %w", raw, err)
	}
	if len(fields) > 1 && !strings.EqualFold(fields[1], "kb") {
		return 0, fmt.Errorf("unexpected MemTotal unit in %q", raw)
	}

	return kb * 1024, nil
}
