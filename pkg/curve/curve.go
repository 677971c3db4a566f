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

// Package curve maps a machine's total memory to a kernel freeze timeout
// through an administrator-supplied piecewise range table.
//
// The table is parsed once at startup from a configuration string of
// comma-separated entries in "<low>-<high>:<timeout>" form, where <high> may
// be empty to mean "unbounded". Range bounds are in gibibytes. Ranges may
// overlap (the first matching entry wins) and may leave gaps (a memory value
// inside a gap yields no result rather than an error or a default).
package curve

import (
	"fmt"
	"strconv"
	"strings"
)

// GiB is the unit used by range bounds in the curve configuration string.
const GiB = 1 << 30

// Range is a single [Low, High) entry of the curve, bounds in gibibytes.
// An Unbounded range matches every value at or above Low.
type Range struct {
	Low       uint64
	High      uint64
	Unbounded bool
	Timeout   int
}

// Curve is an ordered sequence of ranges. Entries are evaluated in the order
// they appeared in the configuration string, never sorted.
type Curve []Range

// Parse parses a curve configuration string. Malformed entries are a
// configuration error and fail fast; they are never silently defaulted.
func Parse(s string) (Curve, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("curve string is empty")
	}

	entries := strings.Split(s, ",")
	c := make(Curve, 0, len(entries))

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)

		rangePart, timeoutPart, found := strings.Cut(entry, ":")
		if !found {
			return nil, fmt.Errorf("curve entry %q: missing ':' separator", entry)
		}

		lowPart, highPart, found := strings.Cut(rangePart, "-")
		if !found {
			return nil, fmt.Errorf("curve entry %q: missing '-' separator", entry)
		}

		low, err := strconv.ParseUint(lowPart, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("curve entry %q: invalid lower bound: %w", entry, err)
		}

		r := Range{Low: low}
		if highPart == "" {
			r.Unbounded = true
		} else {
			high, err := strconv.ParseUint(highPart, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("curve entry %q: invalid upper bound: %w", entry, err)
			}
			if high <= low {
				return nil, fmt.Errorf("curve entry %q: upper bound must exceed lower bound", entry)
			}
			r.High = high
		}

		timeout, err := strconv.Atoi(timeoutPart)
		if err != nil {
			return nil, fmt.Errorf("curve entry %q: invalid timeout: %w", entry, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("curve entry %q: timeout must be positive", entry)
		}
		r.Timeout = timeout

		c = append(c, r)
	}

	return c, nil
}

// Timeout returns the freeze timeout for the given memory size in bytes.
// Memory is converted to whole gibibytes before matching. The second return
// value is false when no range contains the value; callers must treat that
// as "do not override the default timeout".
func (c Curve) Timeout(memoryBytes uint64) (int, bool) {
	memGiB := memoryBytes / GiB

	for _, r := range c {
		if memGiB < r.Low {
			continue
		}
		if r.Unbounded || memGiB < r.High {
			return r.Timeout, true
		}
	}

	return 0, false
}
