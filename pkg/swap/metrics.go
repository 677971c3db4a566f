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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hiberd_swap_bytes_written_total",
			Help: "Total number of bytes written to the swap backing store",
		},
	)

	allocDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hiberd_swap_allocation_duration_seconds",
			Help:    "Time spent allocating the swap backing store",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
		},
	)

	forcedCompletions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hiberd_swap_forced_completions_total",
			Help: "Total number of times swap initialization was forced to complete early",
		},
	)
)
