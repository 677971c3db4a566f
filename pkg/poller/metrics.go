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

package poller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hiberd_notice_polls_total",
			Help: "Total number of notice source poll iterations",
		},
	)

	fetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hiberd_notice_fetch_failures_total",
			Help: "Total number of notice fetches that failed at the transport level",
		},
	)

	noticesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hiberd_interruption_notices_total",
			Help: "Total number of interruption notices acted upon",
		},
	)
)
