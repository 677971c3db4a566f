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

// Package swap prepares a swap backing store for suspend-to-disk hibernation.
//
// Initializer writes the store block by block and invokes the configured
// prepare and activate commands. BackgroundRunner moves that work onto a
// background goroutine and exposes a non-blocking completion check plus a
// blocking "force completion now" operation for the interruption path.
//
// There is no cancellation: an interruption does not abort the allocation,
// it accelerates it (zero-filled blocks from that point forward) and waits
// for natural completion. That is the only ordering that guarantees swap is
// never activated over a partially written store.
package swap
