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

package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDMiddleware(t *testing.T) {
	s := New(nil)

	handler := s.requestIDMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Context().Value(contextKeyRequestID) == nil {
			t.Error("expected request ID in context")
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("generates when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()

		handler(w, req)

		if w.Header().Get("X-Request-Id") == "" {
			t.Error("expected generated request ID header")
		}
	})

	t.Run("preserves valid IDs", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.Header.Set("X-Request-Id", "c07e5f40-1f5e-4cf5-8efb-56cbb0a1f1c0")
		w := httptest.NewRecorder()

		handler(w, req)

		if got := w.Header().Get("X-Request-Id"); got != "c07e5f40-1f5e-4cf5-8efb-56cbb0a1f1c0" {
			t.Errorf("expected request ID to be preserved, got %q", got)
		}
	})

	t.Run("replaces invalid IDs", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.Header.Set("X-Request-Id", "not-a-uuid")
		w := httptest.NewRecorder()

		handler(w, req)

		if got := w.Header().Get("X-Request-Id"); got == "not-a-uuid" || got == "" {
			t.Errorf("expected invalid request ID to be replaced, got %q", got)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 2
	s := New(cfg)

	handler := s.withMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rejected := 0
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()
		handler(w, req)
		if w.Code == http.StatusTooManyRequests {
			rejected++
		}
	}

	if rejected == 0 {
		t.Error("expected some requests to be rate limited")
	}
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	s := New(nil)

	handler := s.withMiddleware(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}
