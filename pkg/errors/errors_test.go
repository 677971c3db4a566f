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

package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfiguration, "curve string is malformed")

	if err.Code != ErrCodeConfiguration {
		t.Errorf("expected code %s, got %s", ErrCodeConfiguration, err.Code)
	}
	if err.Message != "curve string is malformed" {
		t.Errorf("expected message 'curve string is malformed', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "operation failed", cause)

	if err.Code != ErrCodeInternal {
		t.Errorf("expected code %s, got %s", ErrCodeInternal, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("exit status 1")
	ctx := map[string]interface{}{
		"command": "/sbin/mkswap /swap",
		"output":  "mkswap: cannot open /swap",
	}

	err := WrapWithContext(ErrCodeExternalCommand, "prepare command failed", cause, ctx)

	if err.Code != ErrCodeExternalCommand {
		t.Errorf("expected code %s, got %s", ErrCodeExternalCommand, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["command"] != "/sbin/mkswap /swap" {
		t.Errorf("expected command to be /sbin/mkswap /swap")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeProgramming, "already started"),
			expected: "[PROGRAMMING] already started",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should work with Unwrap")
	}
}

func TestIsCode(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeTransport, "notice fetch failed", cause)

	if !IsCode(err, ErrCodeTransport) {
		t.Error("expected IsCode to match the carried code")
	}
	if IsCode(err, ErrCodeConfiguration) {
		t.Error("expected IsCode to reject a different code")
	}
	if IsCode(cause, ErrCodeTransport) {
		t.Error("expected IsCode to reject a plain error")
	}
	if IsCode(nil, ErrCodeTransport) {
		t.Error("expected IsCode to reject nil")
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeConfiguration,
		ErrCodeExternalCommand,
		ErrCodeTransport,
		ErrCodeProgramming,
		ErrCodeInternal,
		ErrCodeRateLimitExceeded,
	}

	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
	}
}
