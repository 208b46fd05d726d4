// Copyright The libvcmmd Authors. All Rights Reserved.
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

package vcmmd_test

import (
	. "github.com/openvz/libvcmmd-go/pkg/vcmmd"

	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrerror(t *testing.T) {
	require.Equal(t, "Success", Strerror(CodeSuccess))

	known := map[Code]string{
		CodeInvalidVEName:            "Invalid VE name",
		CodeInvalidVEType:            "Invalid VE type",
		CodeInvalidVEConfig:          "Conflicting VE config parameters",
		CodeVENameAlreadyInUse:       "VE name already in use",
		CodeVENotRegistered:          "VE not registered",
		CodeVEAlreadyActive:          "VE already active",
		CodeVEOperationFailed:        "VE operation failed",
		CodeUnableToApplyVEGuarantee: "Unable to meet VE requirements",
		CodeVENotActive:              "VE not active",
		CodeTooManyRequests:          "Too many requests",
		CodeNoMemory:                 "Failed to allocate memory",
		CodeConnectionFailed:         "Failed to connect to VCMMD service",
	}
	for code, expected := range known {
		require.Equal(t, expected, Strerror(code), "code %d", code)
	}

	// total over the whole integer range, generic outside both bands
	for _, code := range []Code{-1, 11, 42, 999, 1002, 1 << 20} {
		require.Equal(t, "Unknown error", Strerror(code), "code %d", code)
	}
}

func TestCodeBands(t *testing.T) {
	require.True(t, CodeInvalidVEName.IsServiceCode())
	require.True(t, CodeTooManyRequests.IsServiceCode())
	require.False(t, CodeNoMemory.IsServiceCode())

	require.True(t, CodeNoMemory.IsLibraryCode())
	require.True(t, CodeConnectionFailed.IsLibraryCode())
	require.False(t, CodeVENotRegistered.IsLibraryCode())

	require.False(t, Code(999).IsServiceCode())
	require.False(t, Code(999).IsLibraryCode())
	require.False(t, CodeSuccess.IsServiceCode())
}

func TestErrorMatching(t *testing.T) {
	require.EqualError(t, ErrVENotRegistered, "VE not registered")
	require.Equal(t, CodeVENotRegistered, ErrVENotRegistered.Code())

	// errors with the same code match regardless of wrapping
	wrapped := fmt.Errorf("register failed: %w", ErrVENameAlreadyInUse)
	require.ErrorIs(t, wrapped, ErrVENameAlreadyInUse)
	require.False(t, errors.Is(wrapped, ErrVENotRegistered))
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, CodeSuccess, CodeOf(nil))
	require.Equal(t, CodeVENotActive, CodeOf(ErrVENotActive))
	require.Equal(t, CodeVEOperationFailed,
		CodeOf(fmt.Errorf("update: %w", ErrVEOperationFailed)))

	// anything outside the error domain is a connection failure
	require.Equal(t, CodeConnectionFailed, CodeOf(errors.New("socket closed")))
}
