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

package vcmmd

import (
	"errors"
)

// Code is a vcmmd result code. Zero is success. Service codes, the
// semantic rejections produced by the daemon, start at 1; library
// codes, the failures detected locally without contacting the daemon,
// start at 1000. Both bands are open-ended upward so new codes can be
// appended without renumbering.
type Code int32

const (
	// CodeSuccess reports a successful operation.
	CodeSuccess Code = 0

	// CodeInvalidVEName is reported for a malformed or empty VE name.
	CodeInvalidVEName Code = 1
	// CodeInvalidVEType is reported for an unknown VE type.
	CodeInvalidVEType Code = 2
	// CodeInvalidVEConfig is reported for conflicting VE config parameters.
	CodeInvalidVEConfig Code = 3
	// CodeVENameAlreadyInUse is reported when registering a name twice.
	CodeVENameAlreadyInUse Code = 4
	// CodeVENotRegistered is reported for operations on unknown VEs.
	CodeVENotRegistered Code = 5
	// CodeVEAlreadyActive is reported when activating an active VE.
	CodeVEAlreadyActive Code = 6
	// CodeVEOperationFailed is reported when the daemon fails to apply
	// an otherwise valid request.
	CodeVEOperationFailed Code = 7
	// CodeUnableToApplyVEGuarantee is reported when the daemon cannot
	// meet the memory requirements claimed by the VE.
	CodeUnableToApplyVEGuarantee Code = 8
	// CodeVENotActive is reported for update/deactivate of inactive VEs.
	CodeVENotActive Code = 9
	// CodeTooManyRequests is reported when the daemon sheds load.
	CodeTooManyRequests Code = 10

	// CodeNoMemory is reported when a request cannot be built.
	CodeNoMemory Code = 1000
	// CodeConnectionFailed is reported for any transport failure,
	// including replies that cannot be decoded.
	CodeConnectionFailed Code = 1001
)

const (
	success = "Success"
	unknown = "Unknown error"
)

var codeStrings = map[Code]string{
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

// Strerror returns a human-readable description for the given result
// code. It is total: zero renders as success and any code outside both
// bands renders as a generic unknown error.
func Strerror(code Code) string {
	if code == CodeSuccess {
		return success
	}
	if str, ok := codeStrings[code]; ok {
		return str
	}
	return unknown
}

// IsServiceCode returns true if the code was assigned to the service band.
func (c Code) IsServiceCode() bool {
	_, ok := codeStrings[c]
	return ok && c < CodeNoMemory
}

// IsLibraryCode returns true if the code was assigned to the library band.
func (c Code) IsLibraryCode() bool {
	_, ok := codeStrings[c]
	return ok && c >= CodeNoMemory
}

// String returns a string representation of the code.
func (c Code) String() string {
	return Strerror(c)
}

// Error is an error carrying a vcmmd result code. Errors with the same
// code compare equal under errors.Is regardless of wrapping.
type Error struct {
	code Code
}

// Known result codes as errors.
var (
	ErrInvalidVEName            = &Error{CodeInvalidVEName}
	ErrInvalidVEType            = &Error{CodeInvalidVEType}
	ErrInvalidVEConfig          = &Error{CodeInvalidVEConfig}
	ErrVENameAlreadyInUse       = &Error{CodeVENameAlreadyInUse}
	ErrVENotRegistered          = &Error{CodeVENotRegistered}
	ErrVEAlreadyActive          = &Error{CodeVEAlreadyActive}
	ErrVEOperationFailed        = &Error{CodeVEOperationFailed}
	ErrUnableToApplyVEGuarantee = &Error{CodeUnableToApplyVEGuarantee}
	ErrVENotActive              = &Error{CodeVENotActive}
	ErrTooManyRequests          = &Error{CodeTooManyRequests}
	ErrNoMemory                 = &Error{CodeNoMemory}
	ErrConnectionFailed         = &Error{CodeConnectionFailed}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return Strerror(e.code)
}

// Code returns the result code carried by the error.
func (e *Error) Code() Code {
	return e.code
}

// Is makes errors with equal codes match under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code == e.code
}

// CodeOf returns the merged numeric outcome of an operation: zero for
// a nil error, the carried code for result-code errors, and connection
// failure for anything else.
func CodeOf(err error) Code {
	if err == nil {
		return CodeSuccess
	}

	e := &Error{}
	if errors.As(err, &e) {
		return e.code
	}

	return CodeConnectionFailed
}

// codeError returns nil for a zero result code and the error for the
// code otherwise.
func codeError(code int32) error {
	if code == 0 {
		return nil
	}
	return &Error{Code(code)}
}
