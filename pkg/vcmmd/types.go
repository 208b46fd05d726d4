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
	"encoding/json"
	"fmt"
	"strings"
)

// Type represents known types of virtual environments.
type Type int32

const (
	TypeCT        Type = iota // container
	TypeVM                    // virtual machine, guest OS unknown
	TypeVMLinux               // virtual machine with a Linux guest
	TypeVMWindows             // virtual machine with a Windows guest
)

var (
	typeToString = map[Type]string{
		TypeCT:        "CT",
		TypeVM:        "VM",
		TypeVMLinux:   "VM_LINUX",
		TypeVMWindows: "VM_WINDOWS",
	}
	stringToType = map[string]Type{
		"CT":         TypeCT,
		"VM":         TypeVM,
		"VM_LINUX":   TypeVMLinux,
		"VM_WINDOWS": TypeVMWindows,
	}
)

// ParseType parses the given string into a VE type.
func ParseType(str string) (Type, error) {
	if t, ok := stringToType[strings.ToUpper(str)]; ok {
		return t, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidVEType, str)
}

// MustParseType parses the given string into a VE type.
// It panicks on failure.
func MustParseType(str string) Type {
	t, err := ParseType(str)
	if err == nil {
		return t
	}

	panic(err)
}

// IsValid returns true if the VE type is valid/known.
func (t Type) IsValid() bool {
	_, ok := typeToString[t]
	return ok
}

// String returns a string representation of the VE type.
func (t Type) String() string {
	if str, ok := typeToString[t]; ok {
		return str
	}

	return fmt.Sprintf("%%!(vcmmd:Bad-Type %d)", int32(t))
}

// MarshalJSON is the json.Marshaller for Type.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON is the json.Unmarshaller for Type.
func (t *Type) UnmarshalJSON(data []byte) error {
	i := 0
	if err := json.Unmarshal(data, &i); err == nil {
		if !Type(i).IsValid() {
			return fmt.Errorf("%w: %d", ErrInvalidVEType, i)
		}
		*t = Type(i)
		return nil
	}

	str := ""
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVEType, err)
	}

	parsed, err := ParseType(str)
	if err != nil {
		return err
	}

	*t = parsed
	return nil
}
