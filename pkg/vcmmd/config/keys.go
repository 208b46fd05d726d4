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

package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key identifies a single VE configuration parameter. The set of keys
// is fixed; a key is either numeric- or string-typed and an entry for
// it must be of the matching kind.
type Key uint16

const (
	// KeyGuarantee is the VE memory best-effort protection, in bytes.
	// A VE is given at least this much memory unless things get really
	// bad on the host.
	KeyGuarantee Key = iota
	// KeyLimit is the VE memory limit, in bytes. Must be >= guarantee.
	KeyLimit
	// KeySwap is the VE swap hard limit, in bytes.
	KeySwap
	// KeyVRAM is the amount of physical memory consumed by the VE video
	// adapters, in bytes.
	KeyVRAM
	// KeyNodeList is the list of host NUMA nodes the VE is allowed on.
	KeyNodeList
	// KeyCPUList is the list of host CPUs the VE is allowed on.
	KeyCPUList

	// KeyCount is the number of known configuration keys.
	KeyCount = int(KeyCPUList) + 1
)

var (
	keyToString = map[Key]string{
		KeyGuarantee: "guarantee",
		KeyLimit:     "limit",
		KeySwap:      "swap",
		KeyVRAM:      "vram",
		KeyNodeList:  "node.list",
		KeyCPUList:   "cpu.list",
	}
	stringToKey = map[string]Key{
		"guarantee": KeyGuarantee,
		"limit":     KeyLimit,
		"swap":      KeySwap,
		"vram":      KeyVRAM,
		"node.list": KeyNodeList,
		"cpu.list":  KeyCPUList,
	}
	stringTyped = map[Key]struct{}{
		KeyNodeList: {},
		KeyCPUList:  {},
	}
)

// ParseKey parses the given string into a configuration key.
func ParseKey(str string) (Key, error) {
	if k, ok := stringToKey[strings.ToLower(str)]; ok {
		return k, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidKey, str)
}

// MustParseKey parses the given string into a configuration key.
// It panicks on failure.
func MustParseKey(str string) Key {
	k, err := ParseKey(str)
	if err == nil {
		return k
	}

	panic(err)
}

// IsValid returns true if the key is a known configuration key.
func (k Key) IsValid() bool {
	_, ok := keyToString[k]
	return ok
}

// IsString returns true if the key is string-typed.
func (k Key) IsString() bool {
	_, ok := stringTyped[k]
	return ok
}

// String returns a string representation of the key.
func (k Key) String() string {
	if str, ok := keyToString[k]; ok {
		return str
	}

	return fmt.Sprintf("%%!(config:Bad-Key %d)", uint16(k))
}

// MarshalJSON is the json.Marshaller for Key.
func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON is the json.Unmarshaller for Key.
func (k *Key) UnmarshalJSON(data []byte) error {
	i := 0
	if err := json.Unmarshal(data, &i); err == nil {
		if !Key(i).IsValid() {
			return fmt.Errorf("%w: %d", ErrInvalidKey, i)
		}
		*k = Key(i)
		return nil
	}

	str := ""
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	parsed, err := ParseKey(str)
	if err != nil {
		return err
	}

	*k = parsed
	return nil
}
