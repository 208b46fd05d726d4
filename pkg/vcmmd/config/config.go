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

// Package config implements the VE configuration record passed to the
// vcmmd daemon. A record is an ordered set of typed key/value entries
// with at most one entry per key. Keys omitted from a record keep their
// current value in the daemon, or get the daemon default.
package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is a single key/value pair of a configuration record. Value is
// meaningful for numeric-typed keys, Data for string-typed ones.
type Entry struct {
	Key   Key    `json:"key"`
	Value uint64 `json:"value,omitempty"`
	Data  string `json:"data,omitempty"`
}

// Config is an ordered VE configuration record.
type Config struct {
	entries []Entry
}

// New returns a new, empty configuration record.
func New() *Config {
	return &Config{
		entries: make([]Entry, 0, KeyCount),
	}
}

// Append appends a value for the given numeric-typed key. It fails if
// the key is unknown or string-typed, if the key is already present, or
// if the record is full. The record is left unchanged on failure.
func (c *Config) Append(key Key, value uint64) error {
	if err := c.check(key, false); err != nil {
		return err
	}

	c.entries = append(c.entries, Entry{Key: key, Value: value})
	return nil
}

// AppendString appends a value for the given string-typed key, storing
// its own copy of the value. An empty string is a valid value, distinct
// from an absent key. The record is left unchanged on failure.
func (c *Config) AppendString(key Key, data string) error {
	if err := c.check(key, true); err != nil {
		return err
	}

	c.entries = append(c.entries, Entry{Key: key, Data: strings.Clone(data)})
	return nil
}

// AppendEntry appends the given entry, dispatching on the type of its key.
func (c *Config) AppendEntry(e Entry) error {
	if e.Key.IsString() {
		return c.AppendString(e.Key, e.Data)
	}
	return c.Append(e.Key, e.Value)
}

// Extract returns the value stored for the given numeric-typed key.
// It returns false if the key is absent, or if it is string-typed.
func (c *Config) Extract(key Key) (uint64, bool) {
	if key.IsString() {
		return 0, false
	}
	for _, e := range c.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// ExtractString returns the value stored for the given string-typed key.
// It returns false if the key is absent, or if it is numeric-typed.
func (c *Config) ExtractString(key Key) (string, bool) {
	if !key.IsString() {
		return "", false
	}
	for _, e := range c.entries {
		if e.Key == key {
			return e.Data, true
		}
	}
	return "", false
}

// Len returns the number of entries in the record.
func (c *Config) Len() int {
	return len(c.entries)
}

// Entries returns the entries of the record, in insertion order.
func (c *Config) Entries() []Entry {
	entries := make([]Entry, len(c.entries))
	copy(entries, c.entries)
	return entries
}

func (c *Config) check(key Key, wantString bool) error {
	if !key.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidKey, uint16(key))
	}
	if key.IsString() != wantString {
		return fmt.Errorf("%w: key %s is %s-typed", ErrKeyType, key, typeName(key))
	}
	for _, e := range c.entries {
		if e.Key == key {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
	}
	if len(c.entries) >= KeyCount {
		return fmt.Errorf("%w: record full with %d entries", ErrTooManyEntries, len(c.entries))
	}
	return nil
}

func typeName(key Key) string {
	if key.IsString() {
		return "string"
	}
	return "numeric"
}

// String returns a string representation of the record.
func (c *Config) String() string {
	if c == nil {
		return "{}"
	}

	str := strings.Builder{}
	sep := ""
	str.WriteString("{")
	for _, e := range c.entries {
		str.WriteString(sep)
		str.WriteString(e.Key.String())
		str.WriteString("=")
		if e.Key.IsString() {
			str.WriteString(fmt.Sprintf("%q", e.Data))
		} else {
			str.WriteString(fmt.Sprintf("%d", e.Value))
		}
		sep = ","
	}
	str.WriteString("}")
	return str.String()
}

// MarshalJSON is the json.Marshaller for Config.
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.entries)
}

// UnmarshalJSON is the json.Unmarshaller for Config. It enforces the
// same invariants as the append operations.
func (c *Config) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	parsed := New()
	for _, e := range entries {
		if err := parsed.AppendEntry(e); err != nil {
			return err
		}
	}

	*c = *parsed
	return nil
}
