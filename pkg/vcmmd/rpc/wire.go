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

package rpc

import (
	"fmt"

	"github.com/openvz/libvcmmd-go/pkg/vcmmd/config"
)

// ConfigEntry is the wire shape of a single configuration entry, a
// D-Bus (qts) struct. Both value fields are always present: a numeric
// entry carries an empty string, a string entry carries value 0. Peers
// which only understand one of the two fields ignore the other, which
// keeps older and newer protocol revisions interoperable.
type ConfigEntry struct {
	Key   uint16
	Value uint64
	Data  string
}

// EncodeConfig encodes a configuration record as an ordered a(qts)
// array for a method call argument. A nil record encodes as an empty
// array.
func EncodeConfig(cfg *config.Config) []ConfigEntry {
	if cfg == nil {
		return []ConfigEntry{}
	}

	entries := make([]ConfigEntry, 0, cfg.Len())
	for _, e := range cfg.Entries() {
		entries = append(entries, ConfigEntry{
			Key:   uint16(e.Key),
			Value: e.Value,
			Data:  e.Data,
		})
	}
	return entries
}

// DecodeConfig decodes a configuration record from a reply argument.
// Entries with a key outside the known key range are silently dropped,
// so a newer daemon may send additional fields without breaking us.
// Any other decoding failure aborts the whole decode; a partial record
// is never returned.
//
// Two wire shapes are accepted: the a(qts) entry array, and the legacy
// at array of plain uint64 values indexed by key ordinal that old
// daemons reply with.
func DecodeConfig(arg interface{}) (*config.Config, error) {
	switch val := arg.(type) {
	case [][]interface{}:
		return decodeEntries(val)
	case []ConfigEntry:
		entries := make([][]interface{}, 0, len(val))
		for _, e := range val {
			entries = append(entries, []interface{}{e.Key, e.Value, e.Data})
		}
		return decodeEntries(entries)
	case []uint64:
		return decodeLegacy(val)
	}

	return nil, fmt.Errorf("%w: unexpected config argument of type %T",
		ErrDecodeFailed, arg)
}

func decodeEntries(entries [][]interface{}) (*config.Config, error) {
	cfg := config.New()

	for _, entry := range entries {
		if len(entry) != 3 {
			return nil, fmt.Errorf("%w: config entry with %d fields",
				ErrDecodeFailed, len(entry))
		}

		key, ok := entry[0].(uint16)
		if !ok {
			return nil, fmt.Errorf("%w: config entry key of type %T",
				ErrDecodeFailed, entry[0])
		}
		value, ok := entry[1].(uint64)
		if !ok {
			return nil, fmt.Errorf("%w: config entry value of type %T",
				ErrDecodeFailed, entry[1])
		}
		data, ok := entry[2].(string)
		if !ok {
			return nil, fmt.Errorf("%w: config entry data of type %T",
				ErrDecodeFailed, entry[2])
		}

		k := config.Key(key)
		if !k.IsValid() {
			log.Debug("dropping unknown config entry (key %d)", key)
			continue
		}

		var err error
		if k.IsString() {
			err = cfg.AppendString(k, data)
		} else {
			err = cfg.Append(k, value)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
		}
	}

	return cfg, nil
}

func decodeLegacy(values []uint64) (*config.Config, error) {
	cfg := config.New()

	for i, value := range values {
		k := config.Key(i)
		if !k.IsValid() {
			log.Debug("dropping unknown legacy config entry (index %d)", i)
			continue
		}
		if k.IsString() {
			log.Debug("dropping key %s, not representable in a legacy config", k)
			continue
		}
		if err := cfg.Append(k, value); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
		}
	}

	return cfg, nil
}
