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

package config_test

import (
	. "github.com/openvz/libvcmmd-go/pkg/vcmmd/config"

	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	type testCase struct {
		name     string
		key      Key
		isString bool
	}

	for _, tc := range []*testCase{
		{
			name:     "guarantee",
			key:      KeyGuarantee,
			isString: false,
		},
		{
			name:     "limit",
			key:      KeyLimit,
			isString: false,
		},
		{
			name:     "swap",
			key:      KeySwap,
			isString: false,
		},
		{
			name:     "vram",
			key:      KeyVRAM,
			isString: false,
		},
		{
			name:     "node.list",
			key:      KeyNodeList,
			isString: true,
		},
		{
			name:     "cpu.list",
			key:      KeyCPUList,
			isString: true,
		},
	} {
		t.Run(tc.name+" String", func(t *testing.T) {
			require.Equal(t, tc.name, tc.key.String())
		})
		t.Run(tc.name+" MustParseKey", func(t *testing.T) {
			require.Equal(t, tc.key, MustParseKey(tc.name))
		})
		t.Run(tc.name+" IsString", func(t *testing.T) {
			require.Equal(t, tc.isString, tc.key.IsString())
			require.True(t, tc.key.IsValid())
		})
	}

	_, err := ParseKey("no-such-key")
	require.ErrorIs(t, err, ErrInvalidKey)
	require.False(t, Key(4096).IsValid())
}

func TestAppendExtract(t *testing.T) {
	cfg := New()

	require.NoError(t, cfg.Append(KeyGuarantee, 100<<20))
	require.NoError(t, cfg.Append(KeyLimit, 500<<20))
	require.NoError(t, cfg.AppendString(KeyNodeList, "0-1"))
	require.NoError(t, cfg.AppendString(KeyCPUList, ""))
	require.Equal(t, 4, cfg.Len())

	value, ok := cfg.Extract(KeyGuarantee)
	require.True(t, ok)
	require.Equal(t, uint64(100<<20), value)

	value, ok = cfg.Extract(KeyLimit)
	require.True(t, ok)
	require.Equal(t, uint64(500<<20), value)

	data, ok := cfg.ExtractString(KeyNodeList)
	require.True(t, ok)
	require.Equal(t, "0-1", data)

	// empty string is a valid value, distinct from an absent key
	data, ok = cfg.ExtractString(KeyCPUList)
	require.True(t, ok)
	require.Equal(t, "", data)

	_, ok = cfg.Extract(KeySwap)
	require.False(t, ok)
	_, ok = cfg.ExtractString(KeySwap)
	require.False(t, ok)

	// the accessor of the other type never sees an entry
	_, ok = cfg.Extract(KeyNodeList)
	require.False(t, ok)
	_, ok = cfg.ExtractString(KeyGuarantee)
	require.False(t, ok)
}

func TestAppendDuplicateKey(t *testing.T) {
	cfg := New()

	require.NoError(t, cfg.Append(KeyGuarantee, 100<<20))
	require.ErrorIs(t, cfg.Append(KeyGuarantee, 200<<20), ErrDuplicateKey)

	require.Equal(t, 1, cfg.Len())
	value, ok := cfg.Extract(KeyGuarantee)
	require.True(t, ok)
	require.Equal(t, uint64(100<<20), value)

	require.NoError(t, cfg.AppendString(KeyNodeList, "0"))
	require.ErrorIs(t, cfg.AppendString(KeyNodeList, "1"), ErrDuplicateKey)

	require.Equal(t, 2, cfg.Len())
	data, ok := cfg.ExtractString(KeyNodeList)
	require.True(t, ok)
	require.Equal(t, "0", data)
}

func TestAppendToFullRecord(t *testing.T) {
	cfg := New()

	require.NoError(t, cfg.Append(KeyGuarantee, 1))
	require.NoError(t, cfg.Append(KeyLimit, 2))
	require.NoError(t, cfg.Append(KeySwap, 3))
	require.NoError(t, cfg.Append(KeyVRAM, 4))
	require.NoError(t, cfg.AppendString(KeyNodeList, "0-1"))
	require.NoError(t, cfg.AppendString(KeyCPUList, "0-3"))
	require.Equal(t, KeyCount, cfg.Len())

	// a duplicate in a full record is reported as a duplicate
	require.ErrorIs(t, cfg.Append(KeyGuarantee, 5), ErrDuplicateKey)
	require.ErrorIs(t, cfg.AppendString(KeyCPUList, "4"), ErrDuplicateKey)
	require.Equal(t, KeyCount, cfg.Len())
}

func TestAppendTypeMismatch(t *testing.T) {
	cfg := New()

	require.ErrorIs(t, cfg.Append(KeyNodeList, 1), ErrKeyType)
	require.ErrorIs(t, cfg.AppendString(KeyGuarantee, "x"), ErrKeyType)
	require.ErrorIs(t, cfg.Append(Key(4096), 1), ErrInvalidKey)
	require.ErrorIs(t, cfg.AppendString(Key(4096), "x"), ErrInvalidKey)

	require.Equal(t, 0, cfg.Len())
}

func TestEntriesOrder(t *testing.T) {
	cfg := New()

	require.NoError(t, cfg.AppendString(KeyCPUList, "0-3"))
	require.NoError(t, cfg.Append(KeyLimit, 2))
	require.NoError(t, cfg.Append(KeyGuarantee, 1))

	entries := cfg.Entries()
	require.Equal(t, []Entry{
		{Key: KeyCPUList, Data: "0-3"},
		{Key: KeyLimit, Value: 2},
		{Key: KeyGuarantee, Value: 1},
	}, entries)

	// the snapshot is a copy, not an alias
	entries[0].Data = "clobbered"
	data, ok := cfg.ExtractString(KeyCPUList)
	require.True(t, ok)
	require.Equal(t, "0-3", data)
}

func TestJSONRoundtrip(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Append(KeyGuarantee, 100<<20))
	require.NoError(t, cfg.AppendString(KeyNodeList, "0-1"))

	data, err := cfg.MarshalJSON()
	require.NoError(t, err)

	parsed := New()
	require.NoError(t, parsed.UnmarshalJSON(data))
	require.Equal(t, cfg.Entries(), parsed.Entries())

	// duplicate keys violate the record invariants
	require.Error(t, parsed.UnmarshalJSON([]byte(
		`[{"key":"guarantee","value":1},{"key":"guarantee","value":2}]`)))
}
