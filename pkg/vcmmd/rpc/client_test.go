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

package rpc_test

import (
	. "github.com/openvz/libvcmmd-go/pkg/vcmmd/rpc"

	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// fakeObject replies to method calls from a canned table, recording
// the invocations it sees.
type fakeObject struct {
	replies map[string]*dbus.Call
	calls   []fakeCall
}

type fakeCall struct {
	method string
	args   []interface{}
}

func (f *fakeObject) Call(method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, fakeCall{method: method, args: args})
	if call, ok := f.replies[method]; ok {
		return call
	}
	return &dbus.Call{Err: errors.New("unexpected method " + method)}
}

func newTestClient(t *testing.T, obj Object) *Client {
	t.Helper()
	c, err := NewClient(WithObject(obj))
	require.NoError(t, err)
	return c
}

func TestCall(t *testing.T) {
	obj := &fakeObject{
		replies: map[string]*dbus.Call{
			Interface + ".ActivateVE": {Body: []interface{}{int32(0)}},
			Interface + ".IsVEActive": {Body: []interface{}{int32(0), true}},
			Interface + ".CommitVE":   {Body: []interface{}{int32(5)}},
		},
	}
	c := newTestClient(t, obj)

	code, payload, err := c.Call("ActivateVE", "ct1", uint32(0))
	require.NoError(t, err)
	require.Equal(t, int32(0), code)
	require.Empty(t, payload)

	code, payload, err = c.Call("IsVEActive", "ct1")
	require.NoError(t, err)
	require.Equal(t, int32(0), code)
	require.Equal(t, []interface{}{true}, payload)

	// a nonzero code is a daemon verdict, not a call failure
	code, _, err = c.Call("CommitVE", "ct1")
	require.NoError(t, err)
	require.Equal(t, int32(5), code)

	require.Equal(t, []fakeCall{
		{method: Interface + ".ActivateVE", args: []interface{}{"ct1", uint32(0)}},
		{method: Interface + ".IsVEActive", args: []interface{}{"ct1"}},
		{method: Interface + ".CommitVE", args: []interface{}{"ct1"}},
	}, obj.calls)
}

func TestCallFailures(t *testing.T) {
	type testCase struct {
		name  string
		reply *dbus.Call
	}

	for _, tc := range []*testCase{
		{
			name:  "transport failure",
			reply: &dbus.Call{Err: errors.New("no reply")},
		},
		{
			name:  "empty reply",
			reply: &dbus.Call{Body: []interface{}{}},
		},
		{
			name:  "result code of the wrong type",
			reply: &dbus.Call{Body: []interface{}{"0"}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			obj := &fakeObject{
				replies: map[string]*dbus.Call{
					Interface + ".ActivateVE": tc.reply,
				},
			}
			c := newTestClient(t, obj)

			code, payload, err := c.Call("ActivateVE", "ct1", uint32(0))
			require.ErrorIs(t, err, ErrConnectionFailed)
			require.Equal(t, int32(0), code)
			require.Nil(t, payload)
		})
	}
}

func TestCallRaw(t *testing.T) {
	obj := &fakeObject{
		replies: map[string]*dbus.Call{
			Interface + ".GetPolicyFromFile": {Body: []interface{}{"density"}},
		},
	}
	c := newTestClient(t, obj)

	payload, err := c.CallRaw("GetPolicyFromFile")
	require.NoError(t, err)
	require.Equal(t, []interface{}{"density"}, payload)

	_, err = c.CallRaw("NoSuchMethod")
	require.ErrorIs(t, err, ErrConnectionFailed)
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, RegisterMetrics(reg))
	require.Error(t, RegisterMetrics(reg))
}
