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

// Package rpc implements the D-Bus method-call transport and argument
// codec for talking to the vcmmd daemon. Every call is a single
// blocking round trip on the system bus; there is no caller timeout,
// no retrying, and no locking beyond the connection's own thread
// safety.
package rpc

import (
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	logger "github.com/openvz/libvcmmd-go/pkg/log"
)

const (
	// BusName is the well-known bus name of the vcmmd service.
	BusName = "com.virtuozzo.vcmmd"
	// ObjectPath is the load manager object path.
	ObjectPath = dbus.ObjectPath("/LoadManager")
	// Interface is the load manager D-Bus interface.
	Interface = "com.virtuozzo.vcmmd.LoadManager"
)

var log = logger.Get("rpc")

// Object is the bus object surface we invoke methods on. It is
// satisfied by dbus.BusObject; tests substitute their own.
type Object interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// ClientOption is an option for the client.
type ClientOption func(*Client)

// Client issues blocking method calls to the vcmmd service.
type Client struct {
	conn *dbus.Conn
	obj  Object
}

// WithConn sets a pre-established bus connection for the client.
func WithConn(conn *dbus.Conn) ClientOption {
	return func(c *Client) {
		c.conn = conn
	}
}

// WithObject sets a pre-created bus object for the client.
func WithObject(obj Object) ClientOption {
	return func(c *Client) {
		c.obj = obj
	}
}

// NewClient creates a vcmmd RPC client with the given options. Unless
// a connection or object is supplied, the client uses the shared
// system bus connection of the process, establishing it if needed.
func NewClient(options ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, o := range options {
		o(c)
	}

	if c.obj == nil {
		if c.conn == nil {
			conn, err := dbus.SystemBus()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
			}
			c.conn = conn
		}
		c.obj = c.conn.Object(BusName, ObjectPath)
	}

	return c, nil
}

// Call invokes the given method of the load manager interface with the
// given arguments and blocks for the reply. The leading int32 reply
// argument is returned as the result code, together with the rest of
// the reply payload. A transport failure, a missing reply, or a reply
// without a parsable result code all report a connection failure; a
// partial result is never returned.
func (c *Client) Call(method string, args ...interface{}) (int32, []interface{}, error) {
	payload, err := c.do(method, args...)
	if err != nil {
		observeCall(method, codeLabelError)
		return 0, nil, err
	}

	if len(payload) < 1 {
		observeCall(method, codeLabelError)
		return 0, nil, fmt.Errorf("%w: reply carries no result code", ErrConnectionFailed)
	}
	code, ok := payload[0].(int32)
	if !ok {
		observeCall(method, codeLabelError)
		return 0, nil, fmt.Errorf("%w: reply result code of type %T",
			ErrConnectionFailed, payload[0])
	}

	observeCall(method, fmt.Sprintf("%d", code))
	return code, payload[1:], nil
}

// CallRaw invokes the given method and returns the raw reply payload.
// It is used for the few calls whose reply carries no leading result
// code.
func (c *Client) CallRaw(method string, args ...interface{}) ([]interface{}, error) {
	payload, err := c.do(method, args...)
	if err != nil {
		observeCall(method, codeLabelError)
		return nil, err
	}

	observeCall(method, codeLabelOK)
	return payload, nil
}

func (c *Client) do(method string, args ...interface{}) ([]interface{}, error) {
	log.Debug("calling %s.%s", Interface, method)

	start := time.Now()
	call := c.obj.Call(Interface+"."+method, 0, args...)
	observeLatency(method, time.Since(start))

	if call.Err != nil {
		log.Debug("%s failed: %v", method, call.Err)
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, call.Err)
	}

	return call.Body, nil
}
