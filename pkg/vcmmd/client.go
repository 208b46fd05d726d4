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

// Package vcmmd is a client for the vcmmd memory-management daemon.
// The daemon owns all policy decisions about the memory of virtual
// environments (VEs), containers and virtual machines, on a host; this
// package describes a VE's desired resource envelope, ships it to the
// daemon over the D-Bus system bus, and translates the reply. Every
// operation is a single blocking round trip; failed calls are retried,
// if at all, by the caller.
package vcmmd

import (
	"fmt"

	logger "github.com/openvz/libvcmmd-go/pkg/log"
	"github.com/openvz/libvcmmd-go/pkg/vcmmd/config"
	"github.com/openvz/libvcmmd-go/pkg/vcmmd/rpc"
)

// Flags modify how the daemon handles a transition request.
const (
	// FlagForce overrides guarantee-satisfiability checks.
	FlagForce uint32 = 1 << 0
)

var log = logger.Get("vcmmd")

// CallOption is an option for a single operation.
type CallOption func(*callOptions)

type callOptions struct {
	flags uint32
}

// WithForce overrides guarantee-satisfiability checks for the operation.
func WithForce() CallOption {
	return func(o *callOptions) {
		o.flags |= FlagForce
	}
}

// WithFlags sets the given flag bits for the operation.
func WithFlags(flags uint32) CallOption {
	return func(o *callOptions) {
		o.flags |= flags
	}
}

func callFlags(options []CallOption) uint32 {
	o := &callOptions{}
	for _, opt := range options {
		opt(o)
	}
	return o.flags
}

// Client issues requests to the vcmmd daemon.
type Client struct {
	rpc *rpc.Client
}

// NewClient creates a vcmmd client with the given transport options.
// Without options the client uses the shared system bus connection of
// the process.
func NewClient(options ...rpc.ClientOption) (*Client, error) {
	r, err := rpc.NewClient(options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return &Client{rpc: r}, nil
}

// Register asks the daemon to admit a VE with the given name, type and
// configuration. It must be called before the VE is started: the
// daemon checks whether the claimed requirements can be met and the
// caller must refrain from starting the VE on failure. A registered VE
// is remembered but not managed until activated.
func (c *Client) Register(name string, veType Type, cfg *config.Config, options ...CallOption) error {
	log.Debug("registering VE %q (%s, config %s)", name, veType, cfg)
	return c.request("RegisterVE", name, int32(veType), rpc.EncodeConfig(cfg), callFlags(options))
}

// Activate tells the daemon that a previously registered VE can now be
// managed. If activation fails the caller should stop and unregister
// the VE.
func (c *Client) Activate(name string, options ...CallOption) error {
	log.Debug("activating VE %q", name)
	return c.request("ActivateVE", name, callFlags(options))
}

// Commit finalizes the pending configuration of a registered VE.
func (c *Client) Commit(name string) error {
	log.Debug("committing VE %q", name)
	return c.request("CommitVE", name)
}

// Update asks the daemon to apply a new configuration to an active VE.
// The daemon may refuse if it finds that it will not be able to meet
// the new requirements.
func (c *Client) Update(name string, cfg *config.Config, options ...CallOption) error {
	log.Debug("updating VE %q (config %s)", name, cfg)
	return c.request("UpdateVE", name, rpc.EncodeConfig(cfg), callFlags(options))
}

// Deactivate tells the daemon to stop managing an active VE. The VE
// stays registered and keeps contributing to the host load. Activate
// undoes it.
func (c *Client) Deactivate(name string) error {
	log.Debug("deactivating VE %q", name)
	return c.request("DeactivateVE", name)
}

// Unregister makes the daemon forget about a VE.
func (c *Client) Unregister(name string) error {
	log.Debug("unregistering VE %q", name)
	return c.request("UnregisterVE", name)
}

// GetConfig retrieves the configuration the daemon holds for a VE.
func (c *Client) GetConfig(name string) (*config.Config, error) {
	code, payload, err := c.rpc.Call("GetVEConfig", name)
	if err != nil {
		return nil, libraryError(err)
	}
	if code != 0 {
		return nil, codeError(code)
	}

	if len(payload) < 1 {
		return nil, fmt.Errorf("%w: reply carries no config", ErrConnectionFailed)
	}

	cfg, err := rpc.DecodeConfig(payload[0])
	if err != nil {
		return nil, libraryError(err)
	}

	return cfg, nil
}

// State observes the daemon-side state of a VE. A VE the daemon does
// not know about is in the unregistered state; this is a valid
// observation, not a failure.
func (c *Client) State(name string) (State, error) {
	code, payload, err := c.rpc.Call("IsVEActive", name)
	if err != nil {
		return StateUnregistered, libraryError(err)
	}

	switch {
	case Code(code) == CodeVENotRegistered:
		return StateUnregistered, nil
	case code != 0:
		return StateUnregistered, codeError(code)
	}

	if len(payload) < 1 {
		return StateUnregistered, fmt.Errorf("%w: reply carries no state", ErrConnectionFailed)
	}
	active, ok := payload[0].(bool)
	if !ok {
		return StateUnregistered, fmt.Errorf("%w: reply state of type %T",
			ErrConnectionFailed, payload[0])
	}

	if active {
		return StateActive, nil
	}
	return StateRegistered, nil
}

// CurrentPolicy returns the name of the policy the daemon currently runs.
func (c *Client) CurrentPolicy() (string, error) {
	code, payload, err := c.rpc.Call("GetCurrentPolicy")
	if err != nil {
		return "", libraryError(err)
	}
	if code != 0 {
		return "", codeError(code)
	}

	return policyName(payload)
}

// PolicyFromFile returns the policy name configured on disk for the
// daemon, which may differ from the running one until a restart or a
// policy switch.
func (c *Client) PolicyFromFile() (string, error) {
	payload, err := c.rpc.CallRaw("GetPolicyFromFile")
	if err != nil {
		return "", libraryError(err)
	}

	return policyName(payload)
}

// SwitchPolicy asks the daemon to switch to the named policy.
func (c *Client) SwitchPolicy(name string) error {
	log.Debug("switching policy to %q", name)
	return c.request("SwitchPolicy", name)
}

// request issues a call whose reply carries nothing but a result code.
func (c *Client) request(method string, args ...interface{}) error {
	code, _, err := c.rpc.Call(method, args...)
	if err != nil {
		return libraryError(err)
	}
	return codeError(code)
}

func policyName(payload []interface{}) (string, error) {
	if len(payload) < 1 {
		return "", fmt.Errorf("%w: reply carries no policy name", ErrConnectionFailed)
	}
	name, ok := payload[0].(string)
	if !ok {
		return "", fmt.Errorf("%w: reply policy name of type %T",
			ErrConnectionFailed, payload[0])
	}
	return name, nil
}

// libraryError maps a transport error into the library band of the
// error domain, preserving the underlying detail for unwrapping.
func libraryError(err error) error {
	return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
}
