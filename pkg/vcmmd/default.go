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
	"sync"

	"github.com/openvz/libvcmmd-go/pkg/vcmmd/config"
)

// The default client shares the process-wide system bus connection.
// It is created lazily on first use; creation is re-attempted on later
// calls if the bus was not reachable, but a call itself is never
// retried.
var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

func getDefault() (*Client, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient != nil {
		return defaultClient, nil
	}

	c, err := NewClient()
	if err != nil {
		return nil, err
	}

	defaultClient = c
	return c, nil
}

// RegisterVE registers a VE with the vcmmd service using the default
// client.
func RegisterVE(name string, veType Type, cfg *config.Config, options ...CallOption) error {
	c, err := getDefault()
	if err != nil {
		return err
	}
	return c.Register(name, veType, cfg, options...)
}

// ActivateVE activates a registered VE using the default client.
func ActivateVE(name string, options ...CallOption) error {
	c, err := getDefault()
	if err != nil {
		return err
	}
	return c.Activate(name, options...)
}

// CommitVE commits the pending configuration of a registered VE using
// the default client.
func CommitVE(name string) error {
	c, err := getDefault()
	if err != nil {
		return err
	}
	return c.Commit(name)
}

// UpdateVE updates the configuration of an active VE using the default
// client.
func UpdateVE(name string, cfg *config.Config, options ...CallOption) error {
	c, err := getDefault()
	if err != nil {
		return err
	}
	return c.Update(name, cfg, options...)
}

// DeactivateVE deactivates an active VE using the default client.
func DeactivateVE(name string) error {
	c, err := getDefault()
	if err != nil {
		return err
	}
	return c.Deactivate(name)
}

// UnregisterVE unregisters a VE using the default client.
func UnregisterVE(name string) error {
	c, err := getDefault()
	if err != nil {
		return err
	}
	return c.Unregister(name)
}

// GetVEConfig retrieves the configuration of a VE using the default
// client.
func GetVEConfig(name string) (*config.Config, error) {
	c, err := getDefault()
	if err != nil {
		return nil, err
	}
	return c.GetConfig(name)
}

// GetVEState observes the state of a VE using the default client.
func GetVEState(name string) (State, error) {
	c, err := getDefault()
	if err != nil {
		return StateUnregistered, err
	}
	return c.State(name)
}

// GetCurrentPolicy returns the running policy name using the default
// client.
func GetCurrentPolicy() (string, error) {
	c, err := getDefault()
	if err != nil {
		return "", err
	}
	return c.CurrentPolicy()
}

// GetPolicyFromFile returns the configured policy name using the
// default client.
func GetPolicyFromFile() (string, error) {
	c, err := getDefault()
	if err != nil {
		return "", err
	}
	return c.PolicyFromFile()
}

// SwitchPolicy switches the daemon policy using the default client.
func SwitchPolicy(name string) error {
	c, err := getDefault()
	if err != nil {
		return err
	}
	return c.SwitchPolicy(name)
}
