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

import "fmt"

// State is the observed daemon-side state of a VE. The daemon owns and
// enforces the state machine
//
//	Unregistered -> Registered -> Active -> Registered -> Unregistered
//
// with config updates legal only while Active; this library only
// requests transitions and observes the outcome.
type State int

const (
	// StateUnregistered means the daemon knows nothing about the VE.
	StateUnregistered State = iota
	// StateRegistered means the VE is admitted but not managed yet.
	StateRegistered
	// StateActive means the daemon actively manages the VE.
	StateActive
)

var stateToString = map[State]string{
	StateUnregistered: "unregistered",
	StateRegistered:   "registered",
	StateActive:       "active",
}

// String returns a string representation of the state.
func (s State) String() string {
	if str, ok := stateToString[s]; ok {
		return str
	}

	return fmt.Sprintf("%%!(vcmmd:Bad-State %d)", int(s))
}
