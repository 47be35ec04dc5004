// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package reconciler

// State is the classification of the local instance for one cycle
type State int

const (
	// StateUnknown means the cycle was aborted before the local instance could be classified
	StateUnknown State = iota
	// StateNoReplicaSet means no pod belongs to a replica set yet
	StateNoReplicaSet
	// StateMember means the local instance belongs to an initialized replica set
	StateMember
	// StateNotMember means the local instance is not initialized while another pod already belongs to a replica set
	StateNotMember
	// StateInvalidConfig means the stored replica set configuration is unusable
	StateInvalidConfig
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateNoReplicaSet:
		return "no-replica-set"
	case StateMember:
		return "member"
	case StateNotMember:
		return "not-member"
	case StateInvalidConfig:
		return "invalid-config"
	default:
		return "unknown"
	}
}

// Action is the mutation applied during a cycle
type Action int

const (
	// ActionNone means the replica set was left untouched
	ActionNone Action = iota
	// ActionInitiated means a new replica set was created
	ActionInitiated
	// ActionReconfigured means the membership was updated
	ActionReconfigured
	// ActionForceReconfigured means the membership was updated bypassing the quorum checks
	ActionForceReconfigured
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case ActionInitiated:
		return "initiated"
	case ActionReconfigured:
		return "reconfigured"
	case ActionForceReconfigured:
		return "force-reconfigured"
	default:
		return "none"
	}
}

// Result is the outcome of a reconciliation cycle
type Result struct {
	State  State
	Action Action
}
