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

package errors

import "errors"

var (
	// ErrNoRunningPods is returned when discovery yields no pod in the Running phase.
	// This is expected while the stateful set scales up or down.
	ErrNoRunningPods = errors.New("no pods are currently running")

	// ErrNoElectionCandidate is returned when none of the given pods carries a usable IPv4 address.
	ErrNoElectionCandidate = errors.New("no election candidate")

	// ErrInvalidIP is returned when an address cannot be parsed as an IPv4 address.
	ErrInvalidIP = errors.New("invalid IPv4 address")

	// ErrEmptyReplicaSetConfig is returned when the replica set configuration carries no member.
	ErrEmptyReplicaSetConfig = errors.New("replica set configuration has no member")

	// ErrDiscoveryNotStarted is returned when a discovery provider is used before Start.
	ErrDiscoveryNotStarted = errors.New("discovery provider is not started")

	// ErrInvalidConfig is returned when the sidecar configuration fails validation.
	ErrInvalidConfig = errors.New("invalid sidecar configuration")

	// ErrSidecarRunning is returned when Run is called on a sidecar that is already running.
	ErrSidecarRunning = errors.New("sidecar is already running")

	// ErrIdentityNotResolved is returned when the local host cannot be resolved to an IPv4 address.
	ErrIdentityNotResolved = errors.New("local identity cannot be resolved")
)

// IsTransient reports whether the error is part of the normal convergence
// of the replica set and only deserves an informational log entry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNoRunningPods)
}
