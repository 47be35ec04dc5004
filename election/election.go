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

// Package election picks, without any communication, the single pod that
// performs a mutating action during a cycle. Every sidecar evaluates the
// same rule over the same pod list and therefore agrees on the same pod.
package election

import (
	"github.com/tochemey/mongo-sidecar/discovery"
	"github.com/tochemey/mongo-sidecar/identity"
)

// Elector elects one pod out of a pod set.
// Implementations must be deterministic and must not reorder the given slice.
type Elector interface {
	// Elect returns the elected pod
	Elect(pods []*discovery.Pod) (*discovery.Pod, error)
}

// IsLeader elects among pods and reports whether the local sidecar won.
// The elected pod is returned even when it is not the local one.
func IsLeader(elector Elector, pods []*discovery.Pod, self identity.Identity) (bool, *discovery.Pod, error) {
	winner, err := elector.Elect(pods)
	if err != nil {
		return false, nil, err
	}
	return winner.IP == self.IP(), winner, nil
}
