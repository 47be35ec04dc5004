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

package replicaset

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/mongo-sidecar/address"
	"github.com/tochemey/mongo-sidecar/discovery"
)

// AddressesToAdd returns the addresses of the pods not yet represented among hosts.
// A pod is represented when any of its candidate addresses equals a host.
// Unrepresented pods contribute their preferred address; pods without any
// address are skipped.
func AddressesToAdd(resolver *address.Resolver, pods []*discovery.Pod, hosts []string) []string {
	known := mapset.NewThreadUnsafeSet[string](hosts...)
	additions := make([]string, 0, len(pods))

	for _, pod := range pods {
		candidates := resolver.Candidates(pod)
		if len(candidates) == 0 || known.ContainsAny(candidates...) {
			continue
		}

		preferred, _ := resolver.Preferred(pod)
		additions = append(additions, preferred)
		known.Add(preferred)
	}
	return additions
}

// AddressesToRemove returns the hosts of the members that are unhealthy and
// whose last heartbeat is older than threshold. Members that never reported
// a heartbeat are kept.
func AddressesToRemove(members []StatusMember, now time.Time, threshold time.Duration) []string {
	deadline := now.Add(-threshold)
	removals := make([]string, 0)

	for _, member := range members {
		if member.IsHealthy() || member.LastHeartbeatRecv.IsZero() {
			continue
		}

		if member.LastHeartbeatRecv.Before(deadline) {
			removals = append(removals, member.Name)
		}
	}
	return removals
}
