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

package address

import (
	"net"
	"strconv"
	"strings"

	"github.com/tochemey/mongo-sidecar/discovery"
)

// Resolver derives the network addresses a pod can be reached at by the
// other members of the replica set.
//
// The ephemeral address is the pod IP and changes whenever the pod is
// rescheduled. The stable address is the DNS name the governing headless
// service gives to every pod of a stateful set and survives rescheduling.
type Resolver struct {
	port          int
	serviceName   string
	clusterDomain string
}

// NewResolver creates a Resolver. An empty serviceName disables stable addresses.
func NewResolver(port int, serviceName, clusterDomain string) *Resolver {
	return &Resolver{
		port:          port,
		serviceName:   serviceName,
		clusterDomain: clusterDomain,
	}
}

// Port returns the store port appended to every address
func (r *Resolver) Port() int {
	return r.port
}

// Ephemeral returns <pod IP>:<port>. It returns false when the pod has no IP yet.
func (r *Resolver) Ephemeral(pod *discovery.Pod) (string, bool) {
	if pod == nil || pod.IP == "" {
		return "", false
	}
	return net.JoinHostPort(pod.IP, strconv.Itoa(r.port)), true
}

// Stable returns <pod name>.<service>.<namespace>.svc.<cluster domain>:<port>.
// It returns false when no service name is configured or the pod misses its
// name or namespace.
func (r *Resolver) Stable(pod *discovery.Pod) (string, bool) {
	if r.serviceName == "" || pod == nil || pod.Name == "" || pod.Namespace == "" {
		return "", false
	}

	host := strings.Join([]string{pod.Name, r.serviceName, pod.Namespace, "svc", r.clusterDomain}, ".")
	return net.JoinHostPort(host, strconv.Itoa(r.port)), true
}

// Preferred returns the stable address when it resolves, the ephemeral one otherwise
func (r *Resolver) Preferred(pod *discovery.Pod) (string, bool) {
	if stable, ok := r.Stable(pod); ok {
		return stable, true
	}
	return r.Ephemeral(pod)
}

// Candidates returns every address the pod may already be registered under
func (r *Resolver) Candidates(pod *discovery.Pod) []string {
	candidates := make([]string, 0, 2)
	if ephemeral, ok := r.Ephemeral(pod); ok {
		candidates = append(candidates, ephemeral)
	}
	if stable, ok := r.Stable(pod); ok {
		candidates = append(candidates, stable)
	}
	return candidates
}
