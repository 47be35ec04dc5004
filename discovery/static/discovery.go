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

package static

import (
	"context"
	"maps"

	"go.uber.org/atomic"

	"github.com/tochemey/mongo-sidecar/discovery"
	serrors "github.com/tochemey/mongo-sidecar/errors"
)

// Discovery serves a fixed list of pods. It is meant for local runs outside
// of Kubernetes and for tests.
type Discovery struct {
	pods    []*discovery.Pod
	started *atomic.Bool
}

// enforce compilation error
var _ discovery.Provider = (*Discovery)(nil)

// NewDiscovery creates an instance of Discovery
func NewDiscovery(pods ...*discovery.Pod) *Discovery {
	return &Discovery{
		pods:    pods,
		started: atomic.NewBool(false),
	}
}

// ID returns the discovery provider id
func (d *Discovery) ID() string {
	return "static"
}

// Start the discovery provider
func (d *Discovery) Start(context.Context) error {
	d.started.Store(true)
	return nil
}

// Pods returns a copy of the configured pods so callers cannot alter the list
func (d *Discovery) Pods(context.Context) ([]*discovery.Pod, error) {
	if !d.started.Load() {
		return nil, serrors.ErrDiscoveryNotStarted
	}

	pods := make([]*discovery.Pod, 0, len(d.pods))
	for _, pod := range d.pods {
		clone := *pod
		clone.Labels = maps.Clone(pod.Labels)
		pods = append(pods, &clone)
	}
	return pods, nil
}

// Stop the discovery provider
func (d *Discovery) Stop() error {
	if !d.started.Load() {
		return serrors.ErrDiscoveryNotStarted
	}
	d.started.Store(false)
	return nil
}
