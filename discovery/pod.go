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

package discovery

import (
	corev1 "k8s.io/api/core/v1"
)

// PodRunning is the lifecycle phase a pod must be in to take part in the replica set
const PodRunning = string(corev1.PodRunning)

// Pod is a snapshot of a discovered mongo pod.
// It is produced by a Provider every cycle and never mutated afterwards.
type Pod struct {
	// Name is the pod name
	Name string
	// Namespace is the pod namespace
	Namespace string
	// IP is the pod IP. It is empty until the pod is scheduled and networked.
	IP string
	// Phase is the pod lifecycle phase
	Phase string
	// Labels are the pod labels
	Labels map[string]string
}

// IsRunning reports whether the pod is in the Running phase
func (p *Pod) IsRunning() bool {
	return p != nil && p.Phase == PodRunning
}

// Running returns the pods that are in the Running phase, in the given order
func Running(pods []*Pod) []*Pod {
	running := make([]*Pod, 0, len(pods))
	for _, pod := range pods {
		if pod.IsRunning() {
			running = append(running, pod)
		}
	}
	return running
}
