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

import (
	"time"

	"github.com/tochemey/mongo-sidecar/election"
	"github.com/tochemey/mongo-sidecar/log"
	"github.com/tochemey/mongo-sidecar/replicaset"
)

// Option configures the Reconciler
type Option interface {
	// Apply sets the Option value of a config.
	Apply(r *Reconciler)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Reconciler)

// Apply applies the Reconciler's option
func (f OptionFunc) Apply(r *Reconciler) {
	f(r)
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(r *Reconciler) {
		r.logger = logger
	})
}

// WithElector sets the leader election rule
func WithElector(elector election.Elector) Option {
	return OptionFunc(func(r *Reconciler) {
		r.elector = elector
	})
}

// WithMutator sets the replica set mutator
func WithMutator(mutator *replicaset.Mutator) Option {
	return OptionFunc(func(r *Reconciler) {
		r.mutator = mutator
	})
}

// WithUnhealthyThreshold sets how long a member must have been unhealthy before it is removed
func WithUnhealthyThreshold(threshold time.Duration) Option {
	return OptionFunc(func(r *Reconciler) {
		r.unhealthyThreshold = threshold
	})
}

// WithProbeConcurrency sets how many pods are probed at once while bootstrapping
func WithProbeConcurrency(concurrency int) Option {
	return OptionFunc(func(r *Reconciler) {
		r.probeConcurrency = concurrency
	})
}

// WithClock sets the time source used to age member heartbeats
func WithClock(clock func() time.Time) Option {
	return OptionFunc(func(r *Reconciler) {
		r.clock = clock
	})
}
