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
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/mongo-sidecar/address"
	"github.com/tochemey/mongo-sidecar/discovery"
	"github.com/tochemey/mongo-sidecar/election"
	"github.com/tochemey/mongo-sidecar/identity"
	"github.com/tochemey/mongo-sidecar/log"
	"github.com/tochemey/mongo-sidecar/mongo"
	"github.com/tochemey/mongo-sidecar/replicaset"
)

const (
	// DefaultUnhealthyThreshold is how long a member must have been unhealthy before it is removed
	DefaultUnhealthyThreshold = 15 * time.Second
	// DefaultProbeConcurrency is how many pods are probed at once while bootstrapping
	DefaultProbeConcurrency = 8
)

// Reconciler converges the replica set membership of the local instance
// with the running pods. It holds no state between cycles.
type Reconciler struct {
	self               identity.Identity
	resolver           *address.Resolver
	dialer             mongo.Dialer
	mutator            *replicaset.Mutator
	elector            election.Elector
	logger             log.Logger
	unhealthyThreshold time.Duration
	probeConcurrency   int
	clock              func() time.Time
}

// New creates an instance of Reconciler for the local instance self.
// dialer is used to probe the other pods while bootstrapping.
func New(self identity.Identity, resolver *address.Resolver, dialer mongo.Dialer, opts ...Option) *Reconciler {
	r := &Reconciler{
		self:               self,
		resolver:           resolver,
		dialer:             dialer,
		elector:            election.LowestIP{},
		logger:             log.DiscardLogger,
		unhealthyThreshold: DefaultUnhealthyThreshold,
		probeConcurrency:   DefaultProbeConcurrency,
		clock:              time.Now,
	}

	for _, opt := range opts {
		opt.Apply(r)
	}

	if r.mutator == nil {
		r.mutator = replicaset.NewMutator(replicaset.WithLogger(r.logger))
	}

	if r.probeConcurrency < 1 {
		r.probeConcurrency = 1
	}
	return r
}

// Reconcile runs one reconciliation cycle against the local instance session
// given the running pods.
func (r *Reconciler) Reconcile(ctx context.Context, session mongo.Session, pods []*discovery.Pod) (Result, error) {
	outcome := r.mutator.GetStatus(ctx, session)
	switch outcome.Kind {
	case replicaset.OutcomeMember:
		return r.inReplicaSet(ctx, session, outcome.Status, pods)
	case replicaset.OutcomeNotInitialized:
		r.logger.Debugf("local instance is not initialized: %v", outcome.Err)
		return r.notInReplicaSet(ctx, session, pods)
	case replicaset.OutcomeInvalidConfig:
		r.logger.Warnf("local instance reports an invalid replica set configuration: %v", outcome.Err)
		return r.invalidReplicaSet(ctx, session, pods)
	default:
		return Result{State: StateUnknown}, outcome.Err
	}
}

func (r *Reconciler) inReplicaSet(ctx context.Context, session mongo.Session, status *replicaset.Status, pods []*discovery.Pod) (Result, error) {
	result := Result{State: StateMember, Action: ActionNone}

	if primary, ok := status.Primary(); ok {
		if primary.Self {
			return r.primaryWork(ctx, session, status, pods, false)
		}

		r.logger.Debugf("primary is (%s), nothing to do", primary.Name)
		return result, nil
	}

	leader, winner, err := election.IsLeader(r.elector, pods, r.self)
	if err != nil {
		return result, fmt.Errorf("failed to elect a pod: %w", err)
	}

	if !leader {
		r.logger.Debugf("replica set has no primary, (%s) is in charge", winner.IP)
		return result, nil
	}

	r.logger.Warnf("replica set has no primary, forcing reconfiguration from (%s)", r.self.HostPort())
	return r.primaryWork(ctx, session, status, pods, true)
}

func (r *Reconciler) notInReplicaSet(ctx context.Context, session mongo.Session, pods []*discovery.Pod) (Result, error) {
	found, err := r.probe(ctx, pods)
	if err != nil {
		return Result{State: StateNoReplicaSet}, fmt.Errorf("failed to probe pods: %w", err)
	}

	if found {
		r.logger.Info("another pod already belongs to a replica set, waiting to be added")
		return Result{State: StateNotMember, Action: ActionNone}, nil
	}

	result := Result{State: StateNoReplicaSet, Action: ActionNone}
	leader, winner, err := election.IsLeader(r.elector, pods, r.self)
	if err != nil {
		return result, fmt.Errorf("failed to elect a pod: %w", err)
	}

	if !leader {
		r.logger.Debugf("no replica set found, (%s) will initiate it", winner.IP)
		return result, nil
	}

	seed, ok := r.resolver.Stable(winner)
	if !ok {
		seed = r.self.HostPort()
	}

	if err := r.mutator.Initiate(ctx, session, seed); err != nil {
		return result, err
	}

	result.Action = ActionInitiated
	return result, nil
}

func (r *Reconciler) invalidReplicaSet(ctx context.Context, session mongo.Session, pods []*discovery.Pod) (Result, error) {
	result := Result{State: StateInvalidConfig, Action: ActionNone}
	additions := replicaset.AddressesToAdd(r.resolver, pods, nil)
	if len(additions) == 0 {
		return result, nil
	}

	if err := r.mutator.ApplyMembership(ctx, session, additions, nil, true); err != nil {
		return result, err
	}

	result.Action = ActionForceReconfigured
	return result, nil
}

func (r *Reconciler) primaryWork(ctx context.Context, session mongo.Session, status *replicaset.Status, pods []*discovery.Pod, force bool) (Result, error) {
	result := Result{State: StateMember, Action: ActionNone}

	additions := replicaset.AddressesToAdd(r.resolver, pods, status.Hosts())
	removals := replicaset.AddressesToRemove(status.Members, r.clock(), r.unhealthyThreshold)
	if len(additions) == 0 && len(removals) == 0 {
		return result, nil
	}

	if err := r.mutator.ApplyMembership(ctx, session, additions, removals, force); err != nil {
		return result, err
	}

	result.Action = ActionReconfigured
	if force {
		result.Action = ActionForceReconfigured
	}
	return result, nil
}

// probe reports whether any of the pods already belongs to a replica set.
// A pod that cannot be reached counts as not being a member.
func (r *Reconciler) probe(ctx context.Context, pods []*discovery.Pod) (bool, error) {
	found := atomic.NewBool(false)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.probeConcurrency)

	for _, pod := range pods {
		addr, ok := r.resolver.Ephemeral(pod)
		if !ok {
			continue
		}

		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if r.mutator.IsMember(ctx, r.dialer, addr) {
				r.logger.Debugf("pod (%s) is a replica set member", pod.Name)
				found.Store(true)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return false, err
	}
	return found.Load(), nil
}
