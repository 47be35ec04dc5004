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

package sidecar

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/tochemey/mongo-sidecar/discovery"
	serrors "github.com/tochemey/mongo-sidecar/errors"
	"github.com/tochemey/mongo-sidecar/internal/metric"
	"github.com/tochemey/mongo-sidecar/internal/timer"
	"github.com/tochemey/mongo-sidecar/log"
	"github.com/tochemey/mongo-sidecar/mongo"
	"github.com/tochemey/mongo-sidecar/reconciler"
)

const (
	// DefaultInterval is the delay between two cycles
	DefaultInterval = 5 * time.Second
	// DefaultPort is the port of the local mongod
	DefaultPort = 27017
)

// Sidecar drives the reconciliation loop of the mongod it runs next to.
// Cycles never overlap: the next one is scheduled once the current one is over.
type Sidecar struct {
	provider     discovery.Provider
	dialer       mongo.Dialer
	reconciler   *reconciler.Reconciler
	localAddress string
	interval     time.Duration
	logger       log.Logger
	metric       *metric.SidecarMetric
	running      *atomic.Bool
	cycles       *atomic.Uint64
}

// New creates an instance of Sidecar
func New(provider discovery.Provider, dialer mongo.Dialer, reconciler *reconciler.Reconciler, opts ...Option) *Sidecar {
	s := &Sidecar{
		provider:     provider,
		dialer:       dialer,
		reconciler:   reconciler,
		localAddress: net.JoinHostPort("127.0.0.1", strconv.Itoa(DefaultPort)),
		interval:     DefaultInterval,
		logger:       log.DiscardLogger,
		running:      atomic.NewBool(false),
		cycles:       atomic.NewUint64(0),
	}

	for _, opt := range opts {
		opt.Apply(s)
	}
	return s
}

// Run starts the discovery provider and runs cycles until ctx is cancelled.
// Cycle failures are logged and retried on the next cycle.
func (s *Sidecar) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return serrors.ErrSidecarRunning
	}
	defer s.running.Store(false)

	if err := s.provider.Start(ctx); err != nil {
		return fmt.Errorf("failed to start %s discovery: %w", s.provider.ID(), err)
	}

	defer func() {
		if err := s.provider.Stop(); err != nil {
			s.logger.Warnf("failed to stop %s discovery: %v", s.provider.ID(), err)
		}
	}()

	s.logger.Infof("sidecar started: local=(%s) interval=%s discovery=%s", s.localAddress, s.interval, s.provider.ID())

	next := timer.New(s.interval)
	defer next.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("sidecar stopped after %d cycles", s.cycles.Load())
			return nil
		case <-next.C():
			next.Fired()
			// errors are already logged by the cycle
			_, _ = s.RunOnce(ctx)
			next.Arm()
		}
	}
}

// RunOnce executes a single cycle. The provider must have been started.
func (s *Sidecar) RunOnce(ctx context.Context) (reconciler.Result, error) {
	start := time.Now()
	cycle := s.cycles.Inc()
	logger := s.logger.With("cycle", uuid.NewString(), "sequence", cycle)

	pods, err := s.provider.Pods(ctx)
	if err != nil {
		return s.fail(ctx, logger, "discovery", start, fmt.Errorf("failed to list pods: %w", err))
	}

	pods = discovery.Running(pods)
	if len(pods) == 0 {
		return s.fail(ctx, logger, "discovery", start, serrors.ErrNoRunningPods)
	}

	session, err := s.dialer.Dial(ctx, s.localAddress)
	if err != nil {
		return s.fail(ctx, logger, "dial", start, fmt.Errorf("failed to connect to the local instance: %w", err))
	}

	defer func() {
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warnf("failed to close the local session: %v", err)
		}
	}()

	result, err := s.reconciler.Reconcile(ctx, session, pods)
	if err != nil {
		_, err = s.fail(ctx, logger, "reconcile", start, fmt.Errorf("failed to reconcile (state=%s): %w", result.State, err))
		return result, err
	}

	if result.Action != reconciler.ActionNone {
		logger.Infof("replica set %s (state=%s pods=%d)", result.Action, result.State, len(pods))
	} else {
		logger.Debugf("nothing to do (state=%s pods=%d)", result.State, len(pods))
	}

	if s.metric != nil {
		s.metric.RecordCycle(ctx, result.State.String(), result.Action.String(), time.Since(start))
	}
	return result, nil
}

// Cycles returns the number of cycles started so far
func (s *Sidecar) Cycles() uint64 {
	return s.cycles.Load()
}

func (s *Sidecar) fail(ctx context.Context, logger log.Logger, operation string, start time.Time, err error) (reconciler.Result, error) {
	if serrors.IsTransient(err) {
		logger.Infof("%s: %v", operation, err)
	} else {
		logger.Errorf("%s: %v", operation, err)
	}

	if s.metric != nil {
		s.metric.RecordFailure(ctx, operation, time.Since(start))
	}
	return reconciler.Result{State: reconciler.StateUnknown}, err
}
