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

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/tochemey/mongo-sidecar/address"
	"github.com/tochemey/mongo-sidecar/config"
	"github.com/tochemey/mongo-sidecar/discovery/kubernetes"
	"github.com/tochemey/mongo-sidecar/identity"
	"github.com/tochemey/mongo-sidecar/internal/metric"
	"github.com/tochemey/mongo-sidecar/log"
	"github.com/tochemey/mongo-sidecar/mongo"
	"github.com/tochemey/mongo-sidecar/reconciler"
	"github.com/tochemey/mongo-sidecar/replicaset"
	"github.com/tochemey/mongo-sidecar/sidecar"
)

const localhost = "127.0.0.1"

// resolveIdentity is replaced in tests
var resolveIdentity = identity.Resolve

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.DefaultLogger.Error(err)
		return err
	}

	logger := log.NewZap(cfg.Level(), os.Stdout)
	defer func() {
		_ = logger.Flush()
	}()

	self, err := resolveIdentity(ctx, cfg.MongoPort)
	if err != nil {
		logger.Error(err)
		return fmt.Errorf("failed to resolve the local identity: %w", err)
	}
	logger.Infof("local instance is (%s)", self.HostPort())

	if cfg.ServiceName != "" {
		address.NewDomainVerifier(logger).Verify(ctx, cfg.ClusterDomain)
	}

	provider := kubernetes.NewDiscovery(&kubernetes.Config{
		Namespace:  cfg.Namespace,
		PodLabels:  cfg.PodLabels,
		KubeConfig: cfg.KubeConfig,
	}, kubernetes.WithLogger(logger))

	dialerOptions := []mongo.DialerOption{mongo.WithTimeout(cfg.CommandTimeout)}
	if cfg.Authenticated() {
		dialerOptions = append(dialerOptions, mongo.WithCredentials(cfg.MongoUser, cfg.MongoPassword))
	}
	dialer := mongo.NewDialer(dialerOptions...)

	rec := reconciler.New(
		self,
		address.NewResolver(cfg.MongoPort, cfg.ServiceName, cfg.ClusterDomain),
		dialer,
		reconciler.WithLogger(logger),
		reconciler.WithMutator(replicaset.NewMutator(replicaset.WithLogger(logger))),
		reconciler.WithUnhealthyThreshold(cfg.UnhealthyThreshold()),
		reconciler.WithProbeConcurrency(cfg.ProbeConcurrency),
	)

	instruments, err := metric.NewSidecarMetric(metric.NewProvider().Meter())
	if err != nil {
		logger.Warnf("metrics are disabled: %v", err)
	}

	return sidecar.New(provider, dialer, rec,
		sidecar.WithLogger(logger),
		sidecar.WithInterval(cfg.SleepInterval()),
		sidecar.WithLocalAddress(net.JoinHostPort(localhost, strconv.Itoa(cfg.MongoPort))),
		sidecar.WithMetric(instruments),
	).Run(ctx)
}
