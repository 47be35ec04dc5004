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

package kubernetes

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"go.uber.org/atomic"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/tochemey/mongo-sidecar/discovery"
	serrors "github.com/tochemey/mongo-sidecar/errors"
	"github.com/tochemey/mongo-sidecar/log"
)

// Discovery lists the mongo pods through the Kubernetes API
type Discovery struct {
	config *Config
	client kubernetes.Interface
	mu     sync.Mutex
	logger log.Logger
	// states whether the provider has started or not
	started *atomic.Bool
}

// enforce compilation error
var _ discovery.Provider = (*Discovery)(nil)

// Option configures the kubernetes provider
type Option func(*Discovery)

// WithClient sets the Kubernetes client instead of building one on Start
func WithClient(client kubernetes.Interface) Option {
	return func(d *Discovery) {
		d.client = client
	}
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return func(d *Discovery) {
		d.logger = logger
	}
}

// NewDiscovery returns an instance of the kubernetes discovery provider
func NewDiscovery(config *Config, opts ...Option) *Discovery {
	d := &Discovery{
		config:  config,
		logger:  log.DefaultLogger,
		started: atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the discovery provider id
func (d *Discovery) ID() string {
	return "kubernetes"
}

// Start validates the configuration and builds the Kubernetes client when none was given
func (d *Discovery) Start(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started.Load() {
		return nil
	}

	if err := d.config.Validate(); err != nil {
		return fmt.Errorf("failed to start the kubernetes discovery provider: %w", err)
	}

	if d.client == nil {
		client, err := newClient(d.config.KubeConfig)
		if err != nil {
			return err
		}
		d.client = client
	}

	d.started.Store(true)
	d.logger.Debugf("%s discovery started, namespace=%q selector=%q", d.ID(), d.config.Namespace, d.selector())
	return nil
}

// Pods returns the pods matching the configured label set.
// The phase is reported as is; filtering on Running is the caller's decision.
func (d *Discovery) Pods(ctx context.Context) ([]*discovery.Pod, error) {
	if !d.started.Load() {
		return nil, serrors.ErrDiscoveryNotStarted
	}

	list, err := d.client.CoreV1().Pods(d.config.Namespace).List(ctx, metav1.ListOptions{
		LabelSelector: d.selector(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch kubernetes pods: %w", err)
	}

	pods := make([]*discovery.Pod, 0, len(list.Items))
	for i := range list.Items {
		pods = append(pods, toPod(&list.Items[i]))
	}
	return pods, nil
}

// Stop marks the provider as stopped
func (d *Discovery) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started.Load() {
		return serrors.ErrDiscoveryNotStarted
	}
	d.started.Store(false)
	return nil
}

func (d *Discovery) selector() string {
	return labels.SelectorFromSet(d.config.PodLabels).String()
}

func toPod(pod *corev1.Pod) *discovery.Pod {
	return &discovery.Pod{
		Name:      pod.GetName(),
		Namespace: pod.GetNamespace(),
		IP:        pod.Status.PodIP,
		Phase:     string(pod.Status.Phase),
		Labels:    maps.Clone(pod.GetLabels()),
	}
}

func newClient(kubeConfig string) (kubernetes.Interface, error) {
	var (
		restConfig *rest.Config
		err        error
	)

	if kubeConfig == "" {
		restConfig, err = rest.InClusterConfig()
	} else {
		restConfig, err = clientcmd.BuildConfigFromFlags("", kubeConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get the kubernetes client configuration: %w", err)
	}

	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create the kubernetes client api: %w", err)
	}
	return client, nil
}
