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

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"

	serrors "github.com/tochemey/mongo-sidecar/errors"
	"github.com/tochemey/mongo-sidecar/internal/validation"
	"github.com/tochemey/mongo-sidecar/log"
)

const (
	// DefaultMongoPort is the port mongod listens on unless told otherwise
	DefaultMongoPort = 27017
	// DefaultClusterDomain is the Kubernetes default cluster domain
	DefaultClusterDomain = "cluster.local"
	// DefaultSleepSeconds is the delay between two reconciliation cycles
	DefaultSleepSeconds = 5
	// DefaultUnhealthySeconds is how long a member may stay unhealthy before being removed
	DefaultUnhealthySeconds = 15
	// DefaultProbeConcurrency bounds the number of pods probed at once during bootstrap
	DefaultProbeConcurrency = 8
	// DefaultCommandTimeout bounds connection and server selection of every store session
	DefaultCommandTimeout = 10 * time.Second
)

// Config holds the sidecar runtime settings. It is read once at startup from
// the process environment.
type Config struct {
	// PodLabels is the label set identifying the mongo pods, written as k=v,k2=v2
	PodLabels map[string]string `env:"MONGO_SIDECAR_POD_LABELS" envSeparator:"," envKeyValSeparator:"="`
	// Namespace restricts pod discovery. Empty means every namespace.
	Namespace string `env:"KUBERNETES_NAMESPACE"`
	// ServiceName is the governing headless service of the stateful set.
	// Stable network addresses are only produced when it is set.
	ServiceName string `env:"KUBERNETES_MONGO_SERVICE_NAME"`
	// ClusterDomain is the cluster DNS domain used to build stable addresses
	ClusterDomain string `env:"KUBERNETES_CLUSTER_DOMAIN" envDefault:"cluster.local"`
	// KubeConfig points to a kubeconfig file when running outside of the cluster
	KubeConfig string `env:"KUBECONFIG"`

	// MongoPort is the port every mongod of the replica set listens on
	MongoPort int `env:"MONGO_PORT" envDefault:"27017"`
	// MongoUser and MongoPassword enable authenticated connections when both are set
	MongoUser     string `env:"MONGO_USER"`
	MongoPassword string `env:"MONGO_PASSWORD"`

	SleepSeconds     int           `env:"MONGO_SIDECAR_SLEEP_SECONDS" envDefault:"5"`
	UnhealthySeconds int           `env:"MONGO_SIDECAR_UNHEALTHY_SECONDS" envDefault:"15"`
	ProbeConcurrency int           `env:"MONGO_SIDECAR_PROBE_CONCURRENCY" envDefault:"8"`
	CommandTimeout   time.Duration `env:"MONGO_SIDECAR_COMMAND_TIMEOUT" envDefault:"10s"`
	LogLevel         string        `env:"MONGO_SIDECAR_LOG_LEVEL" envDefault:"info"`
}

// Default returns a Config carrying every default value and no pod label
func Default() *Config {
	return &Config{
		PodLabels:        map[string]string{},
		ClusterDomain:    DefaultClusterDomain,
		MongoPort:        DefaultMongoPort,
		SleepSeconds:     DefaultSleepSeconds,
		UnhealthySeconds: DefaultUnhealthySeconds,
		ProbeConcurrency: DefaultProbeConcurrency,
		CommandTimeout:   DefaultCommandTimeout,
		LogLevel:         log.InfoLevel.String(),
	}
}

// Load parses the process environment and validates the result
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom parses the given environment map instead of the process environment
func LoadFrom(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

// legacyNames holds the variable names read by earlier sidecar releases.
// They only apply when the current name is unset.
type legacyNames struct {
	Namespace   string `env:"KUBERENETES_NAMESPACE"`
	ServiceName string `env:"KUBERENETES_SERVICE"`
}

func load(opts env.Options) (*Config, error) {
	config := new(Config)
	if err := env.ParseWithOptions(config, opts); err != nil {
		return nil, fmt.Errorf("failed to parse the sidecar environment: %w", err)
	}

	legacy := new(legacyNames)
	if err := env.ParseWithOptions(legacy, opts); err != nil {
		return nil, fmt.Errorf("failed to parse the sidecar environment: %w", err)
	}
	if config.Namespace == "" {
		config.Namespace = legacy.Namespace
	}
	if config.ServiceName == "" {
		config.ServiceName = legacy.ServiceName
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration and reports every violation at once
func (c *Config) Validate() error {
	_, levelErr := log.ParseLevel(c.LogLevel)
	chain := validation.New(validation.AllErrors()).
		AddAssertion(len(c.PodLabels) > 0, "the [MONGO_SIDECAR_POD_LABELS] is required").
		AddValidator(validation.NewPortValidator("MONGO_PORT", c.MongoPort)).
		AddValidator(validation.NewDNSSubdomainValidator("KUBERNETES_CLUSTER_DOMAIN", c.ClusterDomain)).
		AddAssertion(c.SleepSeconds > 0, "the [MONGO_SIDECAR_SLEEP_SECONDS] must be positive").
		AddAssertion(c.UnhealthySeconds > 0, "the [MONGO_SIDECAR_UNHEALTHY_SECONDS] must be positive").
		AddAssertion(c.ProbeConcurrency > 0, "the [MONGO_SIDECAR_PROBE_CONCURRENCY] must be positive").
		AddAssertion(c.CommandTimeout > 0, "the [MONGO_SIDECAR_COMMAND_TIMEOUT] must be positive").
		AddAssertion((c.MongoUser == "") == (c.MongoPassword == ""), "the [MONGO_USER] and [MONGO_PASSWORD] must be set together").
		AddAssertion(levelErr == nil, fmt.Sprintf("the [MONGO_SIDECAR_LOG_LEVEL] %q is unknown", c.LogLevel))

	if c.ServiceName != "" {
		chain.AddValidator(validation.NewDNSLabelValidator("KUBERNETES_MONGO_SERVICE_NAME", c.ServiceName))
	}

	if err := chain.Validate(); err != nil {
		return fmt.Errorf("%w: %w", serrors.ErrInvalidConfig, err)
	}
	return nil
}

// SleepInterval returns the delay between two cycles
func (c *Config) SleepInterval() time.Duration {
	return time.Duration(c.SleepSeconds) * time.Second
}

// UnhealthyThreshold returns how long a member may stay unhealthy before removal
func (c *Config) UnhealthyThreshold() time.Duration {
	return time.Duration(c.UnhealthySeconds) * time.Second
}

// Authenticated reports whether the store connections must authenticate
func (c *Config) Authenticated() bool {
	return c.MongoUser != "" && c.MongoPassword != ""
}

// Level returns the parsed log level. Validate guarantees it parses.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
