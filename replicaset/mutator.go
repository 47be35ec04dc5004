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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	serrors "github.com/tochemey/mongo-sidecar/errors"
	"github.com/tochemey/mongo-sidecar/log"
	"github.com/tochemey/mongo-sidecar/mongo"
)

const (
	// DefaultInitiateAttempts is the number of reconfiguration attempts made after replSetInitiate
	DefaultInitiateAttempts = 20
	// DefaultInitiateInterval is the delay between two reconfiguration attempts after replSetInitiate
	DefaultInitiateInterval = 500 * time.Millisecond
)

// MutatorOption configures the Mutator
type MutatorOption func(*Mutator)

// WithLogger sets the mutator logger
func WithLogger(logger log.Logger) MutatorOption {
	return func(m *Mutator) {
		m.logger = logger
	}
}

// WithInitiateRetry sets how many reconfiguration attempts follow replSetInitiate and how far apart they are
func WithInitiateRetry(attempts int, interval time.Duration) MutatorOption {
	return func(m *Mutator) {
		m.initiateAttempts = attempts
		m.initiateInterval = interval
	}
}

// Mutator issues the replica set administration commands
type Mutator struct {
	logger           log.Logger
	initiateAttempts int
	initiateInterval time.Duration
}

// NewMutator creates an instance of Mutator
func NewMutator(opts ...MutatorOption) *Mutator {
	m := &Mutator{
		logger:           log.DiscardLogger,
		initiateAttempts: DefaultInitiateAttempts,
		initiateInterval: DefaultInitiateInterval,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.initiateAttempts < 1 {
		m.initiateAttempts = 1
	}
	return m
}

// GetConfig fetches the replica set configuration known to the session's instance
func (m *Mutator) GetConfig(ctx context.Context, session mongo.Session) (*Config, error) {
	var reply struct {
		Config *Config `bson:"config"`
	}

	if err := session.RunAdminCommand(ctx, bson.D{{Key: "replSetGetConfig", Value: 1}}, &reply); err != nil {
		return nil, fmt.Errorf("replSetGetConfig failed: %w", err)
	}

	if reply.Config == nil {
		return nil, fmt.Errorf("replSetGetConfig failed: %w", serrors.ErrEmptyReplicaSetConfig)
	}
	return reply.Config, nil
}

// GetStatus runs replSetGetStatus and classifies its answer
func (m *Mutator) GetStatus(ctx context.Context, session mongo.Session) StatusOutcome {
	status := new(Status)
	err := session.RunAdminCommand(ctx, bson.D{{Key: "replSetGetStatus", Value: 1}}, status)

	switch {
	case err == nil:
		return StatusOutcome{Kind: OutcomeMember, Status: status}
	case mongo.HasErrorCode(err, mongo.CodeNotYetInitialized):
		return StatusOutcome{Kind: OutcomeNotInitialized, Err: err}
	case mongo.HasErrorCode(err, mongo.CodeInvalidReplicaSetConfig):
		return StatusOutcome{Kind: OutcomeInvalidConfig, Err: err}
	default:
		return StatusOutcome{Kind: OutcomeFailed, Err: fmt.Errorf("replSetGetStatus failed: %w", err)}
	}
}

// Reconfigure submits the given configuration as is
func (m *Mutator) Reconfigure(ctx context.Context, session mongo.Session, config *Config, force bool) error {
	m.logger.Debugf("replSetReconfig version=%d members=%v force=%t", config.Version, config.Hosts(), force)
	command := bson.D{
		{Key: "replSetReconfig", Value: config},
		{Key: "force", Value: force},
	}

	if err := session.RunAdminCommand(ctx, command, nil); err != nil {
		return fmt.Errorf("replSetReconfig failed: %w", err)
	}
	return nil
}

// Initiate creates a new replica set on the session's instance and makes its
// single member advertise seed instead of the instance's own hostname.
// The reconfiguration is retried while the new set elects itself.
func (m *Mutator) Initiate(ctx context.Context, session mongo.Session, seed string) error {
	m.logger.Infof("initiating replica set with seed=(%s)", seed)

	if err := session.RunAdminCommand(ctx, bson.D{{Key: "replSetInitiate", Value: bson.D{}}}, nil); err != nil {
		return fmt.Errorf("replSetInitiate failed: %w", err)
	}

	config, err := m.GetConfig(ctx, session)
	if err != nil {
		return err
	}

	if len(config.Members) == 0 {
		return serrors.ErrEmptyReplicaSetConfig
	}

	config.Members[0].Host = seed
	next := config.NextVersion()

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(m.initiateInterval), uint64(m.initiateAttempts-1)),
		ctx,
	)

	attempt := 0
	operation := func() error {
		attempt++
		err := m.Reconfigure(ctx, session, next, false)
		if err != nil {
			m.logger.Debugf("reconfiguration attempt %d/%d after initiate failed: %v", attempt, m.initiateAttempts, err)
		}
		return err
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("failed to set replica set seed after %d attempts: %w", attempt, err)
	}

	m.logger.Infof("replica set initiated with seed=(%s)", seed)
	return nil
}

// ApplyMembership reads the latest configuration, adds and removes the given
// hosts, increments the version once and submits a single reconfiguration.
// Nothing is sent when both lists are empty.
func (m *Mutator) ApplyMembership(ctx context.Context, session mongo.Session, add, remove []string, force bool) error {
	if len(add) == 0 && len(remove) == 0 {
		return nil
	}

	config, err := m.GetConfig(ctx, session)
	if err != nil {
		return err
	}

	next := config.NextVersion()
	next.AddMembers(add...)
	next.RemoveMembers(remove...)

	m.logger.Infof("updating replica set membership add=%v remove=%v force=%t", add, remove, force)
	return m.Reconfigure(ctx, session, next, force)
}

// IsMember reports whether the instance listening at address already belongs
// to a replica set. Any failure counts as not being a member.
func (m *Mutator) IsMember(ctx context.Context, dialer mongo.Dialer, address string) bool {
	session, err := dialer.Dial(ctx, address)
	if err != nil {
		m.logger.Debugf("failed to probe (%s): %v", address, err)
		return false
	}

	defer func() {
		if err := session.Close(context.WithoutCancel(ctx)); err != nil {
			m.logger.Debugf("failed to close probe session to (%s): %v", address, err)
		}
	}()

	if _, err := m.GetConfig(ctx, session); err != nil {
		m.logger.Debugf("(%s) is not a replica set member: %v", address, err)
		return false
	}
	return true
}
