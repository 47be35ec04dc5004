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

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const adminDatabase = "admin"

// Session is an open connection to a single mongod
type Session interface {
	// Address returns the host:port the session is connected to
	Address() string
	// RunAdminCommand runs the command against the admin database and decodes
	// the reply into result when result is not nil
	RunAdminCommand(ctx context.Context, command bson.D, result any) error
	// Close releases the connection
	Close(ctx context.Context) error
}

// Dialer opens sessions
type Dialer interface {
	// Dial connects to the mongod listening at address
	Dial(ctx context.Context, address string) (Session, error)
}

// DialerOption configures the driver dialer
type DialerOption func(*dialer)

// WithCredentials makes every session authenticate against the admin database
func WithCredentials(username, password string) DialerOption {
	return func(d *dialer) {
		d.credential = &options.Credential{
			Username:   username,
			Password:   password,
			AuthSource: adminDatabase,
		}
	}
}

// WithTimeout bounds connection, server selection and every command of a session
func WithTimeout(timeout time.Duration) DialerOption {
	return func(d *dialer) {
		d.timeout = timeout
	}
}

type dialer struct {
	credential *options.Credential
	timeout    time.Duration
}

// enforce compilation error
var _ Dialer = (*dialer)(nil)

// NewDialer creates a Dialer backed by the official MongoDB driver.
// Sessions use a direct connection: the sidecar talks to one specific member,
// never to the replica set as a whole.
func NewDialer(opts ...DialerOption) Dialer {
	d := &dialer{timeout: 10 * time.Second}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dial implements Dialer
func (d *dialer) Dial(ctx context.Context, address string) (Session, error) {
	clientOptions := options.Client().
		SetHosts([]string{address}).
		SetDirect(true).
		SetConnectTimeout(d.timeout).
		SetServerSelectionTimeout(d.timeout).
		SetTimeout(d.timeout).
		SetAppName("mongo-sidecar")

	if d.credential != nil {
		clientOptions.SetAuth(*d.credential)
	}

	client, err := mongod.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	if err := client.Ping(ctx, readpref.Nearest()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to reach %s: %w", address, err)
	}

	return &session{address: address, client: client}, nil
}

type session struct {
	address string
	client  *mongod.Client
}

// enforce compilation error
var _ Session = (*session)(nil)

func (s *session) Address() string {
	return s.address
}

func (s *session) RunAdminCommand(ctx context.Context, command bson.D, result any) error {
	reply := s.client.Database(adminDatabase).RunCommand(ctx, command)
	if result == nil {
		return reply.Err()
	}
	return reply.Decode(result)
}

func (s *session) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil && !errors.Is(err, mongod.ErrClientDisconnected) {
		return err
	}
	return nil
}
