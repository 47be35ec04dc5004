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

package identity

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/flowchartsman/retry"

	serrors "github.com/tochemey/mongo-sidecar/errors"
)

// Identity is who this sidecar is: the IPv4 address its pod is reachable at
// and the matching store address. It is resolved once at startup and handed
// to the components that need it. It is a value type and never changes.
type Identity struct {
	ip   string
	port int
}

// New creates an Identity from an explicit IPv4 address
func New(ip string, port int) (Identity, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return Identity{}, fmt.Errorf("%w: %q", serrors.ErrInvalidIP, ip)
	}
	return Identity{ip: parsed.To4().String(), port: port}, nil
}

// IP returns the local pod IP
func (x Identity) IP() string {
	return x.ip
}

// Port returns the local store port
func (x Identity) Port() int {
	return x.port
}

// HostPort returns <ip>:<port>
func (x Identity) HostPort() string {
	return net.JoinHostPort(x.ip, strconv.Itoa(x.port))
}

// String implements fmt.Stringer
func (x Identity) String() string {
	return x.HostPort()
}

// Lookup resolves a host name into its addresses
type Lookup func(ctx context.Context, host string) ([]string, error)

// Source resolves the local identity from the system host name
type Source struct {
	hostname   func() (string, error)
	lookup     Lookup
	maxRetries int
	delay      time.Duration
}

// SourceOption configures a Source
type SourceOption func(*Source)

// WithLookup overrides the host name resolution
func WithLookup(lookup Lookup) SourceOption {
	return func(s *Source) {
		s.lookup = lookup
	}
}

// WithHostname overrides how the local host name is read
func WithHostname(hostname func() (string, error)) SourceOption {
	return func(s *Source) {
		s.hostname = hostname
	}
}

// WithRetries sets how many times the lookup is attempted and the delay between attempts
func WithRetries(maxRetries int, delay time.Duration) SourceOption {
	return func(s *Source) {
		s.maxRetries = maxRetries
		s.delay = delay
	}
}

// NewSource creates a Source backed by os.Hostname and the default resolver
func NewSource(opts ...SourceOption) *Source {
	source := &Source{
		hostname:   os.Hostname,
		lookup:     net.DefaultResolver.LookupHost,
		maxRetries: 5,
		delay:      time.Second,
	}
	for _, opt := range opts {
		opt(source)
	}
	return source
}

// Resolve looks up the local host name and returns the first IPv4 address it
// maps to. The pod DNS record may lag behind the container start, hence the
// bounded retry. Any error returned here must stop the process.
func (s *Source) Resolve(ctx context.Context, port int) (Identity, error) {
	hostname, err := s.hostname()
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", serrors.ErrIdentityNotResolved, err)
	}

	var identity Identity
	retrier := retry.NewRetrier(s.maxRetries, s.delay, s.delay)
	err = retrier.RunContext(ctx, func(ctx context.Context) error {
		addrs, err := s.lookup(ctx, hostname)
		if err != nil {
			return err
		}
		for _, addr := range addrs {
			if candidate, err := New(addr, port); err == nil {
				identity = candidate
				return nil
			}
		}
		return fmt.Errorf("host %s has no IPv4 address among %v", hostname, addrs)
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", serrors.ErrIdentityNotResolved, err)
	}
	return identity, nil
}

// Resolve resolves the local identity with the default Source
func Resolve(ctx context.Context, port int) (Identity, error) {
	return NewSource().Resolve(ctx, port)
}
