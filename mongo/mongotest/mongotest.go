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

// Package mongotest provides in-memory Session and Dialer implementations
// for exercising code that talks to mongod without a running server.
package mongotest

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tochemey/mongo-sidecar/mongo"
)

// codeCommandNotFound is what a server answers for an unknown command
const codeCommandNotFound int32 = 59

// Handler answers a single admin command
type Handler func(command bson.D) (any, error)

// Session is a scripted mongo.Session
type Session struct {
	mu       sync.Mutex
	address  string
	handlers map[string]Handler
	calls    []bson.D
	closed   bool
}

// enforce compilation error
var _ mongo.Session = (*Session)(nil)

// NewSession creates a Session that answers no command
func NewSession(address string) *Session {
	return &Session{
		address:  address,
		handlers: make(map[string]Handler),
	}
}

// Handle registers the handler of the given command name
func (s *Session) Handle(name string, handler Handler) *Session {
	s.mu.Lock()
	s.handlers[name] = handler
	s.mu.Unlock()
	return s
}

// Address implements mongo.Session
func (s *Session) Address() string {
	return s.address
}

// RunAdminCommand implements mongo.Session.
// The handler reply goes through a BSON round trip so that decoding behaves
// the way it does against a server.
func (s *Session) RunAdminCommand(_ context.Context, command bson.D, result any) error {
	if len(command) == 0 {
		return mongo.NewCommandError(codeCommandNotFound, "CommandNotFound", "empty command")
	}

	name := command[0].Key

	s.mu.Lock()
	s.calls = append(s.calls, command)
	handler, ok := s.handlers[name]
	s.mu.Unlock()

	if !ok {
		return mongo.NewCommandError(codeCommandNotFound, "CommandNotFound", fmt.Sprintf("no such command: '%s'", name))
	}

	reply, err := handler(command)
	if err != nil {
		return err
	}

	if result == nil || reply == nil {
		return nil
	}

	bytea, err := bson.Marshal(reply)
	if err != nil {
		return err
	}
	return bson.Unmarshal(bytea, result)
}

// Close implements mongo.Session
func (s *Session) Close(context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Calls returns the commands received so far
func (s *Session) Calls() []bson.D {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bson.D, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many times the named command was received
func (s *Session) CallCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, call := range s.calls {
		if len(call) > 0 && call[0].Key == name {
			count++
		}
	}
	return count
}

// CommandsNamed returns the received commands with the given name
func (s *Session) CommandsNamed(name string) []bson.D {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []bson.D
	for _, call := range s.calls {
		if len(call) > 0 && call[0].Key == name {
			out = append(out, call)
		}
	}
	return out
}

// Closed reports whether Close was called
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Dialer is a mongo.Dialer handing out registered sessions
type Dialer struct {
	mu       sync.Mutex
	sessions map[string]*Session
	failures map[string]error
	dialed   []string
}

// enforce compilation error
var _ mongo.Dialer = (*Dialer)(nil)

// NewDialer creates a Dialer that knows no address
func NewDialer() *Dialer {
	return &Dialer{
		sessions: make(map[string]*Session),
		failures: make(map[string]error),
	}
}

// Register makes the session reachable at its address
func (d *Dialer) Register(session *Session) *Dialer {
	d.mu.Lock()
	d.sessions[session.Address()] = session
	d.mu.Unlock()
	return d
}

// Fail makes dialing the address return err
func (d *Dialer) Fail(address string, err error) *Dialer {
	d.mu.Lock()
	d.failures[address] = err
	d.mu.Unlock()
	return d
}

// Dial implements mongo.Dialer
func (d *Dialer) Dial(ctx context.Context, address string) (mongo.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialed = append(d.dialed, address)

	if err, ok := d.failures[address]; ok {
		return nil, err
	}

	session, ok := d.sessions[address]
	if !ok {
		return nil, fmt.Errorf("failed to connect to %s: connection refused", address)
	}
	return session, nil
}

// Dialed returns the addresses dialed so far
func (d *Dialer) Dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.dialed))
	copy(out, d.dialed)
	return out
}
