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
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PrimaryState is the member state reported by the primary
const PrimaryState = 1

// termField is maintained by the server and must not be sent back on reconfiguration
const termField = "term"

// Member is an entry of the replica set configuration members array.
// Fields the sidecar does not manage (priority, votes, tags...) are kept in Extra.
type Member struct {
	ID    int    `bson:"_id"`
	Host  string `bson:"host"`
	Extra bson.M `bson:",inline"`
}

// Config is the replica set configuration document as returned by replSetGetConfig.
// Settings the sidecar does not manage are preserved in Extra so that a
// reconfiguration submits them back untouched.
type Config struct {
	ID      string   `bson:"_id"`
	Version int      `bson:"version"`
	Members []Member `bson:"members"`
	Extra   bson.M   `bson:",inline"`
}

// Hosts returns the configured member hosts in order
func (c *Config) Hosts() []string {
	hosts := make([]string, 0, len(c.Members))
	for _, member := range c.Members {
		hosts = append(hosts, member.Host)
	}
	return hosts
}

// Clone returns a deep enough copy of the configuration to mutate members safely
func (c *Config) Clone() *Config {
	clone := &Config{
		ID:      c.ID,
		Version: c.Version,
		Members: make([]Member, len(c.Members)),
		Extra:   cloneM(c.Extra),
	}
	for i, member := range c.Members {
		clone.Members[i] = Member{ID: member.ID, Host: member.Host, Extra: cloneM(member.Extra)}
	}
	return clone
}

// NextVersion returns a copy of the configuration ready to be submitted:
// the version is incremented by exactly one and server maintained fields are dropped.
func (c *Config) NextVersion() *Config {
	next := c.Clone()
	next.Version++
	delete(next.Extra, termField)
	return next
}

// AddMembers appends one member per host. Identifiers continue from the
// highest identifier in use, the way the shell rs.add helper does.
func (c *Config) AddMembers(hosts ...string) {
	if len(hosts) == 0 {
		return
	}

	highest := 0
	for _, member := range c.Members {
		if member.ID > highest {
			highest = member.ID
		}
	}

	for _, host := range hosts {
		highest++
		c.Members = append(c.Members, Member{ID: highest, Host: host})
	}
}

// RemoveMembers drops, for every host, the first member configured with that host
func (c *Config) RemoveMembers(hosts ...string) {
	for _, host := range hosts {
		for i, member := range c.Members {
			if member.Host == host {
				c.Members = append(c.Members[:i], c.Members[i+1:]...)
				break
			}
		}
	}
}

// StatusMember is a member entry of replSetGetStatus
type StatusMember struct {
	ID                int       `bson:"_id"`
	Name              string    `bson:"name"`
	Health            float64   `bson:"health"`
	State             int       `bson:"state"`
	StateStr          string    `bson:"stateStr"`
	Self              bool      `bson:"self"`
	LastHeartbeatRecv time.Time `bson:"lastHeartbeatRecv"`
}

// IsHealthy reports whether the member is reachable
func (m StatusMember) IsHealthy() bool {
	return m.Health > 0
}

// IsPrimary reports whether the member is the primary
func (m StatusMember) IsPrimary() bool {
	return m.State == PrimaryState
}

// Status is the reply of replSetGetStatus
type Status struct {
	Set     string         `bson:"set"`
	Members []StatusMember `bson:"members"`
}

// Hosts returns the member hosts as reported by the status
func (s *Status) Hosts() []string {
	hosts := make([]string, 0, len(s.Members))
	for _, member := range s.Members {
		hosts = append(hosts, member.Name)
	}
	return hosts
}

// Primary returns the primary member if any
func (s *Status) Primary() (StatusMember, bool) {
	for _, member := range s.Members {
		if member.IsPrimary() {
			return member, true
		}
	}
	return StatusMember{}, false
}

// OutcomeKind classifies the answer of replSetGetStatus
type OutcomeKind int

const (
	// OutcomeMember means the local instance belongs to an initialized replica set
	OutcomeMember OutcomeKind = iota
	// OutcomeNotInitialized means the local instance was never part of a replica set
	OutcomeNotInitialized
	// OutcomeInvalidConfig means the stored replica set configuration is unusable
	OutcomeInvalidConfig
	// OutcomeFailed means the status could not be obtained
	OutcomeFailed
)

// String returns the outcome name
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeMember:
		return "member"
	case OutcomeNotInitialized:
		return "not-initialized"
	case OutcomeInvalidConfig:
		return "invalid-config"
	default:
		return "failed"
	}
}

// StatusOutcome is the decoded result of replSetGetStatus.
// Status is set for OutcomeMember; Err is set for every other kind.
type StatusOutcome struct {
	Kind   OutcomeKind
	Status *Status
	Err    error
}

func cloneM(in bson.M) bson.M {
	if in == nil {
		return nil
	}
	out := make(bson.M, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
