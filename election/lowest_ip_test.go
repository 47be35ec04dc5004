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

package election

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/mongo-sidecar/discovery"
	serrors "github.com/tochemey/mongo-sidecar/errors"
	"github.com/tochemey/mongo-sidecar/identity"
)

func TestToUint32(t *testing.T) {
	value, err := ToUint32("10.0.0.1")
	require.NoError(t, err)
	assert.EqualValues(t, 167772161, value)

	value, err = ToUint32("255.255.255.255")
	require.NoError(t, err)
	assert.EqualValues(t, uint32(0xFFFFFFFF), value)

	_, err = ToUint32("")
	assert.ErrorIs(t, err, serrors.ErrInvalidIP)
	_, err = ToUint32("mongo-0")
	assert.ErrorIs(t, err, serrors.ErrInvalidIP)
}

func TestLowestIP(t *testing.T) {
	newPods := func(ips ...string) []*discovery.Pod {
		pods := make([]*discovery.Pod, 0, len(ips))
		for _, ip := range ips {
			pods = append(pods, &discovery.Pod{Name: "pod-" + ip, IP: ip, Phase: discovery.PodRunning})
		}
		return pods
	}

	t.Run("With numeric rather than lexical ordering", func(t *testing.T) {
		pods := newPods("10.0.0.10", "10.0.0.9", "10.0.1.1")
		winner, err := LowestIP{}.Elect(pods)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.9", winner.IP)
	})
	t.Run("With the input order preserved", func(t *testing.T) {
		pods := newPods("10.0.0.3", "10.0.0.2", "10.0.0.1")
		_, err := LowestIP{}.Elect(pods)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.3", pods[0].IP)
		assert.Equal(t, "10.0.0.1", pods[2].IP)
	})
	t.Run("With deterministic results whatever the order", func(t *testing.T) {
		pods := newPods("10.2.0.4", "10.1.9.200", "192.168.0.1", "10.1.10.3", "172.16.0.2")
		expected, err := LowestIP{}.Elect(pods)
		require.NoError(t, err)
		assert.Equal(t, "10.1.9.200", expected.IP)

		for range 20 {
			shuffled := append([]*discovery.Pod(nil), pods...)
			rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			winner, err := LowestIP{}.Elect(shuffled)
			require.NoError(t, err)
			assert.Same(t, expected, winner)
		}
	})
	t.Run("With pods lacking a usable IP", func(t *testing.T) {
		pods := newPods("", "not-an-ip", "10.0.0.5")
		pods = append(pods, nil)
		winner, err := LowestIP{}.Elect(pods)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.5", winner.IP)
	})
	t.Run("With no candidate", func(t *testing.T) {
		_, err := LowestIP{}.Elect(newPods(""))
		assert.ErrorIs(t, err, serrors.ErrNoElectionCandidate)
		_, err = LowestIP{}.Elect(nil)
		assert.ErrorIs(t, err, serrors.ErrNoElectionCandidate)
	})
}

func TestIsLeader(t *testing.T) {
	pods := []*discovery.Pod{
		{Name: "mongo-1", IP: "10.0.0.2"},
		{Name: "mongo-0", IP: "10.0.0.1"},
	}

	t.Run("With the local pod elected", func(t *testing.T) {
		self, err := identity.New("10.0.0.1", 27017)
		require.NoError(t, err)
		leader, winner, err := IsLeader(LowestIP{}, pods, self)
		require.NoError(t, err)
		assert.True(t, leader)
		assert.Equal(t, "mongo-0", winner.Name)
	})
	t.Run("With another pod elected", func(t *testing.T) {
		self, err := identity.New("10.0.0.2", 27017)
		require.NoError(t, err)
		leader, winner, err := IsLeader(LowestIP{}, pods, self)
		require.NoError(t, err)
		assert.False(t, leader)
		assert.Equal(t, "mongo-0", winner.Name)
	})
	t.Run("With no candidate", func(t *testing.T) {
		self, err := identity.New("10.0.0.2", 27017)
		require.NoError(t, err)
		leader, winner, err := IsLeader(LowestIP{}, nil, self)
		assert.Error(t, err)
		assert.False(t, leader)
		assert.Nil(t, winner)
	})
}
