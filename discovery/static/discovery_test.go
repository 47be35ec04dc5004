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

package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/mongo-sidecar/discovery"
	serrors "github.com/tochemey/mongo-sidecar/errors"
)

func TestDiscovery(t *testing.T) {
	t.Run("With ID assertion", func(t *testing.T) {
		provider := NewDiscovery()
		assert.Equal(t, "static", provider.ID())
	})
	t.Run("With Pods before Start", func(t *testing.T) {
		provider := NewDiscovery()
		_, err := provider.Pods(context.TODO())
		assert.ErrorIs(t, err, serrors.ErrDiscoveryNotStarted)
		assert.ErrorIs(t, provider.Stop(), serrors.ErrDiscoveryNotStarted)
	})
	t.Run("With Pods", func(t *testing.T) {
		ctx := context.TODO()
		provider := NewDiscovery(
			&discovery.Pod{Name: "mongo-0", IP: "10.0.0.1", Phase: discovery.PodRunning, Labels: map[string]string{"role": "mongo"}},
			&discovery.Pod{Name: "mongo-1", Phase: "Pending"},
		)
		require.NoError(t, provider.Start(ctx))

		pods, err := provider.Pods(ctx)
		require.NoError(t, err)
		require.Len(t, pods, 2)

		// the returned pods are copies
		pods[0].IP = "10.9.9.9"
		pods[0].Labels["role"] = "web"
		again, err := provider.Pods(ctx)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.1", again[0].IP)
		assert.Equal(t, "mongo", again[0].Labels["role"])

		require.NoError(t, provider.Stop())
	})
}
