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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tochemey/mongo-sidecar/mongo"
)

func TestMutatorWithMongo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container based test in short mode")
	}

	address := startMongo(t)
	ctx := t.Context()

	dialer := mongo.NewDialer(mongo.WithTimeout(10 * time.Second))
	mutator := NewMutator()

	session, err := dialer.Dial(ctx, address)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, session.Close(context.Background()))
	})

	t.Run("With a fresh instance", func(t *testing.T) {
		outcome := mutator.GetStatus(ctx, session)
		assert.Equal(t, OutcomeNotInitialized, outcome.Kind)
		assert.False(t, mutator.IsMember(ctx, dialer, address))
	})
	t.Run("With Initiate", func(t *testing.T) {
		// the seed must designate the instance from inside the container
		require.NoError(t, mutator.Initiate(ctx, session, "127.0.0.1:27017"))

		config, err := mutator.GetConfig(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, []string{"127.0.0.1:27017"}, config.Hosts())
		assert.GreaterOrEqual(t, config.Version, 2)

		require.Eventually(t, func() bool {
			outcome := mutator.GetStatus(ctx, session)
			if outcome.Kind != OutcomeMember {
				return false
			}
			primary, ok := outcome.Status.Primary()
			return ok && primary.Self
		}, 30*time.Second, 500*time.Millisecond)

		assert.True(t, mutator.IsMember(ctx, dialer, address))
	})
	t.Run("With nothing to apply", func(t *testing.T) {
		before, err := mutator.GetConfig(ctx, session)
		require.NoError(t, err)

		require.NoError(t, mutator.ApplyMembership(ctx, session, nil, nil, false))

		after, err := mutator.GetConfig(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, before.Version, after.Version)
	})
}

func startMongo(t *testing.T) string {
	t.Helper()
	container, err := testcontainers.Run(
		t.Context(),
		"mongo:7.0",
		testcontainers.WithExposedPorts("27017/tcp"),
		testcontainers.WithCmd("mongod", "--replSet", "rs0", "--bind_ip_all"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("27017/tcp").WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		err := testcontainers.TerminateContainer(container)
		require.NoError(t, err)
	})

	endpoint, err := container.PortEndpoint(t.Context(), "27017/tcp", "")
	require.NoError(t, err)
	return endpoint
}
