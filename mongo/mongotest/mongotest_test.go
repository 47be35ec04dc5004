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

package mongotest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tochemey/mongo-sidecar/mongo"
)

func TestSession(t *testing.T) {
	ctx := context.Background()

	t.Run("With a registered handler", func(t *testing.T) {
		session := NewSession("10.0.0.1:27017").Handle("ping", func(bson.D) (any, error) {
			return bson.M{"ok": 1}, nil
		})

		var reply struct {
			OK int `bson:"ok"`
		}
		require.NoError(t, session.RunAdminCommand(ctx, bson.D{{Key: "ping", Value: 1}}, &reply))
		assert.Equal(t, 1, reply.OK)
		assert.Equal(t, 1, session.CallCount("ping"))
		assert.Len(t, session.Calls(), 1)
	})
	t.Run("With an unknown command", func(t *testing.T) {
		session := NewSession("10.0.0.1:27017")
		err := session.RunAdminCommand(ctx, bson.D{{Key: "hello", Value: 1}}, nil)
		require.Error(t, err)
		assert.True(t, mongo.HasErrorCode(err, codeCommandNotFound))
	})
	t.Run("With a handler error", func(t *testing.T) {
		session := NewSession("10.0.0.1:27017").Handle("replSetGetStatus", func(bson.D) (any, error) {
			return nil, mongo.NewCommandError(mongo.CodeNotYetInitialized, "NotYetInitialized", "no config")
		})
		err := session.RunAdminCommand(ctx, bson.D{{Key: "replSetGetStatus", Value: 1}}, &bson.M{})
		assert.True(t, mongo.HasErrorCode(err, mongo.CodeNotYetInitialized))
	})
	t.Run("With close", func(t *testing.T) {
		session := NewSession("10.0.0.1:27017")
		assert.False(t, session.Closed())
		require.NoError(t, session.Close(ctx))
		assert.True(t, session.Closed())
	})
}

func TestDialer(t *testing.T) {
	ctx := context.Background()
	session := NewSession("10.0.0.1:27017")
	boom := errors.New("boom")
	dialer := NewDialer().Register(session).Fail("10.0.0.2:27017", boom)

	got, err := dialer.Dial(ctx, "10.0.0.1:27017")
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = dialer.Dial(ctx, "10.0.0.2:27017")
	assert.ErrorIs(t, err, boom)

	_, err = dialer.Dial(ctx, "10.0.0.3:27017")
	assert.Error(t, err)

	assert.Equal(t, []string{"10.0.0.1:27017", "10.0.0.2:27017", "10.0.0.3:27017"}, dialer.Dialed())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = dialer.Dial(cancelled, "10.0.0.1:27017")
	assert.ErrorIs(t, err, context.Canceled)
}
