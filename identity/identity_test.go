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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/tochemey/mongo-sidecar/errors"
)

func TestNew(t *testing.T) {
	t.Run("With IPv4", func(t *testing.T) {
		identity, err := New("10.0.0.5", 27017)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.5", identity.IP())
		assert.Equal(t, 27017, identity.Port())
		assert.Equal(t, "10.0.0.5:27017", identity.HostPort())
		assert.Equal(t, "10.0.0.5:27017", identity.String())
	})
	t.Run("With IPv6", func(t *testing.T) {
		_, err := New("fe80::1", 27017)
		assert.ErrorIs(t, err, serrors.ErrInvalidIP)
	})
	t.Run("With garbage", func(t *testing.T) {
		_, err := New("mongo-0", 27017)
		assert.ErrorIs(t, err, serrors.ErrInvalidIP)
	})
}

func TestSource(t *testing.T) {
	hostname := func() (string, error) { return "mongo-0", nil }

	t.Run("With resolvable host name", func(t *testing.T) {
		source := NewSource(
			WithHostname(hostname),
			WithRetries(2, time.Millisecond),
			WithLookup(func(_ context.Context, host string) ([]string, error) {
				assert.Equal(t, "mongo-0", host)
				return []string{"fe80::1", "10.0.0.7"}, nil
			}))

		identity, err := source.Resolve(context.TODO(), 27017)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.7", identity.IP())
		assert.Equal(t, "10.0.0.7:27017", identity.HostPort())
	})
	t.Run("With a lookup succeeding after a retry", func(t *testing.T) {
		attempts := 0
		source := NewSource(
			WithHostname(hostname),
			WithRetries(3, time.Millisecond),
			WithLookup(func(context.Context, string) ([]string, error) {
				attempts++
				if attempts == 1 {
					return nil, errors.New("no such host")
				}
				return []string{"10.0.0.8"}, nil
			}))

		identity, err := source.Resolve(context.TODO(), 27017)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.8", identity.IP())
		assert.Equal(t, 2, attempts)
	})
	t.Run("With a lookup that never succeeds", func(t *testing.T) {
		source := NewSource(
			WithHostname(hostname),
			WithRetries(2, time.Millisecond),
			WithLookup(func(context.Context, string) ([]string, error) {
				return nil, errors.New("no such host")
			}))

		_, err := source.Resolve(context.TODO(), 27017)
		assert.ErrorIs(t, err, serrors.ErrIdentityNotResolved)
	})
	t.Run("With an unreadable host name", func(t *testing.T) {
		source := NewSource(WithHostname(func() (string, error) { return "", errors.New("boom") }))
		_, err := source.Resolve(context.TODO(), 27017)
		assert.ErrorIs(t, err, serrors.ErrIdentityNotResolved)
	})
}
