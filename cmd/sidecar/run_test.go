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

package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/tochemey/mongo-sidecar/errors"
	"github.com/tochemey/mongo-sidecar/identity"
)

func TestRun(t *testing.T) {
	t.Run("With invalid configuration", func(t *testing.T) {
		t.Setenv("MONGO_SIDECAR_POD_LABELS", "role=mongo")
		t.Setenv("MONGO_PORT", "0")

		err := run(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, serrors.ErrInvalidConfig)
	})
	t.Run("With unresolvable local identity", func(t *testing.T) {
		t.Setenv("MONGO_SIDECAR_POD_LABELS", "role=mongo")

		resolve := resolveIdentity
		t.Cleanup(func() { resolveIdentity = resolve })
		resolveIdentity = func(context.Context, int) (identity.Identity, error) {
			return identity.Identity{}, fmt.Errorf("%w: no such host", serrors.ErrIdentityNotResolved)
		}

		err := run(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, serrors.ErrIdentityNotResolved)
		assert.Contains(t, err.Error(), "failed to resolve the local identity")
	})
}
