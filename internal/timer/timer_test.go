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

package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimer(t *testing.T) {
	t.Run("With an immediate first firing", func(t *testing.T) {
		timer := New(time.Hour)
		assert.Equal(t, StateArmed, timer.State())
		assert.Equal(t, time.Hour, timer.Delay())

		select {
		case <-timer.C():
			timer.Fired()
		case <-time.After(time.Second):
			t.Fatal("timer did not fire immediately")
		}
		assert.Equal(t, StateFired, timer.State())
	})
	t.Run("With firing only after Arm", func(t *testing.T) {
		timer := New(20 * time.Millisecond)
		<-timer.C()
		timer.Fired()

		select {
		case <-timer.C():
			t.Fatal("timer fired without being armed")
		case <-time.After(60 * time.Millisecond):
		}

		require.True(t, timer.Arm())
		start := time.Now()
		select {
		case <-timer.C():
			assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
		case <-time.After(time.Second):
			t.Fatal("timer did not fire after Arm")
		}
	})
	t.Run("With Stop", func(t *testing.T) {
		timer := New(10 * time.Millisecond)
		require.True(t, timer.Stop())
		assert.Equal(t, StateStopped, timer.State())
		assert.False(t, timer.Stop())
		assert.False(t, timer.Arm())

		select {
		case <-timer.C():
			t.Fatal("stopped timer fired")
		case <-time.After(50 * time.Millisecond):
		}
	})
	t.Run("With Arm before the previous firing is consumed", func(t *testing.T) {
		timer := New(30 * time.Millisecond)
		// the immediate firing is dropped and replaced by a delayed one
		time.Sleep(5 * time.Millisecond)
		require.True(t, timer.Arm())

		start := time.Now()
		<-timer.C()
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})
}
