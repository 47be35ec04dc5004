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
	"sync"
	"time"
)

// State represents the current state of a Timer
type State int

const (
	// StateStopped indicates the timer will not fire anymore
	StateStopped State = iota
	// StateArmed indicates the timer will fire once its delay elapsed
	StateArmed
	// StateFired indicates the timer fired and waits to be armed again
	StateFired
)

// Timer fires a fixed delay after it was last armed. It never fires on its own
// twice in a row: after firing it waits for Arm, so consecutive runs of the
// work it schedules cannot overlap.
type Timer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	state State
}

// New creates a Timer armed to fire immediately.
// Subsequent firings happen delay after each call to Arm.
func New(delay time.Duration) *Timer {
	return &Timer{
		delay: delay,
		timer: time.NewTimer(0),
		state: StateArmed,
	}
}

// C returns the channel receiving a value when the timer fires
func (t *Timer) C() <-chan time.Time {
	return t.timer.C
}

// Fired records that the value sent on C was consumed
func (t *Timer) Fired() {
	t.mu.Lock()
	if t.state == StateArmed {
		t.state = StateFired
	}
	t.mu.Unlock()
}

// Arm schedules the next firing after the configured delay.
// It returns false when the timer is stopped.
func (t *Timer) Arm() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateStopped {
		return false
	}

	if !t.timer.Stop() {
		t.drainChannel()
	}
	t.timer.Reset(t.delay)
	t.state = StateArmed
	return true
}

// Stop prevents any further firing.
// It returns false when the timer was already stopped.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateStopped {
		return false
	}
	t.timer.Stop()
	t.drainChannel()
	t.state = StateStopped
	return true
}

// Delay returns the delay between the arming and the firing
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// State returns the current state of the timer
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// drainChannel drains the timer's channel if it has already fired, to prevent blocking.
func (t *Timer) drainChannel() {
	select {
	case <-t.timer.C:
	default:
	}
}
