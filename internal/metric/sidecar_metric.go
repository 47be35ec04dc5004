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

package metric

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	stateKey     = attribute.Key("state")
	actionKey    = attribute.Key("action")
	operationKey = attribute.Key("operation")
)

// SidecarMetric groups the instruments describing the reconciliation loop.
//
// Instruments:
//   - sidecar.cycles.count     (Int64Counter) tagged with state and action
//   - sidecar.failures.count   (Int64Counter) tagged with the failed operation
//   - sidecar.cycle.duration   (Float64Histogram, unit: seconds)
type SidecarMetric struct {
	cyclesCount   metric.Int64Counter
	failuresCount metric.Int64Counter
	cycleDuration metric.Float64Histogram
}

// NewSidecarMetric creates the instruments using the provided Meter.
func NewSidecarMetric(meter metric.Meter) (*SidecarMetric, error) {
	var instruments SidecarMetric
	var err error

	if instruments.cyclesCount, err = meter.Int64Counter(
		"sidecar.cycles.count",
		metric.WithDescription("Total number of completed reconciliation cycles"),
	); err != nil {
		return nil, err
	}

	if instruments.failuresCount, err = meter.Int64Counter(
		"sidecar.failures.count",
		metric.WithDescription("Total number of failed reconciliation cycles"),
	); err != nil {
		return nil, err
	}

	if instruments.cycleDuration, err = meter.Float64Histogram(
		"sidecar.cycle.duration",
		metric.WithDescription("Duration of a reconciliation cycle"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

// RecordCycle records a completed cycle with the observed state and the action taken
func (x *SidecarMetric) RecordCycle(ctx context.Context, state, action string, duration time.Duration) {
	x.cyclesCount.Add(ctx, 1, metric.WithAttributes(stateKey.String(state), actionKey.String(action)))
	x.cycleDuration.Record(ctx, duration.Seconds())
}

// RecordFailure records a cycle aborted while running the given operation
func (x *SidecarMetric) RecordFailure(ctx context.Context, operation string, duration time.Duration) {
	x.failuresCount.Add(ctx, 1, metric.WithAttributes(operationKey.String(operation)))
	x.cycleDuration.Record(ctx, duration.Seconds())
}
