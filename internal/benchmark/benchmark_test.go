package benchmark

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAggregatesLatencies(t *testing.T) {
	var calls int
	op := func(context.Context) error {
		calls++
		time.Sleep(time.Millisecond)
		return nil
	}

	res, err := Run(context.Background(), "list_employees", 10, op)
	require.NoError(t, err)

	assert.Equal(t, 10, calls)
	assert.Equal(t, 10, res.Iterations)
	assert.Equal(t, 0, res.Errors)
	assert.Greater(t, res.AvgMs, 0.0)
	assert.LessOrEqual(t, res.MinMs, res.AvgMs)
	assert.GreaterOrEqual(t, res.MaxMs, res.AvgMs)
	assert.GreaterOrEqual(t, res.TotalMs, res.MaxMs)
}

func TestRunCountsErrors(t *testing.T) {
	var calls int
	op := func(context.Context) error {
		calls++
		if calls%2 == 0 {
			return errors.New("boom")
		}
		return nil
	}

	res, err := Run(context.Background(), "flaky", 10, op)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Errors)
	assert.Equal(t, 10, res.Iterations)
}

func TestRunRejectsBadIterations(t *testing.T) {
	_, err := Run(context.Background(), "x", 0, func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, "x", 5, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunConcurrentExecutesAllIterations(t *testing.T) {
	var calls atomic.Int64
	op := func(context.Context) error {
		calls.Add(1)
		return nil
	}

	res, err := RunConcurrent(context.Background(), "concurrent", 4, 25, op)
	require.NoError(t, err)

	assert.Equal(t, int64(100), calls.Load())
	assert.Equal(t, 100, res.Iterations)
	assert.Equal(t, 4, res.Users)
	assert.Equal(t, 0, res.Errors)
	assert.GreaterOrEqual(t, res.MaxMs, res.MinMs)
}

func TestRunConcurrentCountsErrors(t *testing.T) {
	var calls atomic.Int64
	op := func(context.Context) error {
		if calls.Add(1)%4 == 0 {
			return errors.New("boom")
		}
		return nil
	}

	res, err := RunConcurrent(context.Background(), "concurrent-flaky", 2, 10, op)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Errors)
	assert.Equal(t, 20, res.Iterations)
}

func TestResultString(t *testing.T) {
	r := &Result{Name: "q", Iterations: 10, Users: 2, AvgMs: 1.5, MinMs: 1, MaxMs: 2, StdDevMs: 0.3, P95Ms: 1.9}
	s := r.String()
	assert.Contains(t, s, "q x10 (2 users)")
	assert.Contains(t, s, "avg=1.50ms")
}
