package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleRateLimiterEnforcesGap(t *testing.T) {
	r := NewSimpleRateLimiter(50*time.Millisecond, 50*time.Millisecond)

	ctx := context.Background()
	require.NoError(t, r.Wait(ctx))

	start := time.Now()
	require.NoError(t, r.Wait(ctx))
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestSimpleRateLimiterFirstCallIsImmediate(t *testing.T) {
	r := NewSimpleRateLimiter(time.Hour, time.Hour)

	// lastAction is zero, so the elapsed time dwarfs any delay.
	start := time.Now()
	require.NoError(t, r.Wait(context.Background()))
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	r := NewSimpleRateLimiter(time.Hour, time.Hour)
	require.NoError(t, r.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAdaptiveRateLimiterBacksOffOnErrors(t *testing.T) {
	a := NewAdaptiveRateLimiter(2*time.Second, 10*time.Second)

	for i := 0; i < a.maxErrorCount; i++ {
		a.RecordError()
	}

	assert.Equal(t, 3*time.Second, a.minDelay)
	assert.Equal(t, 15*time.Second, a.maxDelay)
}

func TestAdaptiveRateLimiterDelaysAreCapped(t *testing.T) {
	a := NewAdaptiveRateLimiter(50*time.Second, 110*time.Second)

	for i := 0; i < a.maxErrorCount; i++ {
		a.RecordError()
	}

	assert.Equal(t, 60*time.Second, a.minDelay)
	assert.Equal(t, 120*time.Second, a.maxDelay)
}

func TestAdaptiveRateLimiterRelaxesAfterSuccessStreak(t *testing.T) {
	a := NewAdaptiveRateLimiter(10*time.Second, 30*time.Second)

	for i := 0; i < 6; i++ {
		a.RecordSuccess()
	}

	assert.Equal(t, 9*time.Second, a.minDelay)
}

func TestSuccessResetsErrorCount(t *testing.T) {
	a := NewAdaptiveRateLimiter(2*time.Second, 10*time.Second)

	a.RecordError()
	a.RecordError()
	a.RecordSuccess()
	a.RecordError()

	// Errors never reached the threshold in a row, so delays are unchanged.
	assert.Equal(t, 2*time.Second, a.minDelay)
	assert.Equal(t, 10*time.Second, a.maxDelay)
}
