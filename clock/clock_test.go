package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake(t *testing.T) {
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("sleep advances and records", func(t *testing.T) {
		f := NewFake(start)
		require.NoError(t, f.Sleep(context.Background(), time.Second))
		require.NoError(t, f.Sleep(context.Background(), 500*time.Millisecond))

		assert.Equal(t, start.Add(1500*time.Millisecond), f.Now())
		assert.Equal(t, []time.Duration{time.Second, 500 * time.Millisecond}, f.Sleeps())
		assert.Equal(t, 1500*time.Millisecond, f.Total())
	})

	t.Run("non-positive sleep is not recorded", func(t *testing.T) {
		f := NewFake(start)
		require.NoError(t, f.Sleep(context.Background(), 0))
		require.NoError(t, f.Sleep(context.Background(), -time.Second))
		assert.Empty(t, f.Sleeps())
		assert.Equal(t, start, f.Now())
	})

	t.Run("cancelled context", func(t *testing.T) {
		f := NewFake(start)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, f.Sleep(ctx, time.Second), context.Canceled)
		assert.Empty(t, f.Sleeps())
	})

	t.Run("advance does not record", func(t *testing.T) {
		f := NewFake(start)
		f.Advance(time.Minute)
		assert.Equal(t, start.Add(time.Minute), f.Now())
		assert.Empty(t, f.Sleeps())
	})
}

func TestReal(t *testing.T) {
	t.Run("returns on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Real().Sleep(ctx, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("short sleep", func(t *testing.T) {
		before := time.Now()
		require.NoError(t, Real().Sleep(context.Background(), 5*time.Millisecond))
		assert.GreaterOrEqual(t, time.Since(before), 5*time.Millisecond)
	})
}
