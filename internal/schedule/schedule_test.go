package schedule

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartFiresRepeatedly(t *testing.T) {
	var calls atomic.Int64
	s := New(func() { calls.Add(1) })
	defer s.Stop()

	require.NoError(t, s.Start(5*time.Millisecond))

	assert.True(t, s.Running())
	assert.Equal(t, 5*time.Millisecond, s.Interval())
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, s.Ticks(), int64(3))
}

func TestInvalidInterval(t *testing.T) {
	s := New(func() {})

	err := s.Start(0)
	require.ErrorIs(t, err, ErrInvalidInterval)
	err = s.Restart(-time.Second)
	require.ErrorIs(t, err, ErrInvalidInterval)
	assert.False(t, s.Running())
}

func TestInvalidRestartKeepsCurrentTimer(t *testing.T) {
	s := New(func() {})
	defer s.Stop()

	require.NoError(t, s.Start(time.Hour))
	require.Error(t, s.Restart(0))

	assert.True(t, s.Running())
	assert.Equal(t, time.Hour, s.Interval())
}

func TestRapidRestartLeavesOneTimer(t *testing.T) {
	var calls atomic.Int64
	s := New(func() { calls.Add(1) })
	defer s.Stop()

	require.NoError(t, s.Start(time.Hour))
	require.NoError(t, s.Restart(30*time.Millisecond))
	require.NoError(t, s.Restart(10*time.Millisecond))

	assert.Equal(t, int32(1), s.loops.Load())
	assert.Equal(t, 10*time.Millisecond, s.Interval())

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), s.loops.Load())
}

func TestConcurrentRestarts(t *testing.T) {
	s := New(func() {})
	defer s.Stop()

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, s.Restart(time.Duration(n)*time.Millisecond))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), s.loops.Load())
	assert.True(t, s.Running())
}

func TestCallbacksNeverOverlapAcrossRestarts(t *testing.T) {
	var active, maxActive atomic.Int32
	s := New(func() {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		active.Add(-1)
	})
	defer s.Stop()

	require.NoError(t, s.Start(time.Millisecond))
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Restart(time.Millisecond))
		time.Sleep(time.Millisecond)
	}

	require.Eventually(t, func() bool { return s.Ticks() > 0 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestRestartWaitsForInFlightTick(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	s := New(func() {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
	})
	defer s.Stop()

	require.NoError(t, s.Start(time.Millisecond))
	<-entered

	restarted := make(chan struct{})
	go func() {
		assert.NoError(t, s.Restart(time.Hour))
		close(restarted)
	}()

	select {
	case <-restarted:
		t.Fatal("restart returned while a tick was still running")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case <-restarted:
	case <-time.After(time.Second):
		t.Fatal("restart did not return after the tick finished")
	}
	assert.Equal(t, time.Hour, s.Interval())
}

func TestStop(t *testing.T) {
	t.Run("stops ticking", func(t *testing.T) {
		var calls atomic.Int64
		s := New(func() { calls.Add(1) })

		require.NoError(t, s.Start(time.Millisecond))
		require.Eventually(t, func() bool { return calls.Load() > 0 }, time.Second, time.Millisecond)

		s.Stop()
		after := calls.Load()
		time.Sleep(20 * time.Millisecond)

		assert.Equal(t, after, calls.Load())
		assert.False(t, s.Running())
		assert.Equal(t, time.Duration(0), s.Interval())
		assert.Equal(t, int32(0), s.loops.Load())
	})

	t.Run("is idempotent", func(t *testing.T) {
		s := New(func() {})
		s.Stop()
		require.NoError(t, s.Start(time.Hour))
		s.Stop()
		s.Stop()
		assert.False(t, s.Running())
	})

	t.Run("can start again after stop", func(t *testing.T) {
		var calls atomic.Int64
		s := New(func() { calls.Add(1) })
		defer s.Stop()

		require.NoError(t, s.Start(time.Hour))
		s.Stop()
		require.NoError(t, s.Start(time.Millisecond))
		require.Eventually(t, func() bool { return calls.Load() > 0 }, time.Second, time.Millisecond)
	})
}
