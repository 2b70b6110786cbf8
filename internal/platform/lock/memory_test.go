package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truida/pkg/platform/sentinel"
)

func TestRecordLockSerializesSameKey(t *testing.T) {
	l := NewInMemory(time.Second)
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.LockRecord(ctx, "p-1")
			if !assert.NoError(t, err) {
				return
			}
			defer release()
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, l.keys, "released keys are dropped")
}

func TestRecordLockDifferentKeysDoNotBlock(t *testing.T) {
	l := NewInMemory(50 * time.Millisecond)
	ctx := context.Background()

	releaseA, err := l.LockRecord(ctx, "a")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := l.LockRecord(ctx, "b")
	require.NoError(t, err)
	releaseB()
}

func TestRecordLockTimesOut(t *testing.T) {
	l := NewInMemory(20 * time.Millisecond)
	ctx := context.Background()

	release, err := l.LockRecord(ctx, "a")
	require.NoError(t, err)
	defer release()

	_, err = l.LockRecord(ctx, "a")
	require.ErrorIs(t, err, sentinel.ErrLockTimeout)
}

func TestLockAllExcludesRecordLocks(t *testing.T) {
	l := NewInMemory(20 * time.Millisecond)
	ctx := context.Background()

	t.Run("held record lock blocks LockAll", func(t *testing.T) {
		release, err := l.LockRecord(ctx, "a")
		require.NoError(t, err)
		_, err = l.LockAll(ctx)
		require.ErrorIs(t, err, sentinel.ErrLockTimeout)
		release()

		releaseAll, err := l.LockAll(ctx)
		require.NoError(t, err)
		releaseAll()
	})

	t.Run("held store lock blocks record locks", func(t *testing.T) {
		releaseAll, err := l.LockAll(ctx)
		require.NoError(t, err)
		_, err = l.LockRecord(ctx, "b")
		require.ErrorIs(t, err, sentinel.ErrLockTimeout)
		releaseAll()

		release, err := l.LockRecord(ctx, "b")
		require.NoError(t, err)
		release()
	})
}

func TestReleaseIsIdempotent(t *testing.T) {
	l := NewInMemory(20 * time.Millisecond)
	ctx := context.Background()

	release, err := l.LockRecord(ctx, "a")
	require.NoError(t, err)
	release()
	release()

	releaseAll, err := l.LockAll(ctx)
	require.NoError(t, err)
	releaseAll()
}

func TestCancelledContext(t *testing.T) {
	l := NewInMemory(time.Second)
	release, err := l.LockRecord(context.Background(), "a")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.LockRecord(ctx, "a")
	require.ErrorIs(t, err, sentinel.ErrLockTimeout)
	require.ErrorIs(t, err, context.Canceled)
}
