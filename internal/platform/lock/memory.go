package lock

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

const gateWeight = math.MaxInt32

type keyedSem struct {
	sem  *semaphore.Weighted
	refs int
}

// InMemoryLocker serializes work within one process. The gate semaphore is
// held with weight 1 by every record lock and with its full weight by LockAll.
type InMemoryLocker struct {
	gate        *semaphore.Weighted
	waitTimeout time.Duration

	mu   sync.Mutex
	keys map[string]*keyedSem
}

func NewInMemory(waitTimeout time.Duration) *InMemoryLocker {
	return &InMemoryLocker{
		gate:        semaphore.NewWeighted(gateWeight),
		waitTimeout: waitTimeout,
		keys:        make(map[string]*keyedSem),
	}
}

func (l *InMemoryLocker) LockRecord(ctx context.Context, key string) (func(), error) {
	ctx, cancel := waitContext(ctx, l.waitTimeout)
	defer cancel()

	if err := l.gate.Acquire(ctx, 1); err != nil {
		return nil, timeoutError("record lock "+key, err)
	}
	ks := l.ref(key)
	if err := ks.sem.Acquire(ctx, 1); err != nil {
		l.unref(key)
		l.gate.Release(1)
		return nil, timeoutError("record lock "+key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ks.sem.Release(1)
			l.unref(key)
			l.gate.Release(1)
		})
	}, nil
}

func (l *InMemoryLocker) LockAll(ctx context.Context) (func(), error) {
	ctx, cancel := waitContext(ctx, l.waitTimeout)
	defer cancel()

	if err := l.gate.Acquire(ctx, gateWeight); err != nil {
		return nil, timeoutError("store lock", err)
	}
	var once sync.Once
	return func() {
		once.Do(func() { l.gate.Release(gateWeight) })
	}, nil
}

func (l *InMemoryLocker) ref(key string) *keyedSem {
	l.mu.Lock()
	defer l.mu.Unlock()
	ks, ok := l.keys[key]
	if !ok {
		ks = &keyedSem{sem: semaphore.NewWeighted(1)}
		l.keys[key] = ks
	}
	ks.refs++
	return ks
}

func (l *InMemoryLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ks := l.keys[key]
	ks.refs--
	if ks.refs == 0 {
		delete(l.keys, key)
	}
}
