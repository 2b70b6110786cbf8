package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// All keys share the {truida} hash tag so the scripts below touch a single
// slot and run unchanged on a Redis Cluster client.
const (
	recordPrefix = "{truida}:lock:record:"
	storeKey     = "{truida}:lock:store"
	heldKey      = "{truida}:lock:held"
	pollMin      = 5 * time.Millisecond
	pollMax      = 100 * time.Millisecond
)

// acquireRecord sets the record key only while no store lock is held and
// indexes it in the held set, scored by its expiry in unix milliseconds.
var acquireRecord = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
if redis.call("SET", KEYS[1], ARGV[1], "NX", "PX", ARGV[2]) then
	redis.call("ZADD", KEYS[3], tonumber(ARGV[3]) + tonumber(ARGV[2]), KEYS[1])
	return 1
end
return 0
`)

// releaseIfOwner deletes the key only when it still holds our token. When a
// held set is passed the key is dropped from it too.
var releaseIfOwner = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	if KEYS[2] then
		redis.call("ZREM", KEYS[2], KEYS[1])
	end
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// countHeld prunes expired entries and counts the record locks still held.
var countHeld = redis.NewScript(`
redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", ARGV[1])
return redis.call("ZCARD", KEYS[1])
`)

// RedisLocker coordinates several service instances sharing one store. Keys
// expire after ttl so a crashed holder cannot wedge a record.
type RedisLocker struct {
	client      redis.UniversalClient
	ttl         time.Duration
	waitTimeout time.Duration
	logger      *slog.Logger
}

func NewRedis(client redis.UniversalClient, ttl, waitTimeout time.Duration, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{client: client, ttl: ttl, waitTimeout: waitTimeout, logger: logger}
}

func (l *RedisLocker) LockRecord(ctx context.Context, key string) (func(), error) {
	ctx, cancel := waitContext(ctx, l.waitTimeout)
	defer cancel()

	lockKey := recordPrefix + key
	token := newToken()
	err := l.poll(ctx, func() (bool, error) {
		n, err := acquireRecord.Run(ctx, l.client, []string{lockKey, storeKey, heldKey},
			token, l.ttl.Milliseconds(), time.Now().UnixMilli()).Int()
		return n == 1, err
	})
	if err != nil {
		return nil, timeoutError("record lock "+key, err)
	}
	return l.releaser([]string{lockKey, heldKey}, token), nil
}

// LockAll claims the store key, which blocks new record locks, then waits for
// in-flight record locks to drain.
func (l *RedisLocker) LockAll(ctx context.Context) (func(), error) {
	ctx, cancel := waitContext(ctx, l.waitTimeout)
	defer cancel()

	token := newToken()
	err := l.poll(ctx, func() (bool, error) {
		return l.client.SetNX(ctx, storeKey, token, l.ttl).Result()
	})
	if err != nil {
		return nil, timeoutError("store lock", err)
	}
	release := l.releaser([]string{storeKey}, token)

	err = l.poll(ctx, func() (bool, error) {
		held, err := l.recordLocksHeld(ctx)
		return !held, err
	})
	if err != nil {
		release()
		return nil, timeoutError("store lock", err)
	}
	return release, nil
}

func (l *RedisLocker) recordLocksHeld(ctx context.Context) (bool, error) {
	n, err := countHeld.Run(ctx, l.client, []string{heldKey}, time.Now().UnixMilli()).Int()
	return n > 0, err
}

func (l *RedisLocker) poll(ctx context.Context, try func() (bool, error)) error {
	wait := pollMin
	for {
		ok, err := try()
		if err != nil && ctx.Err() == nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, pollMax)
	}
}

// releaser returns an idempotent release for keys[0]; a second key names the
// held set the lock is indexed in.
func (l *RedisLocker) releaser(keys []string, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := releaseIfOwner.Run(ctx, l.client, keys, token).Err(); err != nil {
				l.logger.Warn("failed to release lock", "key", keys[0], "error", err)
			}
		})
	}
}

func newToken() string {
	return uuid.NewString()
}
