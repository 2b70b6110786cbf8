//go:build integration

package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"truida/internal/platform/lock"
	"truida/pkg/platform/sentinel"
	"truida/pkg/testutil/containers"
)

type RedisLockerSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	locker *lock.RedisLocker
}

func TestRedisLockerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLockerSuite))
}

func (s *RedisLockerSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.locker = lock.NewRedis(s.redis.Client, 5*time.Second, 100*time.Millisecond, nil)
}

func (s *RedisLockerSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLockerSuite) TestRecordLock() {
	ctx := context.Background()

	release, err := s.locker.LockRecord(ctx, "p-1")
	s.Require().NoError(err)

	_, err = s.locker.LockRecord(ctx, "p-1")
	s.Require().ErrorIs(err, sentinel.ErrLockTimeout)

	other, err := s.locker.LockRecord(ctx, "p-2")
	s.Require().NoError(err)
	other()

	release()
	again, err := s.locker.LockRecord(ctx, "p-1")
	s.Require().NoError(err)
	again()
}

func (s *RedisLockerSuite) TestLockAll() {
	ctx := context.Background()

	release, err := s.locker.LockRecord(ctx, "p-1")
	s.Require().NoError(err)
	_, err = s.locker.LockAll(ctx)
	s.Require().ErrorIs(err, sentinel.ErrLockTimeout)
	release()

	releaseAll, err := s.locker.LockAll(ctx)
	s.Require().NoError(err)
	_, err = s.locker.LockRecord(ctx, "p-3")
	s.Require().ErrorIs(err, sentinel.ErrLockTimeout)
	releaseAll()

	release, err = s.locker.LockRecord(ctx, "p-3")
	s.Require().NoError(err)
	release()
}

func (s *RedisLockerSuite) TestStaleReleaseDoesNotDropNewOwner() {
	ctx := context.Background()
	short := lock.NewRedis(s.redis.Client, 50*time.Millisecond, 500*time.Millisecond, nil)

	stale, err := short.LockRecord(ctx, "p-4")
	s.Require().NoError(err)
	time.Sleep(100 * time.Millisecond)

	owner, err := s.locker.LockRecord(ctx, "p-4")
	s.Require().NoError(err)
	stale()

	_, err = s.locker.LockRecord(ctx, "p-4")
	s.Require().ErrorIs(err, sentinel.ErrLockTimeout, "expired holder must not release the new owner")
	owner()
}

func (s *RedisLockerSuite) TestExpiredRecordLockDoesNotBlockLockAll() {
	ctx := context.Background()
	short := lock.NewRedis(s.redis.Client, 50*time.Millisecond, 500*time.Millisecond, nil)

	_, err := short.LockRecord(ctx, "p-5")
	s.Require().NoError(err)
	time.Sleep(100 * time.Millisecond)

	releaseAll, err := s.locker.LockAll(ctx)
	s.Require().NoError(err, "a crashed holder's lock expires from the held set")
	releaseAll()
}
