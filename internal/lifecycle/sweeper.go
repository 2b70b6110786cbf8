// Package lifecycle removes passenger records whose flight has departed.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	dErrors "truida/pkg/domain-errors"
	"truida/pkg/platform/sentinel"
)

// ExpiringStore deletes records with departureTime <= now and reports how
// many it removed.
type ExpiringStore interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// Locker provides whole-store exclusion so a sweep never interleaves with a
// checkpoint decision.
type Locker interface {
	LockAll(ctx context.Context) (release func(), err error)
}

type Sweeper struct {
	store   ExpiringStore
	locker  Locker
	metrics *Metrics
	logger  *slog.Logger
	clock   func() time.Time
}

type Option func(*Sweeper)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) { s.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Sweeper) { s.metrics = m }
}

// WithClock sets the time source used by Run and SweepNow.
func WithClock(clock func() time.Time) Option {
	return func(s *Sweeper) { s.clock = clock }
}

func NewSweeper(store ExpiringStore, locker Locker, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:  store,
		locker: locker,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep deletes every record departed at or before now. Running it twice with
// the same now removes nothing the second time.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	start := time.Now()
	release, err := s.locker.LockAll(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrLockTimeout) {
			return 0, dErrors.Wrap(err, dErrors.CodeTimeout, "passenger store is busy")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "lock unavailable")
	}
	defer release()

	removed, err := s.store.SweepExpired(ctx, now)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementFailures()
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sweep departed passengers")
	}

	if s.metrics != nil {
		s.metrics.ObserveSweep(removed, time.Since(start))
	}
	if removed > 0 {
		s.logger.InfoContext(ctx, "departed passengers swept",
			"removed", removed,
			"cutoff", now,
		)
	}
	return removed, nil
}

// SweepNow sweeps against the configured clock.
func (s *Sweeper) SweepNow(ctx context.Context) (int, error) {
	return s.Sweep(ctx, s.clock())
}

// Run sweeps every interval until ctx is cancelled. Individual failures are
// logged and the loop keeps going.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.InfoContext(ctx, "lifecycle sweeper started", "interval", interval)
	for {
		select {
		case <-ticker.C:
			if _, err := s.SweepNow(ctx); err != nil {
				s.logger.WarnContext(ctx, "scheduled sweep failed", "error", err)
			}
		case <-ctx.Done():
			s.logger.InfoContext(context.WithoutCancel(ctx), "lifecycle sweeper stopped")
			return ctx.Err()
		}
	}
}
