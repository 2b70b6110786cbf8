// Package stats computes read-only dashboard rollups over passenger records
// and the access log.
package stats

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"truida/internal/passenger/models"
	dErrors "truida/pkg/domain-errors"
)

const (
	defaultWindow      = 24 * time.Hour
	defaultWindowLimit = 1000
	maxAccessLogLimit  = 500
)

type RecordLister interface {
	List(ctx context.Context) ([]*models.PassengerRecord, error)
}

type AccessLogReader interface {
	Recent(ctx context.Context, limit int, since *time.Time) ([]models.AccessLogEntry, error)
}

// Sweeper is invoked before reads when opportunistic sweeping is enabled.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// CheckpointCounts holds one number per gate.
type CheckpointCounts struct {
	Security    int `json:"security"`
	Immigration int `json:"immigration"`
	Boarding    int `json:"boarding"`
}

func (c *CheckpointCounts) add(cp models.Checkpoint) {
	switch cp {
	case models.CheckpointSecurity:
		c.Security++
	case models.CheckpointImmigration:
		c.Immigration++
	case models.CheckpointBoarding:
		c.Boarding++
	}
}

// Summary is the dashboard rollup at one instant.
type Summary struct {
	GeneratedAt     time.Time        `json:"generated_at"`
	TotalPassengers int              `json:"total_passengers"`
	Cleared         CheckpointCounts `json:"cleared"`
	FullyCleared    int              `json:"fully_cleared"`
	DepartedPending int              `json:"departed_pending_sweep"`
	WindowStart     time.Time        `json:"window_start"`
	Granted         int              `json:"granted"`
	Denied          int              `json:"denied"`
	DeniedByGate    CheckpointCounts `json:"denied_by_checkpoint"`
	Outcomes        map[string]int   `json:"outcomes"`
	WindowTruncated bool             `json:"window_truncated"`
}

type Service struct {
	records     RecordLister
	accessLog   AccessLogReader
	sweeper     Sweeper
	window      time.Duration
	windowLimit int
	logger      *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithSweeper(sw Sweeper) Option {
	return func(s *Service) { s.sweeper = sw }
}

// WithWindow bounds the access-log rollup to entries newer than now-window,
// reading at most limit entries.
func WithWindow(window time.Duration, limit int) Option {
	return func(s *Service) {
		if window > 0 {
			s.window = window
		}
		if limit > 0 {
			s.windowLimit = limit
		}
	}
}

func New(records RecordLister, accessLog AccessLogReader, opts ...Option) *Service {
	s := &Service{
		records:     records,
		accessLog:   accessLog,
		window:      defaultWindow,
		windowLimit: defaultWindowLimit,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary reads records and the recent access window concurrently and folds
// them into a rollup. Departed records still present are counted separately
// so operators can see sweep lag.
func (s *Service) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	s.sweepFirst(ctx, now)

	windowStart := now.Add(-s.window)
	var (
		records []*models.PassengerRecord
		entries []models.AccessLogEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.records.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.accessLog.Recent(gctx, s.windowLimit, &windowStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dashboard data")
	}

	sum := &Summary{
		GeneratedAt:     now,
		TotalPassengers: len(records),
		WindowStart:     windowStart,
		Outcomes:        map[string]int{},
		WindowTruncated: len(entries) == s.windowLimit,
	}
	for _, rec := range records {
		if rec.HasDeparted(now) {
			sum.DepartedPending++
		}
		for _, cp := range models.Sequence {
			if rec.Checkpoints.Cleared(cp) {
				sum.Cleared.add(cp)
			}
		}
		if rec.Checkpoints.Boarding {
			sum.FullyCleared++
		}
	}
	for _, e := range entries {
		if e.Outcome != "" {
			sum.Outcomes[e.Outcome]++
		}
		if e.Result == models.AccessGranted {
			sum.Granted++
			continue
		}
		sum.Denied++
		sum.DeniedByGate.add(e.Checkpoint)
	}
	return sum, nil
}

// RecentAccess returns up to limit entries newest first, capped at
// maxAccessLogLimit.
func (s *Service) RecentAccess(ctx context.Context, limit int, since *time.Time) ([]models.AccessLogEntry, error) {
	if limit > maxAccessLogLimit {
		limit = maxAccessLogLimit
	}
	entries, err := s.accessLog.Recent(ctx, limit, since)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load access log")
	}
	return entries, nil
}

func (s *Service) sweepFirst(ctx context.Context, now time.Time) {
	if s.sweeper == nil {
		return
	}
	if _, err := s.sweeper.Sweep(ctx, now); err != nil {
		s.logger.WarnContext(ctx, "opportunistic sweep failed", "error", err)
	}
}
