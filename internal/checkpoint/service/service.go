package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"truida/internal/checkpoint/metrics"
	"truida/internal/passenger/models"
	id "truida/pkg/domain"
	dErrors "truida/pkg/domain-errors"
	"truida/pkg/platform/sentinel"
	"truida/pkg/requestcontext"
)

// Service is the checkpoint engine. It matches a presented sample against
// enrolled records and advances the matched passenger through the gates.
type Service struct {
	records   RecordStore
	accessLog AccessLogStore
	locker    Locker
	sweeper   Sweeper
	tx        TxRunner
	publisher AccessEventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	clock     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the request clock. Without it the engine uses
// requestcontext.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithSweeper enables an opportunistic sweep after each decided
// verification. It never runs ahead of the decision, so a departed passenger
// is still refused and logged before the record expires.
func WithSweeper(sw Sweeper) Option {
	return func(s *Service) { s.sweeper = sw }
}

// WithTxRunner commits a grant and its access log entry in one transaction.
func WithTxRunner(tx TxRunner) Option {
	return func(s *Service) { s.tx = tx }
}

func WithPublisher(p AccessEventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func New(records RecordStore, accessLog AccessLogStore, locker Locker, opts ...Option) (*Service, error) {
	if records == nil || accessLog == nil || locker == nil {
		return nil, errors.New("checkpoint service requires record store, access log and locker")
	}
	s := &Service{
		records:   records,
		accessLog: accessLog,
		locker:    locker,
		logger:    slog.Default(),
		tracer:    otel.Tracer("truida/checkpoint"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Verify runs one verification attempt. Denials are returned as outcomes;
// an error means the attempt could not be decided or could not be recorded.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (*VerificationResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "checkpoint.Verify",
		trace.WithAttributes(attribute.String("checkpoint", req.Checkpoint.String())))
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveVerify(start)
	}

	if err := req.Validate(); err != nil {
		return nil, s.fail(span, err)
	}
	now := s.now(ctx)

	candidates, err := s.records.FindByBiometrics(ctx, req.FaceHash, req.FingerprintHash)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up candidates"))
	}
	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	best, score := SelectBestMatch(candidates, req.Embedding)
	if best == nil {
		return s.noMatch(ctx, span, req.Checkpoint), nil
	}
	if s.metrics != nil {
		s.metrics.ObserveSimilarity(score)
	}

	result, err := s.decide(ctx, req.Checkpoint, best.ID, score, now)
	if err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.String("outcome", result.Outcome.String()))
	s.record(ctx, result)
	s.sweepAfter(ctx, now)
	return result, nil
}

// decide runs the read-decide-write sequence for one passenger under its
// record lock. The record is re-read inside the lock; a record deleted or
// swept since candidate selection is reported as NO_MATCH.
func (s *Service) decide(ctx context.Context, checkpoint models.Checkpoint, passengerID id.PassengerID, score float64, now time.Time) (*VerificationResult, error) {
	lockStart := time.Now()
	release, err := s.locker.LockRecord(ctx, passengerID.String())
	if err != nil {
		if errors.Is(err, sentinel.ErrLockTimeout) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "passenger record is busy")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "record lock unavailable")
	}
	defer release()
	if s.metrics != nil {
		s.metrics.ObserveLockWait(lockStart)
	}

	rec, err := s.records.FindByID(ctx, passengerID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return &VerificationResult{Outcome: OutcomeNoMatch, Checkpoint: checkpoint}, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load passenger")
	}

	decision := EvaluateCheckpoint(rec, checkpoint, now)
	granted := decision.Outcome == OutcomeGranted
	prev := rec.Clone()
	if granted {
		cleared, err := rec.Checkpoints.Clear(checkpoint)
		if err != nil {
			return nil, err
		}
		rec.Checkpoints = cleared
	}

	entry, err := s.commit(ctx, prev, rec, granted, models.AccessLogEntry{
		PassengerID: rec.ID,
		Checkpoint:  checkpoint,
		Timestamp:   now,
		Result:      decision.Outcome.Result(),
		Outcome:     decision.Outcome.String(),
		StaffID:     requestcontext.StaffID(ctx),
		Notes:       SimilarityNote(score),
	})
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		s.publisher.PublishAccess(ctx, entry)
	}

	logID := entry.ID
	return &VerificationResult{
		Outcome:           decision.Outcome,
		Checkpoint:        checkpoint,
		Passenger:         rec,
		Similarity:        score,
		MissingCheckpoint: decision.Missing,
		AccessLogID:       &logID,
	}, nil
}

func (s *Service) noMatch(ctx context.Context, span trace.Span, checkpoint models.Checkpoint) *VerificationResult {
	span.SetAttributes(attribute.String("outcome", OutcomeNoMatch.String()))
	result := &VerificationResult{Outcome: OutcomeNoMatch, Checkpoint: checkpoint}
	s.record(ctx, result)
	return result
}

// commit persists a grant together with its access log entry. With a
// TxRunner both writes share one transaction; without one a failed append
// restores prev so the flag never outlives a missing GRANTED entry.
func (s *Service) commit(ctx context.Context, prev, rec *models.PassengerRecord, granted bool, entry models.AccessLogEntry) (models.AccessLogEntry, error) {
	var appended models.AccessLogEntry
	persisted := false
	write := func(ctx context.Context) error {
		if granted {
			if err := s.records.Put(ctx, rec); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist checkpoint grant")
			}
			persisted = true
		}
		var err error
		appended, err = s.accessLog.Append(ctx, entry)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append access log")
		}
		return nil
	}

	if s.tx != nil {
		err := s.tx.RunInTx(ctx, write)
		var de *dErrors.Error
		if err != nil && !errors.As(err, &de) {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit verification")
		}
		return appended, err
	}

	err := write(ctx)
	if err != nil && persisted {
		if rbErr := s.records.Put(ctx, prev); rbErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back checkpoint grant",
				"passenger_id", rec.ID.String(),
				"checkpoint", entry.Checkpoint,
				"error", rbErr,
			)
		}
	}
	return appended, err
}

func (s *Service) sweepAfter(ctx context.Context, now time.Time) {
	if s.sweeper == nil {
		return
	}
	if _, err := s.sweeper.Sweep(ctx, now); err != nil {
		s.logger.WarnContext(ctx, "opportunistic sweep failed", "error", err)
	}
}

func (s *Service) record(ctx context.Context, result *VerificationResult) {
	if s.metrics != nil {
		s.metrics.IncrementOutcome(result.Checkpoint.String(), result.Outcome.String())
	}
	attrs := []any{
		"checkpoint", result.Checkpoint,
		"outcome", result.Outcome,
		"staff_id", requestcontext.StaffID(ctx),
	}
	if result.Passenger != nil {
		attrs = append(attrs,
			"passenger_id", result.Passenger.ID.String(),
			"similarity", result.Similarity,
		)
	}
	s.logger.InfoContext(ctx, "checkpoint verification", attrs...)
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	return err
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return requestcontext.Now(ctx)
}
