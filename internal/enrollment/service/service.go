package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"truida/internal/biometric"
	"truida/internal/enrollment/metrics"
	"truida/internal/passenger/models"
	id "truida/pkg/domain"
	dErrors "truida/pkg/domain-errors"
	"truida/pkg/platform/sentinel"
	"truida/pkg/requestcontext"
)

// Service creates passenger records and serves the staff-side record
// operations. Passport numbers are not deduplicated: enrolling twice under
// one passport creates two independent records.
type Service struct {
	records   RecordStore
	accessLog AccessLogClearer
	locker    Locker
	tx        TxRunner
	extractor Extractor
	metrics   *metrics.Metrics
	logger    *slog.Logger
	clock     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithTxRunner makes ClearAll atomic across both stores.
func WithTxRunner(tx TxRunner) Option {
	return func(s *Service) { s.tx = tx }
}

// WithExtractor enables EnrollCapture.
func WithExtractor(e Extractor) Option {
	return func(s *Service) { s.extractor = e }
}

func New(records RecordStore, accessLog AccessLogClearer, locker Locker, opts ...Option) (*Service, error) {
	if records == nil || accessLog == nil || locker == nil {
		return nil, errors.New("enrollment service requires record store, access log and locker")
	}
	s := &Service{
		records:   records,
		accessLog: accessLog,
		locker:    locker,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Enroll validates the request and stores a fresh record with every
// checkpoint uncleared.
func (s *Service) Enroll(ctx context.Context, req EnrollRequest) (*models.PassengerRecord, error) {
	identity, err := req.IdentityFields.parse()
	if err != nil {
		return nil, err
	}
	if err := validateBiometrics(req.FaceHash, req.FingerprintHash, req.FaceEmbedding); err != nil {
		return nil, err
	}

	now := s.now(ctx)
	rec, err := models.NewPassengerRecord(id.NewPassengerID(), identity, models.Biometrics{
		FaceHash:        req.FaceHash,
		FingerprintHash: req.FingerprintHash,
		FaceEmbedding:   req.FaceEmbedding,
		CapturedAt:      now,
	}, biometric.EmbeddingSize, now)
	if err != nil {
		return nil, err
	}
	if err := s.records.Put(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save passenger")
	}

	if s.metrics != nil {
		s.metrics.IncrementEnrolled()
	}
	s.logAudit(ctx, "passenger_enrolled",
		"passenger_id", rec.ID.String(),
		"flight_number", rec.FlightNumber,
		"has_embedding", rec.Biometrics.HasEmbedding(),
	)
	return rec, nil
}

// EnrollCapture runs raw captures through the extractor, then enrolls.
func (s *Service) EnrollCapture(ctx context.Context, req EnrollCaptureRequest) (*models.PassengerRecord, error) {
	if s.extractor == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "raw captures are not accepted by this deployment")
	}
	sample, err := s.extractor.Extract(ctx, req.FaceCapture)
	if err != nil {
		return nil, captureError(err, "face_capture")
	}
	var fingerprint string
	if len(req.FingerprintCapture) > 0 {
		if fingerprint, err = s.extractor.Digest(req.FingerprintCapture); err != nil {
			return nil, captureError(err, "fingerprint_capture")
		}
	}
	return s.Enroll(ctx, EnrollRequest{
		IdentityFields:  req.IdentityFields,
		FaceHash:        sample.Digest,
		FingerprintHash: fingerprint,
		FaceEmbedding:   sample.Embedding,
	})
}

func (s *Service) Get(ctx context.Context, passengerID id.PassengerID) (*models.PassengerRecord, error) {
	rec, err := s.records.FindByID(ctx, passengerID)
	if err != nil {
		return nil, translateLookup(err)
	}
	return rec, nil
}

// FindByPassport returns the first record enrolled under passport.
func (s *Service) FindByPassport(ctx context.Context, passport string) (*models.PassengerRecord, error) {
	rec, err := s.records.FindByPassport(ctx, normalizePassport(passport))
	if err != nil {
		return nil, translateLookup(err)
	}
	return rec, nil
}

func (s *Service) List(ctx context.Context) ([]*models.PassengerRecord, error) {
	recs, err := s.records.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list passengers")
	}
	return recs, nil
}

// Delete removes one record under its record lock. An absent id is
// CodeNotFound. Access log entries referencing the record are kept.
func (s *Service) Delete(ctx context.Context, passengerID id.PassengerID) error {
	release, err := s.locker.LockRecord(ctx, passengerID.String())
	if err != nil {
		return lockError(err)
	}
	defer release()

	removed, err := s.records.DeleteByID(ctx, passengerID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete passenger")
	}
	if !removed {
		return dErrors.New(dErrors.CodeNotFound, "passenger not found")
	}
	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	s.logAudit(ctx, "passenger_deleted", "passenger_id", passengerID.String())
	return nil
}

// ClearAll removes every record and the whole access log under whole-store
// exclusion.
func (s *Service) ClearAll(ctx context.Context) (*ClearResult, error) {
	release, err := s.locker.LockAll(ctx)
	if err != nil {
		return nil, lockError(err)
	}
	defer release()

	clear := func(ctx context.Context) error {
		if err := s.records.DeleteAll(ctx); err != nil {
			return err
		}
		return s.accessLog.ClearAll(ctx)
	}
	if s.tx != nil {
		err = s.tx.RunInTx(ctx, clear)
	} else {
		err = clear(ctx)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear data")
	}

	if s.metrics != nil {
		s.metrics.IncrementCleared()
	}
	s.logAudit(ctx, "data_cleared")
	return &ClearResult{ClearedAt: s.now(ctx)}, nil
}

func (s *Service) logAudit(ctx context.Context, event string, attrs ...any) {
	args := append([]any{"event", event, "staff_id", requestcontext.StaffID(ctx)}, attrs...)
	s.logger.InfoContext(ctx, event, args...)
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return requestcontext.Now(ctx)
}

func translateLookup(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "passenger not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load passenger")
}

func lockError(err error) error {
	if errors.Is(err, sentinel.ErrLockTimeout) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "passenger store is busy")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "lock unavailable")
}

func captureError(err error, field string) error {
	if errors.Is(err, biometric.ErrEmptyCapture) {
		return dErrors.Wrap(err, dErrors.CodeValidation, field+" is required")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "feature extraction failed")
}

func normalizePassport(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}
