package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"truida/internal/biometric"
	"truida/internal/checkpoint/metrics"
	"truida/internal/checkpoint/service/mocks"
	"truida/internal/lifecycle"
	"truida/internal/passenger/models"
	"truida/internal/passenger/store/accesslog"
	"truida/internal/passenger/store/record"
	"truida/internal/platform/lock"
	id "truida/pkg/domain"
	dErrors "truida/pkg/domain-errors"
	"truida/pkg/platform/sentinel"
	"truida/pkg/requestcontext"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// countingStore counts writes so tests can assert the number of mutations.
type countingStore struct {
	*record.InMemoryStore
	puts atomic.Int32
}

func (c *countingStore) Put(ctx context.Context, rec *models.PassengerRecord) error {
	c.puts.Add(1)
	return c.InMemoryStore.Put(ctx, rec)
}

// unitEmbedding returns a deployment-length vector whose cosine similarity to
// axis(0) is exactly cos.
func unitEmbedding(cos float64) []float64 {
	v := make([]float64, biometric.EmbeddingSize)
	v[0] = cos
	v[1] = math.Sqrt(1 - cos*cos)
	return v
}

type CheckpointServiceSuite struct {
	suite.Suite
	ctx       context.Context
	now       time.Time
	records   *countingStore
	accessLog *accesslog.InMemoryStore
	metrics   *metrics.Metrics
	service   *Service
}

func TestCheckpointServiceSuite(t *testing.T) {
	suite.Run(t, new(CheckpointServiceSuite))
}

func (s *CheckpointServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC)
	s.records = &countingStore{InMemoryStore: record.New()}
	s.accessLog = accesslog.New()
	s.metrics = metrics.New(prometheus.NewRegistry())

	svc, err := New(s.records, s.accessLog, lock.NewInMemory(time.Second),
		WithClock(func() time.Time { return s.now }),
		WithLogger(discardLogger),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	s.service = svc
}

func (s *CheckpointServiceSuite) enroll(faceHash string, embedding []float64, departure time.Time) *models.PassengerRecord {
	rec := &models.PassengerRecord{
		ID:             id.NewPassengerID(),
		PassportNumber: "X" + faceHash,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		FlightNumber:   "BA117",
		Gate:           "A12",
		DepartureTime:  departure,
		Biometrics: models.Biometrics{
			FaceHash:      faceHash,
			FaceEmbedding: embedding,
			CapturedAt:    s.now.Add(-time.Hour),
		},
		EnrolledAt: s.now.Add(-time.Hour),
	}
	s.Require().NoError(s.records.InMemoryStore.Put(s.ctx, rec))
	return rec
}

func (s *CheckpointServiceSuite) verify(checkpoint models.Checkpoint, faceHash string, embedding []float64) *VerificationResult {
	result, err := s.service.Verify(s.ctx, VerifyRequest{Checkpoint: checkpoint, FaceHash: faceHash, Embedding: embedding})
	s.Require().NoError(err)
	return result
}

func (s *CheckpointServiceSuite) logEntries() []models.AccessLogEntry {
	entries, err := s.accessLog.Recent(s.ctx, 100, nil)
	s.Require().NoError(err)
	return entries
}

func (s *CheckpointServiceSuite) stored(passengerID id.PassengerID) *models.PassengerRecord {
	rec, err := s.records.FindByID(s.ctx, passengerID)
	s.Require().NoError(err)
	return rec
}

func (s *CheckpointServiceSuite) TestCheckpointProgression() {
	e1 := unitEmbedding(1)
	p := s.enroll("h1", e1, s.now.Add(3*time.Hour))

	s.Run("security is granted first", func() {
		result := s.verify(models.CheckpointSecurity, "h1", e1)
		s.Equal(OutcomeGranted, result.Outcome)
		s.True(result.Granted())
		s.Equal(p.ID, result.Passenger.ID)
		s.InDelta(1.0, result.Similarity, 1e-9)
		s.NotNil(result.AccessLogID)
	})

	s.Run("boarding before immigration is refused", func() {
		result := s.verify(models.CheckpointBoarding, "h1", e1)
		s.Equal(OutcomePrerequisiteMissing, result.Outcome)
		s.Equal(models.CheckpointImmigration, result.MissingCheckpoint)
		s.False(s.stored(p.ID).Checkpoints.Boarding)
	})

	s.Run("immigration then boarding are granted", func() {
		s.Equal(OutcomeGranted, s.verify(models.CheckpointImmigration, "h1", e1).Outcome)
		s.Equal(OutcomeGranted, s.verify(models.CheckpointBoarding, "h1", e1).Outcome)
		cp := s.stored(p.ID).Checkpoints
		s.True(cp.Security && cp.Immigration && cp.Boarding)
	})

	entries := s.logEntries()
	s.Len(entries, 4)
	s.Equal(models.AccessDenied, entries[2].Result, "the refused boarding attempt is logged as denied")
	s.Equal(OutcomePrerequisiteMissing.String(), entries[2].Outcome)
	for _, e := range entries {
		s.Equal("similarity=100.0%", e.Notes)
		s.Equal(requestcontext.SystemStaffID, e.StaffID)
		s.Equal(s.now, e.Timestamp)
	}
}

func (s *CheckpointServiceSuite) TestIdempotentReentry() {
	e1 := unitEmbedding(1)
	p := s.enroll("h-idem", e1, s.now.Add(time.Hour))

	first := s.verify(models.CheckpointSecurity, "h-idem", e1)
	second := s.verify(models.CheckpointSecurity, "h-idem", e1)

	s.Equal(OutcomeGranted, first.Outcome)
	s.Equal(OutcomeAlreadyCleared, second.Outcome)
	s.True(second.Granted())
	s.Equal(int32(1), s.records.puts.Load(), "exactly one state mutation")

	entries := s.logEntries()
	s.Require().Len(entries, 2)
	for _, e := range entries {
		s.Equal(models.AccessGranted, e.Result)
		s.Equal(p.ID, e.PassengerID)
	}
}

func (s *CheckpointServiceSuite) TestFlightDeparted() {
	e1 := unitEmbedding(1)
	p := s.enroll("h-gone", e1, s.now.Add(-time.Minute))

	s.Run("departed flight is refused whatever the progress", func() {
		for _, cp := range models.Sequence {
			result := s.verify(cp, "h-gone", e1)
			s.Equal(OutcomeFlightDeparted, result.Outcome)
			s.False(result.Granted())
		}
	})

	s.Run("departure exactly now counts as departed", func() {
		s.enroll("h-now", e1, s.now)
		s.Equal(OutcomeFlightDeparted, s.verify(models.CheckpointSecurity, "h-now", e1).Outcome)
	})

	s.Run("already cleared gates do not bypass the departure check", func() {
		s.Equal(OutcomeFlightDeparted, s.verify(models.CheckpointSecurity, "h-gone", e1).Outcome)
	})

	s.Equal(models.Checkpoints{}, s.stored(p.ID).Checkpoints)
	s.Zero(s.records.puts.Load())
	for _, e := range s.logEntries() {
		s.Equal(models.AccessDenied, e.Result)
	}
}

func (s *CheckpointServiceSuite) TestNoMatchAppendsNoLogEntry() {
	s.enroll("h-known", unitEmbedding(1), s.now.Add(time.Hour))

	result := s.verify(models.CheckpointSecurity, "unknown-hash", unitEmbedding(1))

	s.Equal(OutcomeNoMatch, result.Outcome)
	s.Nil(result.Passenger)
	s.Nil(result.AccessLogID)
	s.Empty(s.logEntries())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Verifications.WithLabelValues("security", "NO_MATCH")))
}

func (s *CheckpointServiceSuite) TestBestMatchSelection() {
	presented := unitEmbedding(1)
	weak := s.enroll("twin", unitEmbedding(0.3), s.now.Add(time.Hour))
	strong := s.enroll("twin", unitEmbedding(0.9), s.now.Add(time.Hour))

	result := s.verify(models.CheckpointSecurity, "twin", presented)

	s.Equal(strong.ID, result.Passenger.ID)
	s.InDelta(0.9, result.Similarity, 1e-9)
	s.False(s.stored(weak.ID).Checkpoints.Security)
	s.Equal("similarity=90.0%", s.logEntries()[0].Notes)
}

func (s *CheckpointServiceSuite) TestFingerprintNarrowsCandidates() {
	e1 := unitEmbedding(1)
	a := s.enroll("shared", e1, s.now.Add(time.Hour))
	b := s.enroll("shared", e1, s.now.Add(time.Hour))
	b.Biometrics.FingerprintHash = "fp-b"
	s.Require().NoError(s.records.InMemoryStore.Put(s.ctx, b))

	result, err := s.service.Verify(s.ctx, VerifyRequest{
		Checkpoint:      models.CheckpointSecurity,
		FaceHash:        "shared",
		FingerprintHash: "fp-b",
		Embedding:       e1,
	})
	s.Require().NoError(err)
	s.Equal(b.ID, result.Passenger.ID)
	s.False(s.stored(a.ID).Checkpoints.Security)
}

func (s *CheckpointServiceSuite) TestStaffIDFromContext() {
	e1 := unitEmbedding(1)
	s.enroll("h-staff", e1, s.now.Add(time.Hour))

	ctx := requestcontext.WithStaffID(s.ctx, "officer-17")
	_, err := s.service.Verify(ctx, VerifyRequest{Checkpoint: models.CheckpointSecurity, FaceHash: "h-staff", Embedding: e1})
	s.Require().NoError(err)

	s.Equal("officer-17", s.logEntries()[0].StaffID)
}

func (s *CheckpointServiceSuite) TestHashCaseIsIgnored() {
	e1 := unitEmbedding(1)
	face := strings.Repeat("ab", 32)
	p := s.enroll(face, e1, s.now.Add(time.Hour))

	result, err := s.service.Verify(s.ctx, VerifyRequest{
		Checkpoint: models.CheckpointSecurity,
		FaceHash:   " " + strings.ToUpper(face) + " ",
		Embedding:  e1,
	})
	s.Require().NoError(err)
	s.Equal(OutcomeGranted, result.Outcome)
	s.Equal(p.ID, result.Passenger.ID)
}

func (s *CheckpointServiceSuite) TestValidation() {
	cases := []struct {
		name string
		req  VerifyRequest
	}{
		{"empty face hash", VerifyRequest{Checkpoint: models.CheckpointSecurity, FaceHash: "  "}},
		{"face hash with whitespace", VerifyRequest{Checkpoint: models.CheckpointSecurity, FaceHash: "a b"}},
		{"unknown checkpoint", VerifyRequest{Checkpoint: "lounge", FaceHash: "h1"}},
		{"short embedding", VerifyRequest{Checkpoint: models.CheckpointSecurity, FaceHash: "h1", Embedding: []float64{1, 0}}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.Verify(s.ctx, tc.req)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
	s.Empty(s.logEntries())
}

// Concurrent attempts on one passenger never produce an out-of-order state
// and grant each gate at most once.
func (s *CheckpointServiceSuite) TestConcurrentVerifyKeepsPrecedence() {
	e1 := unitEmbedding(1)
	p := s.enroll("h-race", e1, s.now.Add(time.Hour))

	var wg sync.WaitGroup
	var grants sync.Map
	for i := range 60 {
		wg.Add(1)
		go func(cp models.Checkpoint) {
			defer wg.Done()
			result, err := s.service.Verify(s.ctx, VerifyRequest{Checkpoint: cp, FaceHash: "h-race", Embedding: e1})
			if err != nil {
				s.Fail("verify failed", err.Error())
				return
			}
			if result.Outcome == OutcomeGranted {
				n, _ := grants.LoadOrStore(cp, new(atomic.Int32))
				n.(*atomic.Int32).Add(1)
			}
		}(models.Sequence[i%len(models.Sequence)])
	}
	wg.Wait()

	cp := s.stored(p.ID).Checkpoints
	s.True(cp.Consistent())
	s.True(cp.Security, "at least one security attempt ran")
	grants.Range(func(_, v any) bool {
		s.Equal(int32(1), v.(*atomic.Int32).Load())
		return true
	})
	s.Len(s.logEntries(), 60)
}

type fakeSweeper struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSweeper) Sweep(context.Context, time.Time) (int, error) {
	f.calls.Add(1)
	return 0, f.err
}

func (s *CheckpointServiceSuite) TestOpportunisticSweepFailureIsNotFatal() {
	sw := &fakeSweeper{err: errors.New("lock busy")}
	svc, err := New(s.records, s.accessLog, lock.NewInMemory(time.Second),
		WithClock(func() time.Time { return s.now }),
		WithLogger(discardLogger),
		WithSweeper(sw),
	)
	s.Require().NoError(err)
	e1 := unitEmbedding(1)
	s.enroll("h-sweep", e1, s.now.Add(time.Hour))

	result, err := svc.Verify(s.ctx, VerifyRequest{Checkpoint: models.CheckpointSecurity, FaceHash: "h-sweep", Embedding: e1})
	s.Require().NoError(err)
	s.Equal(OutcomeGranted, result.Outcome)
	s.Equal(int32(1), sw.calls.Load())
}

func (s *CheckpointServiceSuite) TestDepartedPassengerIsLoggedBeforeSweep() {
	locker := lock.NewInMemory(time.Second)
	svc, err := New(s.records, s.accessLog, locker,
		WithClock(func() time.Time { return s.now }),
		WithLogger(discardLogger),
		WithSweeper(lifecycle.NewSweeper(s.records, locker)),
	)
	s.Require().NoError(err)
	e1 := unitEmbedding(1)
	p := s.enroll("h-late", e1, s.now.Add(-time.Hour))

	result, err := svc.Verify(s.ctx, VerifyRequest{Checkpoint: models.CheckpointSecurity, FaceHash: "h-late", Embedding: e1})
	s.Require().NoError(err)
	s.Equal(OutcomeFlightDeparted, result.Outcome)

	entries := s.logEntries()
	s.Require().Len(entries, 1)
	s.Equal(p.ID, entries[0].PassengerID)
	s.Equal(models.AccessDenied, entries[0].Result)

	_, err = s.records.FindByID(s.ctx, p.ID)
	s.ErrorIs(err, sentinel.ErrNotFound, "the record expires once the refusal is logged")

	result, err = svc.Verify(s.ctx, VerifyRequest{Checkpoint: models.CheckpointSecurity, FaceHash: "h-late", Embedding: e1})
	s.Require().NoError(err)
	s.Equal(OutcomeNoMatch, result.Outcome)
	s.Len(s.logEntries(), 1)
}

// flakyAccessLog fails the next n appends.
type flakyAccessLog struct {
	*accesslog.InMemoryStore
	failures atomic.Int32
}

func (f *flakyAccessLog) Append(ctx context.Context, entry models.AccessLogEntry) (models.AccessLogEntry, error) {
	if f.failures.Add(-1) >= 0 {
		return models.AccessLogEntry{}, errors.New("disk full")
	}
	return f.InMemoryStore.Append(ctx, entry)
}

func (s *CheckpointServiceSuite) TestFailedAppendLeavesNoGrant() {
	log := &flakyAccessLog{InMemoryStore: s.accessLog}
	log.failures.Store(1)
	svc, err := New(s.records, log, lock.NewInMemory(time.Second),
		WithClock(func() time.Time { return s.now }),
		WithLogger(discardLogger),
	)
	s.Require().NoError(err)
	e1 := unitEmbedding(1)
	p := s.enroll("h-flaky", e1, s.now.Add(time.Hour))
	req := VerifyRequest{Checkpoint: models.CheckpointSecurity, FaceHash: "h-flaky", Embedding: e1}

	_, err = svc.Verify(s.ctx, req)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.False(s.stored(p.ID).Checkpoints.Security, "grant rolled back")
	s.Empty(s.logEntries())

	result, err := svc.Verify(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(OutcomeGranted, result.Outcome)
	s.True(s.stored(p.ID).Checkpoints.Security)

	entries := s.logEntries()
	s.Require().Len(entries, 1)
	s.Equal(OutcomeGranted.String(), entries[0].Outcome)
}

// Failure propagation with mocked ports.

type mockPorts struct {
	records   *mocks.MockRecordStore
	accessLog *mocks.MockAccessLogStore
	locker    *mocks.MockLocker
	publisher *mocks.MockAccessEventPublisher
}

func newMockedService(t *testing.T, now time.Time) (*Service, mockPorts) {
	t.Helper()
	ctrl := gomock.NewController(t)
	ports := mockPorts{
		records:   mocks.NewMockRecordStore(ctrl),
		accessLog: mocks.NewMockAccessLogStore(ctrl),
		locker:    mocks.NewMockLocker(ctrl),
		publisher: mocks.NewMockAccessEventPublisher(ctrl),
	}
	svc, err := New(ports.records, ports.accessLog, ports.locker,
		WithClock(func() time.Time { return now }),
		WithLogger(discardLogger),
		WithPublisher(ports.publisher),
	)
	if err != nil {
		t.Fatal(err)
	}
	return svc, ports
}

func mockRecord(now time.Time) *models.PassengerRecord {
	return &models.PassengerRecord{
		ID:            id.NewPassengerID(),
		DepartureTime: now.Add(time.Hour),
		Biometrics:    models.Biometrics{FaceHash: "h1", FaceEmbedding: unitEmbedding(1)},
	}
}

func (s *CheckpointServiceSuite) TestStorageFailuresAreErrorsNotDenials() {
	req := VerifyRequest{Checkpoint: models.CheckpointSecurity, FaceHash: "h1", Embedding: unitEmbedding(1)}
	storeErr := errors.New("connection reset")
	noop := func() {}

	s.Run("candidate lookup failure", func() {
		svc, m := newMockedService(s.T(), s.now)
		m.records.EXPECT().FindByBiometrics(gomock.Any(), "h1", "").Return(nil, storeErr)

		result, err := svc.Verify(s.ctx, req)
		s.Nil(result)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorIs(err, storeErr)
	})

	s.Run("grant persistence failure writes no log entry", func() {
		svc, m := newMockedService(s.T(), s.now)
		rec := mockRecord(s.now)
		m.records.EXPECT().FindByBiometrics(gomock.Any(), "h1", "").Return([]*models.PassengerRecord{rec}, nil)
		m.locker.EXPECT().LockRecord(gomock.Any(), rec.ID.String()).Return(noop, nil)
		m.records.EXPECT().FindByID(gomock.Any(), rec.ID).Return(rec.Clone(), nil)
		m.records.EXPECT().Put(gomock.Any(), gomock.Any()).Return(storeErr)

		_, err := svc.Verify(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("access log failure is reported", func() {
		svc, m := newMockedService(s.T(), s.now)
		rec := mockRecord(s.now)
		m.records.EXPECT().FindByBiometrics(gomock.Any(), "h1", "").Return([]*models.PassengerRecord{rec}, nil)
		m.locker.EXPECT().LockRecord(gomock.Any(), rec.ID.String()).Return(noop, nil)
		m.records.EXPECT().FindByID(gomock.Any(), rec.ID).Return(rec.Clone(), nil)
		gomock.InOrder(
			m.records.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, r *models.PassengerRecord) error {
					s.True(r.Checkpoints.Security)
					return nil
				}),
			m.accessLog.EXPECT().Append(gomock.Any(), gomock.Any()).Return(models.AccessLogEntry{}, storeErr),
			m.records.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, r *models.PassengerRecord) error {
					s.Equal(rec.ID, r.ID)
					s.False(r.Checkpoints.Security, "prior state restored")
					return nil
				}),
		)

		_, err := svc.Verify(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorIs(err, storeErr)
	})

	s.Run("grant and log share one transaction", func() {
		ctrl := gomock.NewController(s.T())
		m := mockPorts{
			records:   mocks.NewMockRecordStore(ctrl),
			accessLog: mocks.NewMockAccessLogStore(ctrl),
			locker:    mocks.NewMockLocker(ctrl),
		}
		tx := mocks.NewMockTxRunner(ctrl)
		svc, err := New(m.records, m.accessLog, m.locker,
			WithClock(func() time.Time { return s.now }),
			WithLogger(discardLogger),
			WithTxRunner(tx),
		)
		s.Require().NoError(err)

		rec := mockRecord(s.now)
		m.records.EXPECT().FindByBiometrics(gomock.Any(), "h1", "").Return([]*models.PassengerRecord{rec}, nil)
		m.locker.EXPECT().LockRecord(gomock.Any(), rec.ID.String()).Return(noop, nil)
		m.records.EXPECT().FindByID(gomock.Any(), rec.ID).Return(rec.Clone(), nil)
		tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, fn func(context.Context) error) error {
				// a rolled back transaction discards the Put, so no restore follows
				return fn(ctx)
			})
		m.records.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		m.accessLog.EXPECT().Append(gomock.Any(), gomock.Any()).Return(models.AccessLogEntry{}, storeErr)

		_, err = svc.Verify(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorIs(err, storeErr)
	})

	s.Run("commit failure is internal", func() {
		ctrl := gomock.NewController(s.T())
		records := mocks.NewMockRecordStore(ctrl)
		locker := mocks.NewMockLocker(ctrl)
		tx := mocks.NewMockTxRunner(ctrl)
		svc, err := New(records, mocks.NewMockAccessLogStore(ctrl), locker,
			WithClock(func() time.Time { return s.now }),
			WithLogger(discardLogger),
			WithTxRunner(tx),
		)
		s.Require().NoError(err)

		rec := mockRecord(s.now)
		records.EXPECT().FindByBiometrics(gomock.Any(), "h1", "").Return([]*models.PassengerRecord{rec}, nil)
		locker.EXPECT().LockRecord(gomock.Any(), rec.ID.String()).Return(noop, nil)
		records.EXPECT().FindByID(gomock.Any(), rec.ID).Return(rec.Clone(), nil)
		tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).Return(storeErr)

		_, err = svc.Verify(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorIs(err, storeErr)
	})

	s.Run("lock timeout", func() {
		svc, m := newMockedService(s.T(), s.now)
		rec := mockRecord(s.now)
		m.records.EXPECT().FindByBiometrics(gomock.Any(), "h1", "").Return([]*models.PassengerRecord{rec}, nil)
		m.locker.EXPECT().LockRecord(gomock.Any(), rec.ID.String()).Return(nil, sentinel.ErrLockTimeout)

		_, err := svc.Verify(s.ctx, req)
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})

	s.Run("record removed before the lock was taken", func() {
		svc, m := newMockedService(s.T(), s.now)
		rec := mockRecord(s.now)
		released := false
		m.records.EXPECT().FindByBiometrics(gomock.Any(), "h1", "").Return([]*models.PassengerRecord{rec}, nil)
		m.locker.EXPECT().LockRecord(gomock.Any(), rec.ID.String()).Return(func() { released = true }, nil)
		m.records.EXPECT().FindByID(gomock.Any(), rec.ID).Return(nil, sentinel.ErrNotFound)

		result, err := svc.Verify(s.ctx, req)
		s.Require().NoError(err)
		s.Equal(OutcomeNoMatch, result.Outcome)
		s.True(released)
	})

	s.Run("grant is published after the log append", func() {
		svc, m := newMockedService(s.T(), s.now)
		rec := mockRecord(s.now)
		entry := models.AccessLogEntry{ID: id.NewAccessLogID(), PassengerID: rec.ID}
		gomock.InOrder(
			m.records.EXPECT().FindByBiometrics(gomock.Any(), "h1", "").Return([]*models.PassengerRecord{rec}, nil),
			m.locker.EXPECT().LockRecord(gomock.Any(), rec.ID.String()).Return(noop, nil),
			m.records.EXPECT().FindByID(gomock.Any(), rec.ID).Return(rec.Clone(), nil),
			m.records.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil),
			m.accessLog.EXPECT().Append(gomock.Any(), gomock.Any()).Return(entry, nil),
			m.publisher.EXPECT().PublishAccess(gomock.Any(), entry),
		)

		result, err := svc.Verify(s.ctx, req)
		s.Require().NoError(err)
		s.Equal(OutcomeGranted, result.Outcome)
		s.Equal(entry.ID, *result.AccessLogID)
	})
}
