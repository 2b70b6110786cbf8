package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"truida/internal/biometric"
	"truida/internal/checkpoint/handler/mocks"
	"truida/internal/checkpoint/service"
	"truida/internal/passenger/models"
	id "truida/pkg/domain"
	dErrors "truida/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/checkpoint-mocks.go -package=mocks Service
type CheckpointHandlerSuite struct {
	suite.Suite
	service   *mocks.MockService
	extractor *biometric.FeatureExtractor
	router    chi.Router
}

func TestCheckpointHandlerSuite(t *testing.T) {
	suite.Run(t, new(CheckpointHandlerSuite))
}

func (s *CheckpointHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	hasher, err := biometric.NewHasher(biometric.AlgorithmSHA256)
	s.Require().NoError(err)
	s.extractor = biometric.NewFeatureExtractor(hasher)

	h := New(s.service, s.extractor, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *CheckpointHandlerSuite) post(path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *CheckpointHandlerSuite) decode(w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (s *CheckpointHandlerSuite) TestGrantedResponse() {
	logID := id.NewAccessLogID()
	passenger := &models.PassengerRecord{
		ID:            id.NewPassengerID(),
		FirstName:     "Ada",
		LastName:      "Lovelace",
		FlightNumber:  "BA117",
		DepartureTime: time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC),
		Checkpoints:   models.Checkpoints{Security: true},
	}
	s.service.EXPECT().Verify(gomock.Any(), service.VerifyRequest{
		Checkpoint: models.CheckpointSecurity,
		FaceHash:   "h1",
	}).Return(&service.VerificationResult{
		Outcome:     service.OutcomeGranted,
		Checkpoint:  models.CheckpointSecurity,
		Passenger:   passenger,
		Similarity:  0.97,
		AccessLogID: &logID,
	}, nil)

	w := s.post("/v1/checkpoints/security/verify", map[string]any{"face_hash": "h1"})

	s.Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal("GRANTED", body["outcome"])
	s.Equal(true, body["granted"])
	s.Equal(logID.String(), body["access_log_id"])
	s.InDelta(0.97, body["similarity"], 1e-9)
	p := body["passenger"].(map[string]any)
	s.Equal("Ada Lovelace", p["full_name"])
	s.Equal(true, p["checkpoints"].(map[string]any)["security"])
}

func (s *CheckpointHandlerSuite) TestDenialIsStillOK() {
	s.service.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(&service.VerificationResult{
		Outcome:    service.OutcomeNoMatch,
		Checkpoint: models.CheckpointBoarding,
	}, nil)

	w := s.post("/v1/checkpoints/boarding/verify", map[string]any{"face_hash": "nobody"})

	s.Equal(http.StatusOK, w.Code)
	body := s.decode(w)
	s.Equal("NO_MATCH", body["outcome"])
	s.Equal(false, body["granted"])
	s.NotContains(body, "passenger")
	s.NotContains(body, "similarity")
}

func (s *CheckpointHandlerSuite) TestCapturesAreExtracted() {
	face := []byte("face-capture-bytes")
	finger := []byte("fingerprint-bytes")
	sample, err := s.extractor.Extract(s.T().Context(), face)
	s.Require().NoError(err)
	fingerDigest, err := s.extractor.Digest(finger)
	s.Require().NoError(err)

	s.service.EXPECT().Verify(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, req service.VerifyRequest) (*service.VerificationResult, error) {
			s.Equal(sample.Digest, req.FaceHash)
			s.Equal(sample.Embedding, req.Embedding)
			s.Equal(fingerDigest, req.FingerprintHash)
			return &service.VerificationResult{Outcome: service.OutcomeNoMatch, Checkpoint: req.Checkpoint}, nil
		})

	w := s.post("/v1/checkpoints/immigration/verify", map[string]any{
		"face_capture":        face,
		"fingerprint_capture": finger,
	})
	s.Equal(http.StatusOK, w.Code)
}

func (s *CheckpointHandlerSuite) TestRejectedBeforeService() {
	cases := []struct {
		name string
		path string
		body any
	}{
		{"unknown checkpoint", "/v1/checkpoints/lounge/verify", map[string]any{"face_hash": "h1"}},
		{"missing face hash", "/v1/checkpoints/security/verify", map[string]any{"fingerprint_hash": "f"}},
		{"hashes and captures mixed", "/v1/checkpoints/security/verify", map[string]any{"face_hash": "h1", "face_capture": []byte("x")}},
		{"unknown field", "/v1/checkpoints/security/verify", map[string]any{"face_hash": "h1", "extra": 1}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			w := s.post(tc.path, tc.body)
			s.Equal(http.StatusBadRequest, w.Code)
		})
	}
}

func (s *CheckpointHandlerSuite) TestServiceErrors() {
	s.Run("validation error maps to 400", func() {
		s.service.EXPECT().Verify(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "embedding has the wrong length"))
		w := s.post("/v1/checkpoints/security/verify", map[string]any{"face_hash": "h1", "embedding": []float64{1}})
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("embedding has the wrong length", s.decode(w)["error_description"])
	})

	s.Run("storage failure maps to 500 without details", func() {
		s.service.EXPECT().Verify(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to look up candidates"))
		w := s.post("/v1/checkpoints/security/verify", map[string]any{"face_hash": "h1"})
		s.Equal(http.StatusInternalServerError, w.Code)
		s.NotContains(w.Body.String(), "pq:")
	})

	s.Run("busy record maps to 504", func() {
		s.service.EXPECT().Verify(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeTimeout, "passenger record is busy"))
		w := s.post("/v1/checkpoints/security/verify", map[string]any{"face_hash": "h1"})
		s.Equal(http.StatusGatewayTimeout, w.Code)
	})
}
