package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"truida/internal/biometric"
	"truida/internal/checkpoint/service"
	"truida/internal/passenger/models"
	dErrors "truida/pkg/domain-errors"
	"truida/pkg/platform/httputil"
	"truida/pkg/requestcontext"
)

// Service defines the interface for checkpoint operations.
type Service interface {
	Verify(ctx context.Context, req service.VerifyRequest) (*service.VerificationResult, error)
}

// Extractor turns raw captures into digests and embeddings.
type Extractor interface {
	Extract(ctx context.Context, payload []byte) (biometric.Sample, error)
	Digest(payload []byte) (string, error)
}

// Handler wires checkpoint endpoints to the checkpoint engine.
type Handler struct {
	service   Service
	extractor Extractor
	logger    *slog.Logger
}

func New(service Service, extractor Extractor, logger *slog.Logger) *Handler {
	return &Handler{service: service, extractor: extractor, logger: logger}
}

// Register mounts checkpoint endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/checkpoints/{checkpoint}/verify", h.HandleVerify)
}

// HandleVerify handles POST /v1/checkpoints/{checkpoint}/verify. Every
// outcome, including denials, is a 200 response.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	checkpoint, err := models.ParseCheckpoint(chi.URLParam(r, "checkpoint"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger)
	if !ok {
		return
	}

	domainReq, err := h.toDomain(ctx, checkpoint, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Verify(ctx, domainReq)
	if err != nil {
		h.logger.ErrorContext(ctx, "checkpoint verification failed",
			"checkpoint", checkpoint,
			"staff_id", requestcontext.StaffID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "checkpoint verified",
		"checkpoint", checkpoint,
		"outcome", result.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

func (h *Handler) toDomain(ctx context.Context, checkpoint models.Checkpoint, req *VerifyRequest) (service.VerifyRequest, error) {
	out := service.VerifyRequest{
		Checkpoint:      checkpoint,
		FaceHash:        req.FaceHash,
		FingerprintHash: req.FingerprintHash,
		Embedding:       req.Embedding,
	}
	if !req.usesCaptures() {
		return out, nil
	}
	if h.extractor == nil {
		return out, dErrors.New(dErrors.CodeValidation, "raw captures are not accepted by this deployment")
	}
	sample, err := h.extractor.Extract(ctx, req.FaceCapture)
	if err != nil {
		return out, captureError(err)
	}
	out.FaceHash, out.Embedding = sample.Digest, sample.Embedding
	if len(req.FingerprintCapture) > 0 {
		if out.FingerprintHash, err = h.extractor.Digest(req.FingerprintCapture); err != nil {
			return out, captureError(err)
		}
	}
	return out, nil
}

func captureError(err error) error {
	if errors.Is(err, biometric.ErrEmptyCapture) {
		return dErrors.Wrap(err, dErrors.CodeValidation, "capture is empty")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "feature extraction failed")
}
