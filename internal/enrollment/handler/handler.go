package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"truida/internal/enrollment/service"
	"truida/internal/passenger/models"
	id "truida/pkg/domain"
	"truida/pkg/platform/httputil"
	"truida/pkg/requestcontext"
)

// Service defines the interface for enrollment and record operations.
type Service interface {
	Enroll(ctx context.Context, req service.EnrollRequest) (*models.PassengerRecord, error)
	EnrollCapture(ctx context.Context, req service.EnrollCaptureRequest) (*models.PassengerRecord, error)
	Get(ctx context.Context, passengerID id.PassengerID) (*models.PassengerRecord, error)
	FindByPassport(ctx context.Context, passport string) (*models.PassengerRecord, error)
	List(ctx context.Context) ([]*models.PassengerRecord, error)
	Delete(ctx context.Context, passengerID id.PassengerID) error
}

// Handler handles passenger record endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts passenger endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/passengers", h.HandleEnroll)
	r.Get("/v1/passengers", h.HandleList)
	r.Get("/v1/passengers/passport/{passport}", h.HandleFindByPassport)
	r.Get("/v1/passengers/{id}", h.HandleGet)
	r.Delete("/v1/passengers/{id}", h.HandleDelete)
}

// HandleEnroll handles POST /v1/passengers.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[EnrollRequest](w, r, h.logger)
	if !ok {
		return
	}

	var (
		rec *models.PassengerRecord
		err error
	)
	if req.usesCaptures() {
		rec, err = h.service.EnrollCapture(ctx, service.EnrollCaptureRequest{
			IdentityFields:     req.identity(),
			FaceCapture:        req.FaceCapture,
			FingerprintCapture: req.FingerprintCapture,
		})
	} else {
		rec, err = h.service.Enroll(ctx, service.EnrollRequest{
			IdentityFields:  req.identity(),
			FaceHash:        req.FaceHash,
			FingerprintHash: req.FingerprintHash,
			FaceEmbedding:   req.FaceEmbedding,
		})
	}
	if err != nil {
		h.logger.WarnContext(ctx, "failed to enroll passenger",
			"staff_id", requestcontext.StaffID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromRecord(rec))
}

// HandleList handles GET /v1/passengers.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecords(recs))
}

// HandleGet handles GET /v1/passengers/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	passengerID, err := id.ParsePassengerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, err := h.service.Get(r.Context(), passengerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

// HandleFindByPassport handles GET /v1/passengers/passport/{passport}.
func (h *Handler) HandleFindByPassport(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.FindByPassport(r.Context(), chi.URLParam(r, "passport"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

// HandleDelete handles DELETE /v1/passengers/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	passengerID, err := id.ParsePassengerID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, passengerID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "passenger deleted",
		"passenger_id", passengerID.String(),
		"staff_id", requestcontext.StaffID(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}
