package stats

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"truida/internal/passenger/models"
	dErrors "truida/pkg/domain-errors"
	"truida/pkg/platform/httputil"
	"truida/pkg/requestcontext"
)

const defaultAccessLogLimit = 50

// Reader is the read side the dashboard handler depends on.
type Reader interface {
	Summary(ctx context.Context, now time.Time) (*Summary, error)
	RecentAccess(ctx context.Context, limit int, since *time.Time) ([]models.AccessLogEntry, error)
}

type Handler struct {
	reader Reader
	logger *slog.Logger
}

func NewHandler(reader Reader, logger *slog.Logger) *Handler {
	return &Handler{reader: reader, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/stats", h.HandleSummary)
	r.Get("/v1/access-logs", h.HandleAccessLogs)
}

// HandleSummary handles GET /v1/stats.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sum, err := h.reader.Summary(ctx, requestcontext.Now(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build stats summary", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sum)
}

type accessLogEntryResponse struct {
	ID          string    `json:"id"`
	PassengerID string    `json:"passenger_id"`
	Checkpoint  string    `json:"checkpoint"`
	Timestamp   time.Time `json:"timestamp"`
	Result      string    `json:"result"`
	Outcome     string    `json:"outcome,omitempty"`
	StaffID     string    `json:"staff_id"`
	Notes       string    `json:"notes,omitempty"`
}

type accessLogResponse struct {
	Entries []accessLogEntryResponse `json:"entries"`
	Count   int                      `json:"count"`
}

// HandleAccessLogs handles GET /v1/access-logs?limit=&since=.
func (h *Handler) HandleAccessLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, since, err := parseAccessLogQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	entries, err := h.reader.RecentAccess(ctx, limit, since)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]accessLogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, accessLogEntryResponse{
			ID:          e.ID.String(),
			PassengerID: e.PassengerID.String(),
			Checkpoint:  e.Checkpoint.String(),
			Timestamp:   e.Timestamp,
			Result:      string(e.Result),
			Outcome:     e.Outcome,
			StaffID:     e.StaffID,
			Notes:       e.Notes,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, accessLogResponse{Entries: out, Count: len(out)})
}

func parseAccessLogQuery(r *http.Request) (int, *time.Time, error) {
	q := r.URL.Query()
	limit := defaultAccessLogLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0, nil, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer")
		}
		limit = n
	}
	var since *time.Time
	if raw := q.Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return 0, nil, dErrors.New(dErrors.CodeBadRequest, "since must be RFC3339")
		}
		since = &t
	}
	return limit, since, nil
}
