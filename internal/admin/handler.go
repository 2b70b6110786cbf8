// Package admin exposes operator endpoints guarded by the admin token.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"truida/internal/enrollment/service"
	"truida/pkg/platform/httputil"
	"truida/pkg/requestcontext"
)

// Sweeper removes departed passengers.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Clearer wipes every record and the access log.
type Clearer interface {
	ClearAll(ctx context.Context) (*service.ClearResult, error)
}

type Handler struct {
	sweeper Sweeper
	clearer Clearer
	logger  *slog.Logger
}

func New(sweeper Sweeper, clearer Clearer, logger *slog.Logger) *Handler {
	return &Handler{sweeper: sweeper, clearer: clearer, logger: logger}
}

// Register mounts admin endpoints. The caller applies the admin token guard.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/sweep", h.HandleSweep)
	r.Delete("/admin/data", h.HandleClear)
}

// HandleSweep handles POST /admin/sweep.
func (h *Handler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := requestcontext.Now(ctx)
	removed, err := h.sweeper.Sweep(ctx, now)
	if err != nil {
		h.logger.ErrorContext(ctx, "manual sweep failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "manual sweep completed",
		"removed", removed,
		"staff_id", requestcontext.StaffID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, &SweepResponse{Removed: removed, SweptAt: now})
}

// HandleClear handles DELETE /admin/data.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.clearer.ClearAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "clear all failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.WarnContext(ctx, "all passenger data cleared", "staff_id", requestcontext.StaffID(ctx))
	httputil.WriteJSON(w, http.StatusOK, &ClearResponse{Cleared: true, ClearedAt: result.ClearedAt})
}
