package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

func (h *Handler) SyncCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncCatalog")
	defer span.End()

	result, err := h.catalogService.Sync(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "catalog sync job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) CloseRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseRound")
	defer span.End()

	roundID, err := roundIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.lineupService.CloseRound(ctx, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "close round job failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ScheduleRoundClosures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleRoundClosures")
	defer span.End()

	if h.scheduleService == nil {
		writeError(ctx, w, fmt.Errorf("%w: round scheduler is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.scheduleService.ScheduleClosures(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "schedule round closures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, result)
}
