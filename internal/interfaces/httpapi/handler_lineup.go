package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineup")
	defer span.End()

	teamID, err := h.teamIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	roundID, err := roundIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.lineupService.Get(ctx, teamID, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "get lineup failed", "team_id", teamID, "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(item))
}

func (h *Handler) SaveLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveLineup")
	defer span.End()

	teamID, err := h.teamIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	roundID, err := roundIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req saveLineupRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.lineupService.Save(ctx, usecase.SaveLineupInput{
		TeamID:        teamID,
		RoundID:       roundID,
		Slots:         lineupRequestToSlots(req),
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save lineup failed", "team_id", teamID, "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(item))
}

func (h *Handler) GetRoundPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoundPoints")
	defer span.End()

	teamID, err := h.teamIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	roundID, err := roundIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.lineupService.RoundPoints(ctx, teamID, roundID)
	if err != nil {
		h.logger.WarnContext(ctx, "round points failed", "team_id", teamID, "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundPointsToDTO(result))
}
