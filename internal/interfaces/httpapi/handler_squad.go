package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSquad")
	defer span.End()

	teamID, err := h.teamIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.squadService.GetSquad(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadViewToDTO(view))
}

func (h *Handler) SaveSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveSquad")
	defer span.End()

	teamID, err := h.teamIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req saveSquadRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if _, err := h.squadService.SaveSquad(ctx, usecase.SaveSquadInput{
		TeamID:    teamID,
		Name:      req.Name,
		PlayerIDs: req.PlayerIDs,
	}); err != nil {
		h.logger.WarnContext(ctx, "save squad failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	view, err := h.squadService.GetSquad(ctx, teamID)
	if err != nil {
		h.logger.ErrorContext(ctx, "reload saved squad failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadViewToDTO(view))
}

func (h *Handler) PreviewSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewSquad")
	defer span.End()

	teamID, err := h.teamIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req previewSquadRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.squadService.PreviewTransfers(ctx, teamID, req.PlayerIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "preview transfers failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferPreviewToDTO(result))
}

func (h *Handler) RandomSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RandomSquad")
	defer span.End()

	result, err := h.squadService.RandomSquad(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "random squad failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, randomSquadToDTO(result))
}

func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTransfers")
	defer span.End()

	teamID, err := h.teamIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.squadService.ListTransfers(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list transfers failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transfersToDTO(items))
}

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTransfer")
	defer span.End()

	teamID, err := h.teamIDFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req transferRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if _, err := h.squadService.Transfer(ctx, usecase.TransferInput{
		TeamID:      teamID,
		RoundID:     req.RoundID,
		OutPlayerID: req.OutPlayerID,
		InPlayerID:  req.InPlayerID,
	}); err != nil {
		h.logger.WarnContext(ctx, "transfer failed",
			"team_id", teamID,
			"round_id", req.RoundID,
			"out_player_id", req.OutPlayerID,
			"in_player_id", req.InPlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	view, err := h.squadService.GetSquad(ctx, teamID)
	if err != nil {
		h.logger.ErrorContext(ctx, "reload squad after transfer failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadViewToDTO(view))
}

// ValidateSquads is stateless: it checks candidate rosters against the live
// catalog without touching stored squads.
func (h *Handler) ValidateSquads(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateSquads")
	defer span.End()

	var req validateSquadsRequest
	if err := h.decodeJSON(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	candidates := make([]usecase.SquadCandidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		candidates = append(candidates, usecase.SquadCandidate{
			Key:       c.Key,
			PlayerIDs: c.PlayerIDs,
			BudgetCap: c.BudgetCap,
		})
	}

	results, err := h.validationService.ValidateSquads(ctx, candidates)
	if err != nil {
		h.logger.WarnContext(ctx, "validate squads failed", "candidates", len(candidates), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, results)
}
