package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-roster/internal/domain/player"
	"github.com/riskibarqy/fantasy-roster/internal/platform/logging"
	"github.com/riskibarqy/fantasy-roster/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	catalogService    *usecase.CatalogService
	squadService      *usecase.SquadService
	lineupService     *usecase.LineupService
	validationService *usecase.ValidationService
	scheduleService   *usecase.RoundScheduleService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	squadService *usecase.SquadService,
	lineupService *usecase.LineupService,
	validationService *usecase.ValidationService,
	scheduleService *usecase.RoundScheduleService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:    catalogService,
		squadService:      squadService,
		lineupService:     lineupService,
		validationService: validationService,
		scheduleService:   scheduleService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	var filter player.Filter
	if raw := strings.TrimSpace(r.URL.Query().Get("position")); raw != "" {
		position, err := player.ParsePosition(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
			return
		}
		filter.Position = position
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("club_id")); raw != "" {
		clubID, err := parsePositiveID(raw, "club_id")
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		filter.ClubID = clubID
	}

	items, err := h.catalogService.ListPlayers(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "position", filter.Position, "club_id", filter.ClubID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) ListClubs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListClubs")
	defer span.End()

	items, err := h.catalogService.ListClubs(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list clubs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clubsToDTO(items))
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeJSON reads a bounded JSON body into dst and runs struct validation.
// Unknown fields are rejected.
func (h *Handler) decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) teamIDFromPath(ctx context.Context, r *http.Request) (string, error) {
	teamID := strings.TrimSpace(r.PathValue("teamID"))
	if err := h.validateRequest(ctx, teamPathRequest{TeamID: teamID}); err != nil {
		return "", err
	}
	return teamID, nil
}

func roundIDFromPath(r *http.Request) (int64, error) {
	return parsePositiveID(r.PathValue("roundID"), "round id")
}

func parsePositiveID(raw, name string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}
