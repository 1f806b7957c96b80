package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/willowlytics/cricketstats/internal/platform/logging"
	"github.com/willowlytics/cricketstats/internal/usecase"
)

type Handler struct {
	statsService    *usecase.StatsService
	formService     *usecase.FormService
	collapseService *usecase.CollapseService
	matchService    *usecase.MatchService
	coordinator     *usecase.IngestionCoordinator
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	statsService *usecase.StatsService,
	formService *usecase.FormService,
	collapseService *usecase.CollapseService,
	matchService *usecase.MatchService,
	coordinator *usecase.IngestionCoordinator,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		statsService:    statsService,
		formService:     formService,
		collapseService: collapseService,
		matchService:    matchService,
		coordinator:     coordinator,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetPlayerBattingStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "httpapi.Handler.GetPlayerBattingStats")
	defer span.End()

	playerID := r.PathValue("playerID")
	stats, err := h.statsService.BattingStats(ctx, playerID, r.URL.Query().Get("venue_id"))
	if err != nil {
		h.logger.WarnContext(ctx, "get batting stats failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetPlayerBowlingStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "httpapi.Handler.GetPlayerBowlingStats")
	defer span.End()

	playerID := r.PathValue("playerID")
	stats, err := h.statsService.BowlingStats(ctx, playerID, r.URL.Query().Get("venue_id"))
	if err != nil {
		h.logger.WarnContext(ctx, "get bowling stats failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetPlayerSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "httpapi.Handler.GetPlayerSummary")
	defer span.End()

	playerID := r.PathValue("playerID")
	summary, err := h.statsService.PlayerSummary(ctx, playerID, r.URL.Query().Get("venue_id"))
	if err != nil {
		h.logger.WarnContext(ctx, "get player summary failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) GetPlayerForm(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "httpapi.Handler.GetPlayerForm")
	defer span.End()

	playerID := r.PathValue("playerID")
	lastN := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("last")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(ctx, w, fmt.Errorf("%w: last must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		lastN = parsed
	}

	trend, err := h.formService.RecentForm(ctx, playerID, lastN)
	if err != nil {
		h.logger.WarnContext(ctx, "get player form failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, trend)
}

func (h *Handler) GetTeamPerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "httpapi.Handler.GetTeamPerformance")
	defer span.End()

	teamID := r.PathValue("teamID")
	record, err := h.statsService.TeamPerformance(ctx, teamID, r.URL.Query().Get("venue_id"))
	if err != nil {
		h.logger.WarnContext(ctx, "get team performance failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, record)
}

func (h *Handler) GetMatchCollapses(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "httpapi.Handler.GetMatchCollapses")
	defer span.End()

	matchID := r.PathValue("matchID")
	report, err := h.collapseService.CollapsesForMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match collapses failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	m, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

type ingestionRequestDTO struct {
	Paths []string `json:"paths" validate:"required,min=1,dive,required"`
}

func (h *Handler) RunIngestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "httpapi.Handler.RunIngestion")
	defer span.End()

	var payload ingestionRequestDTO
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	stats, err := h.coordinator.IngestFiles(ctx, payload.Paths)
	if err != nil {
		h.logger.ErrorContext(ctx, "ingestion failed", "files", len(payload.Paths), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stats)
}
