package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/sectorlead/backend/internal/brain"
	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/internal/s0_data"
	"github.com/wonny/sectorlead/backend/internal/s2_signals"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// RankingService is the subset of brain.Service the handlers use
type RankingService interface {
	Current(ctx context.Context) (*brain.RunResult, error)
	Refresh(ctx context.Context) (*brain.RunResult, error)
	Latest() (*brain.RunResult, error)
}

// SectorHandler handles sector leader API endpoints
// ⭐ SSOT: 섹터 주도주 API 핸들러는 이 구조체에서만
type SectorHandler struct {
	service    RankingService
	series     contracts.SeriesSource
	classifier *s2_signals.TrendClassifier
	logger     *logger.Logger
}

// NewSectorHandler creates a new sector handler
func NewSectorHandler(service RankingService, series contracts.SeriesSource, maPeriod int, log *logger.Logger) *SectorHandler {
	return &SectorHandler{
		service:    service,
		series:     series,
		classifier: s2_signals.NewTrendClassifier(maPeriod),
		logger:     log,
	}
}

// runTimeout bounds a ranking run started from a request
const runTimeout = 2 * time.Minute

// runContext detaches a run from the request so a client disconnect does not
// cancel the run shared with other callers
func runContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), runTimeout)
}

// LeadersResponse is the body of GET /api/v1/sector-leaders
type LeadersResponse struct {
	RunID      string                      `json:"run_id"`
	PolicyID   string                      `json:"policy_id"`
	FinishedAt time.Time                   `json:"finished_at"`
	Count      int                         `json:"count"`
	Sectors    []contracts.SelectionResult `json:"sectors"`
}

// ReversalResponse is the body of GET /api/v1/sector-leaders/reversal
type ReversalResponse struct {
	RunID      string                        `json:"run_id"`
	Count      int                           `json:"count"`
	Candidates []contracts.ReversalCandidate `json:"candidates"`
}

// OverlayResponse is the chart payload for one instrument
type OverlayResponse struct {
	Code   string                    `json:"code"`
	Period int                       `json:"period"`
	Trend  contracts.TrendState      `json:"trend"`
	Points []s2_signals.OverlayPoint `json:"points"`
}

// GetLeaders returns the latest ranking, running one if none exists
// GET /api/v1/sector-leaders?limit=N
func (h *SectorHandler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := runContext(r)
	defer cancel()
	result, err := h.service.Current(ctx)
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	sectors := result.Results
	if limit := parseLimit(r); limit > 0 && limit < len(sectors) {
		sectors = sectors[:limit]
	}

	respondJSON(w, http.StatusOK, LeadersResponse{
		RunID:      result.RunID,
		PolicyID:   result.Stamp.PolicyID,
		FinishedAt: result.FinishedAt,
		Count:      len(sectors),
		Sectors:    sectors,
	})
}

// Refresh forces a new run
// POST /api/v1/sector-leaders/refresh
func (h *SectorHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := runContext(r)
	defer cancel()
	result, err := h.service.Refresh(ctx)
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":           result.RunID,
		"success":          result.Success,
		"completed_stages": result.CompletedStages,
		"stats":            result.Stats,
		"coverage":         result.Coverage,
		"duration_ms":      result.Duration.Milliseconds(),
	})
}

// GetReversal returns broken sectors ordered by distance to their MA
// GET /api/v1/sector-leaders/reversal
func (h *SectorHandler) GetReversal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := runContext(r)
	defer cancel()
	result, err := h.service.Current(ctx)
	if err != nil {
		h.respondRunError(w, err)
		return
	}

	candidates := result.Reversal
	if limit := parseLimit(r); limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}

	respondJSON(w, http.StatusOK, ReversalResponse{
		RunID:      result.RunID,
		Count:      len(candidates),
		Candidates: candidates,
	})
}

// GetOverlay returns close prices with the display MA line
// GET /api/v1/series/{code}/overlay
func (h *SectorHandler) GetOverlay(w http.ResponseWriter, r *http.Request) {
	code := s0_data.NormalizeCode(mux.Vars(r)["code"])
	if code == "" {
		respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	series, ok := h.publishedSeries(code)
	if !ok {
		var err error
		series, err = h.series.Series(r.Context(), code)
		if err != nil {
			h.logger.WithError(err).WithField("code", code).Warn("Overlay series unavailable")
			respondError(w, http.StatusNotFound, "series not found: "+code)
			return
		}
	}

	respondJSON(w, http.StatusOK, OverlayResponse{
		Code:   code,
		Period: h.classifier.Period(),
		Trend:  h.classifier.Classify(series),
		Points: h.classifier.Overlay(series),
	})
}

// publishedSeries looks in the latest published run before hitting the source
func (h *SectorHandler) publishedSeries(code string) (contracts.Series, bool) {
	result, err := h.service.Latest()
	if err != nil || result.Store() == nil {
		return contracts.Series{}, false
	}
	s, found := result.Store().Get(code)
	return s, found && s.Usable()
}

func (h *SectorHandler) respondRunError(w http.ResponseWriter, err error) {
	h.logger.WithError(err).Error("Sector leader run failed")
	if contracts.IsMissingData(err) {
		respondError(w, http.StatusServiceUnavailable, "roster unavailable")
		return
	}
	respondError(w, http.StatusInternalServerError, "Failed to rank sector leaders")
}
