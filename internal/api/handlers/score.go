package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/internal/pipeline"
	"github.com/wonny/fscore/internal/universe"
	"github.com/wonny/fscore/pkg/logger"
)

// maxBatchTickers caps a synchronous batch request
const maxBatchTickers = 50

// Pipeline is the part of the runner the handlers call
type Pipeline interface {
	Process(ctx context.Context, ticker string, cfg pipeline.RunConfig) contracts.TickerReport
	Run(ctx context.Context, cfg pipeline.RunConfig) (*pipeline.RunResult, error)
}

// ScoreHandler handles on-demand scoring and screening
// ⭐ SSOT: 스코어 API 핸들러는 이 구조체에서만
type ScoreHandler struct {
	pipeline Pipeline
	logger   *logger.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(p Pipeline, log *logger.Logger) *ScoreHandler {
	return &ScoreHandler{
		pipeline: p,
		logger:   log,
	}
}

// GetScore scores one ticker
// GET /api/score/{ticker}
func (h *ScoreHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	h.processOne(w, r, pipeline.RunConfig{CheckPiotroski: true})
}

// GetScreen runs the undervaluation screen for one ticker. With
// ?score=true the ticker is scored first and the score gate applies.
// GET /api/screen/{ticker}
func (h *ScoreHandler) GetScreen(w http.ResponseWriter, r *http.Request) {
	h.processOne(w, r, pipeline.RunConfig{
		CheckPiotroski:   r.URL.Query().Get("score") == "true",
		CheckUndervalued: true,
	})
}

func (h *ScoreHandler) processOne(w http.ResponseWriter, r *http.Request, cfg pipeline.RunConfig) {
	ticker := normalizeTicker(mux.Vars(r)["ticker"])
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	report := h.pipeline.Process(r.Context(), ticker, cfg)

	h.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"status": string(report.Status),
	}).Debug("Processed ticker via API")

	respondJSON(w, statusCode(report.Status), report)
}

// statusCode maps a ticker outcome to an HTTP status; the report is
// always the body
func statusCode(status contracts.TickerStatus) int {
	switch status {
	case contracts.StatusNoData:
		return http.StatusNotFound
	case contracts.StatusRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}

// BatchRequest is the body of a batch run
type BatchRequest struct {
	Tickers          []string `json:"tickers"`
	CheckPiotroski   bool     `json:"check_piotroski"`
	CheckUndervalued bool     `json:"check_undervalued"`
}

// BatchResponse is the result of a batch run
type BatchResponse struct {
	RunID      string                   `json:"run_id"`
	StartedAt  time.Time                `json:"started_at"`
	DurationMS int64                    `json:"duration_ms"`
	Summary    contracts.RunSummary     `json:"summary"`
	Reports    []contracts.TickerReport `json:"reports"`
}

// RunBatch processes a ticker list synchronously
// POST /api/batch
func (h *ScoreHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tickers := universe.Normalize(req.Tickers)
	if len(tickers) == 0 {
		respondError(w, http.StatusBadRequest, "tickers are required")
		return
	}
	if len(tickers) > maxBatchTickers {
		respondError(w, http.StatusBadRequest, "too many tickers")
		return
	}
	if !req.CheckPiotroski && !req.CheckUndervalued {
		respondError(w, http.StatusBadRequest, "at least one of check_piotroski, check_undervalued is required")
		return
	}

	result, err := h.pipeline.Run(r.Context(), pipeline.RunConfig{
		Tickers:          tickers,
		CheckPiotroski:   req.CheckPiotroski,
		CheckUndervalued: req.CheckUndervalued,
	})
	if err != nil {
		h.logger.WithError(err).Error("Batch run failed")
		respondError(w, http.StatusInternalServerError, "batch run failed")
		return
	}

	respondJSON(w, http.StatusOK, BatchResponse{
		RunID:      result.RunID,
		StartedAt:  result.StartedAt,
		DurationMS: result.Duration.Milliseconds(),
		Summary:    result.Summary,
		Reports:    result.Reports,
	})
}
