// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/onto-project/ontobench/internal/domain/dedupe"
	"github.com/onto-project/ontobench/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a submission for async evaluation. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, sub model.Submission) bool

	// Read operations expose leaderboard data.
	TopN(ctx context.Context, n int) ([]model.LeaderboardEntry, error)
	Rank(ctx context.Context, modelName string) (model.LeaderboardEntry, error)
}

// StatsProvider exposes service statistics for the stats endpoint.
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]any
}

// DatasetInfo describes the benchmark dataset served on GET /dataset. The
// ground-truth labels themselves are never exposed.
type DatasetInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	TestSamples int      `json:"test_samples"`
	Categories  []string `json:"categories"`
	Download    string   `json:"download"`
}

// Server wires HTTP routes for the benchmark API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	submitHandler      *SubmitHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	datasetHandler     *DatasetHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int, info DatasetInfo) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		submitHandler:      NewSubmitHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		datasetHandler:     NewDatasetHandler(info),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/submit", MetricsMiddleware(s.submitHandler.HandlePostSubmission, "submit"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/dataset", MetricsMiddleware(s.datasetHandler.HandleGetDataset, "dataset"))
}

// predictionRequest mirrors the wire schema of one prediction.
type predictionRequest struct {
	SampleID   string  `json:"sample_id"`
	Label      string  `json:"label"`
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
	LatencyMS  float64 `json:"latency_ms"`
}

// submitRequest mirrors the wire schema for POST /submit.
type submitRequest struct {
	SubmissionID string              `json:"submission_id"`
	ModelName    string              `json:"model_name"`
	Organization string              `json:"organization"`
	Predictions  []predictionRequest `json:"predictions"`
}

// toSubmission validates the request and converts it into the domain form.
// A missing organization falls back to "Anonymous".
func (r submitRequest) toSubmission(id string, now time.Time) (model.Submission, error) {
	if strings.TrimSpace(r.ModelName) == "" {
		return model.Submission{}, errors.New("missing model_name")
	}
	if len(r.Predictions) == 0 {
		return model.Submission{}, errors.New("missing predictions")
	}

	org := strings.TrimSpace(r.Organization)
	if org == "" {
		org = "Anonymous"
	}

	preds := make([]model.Prediction, 0, len(r.Predictions))
	for i, p := range r.Predictions {
		label, err := model.ParseLabel(p.Label)
		if err != nil {
			return model.Submission{}, fmt.Errorf("prediction %d: %w", i, err)
		}
		preds = append(preds, model.Prediction{
			SampleID:        p.SampleID,
			PredictedLabel:  label,
			PredictedAnswer: p.Answer,
			Confidence:      p.Confidence,
			LatencyMS:       p.LatencyMS,
		})
	}

	sub := model.Submission{
		ID:           id,
		Model:        strings.TrimSpace(r.ModelName),
		Organization: org,
		SubmittedAt:  now,
		Predictions:  preds,
	}
	if err := sub.Validate(); err != nil {
		return model.Submission{}, err
	}
	return sub, nil
}

type ackResponse struct {
	Status       string `json:"status"`
	SubmissionID string `json:"submission_id"`
	Duplicate    bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
