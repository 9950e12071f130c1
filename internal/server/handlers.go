package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pranaysuyash/aiglossarypro-sub009/internal/stats"
	"github.com/pranaysuyash/aiglossarypro-sub009/internal/store"
)

type HealthResponse struct {
	Status           string `json:"status"`
	ExperimentsCount int    `json:"experiments_count"`
	DBSizeBytes      int64  `json:"db_size_bytes"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	experiments, err := s.store.ListExperiments(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("health: list experiments")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var dbSize int64
	row := s.store.DB().QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
	if err := row.Scan(&dbSize); err != nil {
		dbSize = 0
	}

	response := HealthResponse{
		Status:           "ok",
		ExperimentsCount: len(experiments),
		DBSizeBytes:      dbSize,
		UptimeSeconds:    int64(time.Since(s.startTime).Seconds()),
	}

	writeJSON(w, http.StatusOK, response)
}

// BeaconRequest represents an incoming tracking event
type BeaconRequest struct {
	Experiment string `json:"t"`
	Variant    int    `json:"v"`
	EventType  string `json:"e"`
	VisitorID  string `json:"vid"`
}

type BeaconResponse struct {
	VisitorID string `json:"vid"`
}

func (s *Server) handleBeacon(w http.ResponseWriter, r *http.Request) {
	// CORS: beacons arrive from the tracked site's origin
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BeaconRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Experiment == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	switch req.EventType {
	case store.EventView, store.EventTrial, store.EventCTA:
	default:
		http.Error(w, "Invalid event type", http.StatusBadRequest)
		return
	}

	// Assign a visitor id when the client has none yet; the client is
	// expected to persist it and send it back on subsequent events.
	generated := false
	if req.VisitorID == "" {
		req.VisitorID = uuid.NewString()
		generated = true
	}

	ctx := r.Context()

	exp, err := s.store.GetExperiment(ctx, req.Experiment)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Experiment not found", http.StatusBadRequest)
			return
		}
		s.log.Error().Err(err).Str("experiment", req.Experiment).Msg("beacon: get experiment")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if req.Variant < 0 || req.Variant >= len(exp.Variants) {
		http.Error(w, "Invalid variant", http.StatusBadRequest)
		return
	}

	if err := s.store.RecordEvent(ctx, req.Experiment, req.Variant, req.EventType, req.VisitorID); err != nil {
		s.log.Error().Err(err).Str("experiment", req.Experiment).Msg("beacon: record event")
		http.Error(w, "Failed to record event", http.StatusInternalServerError)
		return
	}

	if generated {
		writeJSON(w, http.StatusOK, BeaconResponse{VisitorID: req.VisitorID})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type ExperimentSummary struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	State            string   `json:"state"`
	Variants         []string `json:"variants"`
	WinnerVariant    *int     `json:"winner_variant,omitempty"`
	TotalViews       int      `json:"total_views"`
	TotalConversions int      `json:"total_conversions"`
	CreatedAt        int64    `json:"created_at"`
}

func (s *Server) handleExperiments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	experiments, err := s.store.ListExperiments(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list experiments")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]ExperimentSummary, 0, len(experiments))
	for _, exp := range experiments {
		metrics, err := s.store.GetVariantMetrics(ctx, exp.Name)
		if err != nil {
			s.log.Error().Err(err).Str("experiment", exp.Name).Msg("get variant metrics")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		summary := ExperimentSummary{
			Name:          exp.Name,
			Description:   exp.Description,
			State:         string(exp.State),
			Variants:      exp.Variants,
			WinnerVariant: exp.WinnerVariant,
			CreatedAt:     exp.CreatedAt.Unix(),
		}
		for _, m := range metrics {
			summary.TotalViews += m.Views
			summary.TotalConversions += m.TrialSignups + m.CTAClicks
		}
		response = append(response, summary)
	}

	writeJSON(w, http.StatusOK, response)
}

type VariantResultJSON struct {
	Name           string   `json:"name"`
	Views          int      `json:"views"`
	Conversions    int      `json:"conversions"`
	Rate           float64  `json:"rate"`
	CILower        float64  `json:"ci_lower"`
	CIUpper        float64  `json:"ci_upper"`
	ZScore         *float64 `json:"z_score,omitempty"`
	PValue         *float64 `json:"p_value,omitempty"`
	Significant    *bool    `json:"significant,omitempty"`
	RelativeUplift *float64 `json:"relative_uplift,omitempty"`
}

type WinnerJSON struct {
	Variant        *string `json:"variant"`
	ConversionRate float64 `json:"conversion_rate"`
	Significant    bool    `json:"significant"`
}

type ResultsResponse struct {
	Experiment string              `json:"experiment"`
	State      string              `json:"state"`
	Metric     string              `json:"metric"`
	Variants   []VariantResultJSON `json:"variants"`
	Winner     WinnerJSON          `json:"winner"`
}

// handleResults serves GET /api/experiments/{name}/results?metric=trial|cta
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/experiments/")
	name, tail, found := strings.Cut(rest, "/")
	if !found || tail != "results" || name == "" {
		http.NotFound(w, r)
		return
	}

	metricParam := r.URL.Query().Get("metric")
	if metricParam == "" {
		metricParam = string(stats.MetricTrial)
	}
	metric, err := stats.ParseMetric(metricParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	exp, err := s.store.GetExperiment(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Experiment not found", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Str("experiment", name).Msg("results: get experiment")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	metrics, err := s.store.GetVariantMetrics(ctx, name)
	if err != nil {
		s.log.Error().Err(err).Str("experiment", name).Msg("results: get variant metrics")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	report := stats.AnalyzeExperiment(exp, metrics, metric)

	response := ResultsResponse{
		Experiment: exp.Name,
		State:      string(exp.State),
		Metric:     string(report.Metric),
		Variants:   make([]VariantResultJSON, len(report.Variants)),
	}

	for i, v := range report.Variants {
		row := VariantResultJSON{
			Name:        v.Name,
			Views:       v.Views,
			Conversions: v.Conversions,
			Rate:        v.Rate,
			CILower:     v.CILower,
			CIUpper:     v.CIUpper,
		}
		if v.Significance != nil {
			row.ZScore = v.Significance.ZScore
			p := v.Significance.PValue
			row.PValue = &p
			sig := v.Significance.IsSignificant
			row.Significant = &sig
			row.RelativeUplift = v.Significance.RelativeUplift
		}
		response.Variants[i] = row
	}

	response.Winner = WinnerJSON{
		ConversionRate: report.Winner.ConversionRate,
		Significant:    report.Winner.IsSignificant,
	}
	if report.Winner.Variant != "" {
		v := report.Winner.Variant
		response.Winner.Variant = &v
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
