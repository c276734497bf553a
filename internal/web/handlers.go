package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/logging"
)

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Status         string             `json:"status"`
	Dataset        string             `json:"dataset"`
	HistoryEnabled bool               `json:"history_enabled"`
	Analyses       core.LimiterStatus `json:"analyses"`
}

// handleRoot is the liveness probe.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Backend running"})
}

// handleData returns every dataset row as an object keyed by header, in file order.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	rows, err := s.service.Rows(r.Context())
	if err != nil {
		s.respondError(w, r, err, core.MsgDatasetReadFailed)
		return
	}
	logging.FromContext(r.Context()).Debug("serving rows", "count", len(rows))
	writeJSON(w, http.StatusOK, rows)
}

// handleAnalyze runs the analysis on the configured dataset.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	res, err := s.service.Analyze(ctx)
	if err != nil {
		s.respondError(w, r, err, core.MsgAnalysisFailed)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleListRuns returns recorded runs, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.History.ListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeErrorJSON(w, http.StatusBadRequest, msgInvalidLimit)
			return
		}
		limit = n
	}

	runs, err := s.service.Runs(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err, core.MapError(err))
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// handleStatus reports service health and analysis slot usage.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:         "ok",
		Dataset:        s.service.DatasetPath(),
		HistoryEnabled: s.service.HistoryEnabled(),
		Analyses:       s.service.LimiterStatus(),
	})
}
