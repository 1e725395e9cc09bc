// Package server exposes the lead store, the pipeline runner and the advisor
// over a small JSON HTTP API consumed by the dashboard.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meresu/lead-advisor/internal/advisor"
	"github.com/meresu/lead-advisor/internal/leads"
	"github.com/meresu/lead-advisor/internal/pipeline"
)

type Server struct {
	store   *leads.Store
	runner  *pipeline.Runner
	advisor *advisor.Advisor
	logger  *zap.Logger
}

func New(store *leads.Store, runner *pipeline.Runner, adv *advisor.Advisor, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		store:   store,
		runner:  runner,
		advisor: adv,
		logger:  logger,
	}
}

// Handler returns the routed HTTP handler with request logging attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects", s.handleProjects)
	mux.HandleFunc("/api/run_pipeline", s.handleRunPipeline)
	mux.HandleFunc("/api/pipeline_status", s.handlePipelineStatus)
	mux.HandleFunc("/api/advice", s.handleAdvice)
	return s.withRequestLog(mux)
}

// withRequestLog tags every request with an ID and logs method, path and
// duration.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		started := time.Now()
		next.ServeHTTP(w, r)

		s.logger.Info("request served",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(started)),
		)
	})
}

// handleProjects serves the filtered, sorted lead table. Query parameters:
// search, priority, type, sort.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	projects := s.store.Snapshot().
		Search(q.Get("search")).
		FilterUrgency(q.Get("priority")).
		FilterType(q.Get("type"))
	projects.SortBy(q.Get("sort"))

	items := projects.Items
	if items == nil {
		items = []*leads.Project{}
	}
	writeJSON(w, http.StatusOK, items)
}

type pipelineResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleRunPipeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	// Not r.Context(): the run must outlive the request that started it.
	if err := s.runner.Start(context.Background()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrAlreadyRunning) {
			status = http.StatusConflict
		}
		writeJSON(w, status, pipelineResponse{Status: "error", Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, pipelineResponse{Status: "success", Message: "Pipeline started successfully"})
}

func (s *Server) handlePipelineStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"running": s.runner.Running()})
}

type adviceRequest struct {
	Role         string   `json:"role"`
	Company      string   `json:"company"`
	InterestTags []string `json:"interest_tags"`
	Query        string   `json:"query"`
}

// handleAdvice runs one advisor turn. The profile must be complete; profile
// collection belongs to the client, not this API.
func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req adviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Role) == "" || strings.TrimSpace(req.Company) == "" {
		writeError(w, http.StatusBadRequest, "role and company are required")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	profile := leads.Profile{
		Role:         req.Role,
		Company:      req.Company,
		InterestTags: req.InterestTags,
	}

	reply := s.advisor.Advise(r.Context(), profile, req.Query, s.store.Snapshot())
	writeJSON(w, http.StatusOK, reply)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
