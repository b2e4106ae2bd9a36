// Package chi exposes the HTTP API: query, run history and health.
package chi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/raglab/raglab-api/internal/domain"
	"github.com/raglab/raglab-api/internal/logger"
	healthuc "github.com/raglab/raglab-api/internal/usecase/health"
	raguc "github.com/raglab/raglab-api/internal/usecase/rag"
	runsuc "github.com/raglab/raglab-api/internal/usecase/runs"
)

// Server is the HTTP API server.
type Server struct {
	rag    *raguc.Service
	runs   *runsuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	rag *raguc.Service,
	runs *runsuc.Service,
	health *healthuc.Service,
	log *zap.Logger,
) *Server {
	return &Server{
		rag:    rag,
		runs:   runs,
		health: health,
		logger: log,
	}
}

// Routes mounts all API endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/rag/query", s.QueryRAG)
		r.Get("/runs", s.ListRuns)
		r.Get("/health", s.Health)
	})
	r.Handle("/metrics", promhttp.Handler())
}

// QueryRAG handles POST /api/v1/rag/query.
func (s *Server) QueryRAG(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Undecodable bodies never reach the pipeline, so no run is recorded.
		s.writeError(w, r, domain.NewError(domain.CodeBadRequest, "Malformed JSON request").WithCause(err))
		return
	}

	resp, err := s.rag.Query(r.Context(), req.toInput())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponseToDTO(resp))
}

// ListRuns handles GET /api/v1/runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	backend := r.URL.Query().Get("backend")

	runs := s.runs.List(r.Context(), limit, backend)

	items := make([]runDTO, len(runs))
	for i, run := range runs {
		items[i] = runToDTO(run)
	}
	writeJSON(w, http.StatusOK, items)
}

// Health handles GET /api/v1/health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthToDTO(s.health.Check(r.Context())))
}

// writeError classifies the failure and writes the error envelope. The
// envelope carries only the classified code, message and details; the
// underlying cause is logged server-side.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	classified := domain.Classify(err)

	log := logger.FromContext(r.Context())
	fields := []zap.Field{
		zap.String("error_code", string(classified.Code)),
		zap.Error(err),
	}
	if classified.Code == domain.CodeInternalError {
		log.Error("request failed", fields...)
	} else {
		log.Warn("request failed", fields...)
	}

	writeJSON(w, classified.Code.HTTPStatus(), errorEnvelope{Error: errorBody{
		Code:    string(classified.Code),
		Message: classified.Message,
		Details: classified.Details,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
