// Package server is the thin HTTP surface over the query service. It
// owns routing, decoding and status mapping; all semantics live in the
// query layer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/MaxZim21/temporal-graph-explorer/api/schemas"
	"github.com/MaxZim21/temporal-graph-explorer/internal/config"
	"github.com/MaxZim21/temporal-graph-explorer/internal/observability"
	"github.com/MaxZim21/temporal-graph-explorer/internal/query"
)

// QueryService is the part of the query facade the server depends on.
type QueryService interface {
	RunGrouping(ctx context.Context, req *schemas.GroupingRequest) (*schemas.GraphResponse, error)
	RunSnapshot(ctx context.Context, req *schemas.SnapshotRequest) (*schemas.GraphResponse, error)
	RunDifference(ctx context.Context, req *schemas.DifferenceRequest) (*schemas.GraphResponse, error)
	GetGraph(ctx context.Context, databaseName string) (*schemas.GraphResponse, error)
	GetSchema(ctx context.Context, databaseName string) (*schemas.GraphSchema, error)
}

// Server handles the REST endpoints of the graph explorer.
type Server struct {
	svc QueryService
	cfg config.ServerConfig
	log *zap.Logger
}

// New creates the HTTP server glue around a query service.
func New(svc QueryService, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{svc: svc, cfg: cfg, log: logger.Named("http")}
}

// Router builds the chi router with all endpoints mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodPost, "/keys/{databaseName}",
		observability.MetricsMiddleware("keys", http.HandlerFunc(s.handleKeys)))
	r.Method(http.MethodPost, "/graph/{databaseName}",
		observability.MetricsMiddleware("graph", http.HandlerFunc(s.handleGraph)))
	r.Method(http.MethodPost, "/keyedgrouping",
		observability.MetricsMiddleware("keyedgrouping", http.HandlerFunc(s.handleGrouping)))
	r.Method(http.MethodPost, "/snapshot",
		observability.MetricsMiddleware("snapshot", http.HandlerFunc(s.handleSnapshot)))
	r.Method(http.MethodPost, "/difference",
		observability.MetricsMiddleware("difference", http.HandlerFunc(s.handleDifference)))

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	databaseName := chi.URLParam(r, "databaseName")
	result, err := s.svc.GetSchema(r.Context(), databaseName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	databaseName := chi.URLParam(r, "databaseName")
	result, err := s.svc.GetGraph(r.Context(), databaseName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) handleGrouping(w http.ResponseWriter, r *http.Request) {
	var req schemas.GroupingRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.svc.RunGrouping(r.Context(), &req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var req schemas.SnapshotRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.svc.RunSnapshot(r.Context(), &req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) handleDifference(w http.ResponseWriter, r *http.Request) {
	var req schemas.DifferenceRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.svc.RunDifference(r.Context(), &req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.log.Debug("Request body rejected", zap.Error(err))
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to write response", zap.Error(err))
	}
}

// writeError maps the query error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if kind, ok := query.KindOf(err); ok {
		switch kind {
		case query.KindConfig, query.KindParse:
			status = http.StatusBadRequest
		case query.KindNotFound:
			status = http.StatusNotFound
		case query.KindExecution:
			status = http.StatusInternalServerError
		}
	}
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", zap.Error(err))
	} else {
		s.log.Debug("Request rejected", zap.Error(err))
	}

	var body struct {
		Error string `json:"error"`
	}
	body.Error = err.Error()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil && !errors.Is(encodeErr, http.ErrHandlerTimeout) {
		s.log.Error("Failed to write error response", zap.Error(encodeErr))
	}
}
