// Package backend is the embedded demo opportunities service: a stand-in
// for a real tasking provider that generates plausible imaging windows for
// whatever bbox and date range it is asked about.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"overpass/internal/domain"
	"overpass/internal/logger"
)

// searchRequest is the body of POST /opportunities.
type searchRequest struct {
	BBox     []float64 `json:"bbox"`
	Datetime string    `json:"datetime"`
}

// Server serves the demo opportunities API.
type Server struct {
	cfg Config
	log *logger.Logger
	srv *http.Server
}

// NewServer builds a server with its routes registered.
func NewServer(cfg Config, log *logger.Logger) *Server {
	s := &Server{cfg: cfg, log: log}
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) router() http.Handler {
	mux := chi.NewRouter()
	mux.Use(s.requestLogger)

	mux.Get("/healthz", instrument("healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	mux.Get("/products", instrument("products", s.handleProducts))
	mux.Post("/opportunities", instrument("opportunities", s.handleOpportunities))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.log.Infow("backend listening", "addr", s.cfg.Addr)
	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"products": catalog()})
}

func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	bbox, err := domain.NewBoundingBox(req.BBox)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dr, err := parseInterval(req.Datetime)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opps := generateOpportunities(bbox, dr)
	s.log.Debugw("search served", "bbox", bbox.Values(), "datetime", req.Datetime, "count", len(opps))
	writeJSON(w, map[string]any{"opportunities": opps})
}

// parseInterval parses a "start/end" RFC3339 interval.
func parseInterval(s string) (domain.DateRange, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return domain.DateRange{}, fmt.Errorf("datetime must be a start/end interval")
	}
	start, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("bad interval start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("bad interval end: %w", err)
	}
	dr := domain.DateRange{Start: start, End: end}
	if err := dr.Validate(); err != nil {
		return domain.DateRange{}, err
	}
	return dr, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.Encode(v)
}

// requestLogger logs each request with its duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Infow("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}
