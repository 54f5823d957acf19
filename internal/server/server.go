// Package server exposes health, metrics, status and the analysis API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tokenbrain/internal/bot"
	"tokenbrain/internal/domain"
	"tokenbrain/internal/observability"
	"tokenbrain/internal/storage"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// Analyzer runs one analysis (orchestrator.Orchestrator).
type Analyzer interface {
	Analyze(ctx context.Context, address string) (domain.AnalysisResult, error)
}

// Options configures Server.
type Options struct {
	Analyzer Analyzer              // analysis routes disabled when nil
	History  storage.AnalysisStore // history route disabled when nil

	// Reported by /status.
	Mode        string
	Providers   []string
	LLMProvider string

	Logger zerolog.Logger
}

// Server serves the HTTP API.
type Server struct {
	analyzer Analyzer
	history  storage.AnalysisStore
	log      zerolog.Logger

	mode        string
	providers   []string
	llmProvider string
	started     time.Time

	mu           sync.Mutex
	analyses     int
	failures     int
	lastAnalysis time.Time
}

// New creates a server.
func New(opts Options) *Server {
	return &Server{
		analyzer:    opts.Analyzer,
		history:     opts.History,
		log:         observability.Component(opts.Logger, "http"),
		mode:        opts.Mode,
		providers:   opts.Providers,
		llmProvider: opts.LLMProvider,
		started:     time.Now(),
	}
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", observability.Handler())

	mux.HandleFunc("GET /status", s.handleStatus)

	if s.analyzer != nil {
		mux.HandleFunc("GET /v1/analyze/{address}", s.handleAnalyze)
	}
	if s.history != nil {
		mux.HandleFunc("GET /v1/history/{address}", s.handleHistory)
	}

	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info().Msg("HTTP server stopped")
	return nil
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status       string     `json:"status"`
	Uptime       string     `json:"uptime"`
	Mode         string     `json:"mode"`
	Providers    []string   `json:"providers"`
	LLMProvider  string     `json:"llm_provider"`
	Analyses     int        `json:"analyses"`
	Failures     int        `json:"failures"`
	LastAnalysis *time.Time `json:"last_analysis,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).Round(time.Second).String(),
		Mode:        s.mode,
		Providers:   nonNil(s.providers),
		LLMProvider: s.llmProvider,
		Analyses:    s.analyses,
		Failures:    s.failures,
	}
	if !s.lastAnalysis.IsZero() {
		t := s.lastAnalysis
		resp.LastAnalysis = &t
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if err := bot.ValidateAddress(address); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), address)
	s.track(err)
	if err != nil {
		status, msg := errorStatus(err)
		s.log.Warn().Err(err).Str("address", address).Msg("analysis request failed")
		writeJSON(w, status, ErrorResponse{Error: msg})
		return
	}

	if s.history != nil {
		if err := s.history.Insert(r.Context(), domain.NewAnalysisRecord(result, 0, 0)); err != nil {
			s.log.Warn().Err(err).Str("address", address).Msg("store analysis history")
		}
	}

	writeJSON(w, http.StatusOK, NewAnalysisResponse(result))
}

// Client-facing analysis errors. Provider details stay in the logs.
const (
	msgDataUnavailable = "token data unavailable, try again later"
	msgAnalysisFailed  = "analysis failed"
)

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrDataUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, msgDataUnavailable
	default:
		return http.StatusInternalServerError, msgAnalysisFailed
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if err := bot.ValidateAddress(address); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := s.history.ListByAddress(r.Context(), address, limit)
	if err != nil {
		s.log.Error().Err(err).Str("address", address).Msg("list history")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "history unavailable"})
		return
	}

	items := make([]HistoryItem, 0, len(records))
	for _, rec := range records {
		items = append(items, newHistoryItem(rec))
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) track(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.failures++
		return
	}
	s.analyses++
	s.lastAnalysis = time.Now().UTC()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
