// Package server exposes the sandhi processor and the grammar engine as a
// JSON HTTP API.
//
// Endpoints:
//
//	GET  /api/sandhi/apply?first=<w>&second=<w>
//	GET  /api/sandhi/reverse?text=<s>
//	GET  /api/sandhi/splits?text=<s>
//	POST /api/grammar/validate   body: {"text":"..."}
//	POST /api/grammar/correct    body: {"text":"..."}
//	POST /api/grammar/parse      body: {"text":"..."}
//	GET  /healthz
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/roach88/vyakarana/internal/grammar"
	"github.com/roach88/vyakarana/internal/ir"
	"github.com/roach88/vyakarana/internal/sandhi"
)

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API. It holds no mutable state beyond its
// construction-time configuration.
type Server struct {
	proc    *sandhi.Processor
	eng     *grammar.Engine
	origins []string
	logger  *slog.Logger

	fingerprint string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAllowedOrigins sets the CORS origins. "*" allows any origin.
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.origins = origins
	}
}

// New creates a Server over proc and eng.
func New(proc *sandhi.Processor, eng *grammar.Engine, opts ...ServerOption) (*Server, error) {
	if proc == nil || eng == nil {
		return nil, errors.New("server: sandhi processor and grammar engine are required")
	}
	s := &Server{
		proc:    proc,
		eng:     eng,
		origins: []string{"*"},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.fingerprint = proc.Table().Fingerprint()
	return s, nil
}

// Handler returns the API wrapped in request logging and CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sandhi/apply", s.handleApply)
	mux.HandleFunc("/api/sandhi/reverse", s.handleReverse)
	mux.HandleFunc("/api/sandhi/splits", s.handleSplits)
	mux.HandleFunc("/api/grammar/validate", s.handleValidate)
	mux.HandleFunc("/api/grammar/correct", s.handleCorrect)
	mux.HandleFunc("/api/grammar/parse", s.handleParse)
	mux.HandleFunc("/healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.logRequests(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down", "addr", addr)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ---- JSON response types ------------------------------------------------

type applyResponse struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Result string `json:"result"`
}

type reverseResponse struct {
	Text     string   `json:"text"`
	Segments []string `json:"segments"`
}

type splitsResponse struct {
	Text   string              `json:"text"`
	Splits []sandhi.SplitPoint `json:"splits"`
}

type validateResponse struct {
	Text  string `json:"text"`
	Valid bool   `json:"valid"`
}

type correctResponse struct {
	Text      string `json:"text"`
	Corrected string `json:"corrected"`
}

type parseResponse struct {
	ir.SentenceAnalysis
	Tags []string `json:"tags"`
}

type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Rules       int    `json:"sandhi_rules"`
	Fingerprint string `json:"rules_fingerprint"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// queryParam returns a query parameter that must be present. An empty
// value is allowed.
func queryParam(r *http.Request, name string) (string, bool) {
	q := r.URL.Query()
	if !q.Has(name) {
		return "", false
	}
	return q.Get(name), true
}

// decodeText reads a {"text": "..."} body. The field must be present.
func decodeText(r *http.Request) (string, bool) {
	var body struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == nil {
		return "", false
	}
	return *body.Text, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// ---- handlers -----------------------------------------------------------

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	first, ok1 := queryParam(r, "first")
	second, ok2 := queryParam(r, "second")
	if !ok1 || !ok2 {
		s.writeError(w, http.StatusBadRequest, "missing 'first' or 'second' query parameter")
		return
	}
	s.writeJSON(w, http.StatusOK, applyResponse{
		First:  first,
		Second: second,
		Result: s.proc.Apply(first, second),
	})
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	text, ok := queryParam(r, "text")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "missing 'text' query parameter")
		return
	}
	s.writeJSON(w, http.StatusOK, reverseResponse{Text: text, Segments: s.proc.Reverse(text)})
}

func (s *Server) handleSplits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	text, ok := queryParam(r, "text")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "missing 'text' query parameter")
		return
	}
	splits := s.proc.IdentifySplits(text)
	if splits == nil {
		splits = []sandhi.SplitPoint{}
	}
	s.writeJSON(w, http.StatusOK, splitsResponse{Text: text, Splits: splits})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, validateResponse{Text: text, Valid: s.eng.Validate(text)})
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, correctResponse{Text: text, Corrected: s.eng.Correct(text)})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	analysis := s.eng.ParseSentence(text)
	s.writeJSON(w, http.StatusOK, parseResponse{SentenceAnalysis: analysis, Tags: analysis.Tags()})
}

// readText enforces POST and decodes the text body, writing the error
// response itself when either fails.
func (s *Server) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "POST required")
		return "", false
	}
	text, ok := decodeText(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "body must be JSON with a 'text' field")
		return "", false
	}
	return text, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Version:     ir.Version,
		Rules:       len(s.proc.Table().SandhiRules()),
		Fingerprint: s.fingerprint,
	})
}
