// Package server exposes document reconstruction over HTTP.
//
// Clients POST a structuredData.json document, or a zip archive holding
// one, to /v1/reconstruct and receive the rendered document:
//
//	curl --data-binary @structuredData.json 'localhost:8080/v1/reconstruct?format=markdown'
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/tsawler/docstruct"
	"github.com/tsawler/docstruct/internal/config"
	"github.com/tsawler/docstruct/render"
	"github.com/tsawler/docstruct/source"
)

// WarningsHeader carries the number of warnings recovered during a run.
const WarningsHeader = "X-Docstruct-Warnings"

// Server serves the reconstruction API.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	router  *chi.Mux
	limiter *rate.Limiter
}

// New creates a server from cfg. A nil logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, logger: logger}
	if cfg.Server.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), max(cfg.Server.RateBurst, 1))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/v1/reconstruct", s.handleReconstruct)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Server.ShutdownTimeout))
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	format, opts, numbered, err := s.requestOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	payload, err := source.Read(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ext := docstruct.FromSource(payload).
		WithConfig(s.cfg.AnalyzerConfig()).
		WithLogger(s.logger.With("request_id", middleware.GetReqID(r.Context())))
	if numbered {
		ext = ext.NumberBlocks()
	}

	doc, warnings, err := ext.Document(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, docstruct.ErrEmptyInput):
			writeError(w, http.StatusUnprocessableEntity, err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, err)
		default:
			s.logger.Error("reconstruction failed", "error", err)
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	body, err := render.Bytes(doc, format, opts)
	if err != nil {
		s.logger.Error("rendering failed", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set(WarningsHeader, strconv.Itoa(len(warnings)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// requestOptions overlays the query parameters on the configured output
// settings
func (s *Server) requestOptions(r *http.Request) (render.Format, render.Options, bool, error) {
	q := r.URL.Query()
	opts := s.cfg.RenderOptions()
	numbered := s.cfg.Output.NumberBlocks

	name := s.cfg.Output.Format
	if q.Has("format") {
		name = q.Get("format")
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return 0, opts, false, err
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"number_blocks", &numbered},
		{"sanitize", &opts.Sanitize},
		{"standalone", &opts.Standalone},
		{"indent", &opts.Indent},
	}
	for _, f := range flags {
		if !q.Has(f.name) {
			continue
		}
		v, err := strconv.ParseBool(q.Get(f.name))
		if err != nil {
			return 0, opts, false, fmt.Errorf("invalid %s: %q", f.name, q.Get(f.name))
		}
		*f.dst = v
	}
	return format, opts, numbered, nil
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"elapsed", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
