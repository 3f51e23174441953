// Package api provides the optional loopback status API of the Lumen shell.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rennerdo30/lumen-desktop/internal/logging"
	"github.com/rennerdo30/lumen-desktop/internal/metrics"
	"github.com/rennerdo30/lumen-desktop/internal/updater"
	"github.com/rennerdo30/lumen-desktop/internal/version"
)

// StatusSource reports the update cycle state.
type StatusSource interface {
	Result() updater.CycleResult
}

// Config holds API configuration.
type Config struct {
	Updates StatusSource
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// API serves health, version, update status and metrics.
type API struct {
	updates StatusSource
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New creates a new API.
func New(cfg Config) *API {
	a := &API{
		updates: cfg.Updates,
		metrics: cfg.Metrics,
		log:     cfg.Logger,
	}
	if a.log == nil {
		a.log = logging.WithComponent("api")
	}
	return a
}

// Handler returns the HTTP handler for the API.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(a.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(securityHeadersMiddleware)

	r.Get("/api/v1/health", a.handleHealth)
	r.Get("/api/v1/version", a.handleVersion)
	r.Get("/api/v1/update", a.handleUpdate)

	if a.metrics != nil {
		r.Handle("/metrics", a.metrics.Handler())
	}

	return r
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := a.log.With("request_id", middleware.GetReqID(r.Context()))
		r = r.WithContext(logging.WithContext(r.Context(), log))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug("api request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// securityHeadersMiddleware adds common security headers to all responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, version.GetInfo())
}

func (a *API) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if a.updates == nil {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"error": "updates disabled"})
		return
	}
	writeJSON(w, r, http.StatusOK, a.updates.Result())
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.FromContext(r.Context()).Debug("write response", "error", err)
	}
}

// Server runs the API on a TCP listener.
type Server struct {
	srv *http.Server
	ln  net.Listener
	log *slog.Logger

	wg sync.WaitGroup
}

// Listen binds addr and starts serving h in the background.
func Listen(addr string, h http.Handler, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = logging.WithComponent("api")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	s := &Server{
		srv: &http.Server{
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ln:  ln,
		log: log,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("status API listening", "address", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("status API error", "error", err)
		}
	}()

	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops the server and waits for the serve loop to return.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.wg.Wait()
	return err
}
