// Package server provides the HTTP control API: health, metrics, deferral and network checks.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/clambin/absensi/internal/deferral"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type Deferral interface {
	Defer() (deferral.State, bool)
	Cancel() bool
	Status() deferral.State
}

type Prober interface {
	IsReachable(ctx context.Context) bool
}

// Options configures the router. Health and Metrics are optional.
type Options struct {
	Deferral       Deferral
	Probe          Prober
	Health         http.Handler
	Metrics        http.Handler
	AllowedOrigins []string
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type probeResult struct {
	Reachable bool `json:"reachable"`
}

// NewRouter returns the control API's handler.
func NewRouter(opts Options, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	if opts.Health != nil {
		r.Method(http.MethodGet, "/health", opts.Health)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	h := handler{deferral: opts.Deferral, probe: opts.Probe}
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/deferral", func(r chi.Router) {
			r.Get("/", h.getDeferral)
			r.Post("/", h.postDeferral)
			r.Delete("/", h.deleteDeferral)
		})
		r.Get("/probe", h.getProbe)
	})
	return r
}

type handler struct {
	deferral Deferral
	probe    Prober
}

func (h handler) getDeferral(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: h.deferral.Status()})
}

func (h handler) postDeferral(w http.ResponseWriter, _ *http.Request) {
	state, changed := h.deferral.Defer()
	if !changed {
		writeJSON(w, http.StatusOK, Response{Success: true, Message: "attendance already deferred", Data: state})
		return
	}
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: "attendance deferred", Data: state})
}

func (h handler) deleteDeferral(w http.ResponseWriter, _ *http.Request) {
	if !h.deferral.Cancel() {
		writeJSON(w, http.StatusOK, Response{Success: true, Message: "no active deferral"})
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "deferral canceled"})
}

func (h handler) getProbe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: probeResult{Reachable: h.probe.IsReachable(r.Context())}})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// Server runs an http.Server until its context is canceled.
type Server struct {
	Addr    string
	Handler http.Handler
	logger  *slog.Logger
}

func New(addr string, h http.Handler, logger *slog.Logger) *Server {
	return &Server{Addr: addr, Handler: h, logger: logger}
}

func (s *Server) Run(ctx context.Context) error {
	srv := http.Server{Addr: s.Addr, Handler: s.Handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", "addr", s.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.logger.Info("http server stopped")
	return err
}
