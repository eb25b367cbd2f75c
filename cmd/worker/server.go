package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lolstats/ingestion/internal/scheduler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

// backgroundRunner starts update runs that share one lock with the cron
// scheduler
type backgroundRunner interface {
	Start(ctx context.Context, done func(scheduler.RunResult, error)) bool
}

// server exposes metrics, health checks and a manual refresh trigger
type server struct {
	db     healthChecker
	cache  healthChecker // nil when running without Redis
	runner backgroundRunner
	runCtx context.Context
}

func newServer(ctx context.Context, db, cache healthChecker, runner backgroundRunner) *server {
	return &server{db: db, cache: cache, runner: runner, runCtx: ctx}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/", s.health)
		r.Get("/db", s.healthDB)
		r.Get("/cache", s.healthCache)
	})

	r.Post("/refresh", s.refresh)

	return r
}

// start starts the metrics HTTP server and shuts it down when ctx ends
func (s *server) start(ctx context.Context, port int) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", port).Msg("Starting metrics server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *server) healthDB(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *server) healthCache(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	if err := s.cache.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// refresh starts an update run in the background unless any run, scheduled
// or manual, is still going
func (s *server) refresh(w http.ResponseWriter, r *http.Request) {
	started := s.runner.Start(s.runCtx, func(_ scheduler.RunResult, err error) {
		if err != nil {
			log.Error().Err(err).Msg("Manual refresh failed")
		}
	})
	if !started {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "already running"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}
