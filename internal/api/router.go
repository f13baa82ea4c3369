package api

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/playok/telemon/internal/bench"
	"github.com/playok/telemon/internal/collector"
	"github.com/playok/telemon/internal/store"
)

// Deps bundles what the HTTP handlers need.
type Deps struct {
	Registry  *collector.Registry
	Store     *store.Store
	Hub       *Hub
	Scheduler *collector.Scheduler
	Exporter  *collector.Exporter
	Bench     *bench.Engine
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps, basePath string) http.Handler {
	mux := http.NewServeMux()

	ca := &collectorsAPI{registry: d.Registry}
	ma := &metricsAPI{store: d.Store, registry: d.Registry, scheduler: d.Scheduler}
	sa := &settingsAPI{store: d.Store, scheduler: d.Scheduler}
	aa := &alertsAPI{alertEngine: d.Scheduler.AlertEngine(), store: d.Store}
	ba := newBenchmarkAPI(d.Bench, d.Store, d.Exporter)

	// Collectors
	mux.HandleFunc("GET /api/v1/collectors", ca.list)
	mux.HandleFunc("PUT /api/v1/collectors/{id}/enable", ca.enable)
	mux.HandleFunc("PUT /api/v1/collectors/{id}/disable", ca.disable)

	// Metrics
	mux.HandleFunc("GET /api/v1/snapshot", ma.snapshot)
	mux.HandleFunc("GET /api/v1/metrics/available", ma.available)
	mux.HandleFunc("GET /api/v1/metrics/query", ma.query)

	// Settings
	mux.HandleFunc("GET /api/v1/settings", sa.list)
	mux.HandleFunc("PUT /api/v1/settings", sa.update)
	mux.HandleFunc("GET /api/v1/settings/db-info", sa.dbInfo)

	// Alerts
	mux.HandleFunc("GET /api/v1/alerts", aa.list)
	mux.HandleFunc("GET /api/v1/alert-rules", aa.listRules)
	mux.HandleFunc("POST /api/v1/alert-rules", aa.createRule)
	mux.HandleFunc("PUT /api/v1/alert-rules/{id}", aa.updateRule)
	mux.HandleFunc("DELETE /api/v1/alert-rules/{id}", aa.deleteRule)

	// Benchmark
	mux.HandleFunc("POST /api/v1/benchmark", ba.run)
	mux.HandleFunc("GET /api/v1/benchmark/runs", ba.list)
	mux.HandleFunc("GET /api/v1/benchmark/runs/{id}", ba.get)

	if d.Hub != nil {
		mux.HandleFunc("GET /api/v1/ws", d.Hub.HandleWS)
	}
	if d.Exporter != nil {
		mux.Handle("GET /metrics", d.Exporter.Handler())
	}

	var handler http.Handler = mux

	// Strip base_path so internal routing works unchanged behind a proxy.
	if basePath != "/" && basePath != "" {
		inner := handler
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, basePath) {
				r.URL.Path = strings.TrimPrefix(r.URL.Path, basePath)
				if r.URL.Path == "" {
					r.URL.Path = "/"
				}
				r.URL.RawPath = strings.TrimPrefix(r.URL.RawPath, basePath)
			}
			inner.ServeHTTP(w, r)
		})
	}

	return withMiddleware(handler)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// Hijack is required by the websocket upgrade.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func withMiddleware(next http.Handler) http.Handler {
	logger := log.With().Str("component", "http").Logger()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if err := recover(); err != nil {
				logger.Error().Interface("panic", err).Str("path", r.URL.Path).Msg("handler panic")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(rec, r)

		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
