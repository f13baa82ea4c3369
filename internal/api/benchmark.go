package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/playok/telemon/internal/bench"
	"github.com/playok/telemon/internal/collector"
	"github.com/playok/telemon/internal/model"
	"github.com/playok/telemon/internal/store"
)

const defaultRunsLimit = 20

type benchmarkAPI struct {
	engine   *bench.Engine
	store    *store.Store
	exporter *collector.Exporter
	running  atomic.Bool
	logger   zerolog.Logger
}

func newBenchmarkAPI(engine *bench.Engine, s *store.Store, exporter *collector.Exporter) *benchmarkAPI {
	return &benchmarkAPI{
		engine:   engine,
		store:    s,
		exporter: exporter,
		logger:   log.With().Str("component", "bench").Logger(),
	}
}

// run executes the suite synchronously. Only one run may be in flight.
func (a *benchmarkAPI) run(w http.ResponseWriter, r *http.Request) {
	if a.engine == nil {
		writeError(w, http.StatusServiceUnavailable, "benchmark disabled")
		return
	}
	if !a.running.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "benchmark already running")
		return
	}
	defer a.running.Store(false)

	res, err := a.engine.Run(r.Context())
	if err != nil {
		if errors.Is(err, bench.ErrBenchmarkTimeout) {
			writeError(w, http.StatusGatewayTimeout, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	run := model.BenchmarkRun{
		ID:              xid.New().String(),
		Timestamp:       time.Now().Unix(),
		BenchmarkResult: res,
	}
	if a.store != nil {
		if err := a.store.InsertBenchmarkRun(run); err != nil {
			a.logger.Error().Err(err).Str("run", run.ID).Msg("store benchmark run")
		}
	}
	if a.exporter != nil {
		a.exporter.ObserveBenchmark(res)
	}
	writeJSON(w, http.StatusOK, run)
}

func (a *benchmarkAPI) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	runs, err := a.store.ListBenchmarkRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []model.BenchmarkRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (a *benchmarkAPI) get(w http.ResponseWriter, r *http.Request) {
	run, err := a.store.GetBenchmarkRun(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run)
}
