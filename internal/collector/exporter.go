package collector

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/playok/telemon/internal/model"
)

const promNamespace = "telemon"

// Exporter mirrors the latest samples as Prometheus gauges on its own
// registry.
type Exporter struct {
	registry       *prometheus.Registry
	values         *prometheus.GaugeVec
	collectErrors  *prometheus.CounterVec
	ticks          prometheus.Counter
	benchmarkScore *prometheus.GaugeVec
}

// NewExporter creates an exporter with its metrics registered.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		values: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: promNamespace,
				Name:      "sample_value",
				Help:      "latest value of each sampled metric",
			},
			[]string{"metric", "collector"},
		),
		collectErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Name:      "collect_errors_total",
				Help:      "the number of failed collector runs",
			},
			[]string{"collector"},
		),
		ticks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: promNamespace,
				Name:      "ticks_total",
				Help:      "the number of scheduler ticks",
			},
		),
		benchmarkScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: promNamespace,
				Subsystem: "benchmark",
				Name:      "score",
				Help:      "scores of the most recent benchmark run",
			},
			[]string{"kind"},
		),
	}
	e.registry.MustRegister(e.values, e.collectErrors, e.ticks, e.benchmarkScore)
	return e
}

// Observe replaces the sample gauges with one tick's samples. Metrics
// missing from the batch are dropped from the exposition.
func (e *Exporter) Observe(samples []model.MetricSample) {
	e.values.Reset()
	for _, s := range samples {
		e.values.WithLabelValues(s.MetricName, s.Collector).Set(s.Value)
	}
}

// CollectFailed counts a failed collector run.
func (e *Exporter) CollectFailed(collectorID string) {
	e.collectErrors.WithLabelValues(collectorID).Inc()
}

// Tick counts one scheduler tick.
func (e *Exporter) Tick() { e.ticks.Inc() }

// ObserveBenchmark records the scores of a benchmark run.
func (e *Exporter) ObserveBenchmark(r model.BenchmarkResult) {
	e.benchmarkScore.WithLabelValues("single_thread").Set(float64(r.SingleThreadScore))
	e.benchmarkScore.WithLabelValues("multi_thread").Set(float64(r.MultiThreadScore))
	e.benchmarkScore.WithLabelValues("overall").Set(float64(r.OverallScore))
}

// Registry exposes the underlying registry for tests and extra collectors.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// Handler serves the registry in the Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{
		ErrorLog:            promLogger{},
		Registry:            e.registry,
		MaxRequestsInFlight: 4,
		EnableOpenMetrics:   true,
	})
}

// promLogger is a promhttp.Logger that forwards to zerolog.
type promLogger struct{}

func (promLogger) Println(v ...interface{}) {
	log.Warn().Str("component", "prometheus").Msg(fmt.Sprint(v...))
}

var _ promhttp.Logger = promLogger{}
