package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "rankings"

// Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	mutations *prometheus.CounterVec
	replay    prometheus.Histogram
	rollovers *prometheus.CounterVec
	requests  *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "History mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		replay: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "replay_duration_seconds",
			Help:      "Time spent folding a season.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		rollovers: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "season_transitions_total",
			Help:      "Season rollovers and rollbacks.",
		}, []string{"direction"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

func (m *Metrics) Mutation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.mutations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveReplay(start time.Time) {
	m.replay.Observe(time.Since(start).Seconds())
}

func (m *Metrics) Rollover() { m.rollovers.WithLabelValues("forward").Inc() }
func (m *Metrics) Rollback() { m.rollovers.WithLabelValues("reverse").Inc() }

func (m *Metrics) Request(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var Module = fx.Provide(New)
