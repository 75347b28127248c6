package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks implements every hook interface by recording Prometheus
// metrics on a caller-supplied registerer.
type PrometheusHooks struct {
	queryDuration    *prometheus.HistogramVec
	networkUsers     prometheus.Gauge
	simulateDuration *prometheus.HistogramVec
	simulatedDays    *prometheus.CounterVec
	bonusSearches    *prometheus.CounterVec
	bonusEvaluations prometheus.Histogram
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

var (
	_ AnalyticsHooks  = (*PrometheusHooks)(nil)
	_ SimulationHooks = (*PrometheusHooks)(nil)
	_ HTTPHooks       = (*PrometheusHooks)(nil)
)

// NewPrometheusHooks creates the metrics and registers them on reg.
// It panics if a metric with the same name is already registered on reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reftree_analytics_query_duration_seconds",
			Help:    "Duration of analytics queries.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"query"}),
		networkUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reftree_network_users",
			Help: "Users in the network at the last analytics query.",
		}),
		simulateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reftree_simulation_duration_seconds",
			Help:    "Duration of growth simulation runs.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
		simulatedDays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reftree_simulated_days_total",
			Help: "Days stepped by the growth simulation.",
		}, []string{"kind"}),
		bonusSearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reftree_bonus_searches_total",
			Help: "Bonus searches by outcome.",
		}, []string{"found"}),
		bonusEvaluations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reftree_bonus_search_evaluations",
			Help:    "Simulation evaluations per bonus search.",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reftree_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reftree_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		h.queryDuration, h.networkUsers,
		h.simulateDuration, h.simulatedDays,
		h.bonusSearches, h.bonusEvaluations,
		h.httpRequests, h.httpDuration,
	)
	return h
}

func (h *PrometheusHooks) OnQuery(_ context.Context, query string, users int, d time.Duration) {
	h.queryDuration.WithLabelValues(query).Observe(d.Seconds())
	h.networkUsers.Set(float64(users))
}

func (h *PrometheusHooks) OnSimulate(_ context.Context, kind string, days int, d time.Duration) {
	h.simulateDuration.WithLabelValues(kind).Observe(d.Seconds())
	h.simulatedDays.WithLabelValues(kind).Add(float64(days))
}

func (h *PrometheusHooks) OnBonusSearch(_ context.Context, evaluations int, found bool, _ time.Duration) {
	h.bonusSearches.WithLabelValues(strconv.FormatBool(found)).Inc()
	h.bonusEvaluations.Observe(float64(evaluations))
}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
