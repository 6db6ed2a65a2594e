package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway's Prometheus instruments.
type Metrics struct {
	ProxyRequests   *prometheus.CounterVec
	UpstreamLatency *prometheus.HistogramVec
}

// New registers the gateway metrics with the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ProxyRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_proxy_requests_total",
			Help: "Proxied data requests by resource and response status.",
		}, []string{"resource", "status"}),
		UpstreamLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_upstream_duration_seconds",
			Help:    "Latency of upstream merchant data API calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resource"}),
	}
}

// ObserveProxy records one proxied call.
func (m *Metrics) ObserveProxy(resource string, status int, upstreamDuration time.Duration) {
	m.ProxyRequests.WithLabelValues(resource, strconv.Itoa(status)).Inc()
	m.UpstreamLatency.WithLabelValues(resource).Observe(upstreamDuration.Seconds())
}
