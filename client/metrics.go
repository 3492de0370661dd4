package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments repository API calls. A nil *Metrics disables
// collection, so instrumentation points don't need to guard.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates API call metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fcrepo",
				Name:      "requests_total",
				Help:      "Repository API requests by method and HTTP status.",
			},
			[]string{"method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fcrepo",
				Name:      "request_duration_seconds",
				Help:      "Repository API request latency by method.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	if err := reg.Register(m.requests); err != nil {
		return nil, err
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// observe records one API call. Status 0 means the request never got a
// response (transport error).
func (m *Metrics) observe(method Method, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(string(method), statusLabel(status)).Inc()
	m.duration.WithLabelValues(string(method)).Observe(elapsed.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
