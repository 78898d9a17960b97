// Package metrics defines the prometheus collectors of the lead book.
// Every method is safe to call on a nil receiver so tests and optional wiring
// can skip metrics entirely.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics counts lead store mutations and persistence outcomes.
type LeadMetrics struct {
	mutations   *prometheus.CounterVec
	storageOps  *prometheus.CounterVec
	leadsStored prometheus.Gauge
}

// NewLeadMetrics registers the collectors on reg (the default registerer when nil).
func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadbook",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Lead store mutations by operation and outcome",
		}, []string{"op", "outcome"}),
		storageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadbook",
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Persistence port calls by operation and result",
		}, []string{"op", "result"}),
		leadsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "leadbook",
			Subsystem: "store",
			Name:      "leads",
			Help:      "Leads in the current snapshot",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.mutations, m.storageOps, m.leadsStored)
	return m
}

// ObserveMutation records one store operation; found is false for not-found no-ops.
func (m *LeadMetrics) ObserveMutation(op string, found bool) {
	if m == nil {
		return
	}
	outcome := "applied"
	if !found {
		outcome = "not_found"
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

// ObserveStorage records a save or load. result is one of ok, absent, corrupt, error.
func (m *LeadMetrics) ObserveStorage(op, result string) {
	if m == nil {
		return
	}
	m.storageOps.WithLabelValues(op, result).Inc()
}

// SetLeadCount publishes the size of the current snapshot.
func (m *LeadMetrics) SetLeadCount(n int) {
	if m == nil {
		return
	}
	m.leadsStored.Set(float64(n))
}

// HTTPMetrics observes request latency per route pattern.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the request histogram on reg (default registerer when nil).
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadbook",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method, route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.duration)
	return m
}

// ObserveRequest records one request.
func (m *HTTPMetrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(method, route, status).Observe(seconds)
}
