package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics.
type Metrics struct {
	// Event metrics
	EventsTotal *prometheus.CounterVec

	// Provider metrics
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec

	// Report metrics
	ReportsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance registered on the given registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "paysync"
	}
	factory := newFactory(reg)

	return &Metrics{
		EventsTotal: factory.counterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "handled_total",
				Help:      "Total number of trigger events handled",
			},
			[]string{"event_type", "status"},
		),
		ProviderRequestsTotal: factory.counterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "provider",
				Name:      "requests_total",
				Help:      "Total number of payment provider API calls",
			},
			[]string{"operation", "status"},
		),
		ProviderRequestDuration: factory.histogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "provider",
				Name:      "request_duration_seconds",
				Help:      "Payment provider API call duration in seconds",
				Buckets:   []float64{.025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		ReportsTotal: factory.counterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reports",
				Name:      "shipped_total",
				Help:      "Total number of error reports shipped to the sink",
			},
			[]string{"status"},
		),
	}
}

// ObserveEvent records the outcome of one handled event.
func (m *Metrics) ObserveEvent(eventType string, err error) {
	m.EventsTotal.WithLabelValues(eventType, statusLabel(err)).Inc()
}

// ObserveProviderCall records one payment provider API call.
func (m *Metrics) ObserveProviderCall(operation string, start time.Time, err error) {
	m.ProviderRequestsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
	m.ProviderRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveReport records one report sink write.
func (m *Metrics) ObserveReport(err error) {
	m.ReportsTotal.WithLabelValues(statusLabel(err)).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// factory registers collectors on a specific registerer so tests can use
// isolated registries.
type factory struct {
	reg prometheus.Registerer
}

func newFactory(reg prometheus.Registerer) factory {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return factory{reg: reg}
}

func (f factory) counterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	f.reg.MustRegister(c)
	return c
}

func (f factory) histogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	f.reg.MustRegister(h)
	return h
}
