// Package metrics holds the Prometheus collectors of the report tool on a
// private registry.
package metrics

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vit0-9/domain_report/pkg/utils/domain"
)

type Metrics struct {
	registry *prometheus.Registry

	WhoisAttemptsTotal    *prometheus.CounterVec
	WhoisAttemptDuration  *prometheus.HistogramVec
	WhoisLookupsTotal     *prometheus.CounterVec
	SectionDuration       *prometheus.HistogramVec
	HTTPRequestsTotal     *prometheus.CounterVec
	RateLimitRejectsTotal prometheus.Counter
}

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Get returns the process-wide metrics.
func Get() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = New()
	})
	return globalMetrics
}

// New registers a fresh set of collectors on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	buckets := []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

	return &Metrics{
		registry: reg,
		WhoisAttemptsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainreport_whois_attempts_total",
			Help: "WHOIS server attempts by outcome",
		}, []string{"server", "outcome"}),
		WhoisAttemptDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domainreport_whois_attempt_duration_seconds",
			Help:    "Duration of single WHOIS server attempts",
			Buckets: buckets,
		}, []string{"server"}),
		WhoisLookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainreport_whois_lookups_total",
			Help: "Top-level WHOIS lookups by outcome",
		}, []string{"outcome"}),
		SectionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domainreport_section_duration_seconds",
			Help:    "Time spent building each report section",
			Buckets: buckets,
		}, []string{"section"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "domainreport_http_requests_total",
			Help: "API requests by route and status code",
		}, []string{"route", "code"}),
		RateLimitRejectsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "domainreport_rate_limit_rejects_total",
			Help: "API requests rejected by the rate limiter",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAttempt implements domain.AttemptObserver.
func (m *Metrics) ObserveAttempt(server string, elapsed time.Duration, err error) {
	m.WhoisAttemptsTotal.WithLabelValues(server, attemptOutcome(err)).Inc()
	m.WhoisAttemptDuration.WithLabelValues(server).Observe(elapsed.Seconds())
}

// ObserveLookup counts a finished top-level lookup.
func (m *Metrics) ObserveLookup(err error) {
	outcome := "success"
	if err != nil {
		outcome = "exhausted"
	}
	m.WhoisLookupsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSection records how long a report section took.
func (m *Metrics) ObserveSection(section string, elapsed time.Duration) {
	m.SectionDuration.WithLabelValues(section).Observe(elapsed.Seconds())
}

func attemptOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrEmptyResponse):
		return "empty"
	default:
		return "unreachable"
	}
}
