package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "launches"

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	LaunchesScheduled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduled_total",
		Help:      "Launches created through the scheduler.",
	})

	LaunchesAborted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aborted_total",
		Help:      "Launches aborted.",
	})

	FlightNumberConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "flight_number_conflicts_total",
		Help:      "Allocated flight numbers that were already taken at insert time.",
	})

	ImportedRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "imported_records_total",
		Help:      "Historical launch records replayed from the provider, by result.",
	}, []string{"result"})

	HabitablePlanets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "habitable_planets",
		Help:      "Planets in the catalog after the last ingestion.",
	})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		LaunchesScheduled,
		LaunchesAborted,
		FlightNumberConflicts,
		ImportedRecords,
		HabitablePlanets,
		HTTPRequests,
		HTTPDuration,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
