package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "resolutions_total",
			Help:      "Guided question resolutions by question source.",
		},
		[]string{"source"},
	)

	conditionFailOpen = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "condition_failopen_total",
			Help:      "Question conditions that could not be evaluated and were treated as true.",
		},
	)

	malformedProperties = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "malformed_properties_total",
			Help:      "Questions emitted with empty properties because the stored blob was invalid.",
		},
	)

	factFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journal",
			Name:      "fact_fallbacks_total",
			Help:      "Facts replaced by their conservative value after a lookup failure.",
		},
		[]string{"fact"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journal",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "journal",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)
)

func init() {
	Registry.MustRegister(
		resolutions,
		conditionFailOpen,
		malformedProperties,
		factFallbacks,
		httpRequests,
		httpDuration,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

func RecordResolution(source string) { resolutions.WithLabelValues(source).Inc() }

func RecordConditionFailOpen() { conditionFailOpen.Inc() }

func RecordMalformedProperties() { malformedProperties.Inc() }

func RecordFactFallback(fact string) { factFallbacks.WithLabelValues(fact).Inc() }

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency labelled by mux route template.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
