// Package metrics exposes Prometheus collectors for the eligibility engine
// and the HTTP surface, plus the /metrics handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "careerhub"

var (
	// CourseApplications counts submission attempts by outcome
	// ("accepted" or a rejection code).
	CourseApplications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "course_applications_total",
		Help:      "Course application submissions by outcome.",
	}, []string{"outcome"})

	// JobApplications counts apply attempts by outcome.
	JobApplications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_applications_total",
		Help:      "Job application attempts by outcome.",
	}, []string{"outcome"})

	// AdmissionsPublished counts admission upserts by result ("ok"|"failed").
	AdmissionsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admissions_published_total",
		Help:      "Admission upserts performed by the publish step.",
	}, []string{"result"})

	// AdmissionsPruned counts deletes made while confirming an admission.
	AdmissionsPruned = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admissions_pruned_total",
		Help:      "Admissions removed when a student confirmed another one.",
	}, []string{"result"})

	// StatusTransitions counts status changes by record kind and target status.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Status changes applied to applications.",
	}, []string{"kind", "to"})

	// RateLimited counts requests refused by a limiter.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Requests rejected by rate limiting.",
	}, []string{"scope"})

	// EventsPublished counts outgoing domain events by type and result.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Domain events handed to the event bus.",
	}, []string{"type", "result"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request latency labelled by the matched chi route
// pattern, so IDs in paths do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
