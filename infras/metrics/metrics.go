// Package metrics exposes Prometheus collectors for the HTTP surface and
// booking flow.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hotel"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created by channel.",
		},
		[]string{"channel"},
	)

	eventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Domain events handed to the broker, by type and outcome.",
		},
		[]string{"event_type", "outcome"},
	)

	eventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_consumed_total",
			Help:      "Domain events handled by the worker, by type and outcome.",
		},
		[]string{"event_type", "outcome"},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		},
	)
)

// Register registers the collectors. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingsCreated, eventsPublished, eventsConsumed, rateLimited)
	})
}

func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func IncBookingCreated(channel string) {
	bookingsCreated.WithLabelValues(channel).Inc()
}

func IncEventPublished(eventType string, err error) {
	eventsPublished.WithLabelValues(eventType, outcome(err)).Inc()
}

func IncEventConsumed(eventType string, err error) {
	eventsConsumed.WithLabelValues(eventType, outcome(err)).Inc()
}

func IncRateLimited() {
	rateLimited.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
