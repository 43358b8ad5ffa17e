package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/infras/metrics"
)

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.Register()
		metrics.Register()
	})
}

func TestCollectorsAreGathered(t *testing.T) {
	metrics.Register()

	metrics.ObserveHTTP("/v1/rooms", "GET", 200, 15*time.Millisecond)
	metrics.IncBookingCreated("guest")
	metrics.IncEventPublished("BookingCreated", nil)
	metrics.IncEventPublished("BookingCreated", errors.New("broker down"))
	metrics.IncEventConsumed("BookingUpdated", nil)
	metrics.IncRateLimited()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, family := range families {
		names[family.GetName()] = true
	}

	assert.True(t, names["hotel_http_requests_total"])
	assert.True(t, names["hotel_http_request_duration_seconds"])
	assert.True(t, names["hotel_bookings_created_total"])
	assert.True(t, names["hotel_events_published_total"])
	assert.True(t, names["hotel_events_consumed_total"])
	assert.True(t, names["hotel_rate_limited_requests_total"])
}
