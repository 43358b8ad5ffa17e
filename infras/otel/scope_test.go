package otel_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"hotel/infras/otel"
)

func record(t *testing.T, fn func(otel.Scope)) sdktrace.ReadOnlySpan {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "booking.Create")
	scope := otel.NewScope(span)
	fn(scope)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	return spans[0]
}

func TestScope_Attributes(t *testing.T) {
	checkIn := time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)

	span := record(t, func(scope otel.Scope) {
		scope.SetAttribute("booking.nights", 3)
		scope.SetAttribute("booking.total", 350.0)
		scope.SetAttribute("booking.check_in", checkIn)
		scope.SetAttributes(map[string]any{
			"room.available": true,
			"room.amenities": []string{"wifi", "minibar"},
		})
		scope.AddEvent("priced")
	})

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}

	assert.Equal(t, int64(3), attrs["booking.nights"].AsInt64())
	assert.InDelta(t, 350.0, attrs["booking.total"].AsFloat64(), 0.0001)
	assert.Equal(t, "2024-01-01T14:00:00Z", attrs["booking.check_in"].AsString())
	assert.True(t, attrs["room.available"].AsBool())
	assert.Equal(t, []string{"wifi", "minibar"}, attrs["room.amenities"].AsStringSlice())
	require.Len(t, span.Events(), 1)
	assert.Equal(t, "priced", span.Events()[0].Name)
}

func TestScope_Errors(t *testing.T) {
	span := record(t, func(scope otel.Scope) {
		scope.TraceIfError(nil)
	})
	assert.Equal(t, codes.Unset, span.Status().Code)

	span = record(t, func(scope otel.Scope) {
		scope.TraceIfError(errors.New("room not found"))
	})
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "room not found", span.Status().Description)
}
