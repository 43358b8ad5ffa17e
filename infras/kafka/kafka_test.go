package kafka_test

import (
	"context"
	"errors"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/infras/kafka"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{Key: "booking-1", Value: map[string]any{"booking_id": "booking-1"}}

	got, err := msg.ToKafkaMessage()

	require.NoError(t, err)
	assert.Equal(t, []byte("booking-1"), got.Key)
	assert.JSONEq(t, `{"booking_id":"booking-1"}`, string(got.Value))
}

func TestHandle_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	handler := func(context.Context, kafkaGo.Message) error {
		calls++
		if calls < 2 {
			return errors.New("temporary")
		}

		return nil
	}

	err := kafka.Handle(context.Background(), handler, kafkaGo.Message{})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestHandle_GivesUpAfterAttempts(t *testing.T) {
	calls := 0
	handler := func(context.Context, kafkaGo.Message) error {
		calls++

		return errors.New("poison")
	}

	err := kafka.Handle(context.Background(), handler, kafkaGo.Message{})

	assert.EqualError(t, err, "poison")
	assert.Equal(t, 3, calls)
}

func TestHandle_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := kafka.Handle(ctx, func(context.Context, kafkaGo.Message) error { return errors.New("fail") }, kafkaGo.Message{})

	assert.ErrorIs(t, err, context.Canceled)
}
