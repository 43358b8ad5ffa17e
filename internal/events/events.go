// Package events defines the domain events the API emits and the envelope
// they travel in on Kafka.
package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/metrics"
	"hotel/infras/otel"
	"hotel/shared/constant"
	"hotel/shared/timezone"
)

const (
	TypeBookingCreated  = "BookingCreated"
	TypeBookingUpdated  = "BookingUpdated"
	TypeMessageReceived = "MessageReceived"

	envelopeVersion = 1
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type BookingPayload struct {
	BookingID     string  `json:"booking_id"`
	UserID        string  `json:"user_id"`
	RoomID        string  `json:"room_id"`
	BookingStatus string  `json:"booking_status"`
	PaymentStatus string  `json:"payment_status"`
	TotalAmount   float64 `json:"total_amount"`
}

type MessagePayload struct {
	MessageID string `json:"message_id"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
}

type Publisher interface {
	PublishBooking(ctx context.Context, eventType string, payload BookingPayload) error
	PublishMessage(ctx context.Context, payload MessagePayload) error
}

type publisherImpl struct {
	config *config.Config
	client kafka.Client
	otel   otel.Otel
}

func NewPublisher(cfg *config.Config, client kafka.Client, otl otel.Otel) Publisher {
	return &publisherImpl{
		config: cfg,
		client: client,
		otel:   otl,
	}
}

func (p *publisherImpl) PublishBooking(ctx context.Context, eventType string, payload BookingPayload) error {
	return p.publish(ctx, p.config.Kafka.Topic.Bookings, eventType, payload.BookingID, payload)
}

func (p *publisherImpl) PublishMessage(ctx context.Context, payload MessagePayload) error {
	return p.publish(ctx, p.config.Kafka.Topic.Messages, TypeMessageReceived, payload.MessageID, payload)
}

func (p *publisherImpl) publish(ctx context.Context, topic, eventType, key string, payload any) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+"."+eventType)
	defer scope.End()
	defer scope.TraceIfError(err)

	if !p.config.Kafka.Enable {
		log.Debug().Str("event_type", eventType).Str("key", key).Msg("Kafka disabled, event dropped")

		return nil
	}

	envelope, err := NewEnvelope(p.config.App.Name, eventType, key, payload)
	if err != nil {
		return err
	}

	err = p.client.SendMessages(ctx, topic, kafka.Message{Key: key, Value: envelope})
	metrics.IncEventPublished(eventType, err)

	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	return nil
}

func NewEnvelope(producer, eventType, correlationID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  envelopeVersion,
		OccurredAt:    timezone.Now(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

func Decode(msg kafkaGo.Message) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(msg.Value, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}

	return envelope, nil
}

func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("decode payload: %w", err)
	}

	return out, nil
}

// PublishAsync hands the event off without tying it to the request lifetime.
// Failures are logged; the caller's operation has already succeeded.
func PublishAsync(ctx context.Context, publish func(ctx context.Context) error) {
	go func() {
		if err := publish(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Msg("failed to publish event")
		}
	}()
}
