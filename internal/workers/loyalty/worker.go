// Package loyalty keeps guest stay totals and tiers current by reacting to
// booking events.
package loyalty

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/metrics"
	"hotel/infras/otel"
	userService "hotel/internal/domains/user/service"
	"hotel/internal/events"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/session"
)

const actor = "loyalty-worker"

type Worker struct {
	cfg    *config.Config
	client kafka.Client
	users  userService.User
	otel   otel.Otel
}

func New(cfg *config.Config, client kafka.Client, users userService.User, otel otel.Otel) *Worker {
	return &Worker{
		cfg:    cfg,
		client: client,
		users:  users,
		otel:   otel,
	}
}

// Run consumes the bookings topic until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Str("topic", w.cfg.Kafka.Topic.Bookings).Str("group", w.cfg.Kafka.ConsumerGroup).Msg("Loyalty worker started")

	return w.client.Consume(ctx, w.cfg.Kafka.ConsumerGroup, w.cfg.Kafka.Topic.Bookings, w.Handle)
}

// Handle refreshes the guest named by a booking event. Undecodable messages
// and guests that no longer exist are acknowledged without retry.
func (w *Worker) Handle(ctx context.Context, msg kafkaGo.Message) (err error) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".loyalty.Handle")
	defer scope.End()
	defer scope.TraceIfError(err)

	envelope, err := events.Decode(msg)
	if err != nil {
		log.Warn().Err(err).Int64("offset", msg.Offset).Msg("Dropping undecodable booking event")

		return nil
	}

	if envelope.EventType != events.TypeBookingCreated && envelope.EventType != events.TypeBookingUpdated {
		return nil
	}

	payload, err := events.UnwrapPayload[events.BookingPayload](envelope.Payload)
	if err != nil {
		log.Warn().Err(err).Str("event_id", envelope.EventID).Msg("Dropping booking event with bad payload")

		return nil
	}

	if payload.UserID == constant.Empty {
		return nil
	}

	ctx = session.WithSession(ctx, session.Session{UserID: actor, Role: constant.RoleSuperAdmin})

	_, err = w.users.RefreshLoyalty(ctx, payload.UserID)
	metrics.IncEventConsumed(envelope.EventType, err)

	if failure.GetCode(err) == http.StatusNotFound {
		log.Warn().Str("user_id", payload.UserID).Msg("Guest no longer exists, skipping loyalty refresh")

		return nil
	}

	if err != nil {
		return err
	}

	log.Debug().Str("user_id", payload.UserID).Str("event_type", envelope.EventType).Msg("Loyalty refreshed")

	return nil
}
