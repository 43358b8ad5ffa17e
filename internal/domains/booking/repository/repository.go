package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/booking/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GuestStats(ctx context.Context, userID string) (model.GuestStats, error)
	Summary(ctx context.Context) (model.Summary, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GuestStats aggregates a guest's paid bookings in one round trip.
func (r *repositoryImpl) GuestStats(ctx context.Context, userID string) (model.GuestStats, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GuestStats")
	defer scope.End()

	query := fmt.Sprintf(
		`SELECT COUNT(%[2]s) AS total_bookings, COALESCE(SUM(%[3]s), 0) AS total_spent, MAX(%[4]s) AS last_stay_date
		FROM %[1]s WHERE %[5]s = $1 AND %[6]s = $2`,
		model.TableName, model.FieldID, model.FieldTotalAmount, model.FieldCheckOut, model.FieldUserID, model.FieldPaymentStatus,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var stats model.GuestStats
	if err := r.db.Read.GetContext(ctx, &stats, query, userID, model.PaymentPaid); err != nil {
		scope.TraceError(err)

		return stats, fmt.Errorf("failed to aggregate guest stays: %w", err)
	}

	return stats, nil
}

// Summary totals every booking for the admin dashboard. Stays are counted in
// started days and only positive stays enter the average.
func (r *repositoryImpl) Summary(ctx context.Context) (model.Summary, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Summary")
	defer scope.End()

	query := fmt.Sprintf(
		`SELECT COUNT(%[2]s) AS total_bookings,
			COALESCE(SUM(%[3]s) FILTER (WHERE %[4]s = $1), 0) AS total_revenue,
			COALESCE(AVG(CEIL(EXTRACT(EPOCH FROM (%[6]s - %[5]s)) / 86400)) FILTER (WHERE %[6]s > %[5]s), 0) AS average_stay
		FROM %[1]s`,
		model.TableName, model.FieldID, model.FieldTotalAmount, model.FieldPaymentStatus, model.FieldCheckIn, model.FieldCheckOut,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var summary model.Summary
	if err := r.db.Read.GetContext(ctx, &summary, query, model.PaymentPaid); err != nil {
		scope.TraceError(err)

		return summary, fmt.Errorf("failed to summarise bookings: %w", err)
	}

	return summary, nil
}
