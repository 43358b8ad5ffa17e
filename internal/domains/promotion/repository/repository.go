package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/promotion/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
)

type Promotion interface {
	Insert(ctx context.Context, model model.Promotion) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Promotion, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Promotion, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	IncrementUsageTx(ctx context.Context, tx *sqlx.Tx, id string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Promotion]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Promotion {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Promotion](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// IncrementUsageTx counts one redemption inside the booking transaction. The
// limit is rechecked in the UPDATE itself so concurrent bookings cannot push
// used_count past usage_limit; model.ErrUsageLimitReached is returned when no
// row qualified.
func (r *repositoryImpl) IncrementUsageTx(ctx context.Context, tx *sqlx.Tx, id string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".promotion.IncrementUsageTx")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET used_count = used_count + 1 WHERE %s = $1 AND (usage_limit <= 0 OR used_count < usage_limit)",
		model.TableName, model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to increment promotion usage: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to read promotion usage result: %w", err)
	}

	if affected == 0 {
		return model.ErrUsageLimitReached
	}

	return nil
}
