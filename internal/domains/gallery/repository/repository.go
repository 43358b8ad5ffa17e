package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/gallery/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"
)

type Gallery interface {
	InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []model.Image) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Image, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Image, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ClearMainTx(ctx context.Context, tx *sqlx.Tx, roomID, keepID, user string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Image]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Gallery {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Image](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// ClearMainTx drops the main flag from every image of the room except keepID.
func (r *repositoryImpl) ClearMainTx(ctx context.Context, tx *sqlx.Tx, roomID, keepID, user string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".gallery.ClearMainTx")
	defer scope.End()

	query := fmt.Sprintf(
		"UPDATE %s SET %s = false, %s = $1, %s = $2 WHERE %s = $3 AND %s AND %s <> $4",
		model.TableName, model.FieldIsMainImage, constant.FieldModifiedAt, constant.FieldModifiedBy,
		model.FieldRoomID, model.FieldIsMainImage, model.FieldID,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := tx.ExecContext(ctx, query, timezone.Now(), user, roomID, keepID); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to clear main image: %w", err)
	}

	return nil
}
