package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/inventory/model"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
)

type Maintenance interface {
	Insert(ctx context.Context, model model.Maintenance) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Maintenance) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Maintenance, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Maintenance, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type Block interface {
	Insert(ctx context.Context, model model.Block) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Block, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Block, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

func NewMaintenance(db *postgres.Connection, otel otel.Otel) Maintenance {
	repo := gRepo.NewRepository[model.Maintenance](model.MaintenanceEntity, model.MaintenanceTable, model.FieldID, db, otel)

	return &repo
}

func NewBlock(db *postgres.Connection, otel otel.Otel) Block {
	repo := gRepo.NewRepository[model.Block](model.BlockEntity, model.BlockTable, model.FieldID, db, otel)

	return &repo
}
