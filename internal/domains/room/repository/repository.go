package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"hotel/infras/otel"
	"hotel/infras/postgres"
	"hotel/internal/domains/room/model"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	gRepo "hotel/shared/repository"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// GetByIDs loads the rooms referenced by a page of bookings in one query.
func (r *repositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]model.Room, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.GetByIDs")
	defer scope.End()

	rooms := make(map[string]model.Room, len(ids))
	if len(ids) == 0 {
		return rooms, nil
	}

	filter := gDto.NewFilterGroup()
	filter.Add(gDto.Filter{Table: model.TableName, Field: model.FieldID, Operator: gDto.FilterOperatorIn, Value: ids})

	models, err := r.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		scope.TraceError(err)

		return nil, err
	}

	for _, room := range models {
		rooms[room.ID] = room
	}

	return rooms, nil
}
