package service

//go:generate go run go.uber.org/mock/mockgen -source=./maintenance.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Maintenance=MockMaintenanceService

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/inventory/model"
	"hotel/internal/domains/inventory/model/dto"
	"hotel/internal/domains/inventory/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepo "hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
)

const (
	cacheGetMaintenance    = "maintenance:get"
	cacheGetAllMaintenance = "maintenance:gets"
	cacheCountMaintenance  = "maintenance:count"
	cacheRooms             = "room:"
)

type Maintenance interface {
	Create(ctx context.Context, req dto.CreateMaintenanceRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetMaintenanceResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.MaintenanceResponse, error)
	Update(ctx context.Context, req dto.UpdateMaintenanceRequest, id string) error
	Delete(ctx context.Context, id string) error
}

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type maintenanceImpl struct {
	repo     repository.Maintenance
	roomRepo roomRepo.Room
	tx       Transactor
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func NewMaintenance(repo repository.Maintenance, roomRepo roomRepo.Room, tx Transactor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Maintenance {
	return &maintenanceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		tx:       tx,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Create schedules work on a room. High and urgent work takes the room out of
// service in the same transaction.
func (s *maintenanceImpl) Create(ctx context.Context, req dto.CreateMaintenanceRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".maintenance.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	record, err := req.ToModel(user)
	if err != nil {
		return id, err
	}

	roomFilter := shared.FilterByID(record.RoomID, roomModel.FieldID, roomModel.TableName)

	exists, err := s.roomRepo.Exist(ctx, roomFilter)
	if err != nil {
		return id, fmt.Errorf("failed to check room: %w", err)
	}

	if !exists {
		return id, failure.NotFound("room not found")
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, record); err != nil {
			return fmt.Errorf("failed to create maintenance record: %w", err)
		}

		if !record.Priority.TakesRoomOffline() {
			return nil
		}

		fields := map[string]any{
			roomModel.FieldStatus:    roomModel.StatusMaintenance,
			constant.FieldModifiedAt: record.CreatedAt,
			constant.FieldModifiedBy: user,
		}

		if err := s.roomRepo.UpdateTx(ctx, tx, fields, roomFilter); err != nil {
			return fmt.Errorf("failed to put room into maintenance: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("room_id", record.RoomID).Msg("failed to schedule maintenance")

		return id, err
	}

	s.invalidate(ctx, record.Priority.TakesRoomOffline())

	return record.ID, nil
}

func (s *maintenanceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetMaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".maintenance.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMaintenance, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance records")

		return res, fmt.Errorf("failed to get maintenance records: %w", err)
	}

	res.FromModels(models, total, req.Limit)
	save(ctx, s.cache, s.cfg, cacheKey, res)

	return res, nil
}

func (s *maintenanceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".maintenance.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountMaintenance, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count maintenance records")

		return res, fmt.Errorf("failed to count maintenance records: %w", err)
	}

	save(ctx, s.cache, s.cfg, cacheKey, res)

	return res, nil
}

func (s *maintenanceImpl) Get(ctx context.Context, id string) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".maintenance.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetMaintenance, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	record, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(record)
	save(ctx, s.cache, s.cfg, cacheKey, res)

	return res, nil
}

func (s *maintenanceImpl) Update(ctx context.Context, req dto.UpdateMaintenanceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".maintenance.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = req.Normalize(timezone.Now()); err != nil {
		return err
	}

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.MaintenanceTable)); err != nil {
		log.Error().Err(err).Msg("failed to update maintenance record")

		return fmt.Errorf("failed to update maintenance record: %w", err)
	}

	s.invalidate(ctx, false, id)

	return nil
}

func (s *maintenanceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".maintenance.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.MaintenanceTable)); err != nil {
		log.Error().Err(err).Msg("failed to delete maintenance record")

		return fmt.Errorf("failed to delete maintenance record: %w", err)
	}

	s.invalidate(ctx, false, id)

	return nil
}

func (s *maintenanceImpl) find(ctx context.Context, id string) (model.Maintenance, error) {
	if id == constant.Empty {
		return model.Maintenance{}, failure.NotFound("maintenance record not found")
	}

	record, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.MaintenanceTable))
	if err != nil {
		return record, fmt.Errorf("failed to get maintenance record: %w", err)
	}

	if record.ID == constant.Empty {
		return record, failure.NotFound("maintenance record not found")
	}

	return record, nil
}

func (s *maintenanceImpl) invalidate(ctx context.Context, rooms bool, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMaintenance, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete maintenance cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMaintenance)
		shared.InvalidateCaches(c, s.cache, cacheCountMaintenance)

		if rooms {
			shared.InvalidateCaches(c, s.cache, cacheRooms)
		}
	}()
}

func save(ctx context.Context, redisCache cache.RedisCache, cfg *config.Config, key string, value any) {
	go func() {
		if err := redisCache.Save(context.WithoutCancel(ctx), key, value, cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save inventory to cache")
		}
	}()
}
