package service

//go:generate go run go.uber.org/mock/mockgen -source=./block.go -destination=../mocks/block_service_mock.go -package=mocks -mock_names=Block=MockBlockService

import (
	"context"
	"fmt"

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
)

const (
	cacheGetBlock    = "block:get"
	cacheGetAllBlock = "block:gets"
	cacheCountBlock  = "block:count"
)

type Block interface {
	Create(ctx context.Context, req dto.CreateBlockRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBlocksResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BlockResponse, error)
	Update(ctx context.Context, req dto.UpdateBlockRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type blockImpl struct {
	repo     repository.Block
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func NewBlock(repo repository.Block, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Block {
	return &blockImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *blockImpl) Create(ctx context.Context, req dto.CreateBlockRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".block.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	block, err := req.ToModel(user)
	if err != nil {
		return id, err
	}

	exists, err := s.roomRepo.Exist(ctx, shared.FilterByID(block.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return id, fmt.Errorf("failed to check room: %w", err)
	}

	if !exists {
		return id, failure.NotFound("room not found")
	}

	if err = s.repo.Insert(ctx, block); err != nil {
		log.Error().Err(err).Msg("failed to create availability block")

		return id, fmt.Errorf("failed to create availability block: %w", err)
	}

	s.invalidate(ctx)

	return block.ID, nil
}

func (s *blockImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBlocksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".block.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBlock, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability blocks")

		return res, fmt.Errorf("failed to get availability blocks: %w", err)
	}

	res.FromModels(models, total, req.Limit)
	save(ctx, s.cache, s.cfg, cacheKey, res)

	return res, nil
}

func (s *blockImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".block.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBlock, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count availability blocks: %w", err)
	}

	save(ctx, s.cache, s.cfg, cacheKey, res)

	return res, nil
}

func (s *blockImpl) Get(ctx context.Context, id string) (res dto.BlockResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".block.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBlock, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	block, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(block)
	save(ctx, s.cache, s.cfg, cacheKey, res)

	return res, nil
}

func (s *blockImpl) Update(ctx context.Context, req dto.UpdateBlockRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".block.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBlockRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = req.Merge(current); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.BlockTable)); err != nil {
		log.Error().Err(err).Msg("failed to update availability block")

		return fmt.Errorf("failed to update availability block: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *blockImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".block.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.BlockTable)); err != nil {
		return fmt.Errorf("failed to delete availability block: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *blockImpl) find(ctx context.Context, id string) (model.Block, error) {
	if id == constant.Empty {
		return model.Block{}, failure.NotFound("availability block not found")
	}

	block, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.BlockTable))
	if err != nil {
		return block, fmt.Errorf("failed to get availability block: %w", err)
	}

	if block.ID == constant.Empty {
		return block, failure.NotFound("availability block not found")
	}

	return block, nil
}

func (s *blockImpl) invalidate(ctx context.Context, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBlock, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete availability block cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBlock)
		shared.InvalidateCaches(c, s.cache, cacheCountBlock)
	}()
}
