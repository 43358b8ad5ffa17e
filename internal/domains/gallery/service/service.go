package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Gallery=MockGalleryService

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	"hotel/internal/domains/gallery/model"
	"hotel/internal/domains/gallery/model/dto"
	"hotel/internal/domains/gallery/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepo "hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
)

const (
	cacheGetGallery    = "gallery:get"
	cacheGetAllGallery = "gallery:gets"
	cacheCountGallery  = "gallery:count"

	imageDirectory = "gallery"
)

type Gallery interface {
	Create(ctx context.Context, req dto.CreateImagesRequest) ([]string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetImagesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ImageResponse, error)
	Update(ctx context.Context, req dto.UpdateImageRequest, id string) error
	Delete(ctx context.Context, id string) error
}

// Transactor runs fn inside one database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type serviceImpl struct {
	repo     repository.Gallery
	roomRepo roomRepo.Room
	tx       Transactor
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	s3       s3.S3
}

func New(repo repository.Gallery, roomRepo roomRepo.Room, tx Transactor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Gallery {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		tx:       tx,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		s3:       s3,
	}
}

// Create uploads every file concurrently and stores one entry per file. When
// the uploads succeed but the insert fails the stored objects are removed.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateImagesRequest) (ids []string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".gallery.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(req.Files) == 0 {
		return nil, failure.BadRequestFromString("at least one image is required")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exists, err := s.roomRepo.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return nil, fmt.Errorf("failed to check room: %w", err)
	}

	if !exists {
		return nil, failure.NotFound("room not found")
	}

	objects, err := s3.UploadMany(ctx, s.s3, imageDirectory, req.Files)
	if err != nil {
		return nil, failure.InternalError(err)
	}

	images := req.ToModels(user, objects)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if images[0].IsMainImage {
			if err := s.repo.ClearMainTx(ctx, tx, req.RoomID, images[0].ID, user); err != nil {
				return err
			}
		}

		return s.repo.InsertBulkTx(ctx, tx, images)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to save gallery images")

		urls := make([]string, len(objects))
		for i, obj := range objects {
			urls[i] = obj.URL
		}

		go s3.DeleteURLs(context.WithoutCancel(ctx), s.s3, urls...)

		return nil, fmt.Errorf("failed to save gallery images: %w", err)
	}

	ids = make([]string, len(images))
	for i, image := range images {
		ids[i] = image.ID
	}

	s.invalidate(ctx)

	return ids, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetImagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".gallery.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllGallery, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get gallery")

		return res, fmt.Errorf("failed to get gallery: %w", err)
	}

	res.FromModels(models, total, req.Limit)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".gallery.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountGallery, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count gallery: %w", err)
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".gallery.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetGallery, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	image, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(image)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateImageRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".gallery.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateImageRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	fields := shared.TransformFields(req, user)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if req.PromotesMain() {
			if err := s.repo.ClearMainTx(ctx, tx, current.RoomID, id, user); err != nil {
				return err
			}
		}

		return s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update gallery image")

		return fmt.Errorf("failed to update gallery image: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".gallery.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete gallery image")

		return fmt.Errorf("failed to delete gallery image: %w", err)
	}

	go s3.DeleteURLs(context.WithoutCancel(ctx), s.s3, current.ImageURL)

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Image, error) {
	if id == constant.Empty {
		return model.Image{}, failure.NotFound("gallery image not found")
	}

	image, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return image, fmt.Errorf("failed to get gallery image: %w", err)
	}

	if image.ID == constant.Empty {
		return image, failure.NotFound("gallery image not found")
	}

	return image, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save gallery to cache")
		}
	}()
}

// invalidate drops every single-image key, not just the edited one: promoting
// an image changes the flag on its siblings.
func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetGallery)
		shared.InvalidateCaches(c, s.cache, cacheGetAllGallery)
		shared.InvalidateCaches(c, s.cache, cacheCountGallery)
	}()
}
