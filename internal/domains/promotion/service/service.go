package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	"hotel/internal/domains/promotion/model"
	"hotel/internal/domains/promotion/model/dto"
	"hotel/internal/domains/promotion/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
)

const (
	cacheGetPromotion    = "promotion:get"
	cacheGetAllPromotion = "promotion:gets"
	cacheCountPromotion  = "promotion:count"
	cacheOffers          = "promotion:offers"

	bannerDirectory = "promotions"
)

type Promotion interface {
	Create(ctx context.Context, req dto.CreatePromotionRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPromotionsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PromotionResponse, error)
	Offers(ctx context.Context) ([]dto.PromotionResponse, error)
	Update(ctx context.Context, req dto.UpdatePromotionRequest, id string) error
	UploadBanner(ctx context.Context, file *multipart.FileHeader, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Promotion
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Promotion, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Promotion {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePromotionRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	promo, err := req.ToModel(user)
	if err != nil {
		return err
	}

	if err = s.repo.Insert(ctx, promo); err != nil {
		if shared.IsUniqueViolation(err) {
			return failure.Conflict("promo code already exists")
		}

		log.Error().Err(err).Msg("failed to create promotion")

		return fmt.Errorf("failed to create promotion: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPromotionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllPromotion, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get promotions")

		return res, fmt.Errorf("failed to get promotions: %w", err)
	}

	res.FromModels(models, total, req.Limit)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountPromotion, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count promotions")

		return res, fmt.Errorf("failed to count promotions: %w", err)
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PromotionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetPromotion, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	promo, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(promo)
	s.save(ctx, cacheKey, res)

	return res, nil
}

// Offers lists the promotions running today. The query narrows by date and
// IsActiveOn settles the calendar comparison in the application time zone.
func (s *serviceImpl) Offers(ctx context.Context) (res []dto.PromotionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Offers")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	today := timezone.Format(now, constant.DateOnlyFormat)
	cacheKey := shared.BuildCacheKey(cacheOffers, today)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	filter := gDto.NewFilterGroup()
	filter.Eq(model.TableName, model.FieldIsActive, true).
		Cmp(model.TableName, model.FieldStartDate, gDto.FilterOperatorLessEq, "today_start", today).
		Cmp(model.TableName, model.FieldEndDate, gDto.FilterOperatorGreaterEq, "today_end", today)

	models, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldEndDate, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get offers")

		return res, fmt.Errorf("failed to get offers: %w", err)
	}

	res = make([]dto.PromotionResponse, 0, len(models))

	for _, promo := range models {
		if !promo.IsActiveOn(now) {
			continue
		}

		var item dto.PromotionResponse
		item.FromModel(promo)
		res = append(res, item)
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePromotionRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = req.Merge(current); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if shared.IsUniqueViolation(err) {
			return failure.Conflict("promo code already exists")
		}

		log.Error().Err(err).Msg("failed to update promotion")

		return fmt.Errorf("failed to update promotion: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UploadBanner(ctx context.Context, file *multipart.FileHeader, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.UploadBanner")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	obj, err := s.s3.Upload(ctx, bannerDirectory, file)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload banner")

		return failure.InternalError(s3.ErrUploadFailed)
	}

	fields := map[string]any{
		model.FieldBannerImage:   obj.URL,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		s3.DeleteURLs(context.WithoutCancel(ctx), s.s3, obj.URL)

		return fmt.Errorf("failed to update promotion banner: %w", err)
	}

	if current.BannerImage != constant.Empty {
		go s3.DeleteURLs(context.WithoutCancel(ctx), s.s3, current.BannerImage)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".promotion.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete promotion")

		return fmt.Errorf("failed to delete promotion: %w", err)
	}

	if current.BannerImage != constant.Empty {
		go s3.DeleteURLs(context.WithoutCancel(ctx), s.s3, current.BannerImage)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Promotion, error) {
	promo, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return promo, fmt.Errorf("failed to get promotion: %w", err)
	}

	if promo.ID == constant.Empty {
		return promo, failure.NotFound("promotion not found")
	}

	return promo, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save promotions to cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetPromotion, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete promotion cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllPromotion)
		shared.InvalidateCaches(c, s.cache, cacheCountPromotion)
		shared.InvalidateCaches(c, s.cache, cacheOffers)
	}()
}
