package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Settings=MockSettingsService

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	"hotel/internal/domains/settings/model"
	"hotel/internal/domains/settings/model/dto"
	"hotel/internal/domains/settings/repository"
	"hotel/shared"
	"hotel/shared/base64"
	"hotel/shared/cache"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/validator"
)

const (
	cacheGetSettings = "settings:get"

	logoDirectory = "settings"
	logoMaxSizeMB = "2"
)

type Settings interface {
	Get(ctx context.Context) (dto.SettingsResponse, error)
	Current(ctx context.Context) (model.Settings, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) error
}

type serviceImpl struct {
	repo  repository.Settings
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Settings, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Settings {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.SettingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".settings.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.cache.Get(ctx, cacheGetSettings, &res); err == nil {
		return res, nil
	}

	settings, err := s.load(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(settings)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheGetSettings, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save settings to cache")
		}
	}()

	return res, nil
}

// Current reads the settings row past the cache so add-on prices used for a
// quote are never stale.
func (s *serviceImpl) Current(ctx context.Context) (res model.Settings, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".settings.Current")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.load(ctx)
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSettingsRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".settings.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(model.DefaultID, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if current.ID == constant.Empty {
		current = model.Default()
		current.CreatedBy = user

		if err = s.repo.Insert(ctx, current); err != nil {
			return fmt.Errorf("failed to create settings: %w", err)
		}
	}

	var uploaded string

	if base64.GetContentType(req.Logo) != constant.Empty {
		if uploaded, err = s.uploadLogo(ctx, req.Logo); err != nil {
			return err
		}

		req.Logo = uploaded
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), filter); err != nil {
		log.Error().Err(err).Msg("failed to update settings")

		if uploaded != constant.Empty {
			s3.DeleteURLs(context.WithoutCancel(ctx), s.s3, uploaded)
		}

		return fmt.Errorf("failed to update settings: %w", err)
	}

	if uploaded != constant.Empty && current.Logo != constant.Empty {
		go s3.DeleteURLs(context.WithoutCancel(ctx), s.s3, current.Logo)
	}

	go func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), cacheGetSettings); err != nil {
			log.Error().Err(err).Msg("failed to delete settings cache")
		}
	}()

	return nil
}

func (s *serviceImpl) load(ctx context.Context) (model.Settings, error) {
	settings, err := s.repo.Get(ctx, shared.FilterByID(model.DefaultID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")

		return settings, fmt.Errorf("failed to get settings: %w", err)
	}

	if settings.ID == constant.Empty {
		return model.Default(), nil
	}

	return settings, nil
}

func (s *serviceImpl) uploadLogo(ctx context.Context, dataURI string) (string, error) {
	if err := validator.ValidateVar(dataURI, "mimetypes="+validator.ImageTypes+",maxfilesize="+logoMaxSizeMB); err != nil {
		return constant.Empty, err
	}

	contentType, data, err := base64.Decode(dataURI)
	if err != nil {
		return constant.Empty, failure.BadRequest(err)
	}

	obj, err := s.s3.UploadBytes(ctx, logoDirectory, uuid.NewString()+base64.Extension(contentType), contentType, data)
	if err != nil {
		return constant.Empty, failure.InternalError(err)
	}

	return obj.URL, nil
}
