package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Message=MockMessageService

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/internal/domains/message/model"
	"hotel/internal/domains/message/model/dto"
	"hotel/internal/domains/message/repository"
	"hotel/internal/events"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/timezone"
)

const (
	cacheGetMessage    = "message:get"
	cacheGetAllMessage = "message:gets"
	cacheCountMessage  = "message:count"
)

type Message interface {
	Create(ctx context.Context, req dto.CreateMessageRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetMessagesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.MessageResponse, error)
	Update(ctx context.Context, req dto.UpdateMessageRequest, id string) error
	Reply(ctx context.Context, req dto.ReplyRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Message
	publisher events.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Message, publisher events.Publisher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Message {
	return &serviceImpl{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMessageRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".message.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	msg := req.ToModel()

	if err = s.repo.Insert(ctx, msg); err != nil {
		log.Error().Err(err).Msg("failed to save message")

		return id, fmt.Errorf("failed to save message: %w", err)
	}

	s.invalidate(ctx)

	events.PublishAsync(ctx, func(ctx context.Context) error {
		return s.publisher.PublishMessage(ctx, events.MessagePayload{
			MessageID: msg.ID,
			Email:     msg.Email,
			Subject:   msg.Subject,
		})
	})

	return msg.ID, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetMessagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".message.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMessage, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get messages")

		return res, fmt.Errorf("failed to get messages: %w", err)
	}

	res.FromModels(models, total, req.Limit)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".message.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountMessage, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count messages: %w", err)
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

// Get returns a message and marks it read the first time it is opened.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MessageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".message.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetMessage, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	msg, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if msg.Status == model.StatusUnread {
		user, _ := ctx.Value(constant.ContextKeyUserID).(string)
		now := timezone.Now()

		fields := map[string]any{
			model.FieldStatus:        model.StatusRead,
			model.FieldReadAt:        now,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("message_id", id).Msg("failed to mark message read")

			return res, fmt.Errorf("failed to mark message read: %w", err)
		}

		msg.Status = model.StatusRead
		msg.ReadAt = &now
		msg.ModifiedAt = now
		msg.ModifiedBy = user

		s.invalidate(ctx)
	}

	res.FromModel(msg)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMessageRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".message.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Status == constant.Empty && req.Priority == constant.Empty && req.IsStarred == nil {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	req.Stamp(current, timezone.Now())

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update message")

		return fmt.Errorf("failed to update message: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Reply stores the answer on the message. Nothing is sent to the sender.
func (s *serviceImpl) Reply(ctx context.Context, req dto.ReplyRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".message.Reply")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldReply:         req.Reply,
		model.FieldStatus:        model.StatusReplied,
		model.FieldRepliedAt:     now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if current.ReadAt == nil {
		fields[model.FieldReadAt] = now
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to save reply")

		return fmt.Errorf("failed to save reply: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".message.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete message")

		return fmt.Errorf("failed to delete message: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Message, error) {
	if id == constant.Empty {
		return model.Message{}, failure.NotFound("message not found")
	}

	msg, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return msg, fmt.Errorf("failed to get message: %w", err)
	}

	if msg.ID == constant.Empty {
		return msg, failure.NotFound("message not found")
	}

	return msg, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save messages to cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMessage, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete message cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMessage)
		shared.InvalidateCaches(c, s.cache, cacheCountMessage)
	}()
}
