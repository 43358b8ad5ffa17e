package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=User=MockUserService

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/otel"
	bookingModel "hotel/internal/domains/booking/model"
	"hotel/internal/domains/user/model"
	"hotel/internal/domains/user/model/dto"
	"hotel/internal/domains/user/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	"hotel/shared/password"
	"hotel/shared/timezone"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:gets"
	cacheCountUser  = "user:count"

	unusablePasswordBytes = 32
)

// User manages guest accounts on behalf of staff.
type User interface {
	Create(ctx context.Context, req dto.CreateGuestRequest) (string, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUsersResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, req dto.UpdateGuestRequest, id string) error
	Delete(ctx context.Context, id string) error
	RefreshLoyalty(ctx context.Context, id string) (dto.UserResponse, error)
}

// StayHistory summarises a guest's paid bookings.
type StayHistory interface {
	GuestStats(ctx context.Context, userID string) (bookingModel.GuestStats, error)
}

type serviceImpl struct {
	repo  repository.User
	stays StayHistory
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, stays StayHistory, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		stays: stays,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateGuestRequest) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	emailFilter := gDto.NewFilterGroup()
	emailFilter.Eq(model.TableName, model.FieldEmail, req.Email)

	exists, err := s.repo.Exist(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return id, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return id, failure.Conflict("email already registered")
	}

	secret := req.Password
	if secret == constant.Empty {
		if secret, err = unusablePassword(); err != nil {
			return id, err
		}
	}

	hashedPassword, err := password.Hash(secret)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return id, fmt.Errorf("failed to hash password: %w", err)
	}

	guest, err := req.ToModel(user, hashedPassword)
	if err != nil {
		return id, err
	}

	if err = s.repo.Insert(ctx, guest); err != nil {
		if shared.IsUniqueViolation(err) {
			return id, failure.Conflict("email already registered")
		}

		log.Error().Err(err).Msg("failed to create user")

		return id, fmt.Errorf("failed to create user: %w", err)
	}

	s.invalidate(ctx)

	return guest.ID, nil
}

// GetAll lists guests only; staff accounts never appear in the directory.
func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter.Eq(model.TableName, model.FieldRole, constant.RoleUser)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllUser, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	res.FromModels(models, total, req.Limit)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountUser, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")

		return res, fmt.Errorf("failed to count users: %w", err)
	}

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(user)
	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateGuestRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateGuestRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty")
	}

	if _, err = dto.ParseDate(req.DateOfBirth); err != nil {
		return err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return fmt.Errorf("failed to update user: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// RefreshLoyalty recomputes the stay counters and tier from paid bookings.
// Running it twice gives the same result.
func (s *serviceImpl) RefreshLoyalty(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.RefreshLoyalty")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	guest, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	stats, err := s.stays.GuestStats(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("user_id", id).Msg("failed to load stay history")

		return res, fmt.Errorf("failed to load stay history: %w", err)
	}

	guest.TotalBookings = stats.TotalBookings
	guest.TotalSpent = stats.TotalSpent
	guest.LastStayDate = stats.LastStayDate
	guest.LoyaltyStatus = model.TierFor(s.cfg, stats.TotalSpent)

	fields := map[string]any{
		model.FieldTotalBookings: guest.TotalBookings,
		model.FieldTotalSpent:    guest.TotalSpent,
		model.FieldLastStayDate:  guest.LastStayDate,
		model.FieldLoyaltyStatus: guest.LoyaltyStatus,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to refresh loyalty")

		return res, fmt.Errorf("failed to refresh loyalty: %w", err)
	}

	log.Info().
		Str("user_id", id).
		Str("tier", string(guest.LoyaltyStatus)).
		Float64("total_spent", guest.TotalSpent).
		Msg("loyalty refreshed")

	s.invalidate(ctx, id)
	res.FromModel(guest)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.User, error) {
	if id == constant.Empty {
		return model.User{}, failure.NotFound("user not found")
	}

	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found")
	}

	return user, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save users to cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete user cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
		shared.InvalidateCaches(c, s.cache, cacheCountUser)
	}()
}

// unusablePassword fills the hash of accounts created without a password
// with a secret nobody knows.
func unusablePassword() (string, error) {
	raw := make([]byte, unusablePasswordBytes)
	if _, err := rand.Read(raw); err != nil {
		return constant.Empty, fmt.Errorf("failed to generate password: %w", err)
	}

	return hex.EncodeToString(raw), nil
}
